package sim

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/utkarsh5026/schedsim/internal/scheduler"
	"github.com/utkarsh5026/schedsim/internal/work"
	"github.com/utkarsh5026/schedsim/task"
	"go.uber.org/zap"
)

const (
	DefaultProcessorCount = 4
	DefaultTimeUnit       = time.Second
)

// Option is a functional option for configuring a Simulator.
type Option func(*config)

type config struct {
	processorCount int
	timeUnit       time.Duration
	policy         string
	feedRate       float64
	feedBurst      int
	logger         *zap.Logger
	registerer     prometheus.Registerer
	pin            bool
	executor       work.Executor

	beforeTaskStart func(processorID int, t *task.Task)
	onTaskEnd       func(processorID int, t *task.Task, err error)
	onAssign        func(a Assignment)
}

func defaultConfig() *config {
	return &config{
		processorCount: DefaultProcessorCount,
		timeUnit:       DefaultTimeUnit,
	}
}

// WithProcessorCount sets the size of the processor pool.
// Values below one make New fail.
func WithProcessorCount(n int) Option {
	return func(cfg *config) {
		cfg.processorCount = n
	}
}

// WithTimeUnit sets the wall-clock length of one time unit. Task lengths
// and script pauses scale with it. Defaults to one second.
func WithTimeUnit(d time.Duration) Option {
	return func(cfg *config) {
		cfg.timeUnit = d
	}
}

// WithPolicy selects the assignment policy by name ("least-loaded" or
// "round-robin").
func WithPolicy(name string) Option {
	return func(cfg *config) {
		cfg.policy = name
	}
}

// WithFeedRate limits how fast tasks are submitted to the scheduler.
// tasksPerSecond is the sustained rate and burst the number of tasks that
// may be submitted back to back. Script pauses still apply on top of it.
//
// Example:
//
//	WithFeedRate(10, 2) // at most 10 tasks/sec, 2 at a time
func WithFeedRate(tasksPerSecond float64, burst int) Option {
	return func(cfg *config) {
		if tasksPerSecond > 0 && burst > 0 {
			cfg.feedRate = tasksPerSecond
			cfg.feedBurst = burst
		}
	}
}

// WithLogger sets the base logger.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *config) {
		cfg.logger = l
	}
}

// WithMetrics registers the simulator's Prometheus collectors with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(cfg *config) {
		cfg.registerer = reg
	}
}

// WithCPUAffinity pins every processor goroutine to its own core.
// On platforms without affinity support the goroutine is only locked to
// its OS thread.
func WithCPUAffinity(enabled bool) Option {
	return func(cfg *config) {
		cfg.pin = enabled
	}
}

// WithExecutor replaces the default sleeping workload.
func WithExecutor(exec work.Executor) Option {
	return func(cfg *config) {
		cfg.executor = exec
	}
}

// WithBeforeTaskStart sets a hook called on the processor goroutine right
// before a task starts.
func WithBeforeTaskStart(fn func(processorID int, t *task.Task)) Option {
	return func(cfg *config) {
		cfg.beforeTaskStart = fn
	}
}

// WithOnTaskEnd sets a hook called on the processor goroutine after a task
// finished. err is whatever the workload returned.
func WithOnTaskEnd(fn func(processorID int, t *task.Task, err error)) Option {
	return func(cfg *config) {
		cfg.onTaskEnd = fn
	}
}

// WithOnAssign sets a hook called by the scheduler after every assignment.
func WithOnAssign(fn func(a Assignment)) Option {
	return func(cfg *config) {
		cfg.onAssign = fn
	}
}

// schedulerConfig translates the driver options into a scheduler.Config.
func (cfg *config) schedulerConfig(policy scheduler.PolicyType) scheduler.Config {
	exec := cfg.executor
	if exec == nil {
		exec = work.Sleep(cfg.timeUnit, cfg.logger)
	}

	return scheduler.Config{
		ProcessorCount:  cfg.processorCount,
		Policy:          policy,
		Executor:        exec,
		Logger:          cfg.logger,
		PinProcessors:   cfg.pin,
		BeforeTaskStart: cfg.beforeTaskStart,
		OnTaskEnd:       cfg.onTaskEnd,
		OnAssign:        cfg.onAssign,
	}
}
