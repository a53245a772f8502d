package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/utkarsh5026/schedsim/internal/metrics"
	"github.com/utkarsh5026/schedsim/internal/scheduler"
	"github.com/utkarsh5026/schedsim/task"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// ErrInvalidConfig is returned by New when an option value is out of range.
var ErrInvalidConfig = scheduler.ErrInvalidConfig

type (
	// ProcessorStats is the final accounting of one processor.
	ProcessorStats = scheduler.Stats

	// Assignment is one scheduling decision.
	Assignment = scheduler.Assignment
)

// Report is the outcome of one simulation run.
type Report struct {
	Policy    string
	TimeUnit  time.Duration
	Submitted int

	// Per-processor statistics in index order.
	Processors []ProcessorStats

	// Scheduling decisions in the order they were made.
	Assignments []Assignment

	// Wall-clock time from the first processor start until every
	// processor has stopped.
	Elapsed time.Duration
}

// Simulator runs task scripts against a processor pool.
type Simulator struct {
	conf    *config
	policy  scheduler.PolicyType
	metrics *metrics.Registry
	log     *zap.Logger
}

// New validates the options and builds a simulator.
func New(opts ...Option) (*Simulator, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.processorCount < 1 {
		return nil, fmt.Errorf("%w: processor count %d, must be at least 1", ErrInvalidConfig, cfg.processorCount)
	}
	if cfg.timeUnit <= 0 {
		return nil, fmt.Errorf("%w: time unit %s, must be positive", ErrInvalidConfig, cfg.timeUnit)
	}

	policy, err := scheduler.ParsePolicy(cfg.policy)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	s := &Simulator{
		conf:   cfg,
		policy: policy,
		log:    cfg.logger.Named("sim"),
	}
	if cfg.registerer != nil {
		s.metrics = metrics.NewRegistry(cfg.registerer)
	}
	return s, nil
}

// Run executes script and returns once every submitted task has finished.
//
// Processors and the scheduler are started first, then the script is fed
// in order. When the feed is done the scheduler is shut down and joined,
// followed by every processor. Any failure, including ctx cancellation,
// aborts the whole run and no report is returned.
func (s *Simulator) Run(ctx context.Context, script string) (*Report, error) {
	steps, err := task.ParseScript(script)
	if err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}

	sched, err := scheduler.New(s.schedulerConfig())
	if err != nil {
		return nil, err
	}
	defer sched.Destroy()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.log.Info("simulation starting",
		zap.Int("processors", s.conf.processorCount),
		zap.Stringer("policy", s.policy),
		zap.Duration("unit", s.conf.timeUnit),
		zap.Int("tasks", steps.TaskCount()),
	)

	started := time.Now()

	g, gctx := errgroup.WithContext(runCtx)
	for _, p := range sched.Processors() {
		g.Go(func() error {
			return p.Run(gctx)
		})
	}

	schedDone := make(chan error, 1)
	go func() {
		schedDone <- sched.Run(gctx)
	}()

	submitted, feedErr := s.feed(gctx, sched, steps)
	if feedErr == nil {
		feedErr = sched.Shutdown()
	}
	if feedErr != nil {
		cancel()
	}

	schedErr, procErr := join(cancel, schedDone, g)
	elapsed := time.Since(started)

	if err := errors.Join(feedErr, schedErr, procErr); err != nil {
		s.log.Error("simulation aborted", zap.Error(err))
		return nil, err
	}

	s.log.Info("simulation finished", zap.Int("submitted", submitted), zap.Duration("elapsed", elapsed))

	return &Report{
		Policy:      s.policy.String(),
		TimeUnit:    s.conf.timeUnit,
		Submitted:   submitted,
		Processors:  sched.Stats(),
		Assignments: sched.Assignments(),
		Elapsed:     elapsed,
	}, nil
}

// feed submits the script's tasks with sequential IDs starting at 1.
func (s *Simulator) feed(ctx context.Context, sched *scheduler.Scheduler, steps task.Script) (int, error) {
	var limiter *rate.Limiter
	if s.conf.feedRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.conf.feedRate), s.conf.feedBurst)
	}

	var id int64
	for _, step := range steps {
		switch step.Type {
		case task.StepPause:
			d := time.Duration(step.Units) * s.conf.timeUnit
			s.log.Debug("feed paused", zap.Duration("for", d))
			if err := sleep(ctx, d); err != nil {
				return int(id), fmt.Errorf("feed pause: %w", err)
			}

		case task.StepTask:
			if limiter != nil {
				if err := limiter.Wait(ctx); err != nil {
					return int(id), fmt.Errorf("feed rate limit: %w", err)
				}
			}

			id++
			t := task.New(id, step.Kind)
			if err := sched.Submit(t); err != nil {
				return int(id - 1), err
			}
			if s.metrics != nil {
				s.metrics.ObserveSubmit(t.Kind)
			}
			s.log.Debug("task submitted", zap.Int64("task", t.ID), zap.Stringer("kind", t.Kind))
		}
	}
	return int(id), nil
}

// schedulerConfig wraps the user hooks so metrics observe every event too.
func (s *Simulator) schedulerConfig() scheduler.Config {
	conf := s.conf.schedulerConfig(s.policy)
	if s.metrics == nil {
		return conf
	}

	m := s.metrics
	onTaskEnd, onAssign := conf.OnTaskEnd, conf.OnAssign

	conf.OnTaskEnd = func(processorID int, t *task.Task, err error) {
		m.ObserveTaskEnd(processorID, t, err)
		if onTaskEnd != nil {
			onTaskEnd(processorID, t, err)
		}
	}
	conf.OnAssign = func(a Assignment) {
		m.ObserveAssign(a)
		if onAssign != nil {
			onAssign(a)
		}
	}
	return conf
}

// join waits for the scheduler, then for the processors. A scheduler that
// stopped with an error never forwarded poison, so the processors are
// cancelled before waiting on them.
func join(cancel context.CancelFunc, schedDone <-chan error, g *errgroup.Group) (schedErr, procErr error) {
	schedErr = <-schedDone
	if schedErr != nil {
		cancel()
	}
	return schedErr, g.Wait()
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
