package scheduler

import (
	"errors"
	"time"

	"github.com/utkarsh5026/schedsim/internal/work"
	"github.com/utkarsh5026/schedsim/task"
	"go.uber.org/zap"
)

var (
	ErrInvalidConfig    = errors.New("invalid scheduler configuration")
	ErrSchedulerStopped = errors.New("scheduler is stopped")
)

// Config holds everything needed to build a scheduler and its processors.
type Config struct {
	// Number of processors in the pool. Fixed for the lifetime of the scheduler.
	ProcessorCount int

	// Assignment policy used by the scheduler loop.
	Policy PolicyType

	// Runs the simulated work for a task kind.
	Executor work.Executor

	// Base logger; components derive named children from it. May be nil.
	Logger *zap.Logger

	// Lock every processor goroutine to its own OS thread and pin it to a core.
	PinProcessors bool

	// Hook called by a processor just before a task starts executing.
	BeforeTaskStart func(processorID int, t *task.Task)

	// Hook called by a processor after a task finished (err is the executor's error).
	OnTaskEnd func(processorID int, t *task.Task, err error)

	// Hook called by the scheduler after a task has been placed on a processor queue.
	OnAssign func(a Assignment)
}

func (c *Config) validate() error {
	if c.ProcessorCount < 1 {
		return errors.Join(ErrInvalidConfig, errors.New("processor count must be at least 1"))
	}
	if c.Executor == nil {
		return errors.Join(ErrInvalidConfig, errors.New("executor is required"))
	}
	if _, err := NewPolicy(c.Policy); err != nil {
		return errors.Join(ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// Assignment records one scheduling decision.
type Assignment struct {
	TaskID    int64
	Kind      task.Kind
	Processor int
	// Processor's scheduled time including this task.
	Projected time.Duration
}

// Stats is a consistent snapshot of a processor's load counters.
type Stats struct {
	ID            int
	Assigned      int
	Executed      int
	ScheduledTime time.Duration
	WorkTime      time.Duration
	RealTime      time.Duration
	WaitTime      time.Duration
	Retired       bool
}
