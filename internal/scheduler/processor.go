package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/utkarsh5026/schedsim/internal/cpu"
	"github.com/utkarsh5026/schedsim/internal/queue"
	"github.com/utkarsh5026/schedsim/task"
	"go.uber.org/zap"
)

// Processor executes the tasks assigned to it one at a time, in the order
// the scheduler queued them.
//
// The load counters are shared with the scheduler and are only touched
// under mu: the scheduler charges scheduled time on assignment, the
// processor adds real and work time on completion and derives wait time
// when it retires.
type Processor struct {
	id     int
	tasks  *queue.BlockingQueue[*task.Task]
	config *Config
	log    *zap.Logger

	mu        sync.Mutex
	createdAt time.Time
	scheduled time.Duration
	workTime  time.Duration
	realTime  time.Duration
	waitTime  time.Duration
	assigned  int
	executed  int
	retired   bool
}

func newProcessor(id int, conf *Config) *Processor {
	return &Processor{
		id:        id,
		tasks:     queue.New[*task.Task](),
		config:    conf,
		log:       conf.logger().Named("processor").With(zap.Int("processor", id)),
		createdAt: time.Now(),
	}
}

// ID returns the processor's index in the pool.
func (p *Processor) ID() int {
	return p.id
}

// Pending returns the number of tasks waiting in the processor's queue.
func (p *Processor) Pending() int {
	return p.tasks.Len()
}

// Stats returns a consistent snapshot of the processor's counters.
func (p *Processor) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	return Stats{
		ID:            p.id,
		Assigned:      p.assigned,
		Executed:      p.executed,
		ScheduledTime: p.scheduled,
		WorkTime:      p.workTime,
		RealTime:      p.realTime,
		WaitTime:      p.waitTime,
		Retired:       p.retired,
	}
}

// Run consumes the processor's queue until it receives a poison task or ctx
// is cancelled. Poison ends the loop with a nil error.
func (p *Processor) Run(ctx context.Context) error {
	if p.config.PinProcessors {
		release := cpu.SetupProcessorAffinity(p.id)
		defer release()
	}

	p.log.Debug("processor started")

	for {
		t, err := p.tasks.Get(ctx)
		if err != nil {
			p.retire()
			if errors.Is(err, queue.ErrQueueClosed) {
				return ErrSchedulerStopped
			}
			return err
		}

		if t.IsPoison() {
			p.retire()
			p.log.Debug("processor stopped", zap.Duration("wait", p.Stats().WaitTime))
			return nil
		}

		p.execute(ctx, t)

		if err := ctx.Err(); err != nil {
			p.retire()
			return err
		}
	}
}

// execute runs one regular task and books its times.
// Scheduled time was already charged by the scheduler and is not touched here.
func (p *Processor) execute(ctx context.Context, t *task.Task) {
	if p.config.BeforeTaskStart != nil {
		p.config.BeforeTaskStart(p.id, t)
	}

	p.log.Debug("task starting", zap.Int64("task", t.ID), zap.Stringer("kind", t.Kind))

	t.Start = time.Now()
	err := executeWithRecovery(ctx, p.config.Executor, t.Kind)
	t.End = time.Now()

	p.complete(t)

	if err != nil {
		p.log.Warn("task failed", zap.Int64("task", t.ID), zap.Stringer("kind", t.Kind), zap.Error(err))
	} else {
		p.log.Debug("task ending", zap.Int64("task", t.ID), zap.Duration("real", t.Elapsed()))
	}

	if p.config.OnTaskEnd != nil {
		p.config.OnTaskEnd(p.id, t, err)
	}
}

func (p *Processor) complete(t *task.Task) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.realTime += t.Elapsed()
	p.workTime += t.Duration()
	p.executed++
}

// retire derives the wait time once: everything the processor lived through
// that was not spent executing.
func (p *Processor) retire() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.retired {
		return
	}
	p.waitTime = time.Since(p.createdAt) - p.realTime
	p.retired = true
}

// charge books an assignment. Must be called with p.mu held.
func (p *Processor) charge(d time.Duration) time.Duration {
	p.scheduled += d
	p.assigned++
	return p.scheduled
}
