package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/utkarsh5026/schedsim/internal/queue"
	"github.com/utkarsh5026/schedsim/task"
	"go.uber.org/zap"
)

// Scheduler reads tasks from its intake queue and places each one on a
// processor chosen by the configured policy.
type Scheduler struct {
	intake     *queue.BlockingQueue[*task.Task]
	processors []*Processor
	policy     Policy
	config     *Config
	log        *zap.Logger

	traceMu sync.Mutex
	trace   []Assignment
}

// New validates conf and builds a scheduler with conf.ProcessorCount idle
// processors. Nothing is started until Run is called.
func New(conf Config) (*Scheduler, error) {
	if err := conf.validate(); err != nil {
		return nil, err
	}

	policy, err := NewPolicy(conf.Policy)
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		intake:     queue.New[*task.Task](),
		processors: make([]*Processor, conf.ProcessorCount),
		policy:     policy,
		config:     &conf,
		log:        conf.logger().Named("scheduler"),
	}

	for i := range s.processors {
		s.processors[i] = newProcessor(i, s.config)
	}

	return s, nil
}

// Processors returns the processor pool in index order.
func (s *Scheduler) Processors() []*Processor {
	return s.processors
}

// Submit places a regular task on the intake queue.
func (s *Scheduler) Submit(t *task.Task) error {
	if t == nil || t.IsPoison() {
		return fmt.Errorf("submit: expected a regular task")
	}
	if err := s.intake.Put(t); err != nil {
		return fmt.Errorf("submit task %d: %w", t.ID, err)
	}
	return nil
}

// Shutdown places the poison task on the intake queue. Every task submitted
// before it is still assigned; the scheduler then forwards one poison task
// to each processor and Run returns.
func (s *Scheduler) Shutdown() error {
	if err := s.intake.Put(task.NewPoison()); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Run is the assignment loop. It returns nil after the poison task has been
// forwarded to every processor, or the context error on cancellation.
func (s *Scheduler) Run(ctx context.Context) error {
	s.log.Debug("scheduler started", zap.Int("processors", len(s.processors)))

	for {
		t, err := s.intake.Get(ctx)
		if err != nil {
			if errors.Is(err, queue.ErrQueueClosed) {
				return ErrSchedulerStopped
			}
			return err
		}

		if t.IsPoison() {
			return s.stopProcessors(t)
		}

		s.log.Debug("received task", zap.Int64("task", t.ID), zap.Stringer("kind", t.Kind))

		a, err := s.assign(t)
		if err != nil {
			return err
		}

		s.record(a)
	}
}

// assign hands the task to the selected processor and charges it while
// holding every processor lock, so the decision and the update see the same
// loads. A processor is only charged once the task is on its queue.
func (s *Scheduler) assign(t *task.Task) (Assignment, error) {
	d := t.Duration()

	lockAll(s.processors)
	defer unlockAll(s.processors)

	loads := make([]time.Duration, len(s.processors))
	for i, p := range s.processors {
		loads[i] = p.scheduled
	}

	p := s.processors[s.policy.Select(loads, d)]
	if err := p.tasks.Put(t); err != nil {
		return Assignment{}, fmt.Errorf("assign task %d to processor %d: %w", t.ID, p.id, err)
	}
	projected := p.charge(d)

	return Assignment{
		TaskID:    t.ID,
		Kind:      t.Kind,
		Processor: p.id,
		Projected: projected,
	}, nil
}

func (s *Scheduler) record(a Assignment) {
	s.traceMu.Lock()
	s.trace = append(s.trace, a)
	s.traceMu.Unlock()

	s.log.Debug("task assigned",
		zap.Int64("task", a.TaskID),
		zap.Int("processor", a.Processor),
		zap.Duration("projected", a.Projected),
	)

	if s.config.OnAssign != nil {
		s.config.OnAssign(a)
	}
}

// stopProcessors forwards the poison task to every processor in index order.
// Each processor finishes whatever is queued ahead of it first.
func (s *Scheduler) stopProcessors(poison *task.Task) error {
	s.log.Debug("poison received, stopping processors")

	var errs []error
	for _, p := range s.processors {
		if err := p.tasks.Put(poison); err != nil {
			errs = append(errs, fmt.Errorf("stop processor %d: %w", p.id, err))
		}
	}
	return errors.Join(errs...)
}

// Assignments returns the ordered list of scheduling decisions made so far.
func (s *Scheduler) Assignments() []Assignment {
	s.traceMu.Lock()
	defer s.traceMu.Unlock()

	out := make([]Assignment, len(s.trace))
	copy(out, s.trace)
	return out
}

// Stats returns a snapshot of every processor's counters in index order.
func (s *Scheduler) Stats() []Stats {
	out := make([]Stats, len(s.processors))
	for i, p := range s.processors {
		out[i] = p.Stats()
	}
	return out
}

// Destroy releases the intake queue and every processor queue. It must only
// be called once the scheduler and all processors have returned from Run.
func (s *Scheduler) Destroy() {
	s.intake.Destroy()
	for _, p := range s.processors {
		p.tasks.Destroy()
	}
}
