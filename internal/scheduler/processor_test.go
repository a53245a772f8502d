package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/utkarsh5026/schedsim/task"
)

func TestProcessor_RunsQueuedWorkBeforePoison(t *testing.T) {
	var order []int64
	conf := &Config{
		ProcessorCount: 1,
		Executor:       instant,
		OnTaskEnd: func(_ int, tk *task.Task, _ error) {
			order = append(order, tk.ID)
		},
	}
	p := newProcessor(0, conf)
	defer p.tasks.Destroy()

	for i := int64(1); i <= 5; i++ {
		_ = p.tasks.Put(task.New(i, task.A))
	}
	_ = p.tasks.Put(task.NewPoison())
	_ = p.tasks.Put(task.New(99, task.D))

	done := make(chan error, 1)
	go func() { done <- p.Run(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("processor did not stop on poison")
	}

	if len(order) != 5 {
		t.Fatalf("expected 5 executed tasks, got %v", order)
	}
	for i, id := range order {
		if id != int64(i+1) {
			t.Errorf("position %d: expected task %d, got %d", i, i+1, id)
		}
	}

	if p.Pending() != 1 {
		t.Errorf("expected the task behind the poison to stay queued, got %d pending", p.Pending())
	}

	st := p.Stats()
	if st.ScheduledTime != 0 {
		t.Errorf("processor must not charge scheduled time itself, got %v", st.ScheduledTime)
	}
	if st.WorkTime != 25*time.Second {
		t.Errorf("expected 25s of work time, got %v", st.WorkTime)
	}
}

func TestProcessor_RetireIsIdempotent(t *testing.T) {
	p := newProcessor(0, &Config{ProcessorCount: 1, Executor: instant})
	defer p.tasks.Destroy()

	p.retire()
	first := p.Stats().WaitTime

	time.Sleep(5 * time.Millisecond)
	p.retire()

	if got := p.Stats().WaitTime; got != first {
		t.Errorf("wait time changed on second retire: %v -> %v", first, got)
	}
}

func TestProcessor_StopsWhenQueueDestroyed(t *testing.T) {
	p := newProcessor(0, &Config{ProcessorCount: 1, Executor: instant})

	done := make(chan error, 1)
	go func() { done <- p.Run(context.Background()) }()

	time.Sleep(10 * time.Millisecond)
	p.tasks.Destroy()

	select {
	case err := <-done:
		if !errors.Is(err, ErrSchedulerStopped) {
			t.Errorf("expected ErrSchedulerStopped, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("processor did not stop after its queue was destroyed")
	}
}
