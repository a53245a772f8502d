package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/utkarsh5026/schedsim/internal/scheduler"
	"github.com/utkarsh5026/schedsim/task"
)

func TestRegistry_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRegistry(reg)

	m.ObserveSubmit(task.A)
	m.ObserveSubmit(task.A)
	m.ObserveSubmit(task.C)

	m.ObserveAssign(scheduler.Assignment{TaskID: 1, Kind: task.A, Processor: 0, Projected: 5 * time.Second})
	m.ObserveAssign(scheduler.Assignment{TaskID: 2, Kind: task.A, Processor: 1, Projected: 5 * time.Second})
	m.ObserveAssign(scheduler.Assignment{TaskID: 3, Kind: task.C, Processor: 0, Projected: 20 * time.Second})

	done := task.New(1, task.A)
	done.Start = time.Now()
	done.End = done.Start.Add(3 * time.Millisecond)
	m.ObserveTaskEnd(0, done, nil)
	m.ObserveTaskEnd(0, task.New(3, task.C), errors.New("interrupted"))

	tests := []struct {
		name      string
		collector prometheus.Collector
		want      float64
	}{
		{"submitted A", m.TasksSubmitted.WithLabelValues("A"), 2},
		{"submitted C", m.TasksSubmitted.WithLabelValues("C"), 1},
		{"assigned p0 A", m.TasksAssigned.WithLabelValues("0", "A"), 1},
		{"assigned p0 C", m.TasksAssigned.WithLabelValues("0", "C"), 1},
		{"assigned p1 A", m.TasksAssigned.WithLabelValues("1", "A"), 1},
		{"scheduled p0", m.ProcessorSchedule.WithLabelValues("0"), 20},
		{"scheduled p1", m.ProcessorSchedule.WithLabelValues("1"), 5},
		{"completed ok", m.TasksCompleted.WithLabelValues("0", "A", "ok"), 1},
		{"completed error", m.TasksCompleted.WithLabelValues("0", "C", "error"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := testutil.ToFloat64(tt.collector); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	if n := testutil.CollectAndCount(m.TaskRealDuration); n != 2 {
		t.Errorf("expected 2 duration series, got %d", n)
	}
}

func TestNewRegistry_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewRegistry(reg)

	defer func() {
		if recover() == nil {
			t.Error("expected second registration on the same registerer to panic")
		}
	}()
	NewRegistry(reg)
}
