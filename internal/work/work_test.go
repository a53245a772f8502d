package work

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/utkarsh5026/schedsim/task"
)

func TestLength(t *testing.T) {
	tests := []struct {
		name string
		kind task.Kind
		unit time.Duration
		want time.Duration
	}{
		{"A second", task.A, time.Second, 5 * time.Second},
		{"B second", task.B, time.Second, 10 * time.Second},
		{"C second", task.C, time.Second, 15 * time.Second},
		{"D second", task.D, time.Second, 20 * time.Second},
		{"D minute", task.D, time.Minute, 20 * time.Minute},
		{"B millisecond", task.B, time.Millisecond, 10 * time.Millisecond},
		{"C two milliseconds", task.C, 2 * time.Millisecond, 30 * time.Millisecond},
		{"A microsecond", task.A, time.Microsecond, 5 * time.Microsecond},
		{"poison", task.Poison, time.Second, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Length(tt.kind, tt.unit); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSleep(t *testing.T) {
	exec := Sleep(time.Millisecond, nil)

	start := time.Now()
	if err := exec(context.Background(), task.B); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 10*time.Millisecond {
		t.Errorf("expected at least 10ms of work, took %v", elapsed)
	}
}

func TestSleep_Cancelled(t *testing.T) {
	exec := Sleep(time.Second, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := exec(ctx, task.D)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("cancellation not honoured, took %v", elapsed)
	}
}
