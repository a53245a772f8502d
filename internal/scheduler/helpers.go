package scheduler

import (
	"context"
	"fmt"
	"runtime"

	"github.com/utkarsh5026/schedsim/internal/work"
	"github.com/utkarsh5026/schedsim/task"
)

// executeWithRecovery runs the executor for one task kind.
// If a panic occurs, it's converted to an error to prevent crashing the processor.
func executeWithRecovery(ctx context.Context, exec work.Executor, k task.Kind) (err error) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			err = fmt.Errorf("processor panic: %v\nstack trace:\n%s", r, buf[:n])
		}
	}()

	return exec(ctx, k)
}

// lockAll acquires every processor lock in index order. Always acquiring in
// the same order keeps concurrent callers from deadlocking.
func lockAll(ps []*Processor) {
	for _, p := range ps {
		p.mu.Lock()
	}
}

func unlockAll(ps []*Processor) {
	for _, p := range ps {
		p.mu.Unlock()
	}
}
