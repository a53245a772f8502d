// Package work provides the simulated per-kind workloads executed by
// processors.
package work

import (
	"context"
	"time"

	"github.com/utkarsh5026/schedsim/task"
	"go.uber.org/zap"
)

// Executor runs the work for one task kind and blocks until it is done.
type Executor func(ctx context.Context, k task.Kind) error

// Length returns how long a kind runs when one time unit equals unit.
// A task's nominal duration is expressed in milliseconds of a one-second
// unit, so kind A with a one-second unit sleeps five seconds.
//
// Scaling goes through the whole millisecond count so that second-sized
// units do not overflow int64 nanoseconds.
func Length(k task.Kind, unit time.Duration) time.Duration {
	ms := time.Duration(task.NominalDuration(k).Milliseconds())
	return unit * ms / 1000
}

// Sleep returns an executor that stands in for real work by sleeping for
// the kind's length.
func Sleep(unit time.Duration, logger *zap.Logger) Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	log := logger.Named("work")

	return func(ctx context.Context, k task.Kind) error {
		log.Debug("task starting", zap.Stringer("kind", k))

		timer := time.NewTimer(Length(k, unit))
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			log.Debug("task interrupted", zap.Stringer("kind", k), zap.Error(ctx.Err()))
			return ctx.Err()
		}

		log.Debug("task ending", zap.Stringer("kind", k))
		return nil
	}
}
