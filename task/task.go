// Package task defines the unit of simulated work handed from the driver to
// the scheduler and on to exactly one processor.
package task

import (
	"fmt"
	"time"
)

// Kind identifies what a task does. Poison is the shutdown sentinel and is
// never executed.
type Kind int

const (
	Poison Kind = iota
	A
	B
	C
	D
)

// Kinds lists every executable kind in table order.
var Kinds = []Kind{A, B, C, D}

var nominal = map[Kind]time.Duration{
	A: 5000 * time.Millisecond,
	B: 10000 * time.Millisecond,
	C: 15000 * time.Millisecond,
	D: 20000 * time.Millisecond,
}

// NominalDuration returns the fixed scheduled duration of a kind.
// Poison and unknown kinds have no duration.
func NominalDuration(k Kind) time.Duration {
	return nominal[k]
}

// ParseKind maps a task letter to its kind.
func ParseKind(r rune) (Kind, bool) {
	switch r {
	case 'A':
		return A, true
	case 'B':
		return B, true
	case 'C':
		return C, true
	case 'D':
		return D, true
	}
	return Poison, false
}

func (k Kind) String() string {
	switch k {
	case Poison:
		return "Poison"
	case A:
		return "A"
	case B:
		return "B"
	case C:
		return "C"
	case D:
		return "D"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Task is a single request travelling through the simulator.
//
// Start and End are written only by the processor that executes the task
// and stay zero until execution begins.
type Task struct {
	ID    int64
	Kind  Kind
	Start time.Time
	End   time.Time
}

// New creates a regular task.
func New(id int64, k Kind) *Task {
	return &Task{ID: id, Kind: k}
}

// NewPoison creates a shutdown sentinel.
func NewPoison() *Task {
	return &Task{ID: -1, Kind: Poison}
}

// IsPoison reports whether t signals shutdown.
func (t *Task) IsPoison() bool {
	return t.Kind == Poison
}

// Duration returns the nominal duration of the task's kind.
func (t *Task) Duration() time.Duration {
	return NominalDuration(t.Kind)
}

// Elapsed returns the measured execution time, or zero if the task has not
// finished.
func (t *Task) Elapsed() time.Duration {
	if t.Start.IsZero() || t.End.IsZero() {
		return 0
	}
	return t.End.Sub(t.Start)
}
