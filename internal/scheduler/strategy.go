package scheduler

import (
	"fmt"
	"sync/atomic"
	"time"
)

type PolicyType int

const (
	PolicyLeastLoaded PolicyType = iota
	PolicyRoundRobin
)

func (p PolicyType) String() string {
	switch p {
	case PolicyLeastLoaded:
		return "least-loaded"
	case PolicyRoundRobin:
		return "round-robin"
	}
	return fmt.Sprintf("PolicyType(%d)", int(p))
}

// ParsePolicy maps a policy name to its type.
func ParsePolicy(name string) (PolicyType, error) {
	switch name {
	case "", "least-loaded":
		return PolicyLeastLoaded, nil
	case "round-robin":
		return PolicyRoundRobin, nil
	}
	return 0, fmt.Errorf("unknown policy %q", name)
}

// Policy picks the processor for a task given every processor's current
// scheduled time. It is called with all processor locks held, so loads is a
// consistent snapshot.
type Policy interface {
	Select(loads []time.Duration, d time.Duration) int
}

// NewPolicy creates the policy for the given type.
func NewPolicy(t PolicyType) (Policy, error) {
	switch t {
	case PolicyLeastLoaded:
		return leastLoaded{}, nil
	case PolicyRoundRobin:
		return &roundRobin{}, nil
	}
	return nil, fmt.Errorf("unknown policy %v", t)
}

// leastLoaded is the greedy policy: pick the processor whose scheduled time
// after taking the task is smallest. The running minimum starts at index 0
// and only a strictly smaller projection replaces it, so the lowest index
// wins ties.
type leastLoaded struct{}

func (leastLoaded) Select(loads []time.Duration, d time.Duration) int {
	best := 0
	bestProjected := loads[0] + d
	for i := 1; i < len(loads); i++ {
		if projected := loads[i] + d; projected < bestProjected {
			best = i
			bestProjected = projected
		}
	}
	return best
}

// roundRobin ignores load and cycles through processors in index order.
type roundRobin struct {
	counter atomic.Int64
}

func (r *roundRobin) Select(loads []time.Duration, _ time.Duration) int {
	return int((r.counter.Add(1) - 1) % int64(len(loads)))
}
