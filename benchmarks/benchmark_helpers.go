package benchmarks

import (
	"context"
	"math/rand"
	"strings"

	"github.com/utkarsh5026/schedsim/sim"
	"github.com/utkarsh5026/schedsim/task"
)

// policyConfig names one policy setup to compare.
type policyConfig struct {
	name string
	opts []sim.Option
}

func getAllPolicies(processors int) []policyConfig {
	return []policyConfig{
		{
			name: "LeastLoaded",
			opts: []sim.Option{
				sim.WithProcessorCount(processors),
				sim.WithPolicy("least-loaded"),
			},
		},
		{
			name: "RoundRobin",
			opts: []sim.Option{
				sim.WithProcessorCount(processors),
				sim.WithPolicy("round-robin"),
			},
		},
	}
}

// randomScript returns a pause-free script of n tasks with kinds drawn
// from a fixed seed.
func randomScript(n int, seed int64) string {
	r := rand.New(rand.NewSource(seed))
	letters := "ABCD"

	var sb strings.Builder
	sb.Grow(n)
	for range n {
		_ = sb.WriteByte(letters[r.Intn(len(letters))])
	}
	return sb.String()
}

// imbalancedScript puts every long task at the front.
func imbalancedScript(n int) string {
	return strings.Repeat("D", n/4) + strings.Repeat("A", n-n/4)
}

func noopWork(ctx context.Context, k task.Kind) error {
	return nil
}

// spinWork burns CPU proportional to the kind's nominal length.
func spinWork(scale int) func(ctx context.Context, k task.Kind) error {
	return func(ctx context.Context, k task.Kind) error {
		n := int(task.NominalDuration(k).Milliseconds()) * scale
		result := 0
		for i := 0; i < n; i++ {
			result += i
		}
		_ = result
		return ctx.Err()
	}
}

// spread is the gap between the most and least scheduled processor.
func spread(r *sim.Report) float64 {
	if len(r.Processors) == 0 {
		return 0
	}
	lo, hi := r.Processors[0].ScheduledTime, r.Processors[0].ScheduledTime
	for _, p := range r.Processors[1:] {
		lo = min(lo, p.ScheduledTime)
		hi = max(hi, p.ScheduledTime)
	}
	return (hi - lo).Seconds()
}
