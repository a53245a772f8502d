// Package sim drives a complete scheduling simulation.
//
// A Simulator owns a fixed pool of processors and a central scheduler. Run
// parses a feed script, submits its tasks in order (pausing where the
// script asks), shuts the pipeline down with a poison task and returns the
// per-processor statistics.
//
// # Basic Usage
//
//	s, err := sim.New(
//	    sim.WithProcessorCount(4),
//	    sim.WithTimeUnit(100*time.Millisecond),
//	)
//	if err != nil {
//	    return err
//	}
//	report, err := s.Run(ctx, "ABCD5AB5CD")
//
// # Script Format
//
// Letters A to D submit a task of that kind. A digit pauses the feed for
// that many time units. Anything else is ignored.
//
// # Policies
//
//   - least-loaded: pick the processor with the smallest scheduled time (default)
//   - round-robin: cycle through processors in index order
//
// # Hooks and Metrics
//
// WithBeforeTaskStart, WithOnTaskEnd and WithOnAssign observe the run as it
// happens. WithMetrics registers Prometheus collectors that track submits,
// assignments and completions.
package sim
