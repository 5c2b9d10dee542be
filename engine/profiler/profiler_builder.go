package profiler

import "time"

// ProfilerBuilderOption is a functional option applied to a Profiler by NewProfiler.
type ProfilerBuilderOption func(*Profiler)

// WithInterval sets how often a report is produced. Non-positive values are ignored.
//
// Parameters:
//   - interval: the report interval
//
// Returns:
//   - ProfilerBuilderOption: a function that sets the interval
func WithInterval(interval time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if interval > 0 {
			p.updateInterval = interval
		}
	}
}

// WithTimeSource replaces the wall clock, for tests and replays.
func WithTimeSource(now func() time.Time) ProfilerBuilderOption {
	return func(p *Profiler) {
		if now != nil {
			p.now = now
		}
	}
}
