package window

import "time"

// DefaultEarliestYear is the lower edge of the historical span. The oldest
// AniList entries start in the early 1900s.
const DefaultEarliestYear = 1900

// Planner produces the covering set of windows for one collection run.
// Implementations must be pure functions of the as-of date: no wall-clock
// reads, so plans are reproducible in tests.
type Planner interface {
	Plan(asOf time.Time) []Window
}

// DensityPlanner sizes windows inversely to expected media density:
// single years for the most recent decade, two-year spans for the decade
// before that, five-year spans back to the 1940s, and one catch-all window
// down to EarliestYear. The sizing is a heuristic; a window whose true
// total exceeds the result ceiling is detected by the collector and logged,
// not re-split.
type DensityPlanner struct {
	// EarliestYear bounds the catch-all window (default 1900).
	EarliestYear int
}

// Plan returns windows ordered most recent first, covering
// [EarliestYear, asOf.Year()] gap-free and without overlap.
func (p DensityPlanner) Plan(asOf time.Time) []Window {
	earliest := p.EarliestYear
	if earliest == 0 {
		earliest = DefaultEarliestYear
	}

	year := asOf.Year()
	var windows []Window

	// Single years for the most recent decade.
	for y := year; y > year-10; y-- {
		windows = append(windows, Window{StartYear: y, EndYear: y})
	}

	// Two-year spans for the decade before that.
	for y := year - 10; y > year-20; y -= 2 {
		windows = append(windows, Window{StartYear: y - 1, EndYear: y})
	}

	// Five-year spans back to the 1940s.
	lowest := year - 19
	for y := year - 20; y > 1940 && y-4 > earliest; y -= 5 {
		windows = append(windows, Window{StartYear: y - 4, EndYear: y})
		lowest = y - 4
	}

	// Catch-all for the sparse early decades.
	if lowest-1 >= earliest {
		windows = append(windows, Window{StartYear: earliest, EndYear: lowest - 1})
	}

	return windows
}

// FixedPlanner returns a preconfigured window list verbatim. Used when the
// caller already knows the ranges to fetch (partial refreshes, test runs).
type FixedPlanner struct {
	Windows []Window
}

// Plan returns the configured windows regardless of the as-of date.
func (p FixedPlanner) Plan(time.Time) []Window {
	out := make([]Window, len(p.Windows))
	copy(out, p.Windows)
	return out
}
