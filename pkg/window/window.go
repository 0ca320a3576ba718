// Package window partitions the historical anime time span into date-range
// windows small enough to stay under the AniList per-filter result ceiling
// (about 5,000 media per startDate filter).
package window

import (
	"fmt"

	"github.com/anidata/anilist-compiler/pkg/fuzzydate"
)

// Window is an inclusive year range queried as one startDate filter.
// A zero StartYear or EndYear means that side is unbounded.
type Window struct {
	StartYear int
	EndYear   int
}

// StartDate returns the window's lower bound as a FuzzyDateInt
// (January 1st of StartYear). ok is false for an open lower bound.
func (w Window) StartDate() (d fuzzydate.FuzzyDate, ok bool) {
	if w.StartYear == 0 {
		return 0, false
	}
	return fuzzydate.StartOfYear(w.StartYear), true
}

// EndDate returns the window's upper bound as a FuzzyDateInt
// (December 31st of EndYear). ok is false for an open upper bound.
func (w Window) EndDate() (d fuzzydate.FuzzyDate, ok bool) {
	if w.EndYear == 0 {
		return 0, false
	}
	return fuzzydate.EndOfYear(w.EndYear), true
}

// Key returns a deterministic identifier for the window, used for
// checkpoint keys and log fields.
func (w Window) Key() string {
	switch {
	case w.StartYear == 0 && w.EndYear == 0:
		return "all"
	case w.StartYear == 0:
		return fmt.Sprintf("..%d", w.EndYear)
	case w.EndYear == 0:
		return fmt.Sprintf("%d..", w.StartYear)
	default:
		return fmt.Sprintf("%d-%d", w.StartYear, w.EndYear)
	}
}

// String implements fmt.Stringer.
func (w Window) String() string {
	return w.Key()
}
