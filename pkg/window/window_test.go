package window

import (
	"testing"
	"time"
)

func TestWindowDates(t *testing.T) {
	w := Window{StartYear: 1990, EndYear: 1994}

	start, ok := w.StartDate()
	if !ok || start != 19900101 {
		t.Errorf("StartDate() = %d, %v, want 19900101, true", start, ok)
	}

	end, ok := w.EndDate()
	if !ok || end != 19941231 {
		t.Errorf("EndDate() = %d, %v, want 19941231, true", end, ok)
	}
}

func TestWindowOpenBounds(t *testing.T) {
	w := Window{EndYear: 1941}

	if _, ok := w.StartDate(); ok {
		t.Error("StartDate() should report open lower bound")
	}
	if end, ok := w.EndDate(); !ok || end != 19411231 {
		t.Errorf("EndDate() = %d, %v, want 19411231, true", end, ok)
	}
}

func TestWindowKey(t *testing.T) {
	tests := []struct {
		name     string
		window   Window
		expected string
	}{
		{"bounded", Window{StartYear: 1990, EndYear: 1994}, "1990-1994"},
		{"single year", Window{StartYear: 2024, EndYear: 2024}, "2024-2024"},
		{"open lower", Window{EndYear: 1941}, "..1941"},
		{"open upper", Window{StartYear: 2024}, "2024.."},
		{"fully open", Window{}, "all"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.window.Key(); got != tt.expected {
				t.Errorf("Key() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDensityPlanner_CoversSpanWithoutGaps(t *testing.T) {
	asOf := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	windows := DensityPlanner{}.Plan(asOf)

	if len(windows) == 0 {
		t.Fatal("Plan returned no windows")
	}

	// Every year from 1900 through the as-of year must be covered exactly once.
	covered := map[int]int{}
	for _, w := range windows {
		if w.StartYear == 0 || w.EndYear == 0 {
			t.Fatalf("window %s has an open bound", w)
		}
		if w.StartYear > w.EndYear {
			t.Fatalf("window %s has inverted bounds", w)
		}
		for y := w.StartYear; y <= w.EndYear; y++ {
			covered[y]++
		}
	}

	for y := DefaultEarliestYear; y <= asOf.Year(); y++ {
		switch covered[y] {
		case 0:
			t.Errorf("year %d not covered by any window", y)
		case 1:
			// OK
		default:
			t.Errorf("year %d covered by %d windows", y, covered[y])
		}
	}
}

func TestDensityPlanner_RecentYearsAreSingle(t *testing.T) {
	asOf := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	windows := DensityPlanner{}.Plan(asOf)

	// The first ten windows are the most recent calendar years, newest first.
	for i := 0; i < 10; i++ {
		w := windows[i]
		want := 2025 - i
		if w.StartYear != want || w.EndYear != want {
			t.Errorf("windows[%d] = %s, want single year %d", i, w, want)
		}
	}

	// The next windows widen to two-year spans.
	if w := windows[10]; w.StartYear != 2014 || w.EndYear != 2015 {
		t.Errorf("windows[10] = %s, want 2014-2015", w)
	}
}

func TestDensityPlanner_EndsAtEarliestYear(t *testing.T) {
	asOf := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	windows := DensityPlanner{}.Plan(asOf)

	last := windows[len(windows)-1]
	if last.StartYear != DefaultEarliestYear {
		t.Errorf("last window %s does not start at %d", last, DefaultEarliestYear)
	}
}

func TestDensityPlanner_PureFunctionOfAsOf(t *testing.T) {
	asOf := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
	a := DensityPlanner{}.Plan(asOf)
	b := DensityPlanner{}.Plan(asOf)

	if len(a) != len(b) {
		t.Fatalf("plan lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("windows[%d] differ: %s vs %s", i, a[i], b[i])
		}
	}
}

func TestFixedPlanner(t *testing.T) {
	configured := []Window{
		{StartYear: 2020, EndYear: 2020},
		{StartYear: 2021, EndYear: 2021},
	}
	planner := FixedPlanner{Windows: configured}

	windows := planner.Plan(time.Now())
	if len(windows) != 2 {
		t.Fatalf("Plan returned %d windows, want 2", len(windows))
	}

	// The returned slice is a copy; mutating it must not affect the planner.
	windows[0] = Window{StartYear: 1900, EndYear: 1900}
	if planner.Windows[0].StartYear != 2020 {
		t.Error("Plan result aliases the configured window list")
	}
}
