package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anidata/anilist-compiler/pkg/checkpoint"
	"github.com/anidata/anilist-compiler/pkg/flatten"
	"github.com/anidata/anilist-compiler/pkg/window"
)

// fakeCollector returns scripted batches per window key.
type fakeCollector struct {
	batches   map[string][]flatten.Record
	errs      map[string]error
	collected []string
}

func (f *fakeCollector) Collect(_ context.Context, w window.Window) ([]flatten.Record, error) {
	f.collected = append(f.collected, w.Key())
	return f.batches[w.Key()], f.errs[w.Key()]
}

// memStore is an in-memory Checkpointer for runner tests.
type memStore struct {
	entries map[string][]flatten.Record
	saves   []string
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[string][]flatten.Record)}
}

func (m *memStore) Save(_ context.Context, w window.Window, records []flatten.Record) error {
	m.entries[w.Key()] = records
	m.saves = append(m.saves, w.Key())
	return nil
}

func (m *memStore) Load(_ context.Context, w window.Window) ([]flatten.Record, error) {
	records, ok := m.entries[w.Key()]
	if !ok {
		return nil, checkpoint.ErrNotFound
	}
	return records, nil
}

func fixedWindows(ws ...window.Window) window.Planner {
	return &window.FixedPlanner{Windows: ws}
}

func asOf() time.Time {
	return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
}

func TestRun_MergesAllWindows(t *testing.T) {
	w1 := window.Window{StartYear: 2024, EndYear: 2024}
	w2 := window.Window{StartYear: 2025, EndYear: 2025}

	collector := &fakeCollector{
		batches: map[string][]flatten.Record{
			w1.Key(): {{ID: 1}, {ID: 2}},
			w2.Key(): {{ID: 2}, {ID: 3}}, // id 2 straddles the boundary
		},
	}

	cat, summary, err := New(fixedWindows(w1, w2), collector, nil).Run(context.Background(), asOf())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if cat.Len() != 3 {
		t.Errorf("catalog has %d entries, want 3 after dedup", cat.Len())
	}
	if summary.Windows != 2 || summary.Records != 3 {
		t.Errorf("summary = %+v, want 2 windows / 3 records", summary)
	}
	if len(summary.Failed) != 0 {
		t.Errorf("summary.Failed = %v, want none", summary.Failed)
	}
}

func TestRun_WindowFailureKeepsPartialAndContinues(t *testing.T) {
	w1 := window.Window{StartYear: 2023, EndYear: 2023}
	w2 := window.Window{StartYear: 2024, EndYear: 2024}

	collector := &fakeCollector{
		batches: map[string][]flatten.Record{
			w1.Key(): {{ID: 1}}, // partial batch before the failure
			w2.Key(): {{ID: 2}},
		},
		errs: map[string]error{
			w1.Key(): errors.New("server error"),
		},
	}

	cat, summary, err := New(fixedWindows(w1, w2), collector, nil).Run(context.Background(), asOf())
	if err != nil {
		t.Fatalf("Run() error: %v, want nil (window failures are non-fatal)", err)
	}

	if cat.Len() != 2 {
		t.Errorf("catalog has %d entries, want partial from w1 plus w2", cat.Len())
	}
	if len(summary.Failed) != 1 || summary.Failed[0] != w1.Key() {
		t.Errorf("summary.Failed = %v, want [%s]", summary.Failed, w1.Key())
	}
	if len(collector.collected) != 2 {
		t.Errorf("collected %v, want both windows attempted", collector.collected)
	}
}

func TestRun_ResumesFromCheckpoint(t *testing.T) {
	w1 := window.Window{StartYear: 2022, EndYear: 2022}
	w2 := window.Window{StartYear: 2023, EndYear: 2023}

	store := newMemStore()
	store.entries[w1.Key()] = []flatten.Record{{ID: 10}}

	collector := &fakeCollector{
		batches: map[string][]flatten.Record{
			w2.Key(): {{ID: 20}},
		},
	}

	cat, summary, err := New(fixedWindows(w1, w2), collector, store).Run(context.Background(), asOf())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if summary.Resumed != 1 {
		t.Errorf("summary.Resumed = %d, want 1", summary.Resumed)
	}
	for _, key := range collector.collected {
		if key == w1.Key() {
			t.Error("checkpointed window was refetched")
		}
	}
	if cat.Len() != 2 {
		t.Errorf("catalog has %d entries, want 2", cat.Len())
	}
}

func TestRun_SavesCompletedWindows(t *testing.T) {
	w1 := window.Window{StartYear: 2021, EndYear: 2021}
	w2 := window.Window{StartYear: 2022, EndYear: 2022}

	store := newMemStore()
	collector := &fakeCollector{
		batches: map[string][]flatten.Record{
			w1.Key(): {{ID: 1}},
			w2.Key(): {{ID: 2}},
		},
		errs: map[string]error{
			w2.Key(): errors.New("aborted"),
		},
	}

	_, _, err := New(fixedWindows(w1, w2), collector, store).Run(context.Background(), asOf())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if len(store.saves) != 1 || store.saves[0] != w1.Key() {
		t.Errorf("saved windows = %v, want only the completed %s", store.saves, w1.Key())
	}
}

func TestRun_ContextCancellationAborts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	collector := &fakeCollector{}
	w := window.Window{StartYear: 2020, EndYear: 2020}

	cat, _, err := New(fixedWindows(w), collector, nil).Run(ctx, asOf())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if cat == nil {
		t.Fatal("Run() should still return the catalog built so far")
	}
	if len(collector.collected) != 0 {
		t.Errorf("collected %v after cancellation, want none", collector.collected)
	}
}
