// Package catalog accumulates window batches into a single deduplicated
// dataset. Windows overlap at their boundaries (a season spanning two
// windows appears in both), so merging must collapse duplicate ids.
package catalog

import (
	"github.com/anidata/anilist-compiler/pkg/flatten"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for catalog merging.
var (
	catalogSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_entries",
		Help: "Distinct media entries currently in the catalog",
	})

	duplicatesMergedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_duplicates_merged_total",
		Help: "Records whose id was already present when merged",
	})
)

// Catalog holds the merged dataset. Merging is last-wins on id: a record
// merged later replaces the earlier one in place, keeping the position the
// id first appeared at, so the output order stays stable across re-merges.
type Catalog struct {
	records []flatten.Record
	index   map[int]int // id -> position in records
	logger  zerolog.Logger
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		index:  make(map[int]int),
		logger: log.With().Str("component", "catalog").Logger(),
	}
}

// Merge folds a window batch into the catalog. Records with an id already
// present replace the existing entry; new ids append in batch order.
func (c *Catalog) Merge(batch []flatten.Record) {
	duplicates := 0

	for _, r := range batch {
		if pos, ok := c.index[r.ID]; ok {
			c.records[pos] = r
			duplicates++
			continue
		}
		c.index[r.ID] = len(c.records)
		c.records = append(c.records, r)
	}

	catalogSize.Set(float64(len(c.records)))
	if duplicates > 0 {
		duplicatesMergedTotal.Add(float64(duplicates))
	}

	c.logger.Debug().
		Int("batch", len(batch)).
		Int("duplicates", duplicates).
		Int("catalog", len(c.records)).
		Msg("Merged window batch")
}

// Records returns the merged dataset in first-appearance order.
// The returned slice is a copy.
func (c *Catalog) Records() []flatten.Record {
	out := make([]flatten.Record, len(c.records))
	copy(out, c.records)
	return out
}

// Len returns the number of distinct entries in the catalog.
func (c *Catalog) Len() int {
	return len(c.records)
}

// Has reports whether an id is already present.
func (c *Catalog) Has(id int) bool {
	_, ok := c.index[id]
	return ok
}
