// Package pipeline runs a full catalog compile: plan the year windows,
// collect each one sequentially, and merge the batches into one dataset.
// An optional checkpoint store lets an interrupted run resume where it
// stopped.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/anidata/anilist-compiler/pkg/catalog"
	"github.com/anidata/anilist-compiler/pkg/checkpoint"
	"github.com/anidata/anilist-compiler/pkg/flatten"
	"github.com/anidata/anilist-compiler/pkg/window"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for pipeline runs.
var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_runs_total",
		Help: "Pipeline runs by outcome (complete, partial, failed)",
	}, []string{"outcome"})

	windowsResumedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pipeline_windows_resumed_total",
		Help: "Windows skipped because a checkpoint already covered them",
	})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pipeline_run_duration_seconds",
		Help:    "Wall-clock duration of full pipeline runs",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})
)

// WindowCollector drains one window into flattened records.
type WindowCollector interface {
	Collect(ctx context.Context, w window.Window) ([]flatten.Record, error)
}

// Checkpointer persists and restores completed window batches.
// *checkpoint.Store satisfies it.
type Checkpointer interface {
	Save(ctx context.Context, w window.Window, records []flatten.Record) error
	Load(ctx context.Context, w window.Window) ([]flatten.Record, error)
}

// Summary reports what a run accomplished.
type Summary struct {
	Windows  int
	Resumed  int
	Failed   []string // window keys that ended with a fetch error
	Records  int
	Duration time.Duration
}

// Runner executes compile runs.
type Runner struct {
	planner   window.Planner
	collector WindowCollector
	store     Checkpointer // nil disables checkpointing
	logger    zerolog.Logger
}

// New creates a pipeline runner. Pass a nil store to run without
// checkpointing.
func New(planner window.Planner, collector WindowCollector, store Checkpointer) *Runner {
	return &Runner{
		planner:   planner,
		collector: collector,
		store:     store,
		logger:    log.With().Str("component", "pipeline").Logger(),
	}
}

// Run compiles the catalog as of the given date. Windows are processed
// one at a time; a window that fails mid-way contributes its partial
// batch and the run moves on to the next window. Only context
// cancellation aborts the run. The catalog built so far is always
// returned, together with a summary of what happened.
func (r *Runner) Run(ctx context.Context, asOf time.Time) (*catalog.Catalog, Summary, error) {
	start := time.Now()
	windows := r.planner.Plan(asOf)
	cat := catalog.New()
	summary := Summary{Windows: len(windows)}

	r.logger.Info().
		Time("as_of", asOf).
		Int("windows", len(windows)).
		Msg("Starting catalog compile")

	for _, w := range windows {
		if err := ctx.Err(); err != nil {
			runsTotal.WithLabelValues("failed").Inc()
			summary.Records = cat.Len()
			summary.Duration = time.Since(start)
			return cat, summary, err
		}

		if r.store != nil {
			records, err := r.store.Load(ctx, w)
			if err == nil {
				cat.Merge(records)
				summary.Resumed++
				windowsResumedTotal.Inc()
				r.logger.Info().
					Str("window", w.Key()).
					Int("records", len(records)).
					Msg("Resumed window from checkpoint")
				continue
			}
			if !errors.Is(err, checkpoint.ErrNotFound) {
				r.logger.Warn().
					Err(err).
					Str("window", w.Key()).
					Msg("Checkpoint load failed - refetching window")
			}
		}

		records, err := r.collector.Collect(ctx, w)
		cat.Merge(records)

		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				runsTotal.WithLabelValues("failed").Inc()
				summary.Failed = append(summary.Failed, w.Key())
				summary.Records = cat.Len()
				summary.Duration = time.Since(start)
				return cat, summary, err
			}
			summary.Failed = append(summary.Failed, w.Key())
			r.logger.Warn().
				Err(err).
				Str("window", w.Key()).
				Int("partial", len(records)).
				Msg("Window ended with an error - continuing with next window")
			continue
		}

		if r.store != nil {
			if err := r.store.Save(ctx, w, records); err != nil {
				r.logger.Warn().
					Err(err).
					Str("window", w.Key()).
					Msg("Checkpoint save failed - window will refetch on resume")
			}
		}
	}

	summary.Records = cat.Len()
	summary.Duration = time.Since(start)

	outcome := "complete"
	if len(summary.Failed) > 0 {
		outcome = "partial"
	}
	runsTotal.WithLabelValues(outcome).Inc()
	runDuration.Observe(summary.Duration.Seconds())

	r.logger.Info().
		Int("windows", summary.Windows).
		Int("resumed", summary.Resumed).
		Strs("failed", summary.Failed).
		Int("records", summary.Records).
		Dur("duration", summary.Duration).
		Msg("Catalog compile finished")

	return cat, summary, nil
}
