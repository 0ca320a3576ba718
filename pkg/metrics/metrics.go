// Package metrics provides the central Prometheus registry reference for
// the catalog compiler. All metrics are defined in their respective
// packages (anilist, ratelimit, collector, catalog, checkpoint, pipeline,
// export, kaggle) to maintain modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the compiler.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/anilist):
//   - anilist_requests_total{status} (Counter): Total requests by HTTP status
//   - anilist_request_duration_seconds (Histogram): Request duration
//   - anilist_errors_total{class} (Counter): Errors by class (rate_limit, transient, malformed, network)
//   - anilist_rate_limit_wait_seconds (Histogram): Server-directed 429 waits
//   - anilist_rate_limit_exhausted_total (Counter): Requests that spent the 429 retry budget
//
// Budget Metrics (pkg/ratelimit):
//   - anilist_budget_remaining (Gauge): Advertised requests remaining in the current minute
//   - anilist_rate_limit_blocks_total (Counter): Requests blocked until the budget reset
//   - anilist_rate_limit_throttles_total (Counter): Requests throttled on a low budget
//
// Collection Metrics (pkg/collector):
//   - collector_windows_total{state} (Counter): Windows by terminal state (exhausted, aborted)
//   - collector_items_total (Counter): Media items collected
//   - collector_window_overflow_total (Counter): Windows whose total exceeds the result ceiling
//
// Catalog Metrics (pkg/catalog):
//   - catalog_entries (Gauge): Distinct entries in the catalog
//   - catalog_duplicates_merged_total (Counter): Boundary duplicates collapsed on merge
//
// Checkpoint Metrics (pkg/checkpoint):
//   - checkpoint_hits_total (Counter): Windows resumed from a checkpoint
//   - checkpoint_misses_total (Counter): Windows with no checkpoint
//   - checkpoint_saves_total (Counter): Checkpoints written
//   - checkpoint_errors_total{operation} (Counter): Store errors by operation
//
// Pipeline Metrics (pkg/pipeline):
//   - pipeline_runs_total{outcome} (Counter): Runs by outcome (complete, partial, failed)
//   - pipeline_windows_resumed_total (Counter): Windows skipped via checkpoint
//   - pipeline_run_duration_seconds (Histogram): Wall-clock run duration
//
// Export Metrics (pkg/export, pkg/kaggle):
//   - export_files_total{format} (Counter): Export files written by format
//   - export_rows{format} (Gauge): Rows in the last export
//   - kaggle_uploads_total{result} (Counter): Uploads by result (created, versioned, failed)
//   - kaggle_upload_bytes_total (Counter): Bytes pushed to Kaggle
//
// Example Prometheus Queries:
//
//   # Request Error Rate
//   rate(anilist_errors_total[5m])
//
//   # Budget Pressure
//   anilist_budget_remaining < 10
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(anilist_request_duration_seconds_bucket[5m]))
//
//   # Share of Windows Ending Partial
//   rate(collector_windows_total{state="aborted"}[1h]) /
//   rate(collector_windows_total[1h])
//
//   # Checkpoint Resume Rate
//   rate(checkpoint_hits_total[1h]) /
//   (rate(checkpoint_hits_total[1h]) + rate(checkpoint_misses_total[1h]))
