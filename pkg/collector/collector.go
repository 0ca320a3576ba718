// Package collector drives the page fetcher across all pages of one
// window, flattening every item into the dataset row schema.
package collector

import (
	"context"
	"time"

	"github.com/anidata/anilist-compiler/pkg/anilist"
	"github.com/anidata/anilist-compiler/pkg/flatten"
	"github.com/anidata/anilist-compiler/pkg/window"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for window collection.
var (
	windowsCollectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "collector_windows_total",
		Help: "Collected windows by terminal state (exhausted, aborted)",
	}, []string{"state"})

	itemsCollectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "collector_items_total",
		Help: "Total media items collected across all windows",
	})

	windowOverflowTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "collector_window_overflow_total",
		Help: "Windows whose reported total exceeds the per-filter result ceiling",
	})
)

// ResultCeiling is the per-filter result count the AniList API stops
// enumerating at. A window whose true total exceeds it silently truncates;
// the collector can only detect and log this.
const ResultCeiling = 5000

// PageFetcher fetches a single page of one window.
type PageFetcher interface {
	FetchPage(ctx context.Context, w window.Window, page int) (*anilist.Page, error)
}

// Config holds collector configuration.
type Config struct {
	// MaxPages caps the pages fetched per window (0 = no cap).
	// Used by test runs to sample each window instead of draining it.
	MaxPages int

	// ProgressInterval is how many pages between progress log lines.
	ProgressInterval int
}

// DefaultConfig returns the default collector configuration.
func DefaultConfig() Config {
	return Config{
		MaxPages:         0,
		ProgressInterval: 10,
	}
}

// Collector fetches one window at a time, sequentially.
type Collector struct {
	fetcher PageFetcher
	config  Config
	logger  zerolog.Logger
}

// New creates a new window collector.
func New(fetcher PageFetcher, config Config) *Collector {
	if config.ProgressInterval <= 0 {
		config.ProgressInterval = 10
	}

	return &Collector{
		fetcher: fetcher,
		config:  config,
		logger:  log.With().Str("component", "collector").Logger(),
	}
}

// Collect fetches every page of the window and returns the flattened batch.
// Pages are fetched sequentially starting at 1 until the API reports no
// further pages. A fetch failure terminates the window early and returns
// whatever was collected so far along with the failure; the caller is
// expected to log it and continue with the next window rather than abort.
func (c *Collector) Collect(ctx context.Context, w window.Window) ([]flatten.Record, error) {
	start := time.Now()
	var records []flatten.Record

	for page := 1; ; page++ {
		if c.config.MaxPages > 0 && page > c.config.MaxPages {
			c.logger.Info().
				Str("window", w.Key()).
				Int("max_pages", c.config.MaxPages).
				Msg("Page cap reached - stopping window early")
			break
		}

		resp, err := c.fetcher.FetchPage(ctx, w, page)
		if err != nil {
			windowsCollectedTotal.WithLabelValues("aborted").Inc()
			c.logger.Warn().
				Err(err).
				Str("window", w.Key()).
				Int("page", page).
				Int("items", len(records)).
				Msg("Page fetch failed - keeping partial window result")
			return records, err
		}

		if page == 1 {
			c.logger.Info().
				Str("window", w.Key()).
				Int("total", resp.PageInfo.Total).
				Int("last_page", resp.PageInfo.LastPage).
				Msg("Starting window collection")

			if resp.PageInfo.Total > ResultCeiling {
				windowOverflowTotal.Inc()
				c.logger.Warn().
					Str("window", w.Key()).
					Int("total", resp.PageInfo.Total).
					Int("ceiling", ResultCeiling).
					Msg("Window total exceeds result ceiling - results beyond the ceiling are unreachable")
			}
		}

		for _, media := range resp.Media {
			records = append(records, flatten.Flatten(media))
		}
		itemsCollectedTotal.Add(float64(len(resp.Media)))

		if page%c.config.ProgressInterval == 0 {
			c.logger.Info().
				Str("window", w.Key()).
				Int("page", page).
				Int("items", len(records)).
				Msg("Collection progress")
		}

		if !resp.PageInfo.HasNextPage || len(resp.Media) == 0 {
			break
		}
	}

	windowsCollectedTotal.WithLabelValues("exhausted").Inc()
	c.logger.Info().
		Str("window", w.Key()).
		Int("items", len(records)).
		Dur("duration", time.Since(start)).
		Msg("Window collection complete")

	return records, nil
}
