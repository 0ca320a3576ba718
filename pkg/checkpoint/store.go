// Package checkpoint persists completed window batches in Redis so an
// interrupted compile run can resume without refetching windows it has
// already drained.
package checkpoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/anidata/anilist-compiler/pkg/flatten"
	"github.com/anidata/anilist-compiler/pkg/window"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	// ErrNotFound indicates no checkpoint exists for the window.
	ErrNotFound = errors.New("checkpoint not found")

	// ErrInvalidCheckpoint indicates the stored checkpoint is corrupted.
	ErrInvalidCheckpoint = errors.New("invalid checkpoint")
)

// DefaultTTL is how long a checkpoint stays valid. A week covers a
// restarted run without serving stale data across unrelated compiles.
const DefaultTTL = 7 * 24 * time.Hour

const keyPrefix = "anilist:checkpoint:"

// Entry is one persisted window batch.
type Entry struct {
	Window  string           `json:"window"`
	Records []flatten.Record `json:"records"`
	SavedAt time.Time        `json:"saved_at"`
}

// Store persists window checkpoints in Redis.
type Store struct {
	redis  *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewStore creates a checkpoint store. A zero ttl uses DefaultTTL.
func NewStore(redisClient *redis.Client, ttl time.Duration) *Store {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		redis:  redisClient,
		ttl:    ttl,
		logger: log.With().Str("component", "checkpoint").Logger(),
	}
}

// Save persists a completed window batch.
func (s *Store) Save(ctx context.Context, w window.Window, records []flatten.Record) error {
	entry := Entry{
		Window:  w.Key(),
		Records: records,
		SavedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		checkpointErrors.WithLabelValues("save").Inc()
		return fmt.Errorf("marshal checkpoint: %w", err)
	}

	if err := s.redis.Set(ctx, keyPrefix+w.Key(), data, s.ttl).Err(); err != nil {
		checkpointErrors.WithLabelValues("save").Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	checkpointSaves.Inc()
	s.logger.Debug().
		Str("window", w.Key()).
		Int("records", len(records)).
		Msg("Saved window checkpoint")

	return nil
}

// Load retrieves the checkpoint for a window.
// Returns ErrNotFound if none exists.
func (s *Store) Load(ctx context.Context, w window.Window) ([]flatten.Record, error) {
	data, err := s.redis.Get(ctx, keyPrefix+w.Key()).Bytes()
	if err != nil {
		if err == redis.Nil {
			checkpointMisses.Inc()
			return nil, ErrNotFound
		}
		checkpointErrors.WithLabelValues("load").Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		checkpointErrors.WithLabelValues("load").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidCheckpoint, err)
	}

	checkpointHits.Inc()
	s.logger.Debug().
		Str("window", w.Key()).
		Int("records", len(entry.Records)).
		Time("saved_at", entry.SavedAt).
		Msg("Loaded window checkpoint")

	return entry.Records, nil
}

// Delete removes the checkpoint for a window.
func (s *Store) Delete(ctx context.Context, w window.Window) error {
	if err := s.redis.Del(ctx, keyPrefix+w.Key()).Err(); err != nil {
		checkpointErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Clear removes every checkpoint, forcing the next run to start fresh.
func (s *Store) Clear(ctx context.Context) error {
	iter := s.redis.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.redis.Del(ctx, iter.Val()).Err(); err != nil {
			checkpointErrors.WithLabelValues("clear").Inc()
			return fmt.Errorf("redis del %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		checkpointErrors.WithLabelValues("clear").Inc()
		return fmt.Errorf("redis scan: %w", err)
	}
	return nil
}
