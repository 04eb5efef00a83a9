package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pfrederiksen/unisport/internal/logger"
	"github.com/pfrederiksen/unisport/internal/source"
	"github.com/pfrederiksen/unisport/internal/storage"
)

// DefaultTTL is how long a snapshot is served without refetching
const DefaultTTL = 24 * time.Hour

// Fetcher retrieves fresh raw data from the providers
type Fetcher interface {
	Fetch(ctx context.Context) (*source.Dataset, error)
}

// Gateway serves raw data from the snapshot store or the network
type Gateway struct {
	store   storage.SnapshotStore
	fetcher Fetcher
	ttl     time.Duration
	now     func() time.Time
	log     *logger.Logger
}

// Option configures a Gateway
type Option func(*Gateway)

// WithTTL sets the freshness window of the snapshot
func WithTTL(ttl time.Duration) Option {
	return func(g *Gateway) {
		g.ttl = ttl
	}
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) {
		g.now = now
	}
}

// WithLogger sets the logger used for cache diagnostics
func WithLogger(l *logger.Logger) Option {
	return func(g *Gateway) {
		g.log = l
	}
}

// NewGateway creates a Gateway with the default 24 hour TTL
func NewGateway(store storage.SnapshotStore, fetcher Fetcher, opts ...Option) *Gateway {
	g := &Gateway{
		store:   store,
		fetcher: fetcher,
		ttl:     DefaultTTL,
		now:     time.Now,
		log:     logger.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Acquire returns the raw course and location collections. A snapshot younger
// than the TTL is served as is; a missing, stale or unreadable snapshot is a
// miss, which fetches both collections and overwrites the snapshot.
// Acquire fails only when the fetch fails.
func (g *Gateway) Acquire(ctx context.Context) (*source.Dataset, error) {
	if ds, ok := g.read(ctx); ok {
		logger.IncrCounter("cache.hit")
		return ds, nil
	}
	logger.IncrCounter("cache.miss")

	ds, err := g.fetcher.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching provider data: %w", err)
	}

	snapshot := &storage.Snapshot{
		Courses:   ds.Courses,
		Locations: ds.Locations,
		Timestamp: g.now().UnixMilli(),
	}
	if err := g.store.Save(ctx, snapshot); err != nil {
		// The fetched data is still good; the next load refetches.
		logger.IncrCounter("cache.write_failed")
		g.log.Warn("failed to persist snapshot", logger.Fields{"error": err.Error()})
	}

	return ds, nil
}

// read returns the stored dataset if it exists, parses and is fresh
func (g *Gateway) read(ctx context.Context) (*source.Dataset, bool) {
	snapshot, err := g.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			g.log.Debug("ignoring unreadable snapshot", logger.Fields{"error": err.Error()})
		}
		return nil, false
	}

	age := g.now().Sub(time.UnixMilli(snapshot.Timestamp))
	if age >= g.ttl {
		g.log.Debug("snapshot expired", logger.Fields{"age": age.String()})
		return nil, false
	}

	return snapshot.Dataset(), true
}

// Invalidate removes the persisted snapshot
func (g *Gateway) Invalidate(ctx context.Context) error {
	if err := g.store.Clear(ctx); err != nil {
		return fmt.Errorf("clearing snapshot: %w", err)
	}
	return nil
}
