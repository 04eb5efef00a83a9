package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pfrederiksen/unisport/internal/cache"
	"github.com/pfrederiksen/unisport/internal/catalog"
	"github.com/pfrederiksen/unisport/internal/config"
	"github.com/pfrederiksen/unisport/internal/logger"
	"github.com/pfrederiksen/unisport/internal/source"
	"github.com/pfrederiksen/unisport/internal/storage"
)

// runtime holds the components shared by all commands
type runtime struct {
	cfg     *config.Config
	store   storage.SnapshotStore
	gateway *cache.Gateway
	catalog *catalog.Catalog
	close   func()
}

// newRuntime builds the snapshot store, gateway and catalog from cfg
func newRuntime(ctx context.Context, cfg *config.Config, log *logger.Logger) (*runtime, error) {
	rt := &runtime{cfg: cfg, close: func() {}}

	switch cfg.CacheBackend {
	case config.BackendPostgres:
		pool, err := storage.NewPool(ctx, cfg.DBDSN)
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		pg := storage.NewPgStore(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		rt.store = pg
		rt.close = pool.Close
	default:
		fs, err := storage.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("initializing storage: %w", err)
		}
		rt.store = fs
	}

	client := source.New(
		source.WithURLs(cfg.CoursesURL, cfg.LocationsURL),
		source.WithTimeout(cfg.HTTPTimeout),
	)
	rt.gateway = cache.NewGateway(rt.store, client,
		cache.WithTTL(cfg.CacheTTL),
		cache.WithLogger(log),
	)
	rt.catalog = catalog.New(rt.gateway,
		catalog.WithPageSize(cfg.PageSize),
		catalog.WithLogger(log),
	)

	return rt, nil
}

// newLogger writes JSON logs to w. Verbose forces debug level.
func newLogger(w io.Writer, level logger.Level, verbose bool) *logger.Logger {
	if w == nil {
		w = os.Stderr
	}
	if verbose {
		level = logger.LevelDebug
	}
	return logger.New(level, w)
}
