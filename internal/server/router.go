package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/pfrederiksen/unisport/internal/catalog"
	"github.com/pfrederiksen/unisport/internal/logger"
)

// Config configures the router
type Config struct {
	IsProduction   bool
	ProdOrigins    []string
	ReloadInterval time.Duration
	Logger         *logger.Logger
}

// NewRouter initializes the HTTP router engine with CORS, request logging
// and recovery, and registers the catalog routes.
func NewRouter(cat *catalog.Catalog, cfg Config) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}
	if cfg.ReloadInterval <= 0 {
		cfg.ReloadInterval = time.Minute
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(RequestLogger(cfg.Logger), gin.Recovery())

	config := cors.DefaultConfig()
	if cfg.IsProduction {
		config.AllowOrigins = cfg.ProdOrigins
	} else {
		config.AllowAllOrigins = true
	}
	config.AllowMethods = []string{"GET", "PUT", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type"}
	r.Use(cors.New(config))

	h := NewHandler(cat, cfg.ReloadInterval)

	r.GET("/healthz", h.Health)
	r.GET("/metrics", h.Metrics)

	api := r.Group("/api")
	{
		api.GET("/filters", h.GetFilters)
		api.PUT("/filters", h.PutFilters)
		api.POST("/reload", h.Reload)

		loaded := api.Group("", RequireLoaded(cat))
		loaded.GET("/courses", h.ListCourses)
		loaded.GET("/courses/:id", h.GetCourse)
		loaded.GET("/courses/:id/calendar.ics", h.CourseCalendar)
		loaded.GET("/events", h.ListEvents)
		loaded.GET("/locations", h.ListLocations)
		loaded.GET("/locations/events", h.LocationEvents)
		loaded.GET("/selection", h.GetSelection)
		loaded.PUT("/selection", h.PutSelection)
	}

	return r
}

// Serve runs handler on addr until ctx is canceled, then shuts down gracefully
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", logger.Fields{"addr": addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutdown signal received", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server exited gracefully", nil)
	return nil
}
