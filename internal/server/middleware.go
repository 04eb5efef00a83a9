package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pfrederiksen/unisport/internal/catalog"
	"github.com/pfrederiksen/unisport/internal/logger"
)

// RequireLoaded answers 503 until the catalog holds a successful load
func RequireLoaded(cat *catalog.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := cat.Ready(); err != nil {
			respondError(c, err)
			return
		}
		c.Next()
	}
}

// RequestLogger logs one structured line per request and records its timing
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		logger.RecordTiming("http."+route, elapsed)

		fields := logger.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": elapsed.String(),
		}
		if c.Writer.Status() >= 500 {
			log.Warn("request", fields)
			return
		}
		log.Debug("request", fields)
	}
}
