package middleware

import (
	"time"

	"go-pos-terminal/internal/logger"

	"github.com/gin-gonic/gin"
)

type RequestObserver interface {
	ObserveRequest(method, path string, status int, elapsed time.Duration)
}

// Logging logs each request once it completes and feeds its latency to observer.
func Logging(logg *logger.Logger, observer RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		elapsed := time.Since(start)
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		if observer != nil {
			observer.ObserveRequest(c.Request.Method, route, c.Writer.Status(), elapsed)
		}
		if logg != nil {
			ctx := logg.WithFields(c.Request.Context(), map[string]any{
				"method":      c.Request.Method,
				"path":        c.Request.URL.Path,
				"status":      c.Writer.Status(),
				"duration_ms": elapsed.Milliseconds(),
			})
			logg.Info(ctx, "request.complete")
		}
	}
}
