package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/elevatecrm/backend/internal/infrastructure/telemetry"
)

// RequestMetrics records one count and one latency sample per
// completed request, labeled by method, route template and status.
func RequestMetrics(rec *telemetry.RequestMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			// Requests that matched no route would explode cardinality
			// if labeled by raw path.
			route = "unmatched"
		}
		rec.Record(c.Request.Context(), c.Request.Method, route,
			c.Writer.Status(), time.Since(start))
	}
}
