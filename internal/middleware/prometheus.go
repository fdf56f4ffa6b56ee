package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/persistorai/graphconsole/internal/metrics"
)

// RouteGroupKey is the gin context key naming the console route group that
// served the request.
const RouteGroupKey = "route_group"

// RouteGroup tags requests routed through a group so request metrics can be
// aggregated per console surface.
func RouteGroup(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(RouteGroupKey, name)
		c.Next()
	}
}

// PrometheusMiddleware records HTTP request duration and count, labelled by
// route group and route pattern.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start).Seconds()

		group := c.GetString(RouteGroupKey)
		if group == "" {
			group = "other"
		}

		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}

		labels := []string{group, c.Request.Method, path, strconv.Itoa(c.Writer.Status())}
		metrics.RequestDuration.WithLabelValues(labels...).Observe(duration)
		metrics.RequestsTotal.WithLabelValues(labels...).Inc()
	}
}
