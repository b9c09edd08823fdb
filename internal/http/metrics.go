package http

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestLatency = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name: "request_latency",
		Help: "Duration of HTTP requests.",
	},
	[]string{"verb", "path", "code"},
)

// Metrics records per-request latency labeled by method, route template and
// status code. Unmatched routes are labeled "unknown" to keep the label
// cardinality bounded.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}
		requestLatency.
			WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
