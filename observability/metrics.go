// Package observability holds the Prometheus collectors and the OpenTelemetry setup.
package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tablr_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tablr_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	tableTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tablr_table_status_transitions_total",
		Help: "Table status changes by source and target status",
	}, []string{"from", "to"})

	websocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tablr_websocket_clients",
		Help: "Number of connected floor plan websocket clients",
	})

	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tablr_cache_lookups_total",
		Help: "Response cache lookups by result",
	}, []string{"result"})
)

func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func ObserveTableTransition(from, to string) {
	tableTransitions.WithLabelValues(from, to).Inc()
}

// ObserveCacheLookup records a HIT or MISS.
func ObserveCacheLookup(result string) {
	cacheLookups.WithLabelValues(result).Inc()
}

func WebsocketConnected()    { websocketClients.Inc() }
func WebsocketDisconnected() { websocketClients.Dec() }

// MetricsMiddleware records every request under its route pattern, so ids do not explode the label set.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		ObserveHTTPRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

// Handler serves the default registry for /metrics.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
