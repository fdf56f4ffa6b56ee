// Package metrics defines Prometheus metrics for the graph console.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphconsole_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"group", "method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphconsole_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"group", "method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphconsole_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	RateLimitedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphconsole_rate_limited_total",
			Help: "Requests rejected by a rate limiter, by limiter scope",
		},
		[]string{"scope"},
	)

	BodyRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "graphconsole_body_rejected_total",
			Help: "Requests rejected for exceeding the body size limit",
		},
	)

	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphconsole_graph_notifications_total",
			Help: "Saved-graph change notifications received, by outcome",
		},
		[]string{"outcome"},
	)

	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphconsole_queries_total",
			Help: "Cypher statements run, by outcome",
		},
		[]string{"kind", "outcome"},
	)

	ProjectionSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphconsole_projection_entities",
			Help:    "Entities in a projected visualization",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"entity"},
	)

	ImportedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphconsole_imported_total",
			Help: "Entities created by snapshot imports",
		},
		[]string{"entity"},
	)

	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "graphconsole_sessions_active",
			Help: "Console sessions currently held in memory",
		},
	)

	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "graphconsole_websocket_connections",
			Help: "Active WebSocket connections",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		RateLimitedTotal, BodyRejectedTotal, NotificationsTotal,
		QueriesTotal, ProjectionSize, ImportedTotal,
		SessionsActive, WSConnections,
	)
}
