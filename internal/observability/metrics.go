package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tastr_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tastr_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// RankingComputations counts popularity ranking computations by cache outcome.
	RankingComputations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tastr_ranking_computations_total",
		Help: "Total popularity ranking computations by cache outcome",
	}, []string{"outcome"})

	// ListingApplications counts list filter/sort applications by cache outcome.
	ListingApplications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tastr_listing_applications_total",
		Help: "Total list filter/sort engine applications by cache outcome",
	}, []string{"outcome"})

	// WebSocketConnectionsTotal is the gauge of total WebSocket connections.
	WebSocketConnectionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tastr_websocket_connections_total",
		Help: "Total number of active WebSocket connections",
	})

	// WebSocketBackpressureDrops counts messages dropped because a client's
	// send buffer was full or closed.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tastr_websocket_backpressure_drops_total",
		Help: "Total WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})

	// FollowEventsTotal counts follow-graph mutations by type.
	FollowEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tastr_follow_events_total",
		Help: "Total follow and unfollow events",
	}, []string{"event_type"})
)

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}
