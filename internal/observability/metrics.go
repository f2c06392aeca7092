// Package observability provides metrics and tracing.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis command failures by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "numbertalk_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// CacheLookups counts board cache lookups by result (hit, miss, error).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "numbertalk_cache_lookups_total",
		Help: "Board cache lookups by result",
	}, []string{"result"})

	// BoardWrites counts successful writes by record kind.
	BoardWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "numbertalk_board_writes_total",
		Help: "Posts, comments and calculations created or edited",
	}, []string{"kind", "action"})

	// ForestNodes records how many nodes a listing assembled.
	ForestNodes = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "numbertalk_forest_nodes",
		Help:    "Number of nodes assembled per listing",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	}, []string{"listing"})

	// AuthFailures counts rejected logins and tokens by reason.
	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "numbertalk_auth_failures_total",
		Help: "Rejected authentication attempts by reason",
	}, []string{"reason"})

	// WebSocketConnections is the gauge of open board event streams.
	WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "numbertalk_websocket_connections",
		Help: "Number of open board event WebSocket connections",
	})

	// WebSocketBackpressureDrops counts events dropped for slow clients.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "numbertalk_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"reason"})
)
