// Package observability provides metrics and tracing for the application.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PostsCreated counts posts created, labelled by category.
	PostsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chronicle_posts_created_total",
		Help: "Total number of posts created",
	}, []string{"category"})

	// ViewsRecorded counts first-time views written to the ledger.
	// viewer_type is "user" or "visitor".
	ViewsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chronicle_views_recorded_total",
		Help: "Total number of deduplicated views recorded",
	}, []string{"viewer_type"})

	// ModerationDecisions counts approve/revoke decisions.
	ModerationDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chronicle_moderation_decisions_total",
		Help: "Total number of moderation decisions by action",
	}, []string{"action"})

	// FollowEdgesChanged counts follow graph mutations by operation.
	FollowEdgesChanged = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chronicle_follow_edges_changed_total",
		Help: "Total number of follow/unfollow operations that changed the graph",
	}, []string{"operation"})

	// CacheErrors counts Redis errors by operation type.
	CacheErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chronicle_cache_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chronicle_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
