// Package observability exposes the application's Prometheus metric vectors.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inkwell_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// StorageUploads counts object-storage uploads by outcome.
	StorageUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_storage_uploads_total",
		Help: "Total number of object-storage uploads by outcome",
	}, []string{"outcome"})

	// StorageUploadLatency records object-storage upload latency.
	StorageUploadLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "inkwell_storage_upload_latency_seconds",
		Help:    "Object-storage upload latency in seconds",
		Buckets: prometheus.DefBuckets,
	})
)

// ObserveUpload records an upload attempt and its latency.
func ObserveUpload(start time.Time, err error) {
	StorageUploadLatency.Observe(time.Since(start).Seconds())
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	StorageUploads.WithLabelValues(outcome).Inc()
}
