// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobmindr_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jobmindr_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "jobmindr_http_requests_in_flight",
			Help: "Number of HTTP requests being served",
		},
	)

	ApplicationsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jobmindr_applications_created_total",
			Help: "Total number of job applications created",
		},
	)

	ApplicationsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jobmindr_applications_deleted_total",
			Help: "Total number of job applications deleted",
		},
	)

	ApplicationNumberCollisions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jobmindr_application_number_collisions_total",
			Help: "Generated application numbers rejected by the unique constraint",
		},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobmindr_list_cache_lookups_total",
			Help: "List cache lookups by result",
		},
		[]string{"result"},
	)
)

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)
