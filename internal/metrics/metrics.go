// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_audit_http_requests_total",
			Help: "Total number of HTTP requests by route and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "asset_audit_http_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"method", "route"},
	)

	AssetTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_audit_asset_transitions_total",
			Help: "Asset status transitions by source and target status",
		},
		[]string{"from", "to"},
	)

	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_audit_submissions_total",
			Help: "Audit submissions by verification method and outcome",
		},
		[]string{"method", "outcome"},
	)

	PhotoUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_audit_photo_uploads_total",
			Help: "Photo uploads by storage backend and outcome",
		},
		[]string{"backend", "outcome"},
	)

	PhotoUploadBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "asset_audit_photo_upload_bytes",
			Help:    "Size of stored photos in bytes",
			Buckets: prometheus.ExponentialBuckets(16*1024, 4, 7),
		},
	)
)
