// Package metrics holds the Prometheus instruments for crash intake.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Upload results used as the "result" label of crashfx_uploads_total.
const (
	ResultStored   = "stored"
	ResultEmpty    = "empty"
	ResultTooLarge = "too_large"
	ResultError    = "error"
)

// Metrics holds Prometheus metrics for the crash service.
//
// Metrics:
//   - crashfx_uploads_total{result} - crash uploads by outcome
//   - crashfx_upload_bytes - histogram of accepted crash log sizes
//   - crashfx_dashboard_renders_total{view} - dashboard, chart and API renders
type Metrics struct {
	UploadsTotal     *prometheus.CounterVec
	UploadBytes      prometheus.Histogram
	DashboardRenders *prometheus.CounterVec
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		UploadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crashfx_uploads_total",
				Help: "Total number of crash uploads by result",
			},
			[]string{"result"},
		),
		UploadBytes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "crashfx_upload_bytes",
				Help:    "Size of accepted crash logs in bytes",
				Buckets: prometheus.ExponentialBuckets(256, 4, 8),
			},
		),
		DashboardRenders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crashfx_dashboard_renders_total",
				Help: "Total number of dashboard views served",
			},
			[]string{"view"},
		),
	}
	reg.MustRegister(m.UploadsTotal, m.UploadBytes, m.DashboardRenders)
	return m
}
