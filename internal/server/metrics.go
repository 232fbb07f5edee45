package server

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"family-drop/internal/upload"
)

// Metrics holds the Prometheus collectors for one server. Each server has
// its own registry so tests can build servers side by side.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal  *prometheus.CounterVec
	uploadsTotal   *prometheus.CounterVec
	uploadFiles    *prometheus.CounterVec
	uploadBytes    *prometheus.CounterVec
	uploadErrors   *prometheus.CounterVec
	uploadDuration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fd_requests_total",
			Help: "Total number of HTTP requests by status class.",
		}, []string{"code"}),
		uploadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fd_uploads_total",
			Help: "Total number of successful upload requests.",
		}, []string{"provider"}),
		uploadFiles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fd_upload_files_total",
			Help: "Total number of files transferred to the provider.",
		}, []string{"provider"}),
		uploadBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fd_upload_bytes_total",
			Help: "Total number of bytes transferred to the provider.",
		}, []string{"provider"}),
		uploadErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fd_upload_errors_total",
			Help: "Total number of failed upload requests by reason.",
		}, []string{"provider", "reason"}),
		uploadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fd_upload_duration_seconds",
			Help:    "Time spent transferring one upload request to the provider.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}, []string{"provider"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestsTotal,
		m.uploadsTotal,
		m.uploadFiles,
		m.uploadBytes,
		m.uploadErrors,
		m.uploadDuration,
	)
	return m
}

// statusClass maps 404 to "4xx".
func statusClass(status int) string {
	return strconv.Itoa(status/100) + "xx"
}

// RecordRequest counts one HTTP request by status class.
func (m *Metrics) RecordRequest(status int) {
	m.requestsTotal.WithLabelValues(statusClass(status)).Inc()
}

// RecordUpload records a successful upload request.
func (m *Metrics) RecordUpload(provider string, stats upload.Stats) {
	m.uploadsTotal.WithLabelValues(provider).Inc()
	m.uploadFiles.WithLabelValues(provider).Add(float64(stats.Files))
	m.uploadBytes.WithLabelValues(provider).Add(float64(stats.Bytes))
	m.uploadDuration.WithLabelValues(provider).Observe(stats.Duration.Seconds())
}

// RecordUploadError records a failed upload request. reason is one of
// validation, request or provider.
func (m *Metrics) RecordUploadError(provider, reason string) {
	m.uploadErrors.WithLabelValues(provider, reason).Inc()
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
