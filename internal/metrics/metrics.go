// Package metrics exposes Prometheus instrumentation for the report template service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics tracks template operations, content rejections, renders and HTTP traffic.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	templateOps      *prometheus.CounterVec
	rejectedSections prometheus.Counter
	sanitizedBytes   prometheus.Counter
	renderDuration   prometheus.Histogram
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		templateOps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "report_template_operations_total",
			Help: "Template operations by kind and outcome",
		}, []string{"op", "outcome"}),
		rejectedSections: factory.NewCounter(prometheus.CounterOpts{
			Name: "report_template_rejected_sections_total",
			Help: "Sections whose content failed validation on save",
		}),
		sanitizedBytes: factory.NewCounter(prometheus.CounterOpts{
			Name: "report_template_sanitized_bytes_total",
			Help: "Bytes removed from section content by the sanitizer",
		}),
		renderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "report_render_duration_seconds",
			Help:    "Latency of external renderer calls",
			Buckets: prometheus.DefBuckets,
		}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// TemplateOp records the outcome of a template operation.
func (m *Metrics) TemplateOp(op string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.templateOps.WithLabelValues(op, outcome).Inc()
}

// SectionsRejected counts sections blocked by validation.
func (m *Metrics) SectionsRejected(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.rejectedSections.Add(float64(n))
}

// Sanitized records how much markup the sanitizer stripped.
func (m *Metrics) Sanitized(before, after int) {
	if m == nil || after >= before {
		return
	}
	m.sanitizedBytes.Add(float64(before - after))
}

// ObserveRender records a renderer call duration.
func (m *Metrics) ObserveRender(d time.Duration) {
	if m == nil {
		return
	}
	m.renderDuration.Observe(d.Seconds())
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Handler serves the collectors registered on g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
