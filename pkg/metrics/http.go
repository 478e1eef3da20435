package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics records request-level metadata for the API.
type HTTPMetrics struct {
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec

	offersCreated prometheus.Counter
	pdfsRendered  prometheus.Counter
}

// NewHTTPMetrics registers the API metrics on the provided registerer.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Handled HTTP requests.",
	}, []string{"method", "path", "status"})
	offersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "offers_created_total",
		Help: "Offers persisted through the API.",
	})
	pdfsRendered := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "offer_pdfs_rendered_total",
		Help: "Offer PDF documents rendered.",
	})
	reg.MustRegister(duration, requests, offersCreated, pdfsRendered)
	return &HTTPMetrics{
		duration:      duration,
		requests:      requests,
		offersCreated: offersCreated,
		pdfsRendered:  pdfsRendered,
	}
}

// ObserveRequest records one handled request.
func (m *HTTPMetrics) ObserveRequest(method, path, status string, elapsed time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	labels := []string{normalizeLabel(method), normalizeLabel(path), status}
	m.duration.WithLabelValues(labels...).Observe(elapsed.Seconds())
	m.requests.WithLabelValues(labels...).Inc()
}

// IncOffersCreated counts a successfully persisted offer.
func (m *HTTPMetrics) IncOffersCreated() {
	if m == nil || m.offersCreated == nil {
		return
	}
	m.offersCreated.Inc()
}

// IncPDFsRendered counts a successfully rendered offer document.
func (m *HTTPMetrics) IncPDFsRendered() {
	if m == nil || m.pdfsRendered == nil {
		return
	}
	m.pdfsRendered.Inc()
}

func normalizeLabel(value string) string {
	trimmed := strings.TrimSpace(strings.ToLower(value))
	if trimmed == "" {
		return "unknown"
	}
	return trimmed
}
