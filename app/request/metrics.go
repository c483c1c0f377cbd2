package request

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payment_provider_requests_total",
			Help: "Calls made to the payment provider API.",
		}, []string{"method", "resource", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "payment_provider_request_duration_seconds",
			Help:    "Latency of calls made to the payment provider API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "resource"}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

type InstrumentedBackend struct {
	next    Backend
	metrics *Metrics
}

// Instrument wraps next with request metrics. A nil m returns next unchanged.
func Instrument(next Backend, m *Metrics) Backend {
	if m == nil {
		return next
	}
	return &InstrumentedBackend{next: next, metrics: m}
}

func (b *InstrumentedBackend) Call(ctx context.Context, req *Request) ([]byte, error) {
	start := time.Now()
	body, err := b.next.Call(ctx, req)

	resource := resourceLabel(req.Path)
	b.metrics.duration.WithLabelValues(req.Method, resource).Observe(time.Since(start).Seconds())
	b.metrics.requests.WithLabelValues(req.Method, resource, statusLabel(err)).Inc()

	return body, err
}

func statusLabel(err error) string {
	if err == nil {
		return "ok"
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return strconv.Itoa(apiErr.StatusCode)
	}
	return "transport_error"
}

// resourceLabel keeps the first path segment after the version prefix so
// object ids do not end up in label values.
func resourceLabel(path string) string {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(path, apiPrefix), "/")
	if i := strings.Index(trimmed, "/"); i >= 0 {
		trimmed = trimmed[:i]
	}
	if trimmed == "" {
		return "unknown"
	}
	return trimmed
}
