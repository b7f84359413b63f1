// Package metrics exposes Prometheus collectors for the contact backend.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submission outcomes used as the "outcome" label.
const (
	OutcomeSuccess     = "success"
	OutcomeInvalid     = "invalid"
	OutcomeUnavailable = "unavailable"
	OutcomeBusy        = "busy"
	OutcomeStorage     = "storage_error"
	OutcomeError       = "error"
)

// Metrics holds all Prometheus collectors.
type Metrics struct {
	ContactSubmissions *prometheus.CounterVec // by outcome

	HTTPRequestsTotal   *prometheus.CounterVec   // by method, route, status_code
	HTTPRequestDuration *prometheus.HistogramVec // by method, route

	RateLimitHits prometheus.Counter

	factory promauto.Factory
}

// New registers the collectors on reg, or the default registerer when reg is nil.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		ContactSubmissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contact_submissions_total",
				Help: "Contact form submissions by outcome",
			},
			[]string{"outcome"},
		),
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "route"},
		),
		RateLimitHits: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "http_rate_limit_hits_total",
				Help: "Requests rejected by the per-IP rate limiter",
			},
		),
		factory: factory,
	}
}

// RecordSubmission counts one contact submission.
func (m *Metrics) RecordSubmission(outcome string) {
	m.ContactSubmissions.WithLabelValues(outcome).Inc()
}

// RecordHTTPRequest counts one request and observes its latency.
func (m *Metrics) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordRateLimitHit counts one rejected request.
func (m *Metrics) RecordRateLimitHit() {
	m.RateLimitHits.Inc()
}

// RegisterGatewayInFlight exposes the gateway's admitted statement count.
func (m *Metrics) RegisterGatewayInFlight(inFlight func() int64) {
	m.factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "contact_gateway_in_flight",
			Help: "Statements admitted by the persistence gateway, queued or running",
		},
		func() float64 { return float64(inFlight()) },
	)
}
