// Package metrics holds the Prometheus collectors for the contact pipeline
// and the HTTP layer.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission results.
const (
	ResultCreated       = "created"
	ResultInvalid       = "invalid"
	ResultPersistFailed = "persist_failed"
)

// Side-effect stages that may fail without failing the submission.
const (
	StageEvent  = "event"
	StageNotify = "notify"
)

// Webhook delivery results.
const (
	DeliverySkipped   = "skipped"
	DeliveryDelivered = "delivered"
	DeliveryFailed    = "failed"
)

var (
	ContactSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_submissions_total",
		Help: "Contact form submissions by result",
	}, []string{"result"})
	SideEffectFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_side_effect_failures_total",
		Help: "Non-fatal failures after a contact request was persisted",
	}, []string{"stage"})
	WebhookDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "automation_webhook_deliveries_total",
		Help: "Automation webhook deliveries by result",
	}, []string{"result"})
	EmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_emails_total",
		Help: "Notification emails by sender and result",
	}, []string{"sender", "result"})
	RateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rate_limited_requests_total",
		Help: "Requests rejected by a rate limiter",
	}, []string{"scope"})
	StoreLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "store_latency_seconds",
		Help:    "Database operation latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
)

// ObserveStore records the latency of a store operation started at start.
func ObserveStore(op string, start time.Time) {
	StoreLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// HTTPMetrics bundles common Prometheus collectors for HTTP services.
type HTTPMetrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	Errors   *prometheus.CounterVec
	InFlight prometheus.Gauge
}

// NewHTTPMetrics registers the collectors on reg for a specific service label.
func NewHTTPMetrics(reg prometheus.Registerer, service string) *HTTPMetrics {
	f := promauto.With(reg)
	labels := prometheus.Labels{"service": service}
	return &HTTPMetrics{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total HTTP requests received",
			ConstLabels: labels,
		}, []string{"method", "path", "status"}),
		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "Latency distribution of HTTP requests",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),
		Errors: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_errors_total",
			Help:        "Total HTTP errors returned",
			ConstLabels: labels,
		}, []string{"method", "path", "status"}),
		InFlight: f.NewGauge(prometheus.GaugeOpts{
			Name:        "http_in_flight_requests",
			Help:        "Number of in-flight HTTP requests",
			ConstLabels: labels,
		}),
	}
}

// Observe records one finished request. path should be the route pattern,
// not the raw URL, to keep label cardinality bounded.
func (m *HTTPMetrics) Observe(method, path string, status int, elapsed time.Duration) {
	code := strconv.Itoa(status)
	m.Requests.WithLabelValues(method, path, code).Inc()
	m.Duration.WithLabelValues(method, path).Observe(elapsed.Seconds())
	if status >= 400 {
		m.Errors.WithLabelValues(method, path, code).Inc()
	}
}
