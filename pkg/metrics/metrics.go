// Package metrics provides Prometheus instrumentation for Sanket.
//
// It pre-defines the emitter metrics the library records on every
// registration and dispatch, and gives you helpers to register your own
// custom metrics. Expose them by mounting Handler on the inspect surface
// (pkg/inspect does this for you):
//
//	GET /metrics
//
// Then scrape it from Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ─────────────────────────────────────────────
// Built-in emitter metrics
// ─────────────────────────────────────────────
//
// Event names are used as label values. Registries driven by unbounded,
// caller-supplied names should disable instrumentation
// (emitter.WithMetrics(false)) to keep cardinality in check.

var (
	// EmitsTotal counts Emit calls per event, including no-op emits on
	// events whose listener list is empty.
	EmitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sanket",
			Subsystem: "emitter",
			Name:      "emits_total",
			Help:      "Total number of Emit calls per event.",
		},
		[]string{"event"},
	)

	// DeliveriesTotal counts listener invocations per event and listener kind.
	DeliveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sanket",
			Subsystem: "emitter",
			Name:      "deliveries_total",
			Help:      "Total listener invocations per event and kind.",
		},
		[]string{"event", "kind"},
	)

	// EmitDuration tracks the wall time of a full dispatch sweep.
	EmitDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sanket",
			Subsystem: "emitter",
			Name:      "emit_duration_seconds",
			Help:      "Duration of a full Emit dispatch sweep in seconds.",
			Buckets:   []float64{.000_01, .000_1, .001, .01, .1, 1},
		},
		[]string{"event"},
	)

	// RegistrationsTotal counts accepted listener registrations.
	RegistrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sanket",
			Subsystem: "emitter",
			Name:      "registrations_total",
			Help:      "Total accepted listener registrations per event and kind.",
		},
		[]string{"event", "kind"},
	)

	// RegistrationsRejected counts registrations refused by the cap.
	RegistrationsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sanket",
			Subsystem: "emitter",
			Name:      "registrations_rejected_total",
			Help:      "Total listener registrations rejected per event.",
		},
		[]string{"event", "reason"}, // reason: "max_listeners"
	)

	// UnknownEvents counts operations that referenced a never-registered name.
	UnknownEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sanket",
			Subsystem: "emitter",
			Name:      "unknown_events_total",
			Help:      "Total operations that referenced an unknown event.",
		},
		[]string{"op"}, // "emit" | "listeners"
	)

	// LiveListeners tracks the number of currently registered listeners.
	LiveListeners = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "sanket",
		Subsystem: "emitter",
		Name:      "live_listeners",
		Help:      "Number of currently registered listeners per event.",
	},
		[]string{"event"},
	)
)

// ─────────────────────────────────────────────
// Registry
// ─────────────────────────────────────────────

// DefaultRegistry is the Prometheus registry used by Sanket.
// Register your own metrics against this.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	// Go runtime metrics (GC, goroutines, memory)
	DefaultRegistry.MustRegister(collectors.NewGoCollector())
	// OS process metrics (CPU, open FDs)
	DefaultRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Sanket built-in metrics
	DefaultRegistry.MustRegister(
		EmitsTotal,
		DeliveriesTotal,
		EmitDuration,
		RegistrationsTotal,
		RegistrationsRejected,
		UnknownEvents,
		LiveListeners,
	)
}

// Register lets you add your own prometheus.Collector to the Sanket registry.
func Register(c prometheus.Collector) error {
	return DefaultRegistry.Register(c)
}

// MustRegister panics if registration fails.
func MustRegister(c ...prometheus.Collector) {
	DefaultRegistry.MustRegister(c...)
}

// ─────────────────────────────────────────────
// Custom metric constructors
// ─────────────────────────────────────────────

// NewCounter creates and registers a Counter with the given name and labels.
func NewCounter(namespace, name, help string, labels []string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, labels)
	DefaultRegistry.MustRegister(c)
	return c
}

// NewHistogram creates and registers a Histogram with the given name and labels.
func NewHistogram(namespace, name, help string, buckets []float64, labels []string) *prometheus.HistogramVec {
	h := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}, labels)
	DefaultRegistry.MustRegister(h)
	return h
}

// NewGauge creates and registers a Gauge.
func NewGauge(namespace, name, help string, labels []string) *prometheus.GaugeVec {
	g := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, labels)
	DefaultRegistry.MustRegister(g)
	return g
}

// ─────────────────────────────────────────────
// HTTP middleware (inspect surface)
// ─────────────────────────────────────────────

var (
	// HTTPRequestDuration tracks inspect-endpoint latency.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sanket",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of inspect HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestTotal counts inspect-endpoint requests.
	HTTPRequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sanket",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of inspect HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
)

func init() {
	DefaultRegistry.MustRegister(HTTPRequestDuration, HTTPRequestTotal)
}

// responseRecorder wraps http.ResponseWriter to capture the status code.
type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware returns an http.Handler middleware that records request
// duration and count for every inspect request.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			path := r.URL.Path // raw path; the inspect surface is low-cardinality

			rr := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rr, r)

			status := strconv.Itoa(rr.status)
			HTTPRequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
			HTTPRequestTotal.WithLabelValues(r.Method, path, status).Inc()
		})
	}
}

// ─────────────────────────────────────────────
// /metrics endpoint handler
// ─────────────────────────────────────────────

// Handler returns an http.HandlerFunc that exposes the Prometheus metrics page.
// Mount it on GET /metrics in your router.
func Handler() http.HandlerFunc {
	h := promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{
		EnableOpenMetrics: true, // enables text/plain AND OpenMetrics formats
	})
	return h.ServeHTTP
}

// ─────────────────────────────────────────────
// Helpers for emitter code
// ─────────────────────────────────────────────

// RecordRegistration records an accepted listener registration.
func RecordRegistration(event, kind string) {
	RegistrationsTotal.WithLabelValues(event, kind).Inc()
	LiveListeners.WithLabelValues(event).Inc()
}

// RecordRejection records a registration refused by the cap.
func RecordRejection(event, reason string) {
	RegistrationsRejected.WithLabelValues(event, reason).Inc()
}

// RecordDelivery records one listener invocation.
func RecordDelivery(event, kind string) {
	DeliveriesTotal.WithLabelValues(event, kind).Inc()
}

// RecordEmit records a completed dispatch sweep with a simple timer:
//
//	defer metrics.RecordEmit("order.shipped", time.Now())
func RecordEmit(event string, start time.Time) {
	EmitsTotal.WithLabelValues(event).Inc()
	EmitDuration.WithLabelValues(event).Observe(time.Since(start).Seconds())
}

// RecordUnknownEvent records an operation against a never-registered name.
func RecordUnknownEvent(op string) {
	UnknownEvents.WithLabelValues(op).Inc()
}

// ListenersRemoved decrements the live-listener gauge by n.
func ListenersRemoved(event string, n int) {
	LiveListeners.WithLabelValues(event).Sub(float64(n))
}
