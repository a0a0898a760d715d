package metrics

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the service. All methods are
// safe on a nil receiver so callers can run without instrumentation.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	bookingAttempts    *prometheus.CounterVec
	bookingRetries     prometheus.Counter
	bookingTransitions *prometheus.CounterVec
	reviewsCreated     prometheus.Counter
	cacheLookups       *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	bookingAttempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_attempts_total",
		Help: "Booking creation attempts by outcome",
	}, []string{"result"})

	bookingRetries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "booking_retries_total",
		Help: "Booking transactions retried after a transient database error",
	})

	bookingTransitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_transitions_total",
		Help: "Applied booking state transitions by event",
	}, []string{"event"})

	reviewsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reviews_created_total",
		Help: "Reviews accepted",
	})

	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tutor_cache_lookups_total",
		Help: "Tutor search cache lookups by result",
	}, []string{"result"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(
		requestDuration, requestTotal,
		bookingAttempts, bookingRetries, bookingTransitions,
		reviewsCreated, cacheLookups, goroutines,
	)

	return &Metrics{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		bookingAttempts:    bookingAttempts,
		bookingRetries:     bookingRetries,
		bookingTransitions: bookingTransitions,
		reviewsCreated:     reviewsCreated,
		cacheLookups:       cacheLookups,
	}
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// BookingAttempt records the outcome of a create: "created", "conflict",
// "rejected" or "error".
func (m *Metrics) BookingAttempt(result string) {
	if m == nil {
		return
	}
	m.bookingAttempts.WithLabelValues(result).Inc()
}

func (m *Metrics) BookingRetry() {
	if m == nil {
		return
	}
	m.bookingRetries.Inc()
}

func (m *Metrics) BookingTransition(event string) {
	if m == nil {
		return
	}
	m.bookingTransitions.WithLabelValues(event).Inc()
}

func (m *Metrics) ReviewCreated() {
	if m == nil {
		return
	}
	m.reviewsCreated.Inc()
}

func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}
