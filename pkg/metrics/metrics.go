// Package metrics provides Prometheus instrumentation for the client.
//
// The client has no inbound traffic, so the metrics describe what it does to
// the API and how shoppers move through checkout. Expose them on demand:
//
//	METRICS_ADDR=:9464 foodexplorer checkout
//	curl localhost:9464/metrics
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shashiranjanraj/foodexplorer/pkg/logger"
)

// ─────────────────────────────────────────────
// Built-in metrics
// ─────────────────────────────────────────────

var (
	// APICallDuration tracks outgoing API calls by method, route and status.
	// Transport failures carry status "error".
	APICallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "foodexplorer",
			Subsystem: "api",
			Name:      "call_duration_seconds",
			Help:      "Duration of outgoing API calls in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// APICallTotal counts outgoing API calls.
	APICallTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "foodexplorer",
			Subsystem: "api",
			Name:      "calls_total",
			Help:      "Total number of outgoing API calls.",
		},
		[]string{"method", "route", "status"},
	)

	// CheckoutTransitions counts phase changes of the checkout flow.
	CheckoutTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "foodexplorer",
			Subsystem: "checkout",
			Name:      "transitions_total",
			Help:      "Checkout phase transitions.",
		},
		[]string{"from", "to"},
	)

	// OrdersSubmitted counts order submissions by result.
	OrdersSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "foodexplorer",
			Subsystem: "checkout",
			Name:      "orders_submitted_total",
			Help:      "Order submissions by result.",
		},
		[]string{"result"}, // "accepted" | "failed"
	)

	// SessionEvents counts sign-in, sign-out and profile updates by result.
	SessionEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "foodexplorer",
			Subsystem: "session",
			Name:      "events_total",
			Help:      "Session operations by result.",
		},
		[]string{"operation", "result"},
	)
)

// ─────────────────────────────────────────────
// Registry
// ─────────────────────────────────────────────

// DefaultRegistry is the Prometheus registry used by the client.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(collectors.NewGoCollector())
	DefaultRegistry.MustRegister(
		APICallDuration,
		APICallTotal,
		CheckoutTransitions,
		OrdersSubmitted,
		SessionEvents,
	)
}

// Register lets you add your own prometheus.Collector to the registry.
func Register(c prometheus.Collector) error {
	return DefaultRegistry.Register(c)
}

// ─────────────────────────────────────────────
// /metrics endpoint
// ─────────────────────────────────────────────

// Handler returns an http.HandlerFunc that exposes the Prometheus metrics page.
func Handler() http.HandlerFunc {
	h := promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
	return h.ServeHTTP
}

// Router serves GET /metrics and a GET /healthz liveness probe.
func Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/metrics", Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}

// Serve exposes Router on addr until ctx is done.
func Serve(ctx context.Context, addr string) {
	srv := &http.Server{Addr: addr, Handler: Router(), ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics: listener stopped", "addr", addr, "error", err)
		}
	}()
}

// ─────────────────────────────────────────────
// Helpers for app code
// ─────────────────────────────────────────────

// ObserveAPICall records one outgoing call.
func ObserveAPICall(method, route, status string, d time.Duration) {
	APICallDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
	APICallTotal.WithLabelValues(method, route, status).Inc()
}

// RecordTransition records a checkout phase change.
func RecordTransition(from, to string) {
	CheckoutTransitions.WithLabelValues(from, to).Inc()
}

// RecordOrder records an order submission result.
func RecordOrder(result string) {
	OrdersSubmitted.WithLabelValues(result).Inc()
}

// RecordSession records a session operation result.
func RecordSession(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "failed"
	}
	SessionEvents.WithLabelValues(operation, result).Inc()
}
