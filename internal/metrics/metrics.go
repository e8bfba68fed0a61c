// Package metrics provides Prometheus metrics for trendboard.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/TobiSchelling/trendboard/internal/news"
)

const namespace = "trendboard"

var (
	// StoreRequests counts store reads by operation and outcome.
	StoreRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_requests_total",
			Help:      "Total number of store reads",
		},
		[]string{"operation", "status"},
	)

	// StoreDuration measures store read latency.
	StoreDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_request_duration_seconds",
			Help:      "Duration of store reads in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// HTTPRequests counts dashboard requests by route and status code.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"route", "code"},
	)

	// HTTPDuration measures handler latency.
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// Navigations counts navigator operations by outcome.
	Navigations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "navigations_total",
			Help:      "Total number of drill-down navigations",
		},
		[]string{"operation", "outcome"},
	)

	// Sessions tracks live dashboard sessions.
	Sessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions",
			Help:      "Number of dashboard sessions held in memory",
		},
	)
)

// Status classifies an error for the status label.
func Status(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, news.ErrNotFound):
		return "not_found"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}

// RecordStore records one store read.
func RecordStore(operation string, err error, duration time.Duration) {
	StoreRequests.WithLabelValues(operation, Status(err)).Inc()
	StoreDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordNavigation records the outcome of a navigator operation.
func RecordNavigation(operation, outcome string) {
	Navigations.WithLabelValues(operation, outcome).Inc()
}

// RecordHTTP records one handled request.
func RecordHTTP(route string, code int, duration time.Duration) {
	HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	HTTPDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// StatusRecorder captures the status code written by a handler.
type StatusRecorder struct {
	http.ResponseWriter
	Code int
}

// WriteHeader records code and forwards it.
func (r *StatusRecorder) WriteHeader(code int) {
	r.Code = code
	r.ResponseWriter.WriteHeader(code)
}

// InstrumentHandler records request counts and latency under route.
func InstrumentHandler(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec, ok := w.(*StatusRecorder)
		if !ok {
			rec = &StatusRecorder{ResponseWriter: w, Code: http.StatusOK}
		}
		start := time.Now()
		next.ServeHTTP(rec, r)
		RecordHTTP(route, rec.Code, time.Since(start))
	})
}
