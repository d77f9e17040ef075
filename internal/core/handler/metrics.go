package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ledger_service",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by method, path and status code.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ledger_service",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	transactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ledger_service",
			Name:      "transactions_total",
			Help:      "Transaction attempts by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)
)

func observeTransaction(kind, outcome string) {
	transactionsTotal.WithLabelValues(kind, outcome).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		httpRequestDuration.
			WithLabelValues(r.Method, r.URL.Path).
			Observe(time.Since(start).Seconds())

		httpRequestsTotal.
			WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(rec.status)).
			Inc()
	})
}
