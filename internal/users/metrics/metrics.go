// Package metrics exposes the service's Prometheus collectors and the HTTP
// instrumentation middleware.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/pillarhq/userd/pkg/httpx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "endpoint", "status_code"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"})

	httpRequestsInProgress = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "http_requests_in_progress",
		Help: "HTTP requests currently being served",
	})

	authAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_attempts_total",
		Help: "Authentication attempts by outcome",
	}, []string{"status"})

	jwtTokensIssuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jwt_tokens_issued_total",
		Help: "Access tokens issued",
	})

	userOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "user_operations_total",
		Help: "User CRUD operations by outcome",
	}, []string{"operation", "status"})

	activeUsersTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "active_users_total",
		Help: "Number of active user accounts",
	})
)

// RecordAuthAttempt counts an authentication attempt. Status is "success"
// or a failure class such as "invalid_credentials" or "inactive_account".
func RecordAuthAttempt(status string) {
	authAttemptsTotal.WithLabelValues(status).Inc()
}

// RecordTokenIssued counts an issued access token.
func RecordTokenIssued() {
	jwtTokensIssuedTotal.Inc()
}

// RecordUserOperation counts a user CRUD operation by outcome.
func RecordUserOperation(operation, status string) {
	userOperationsTotal.WithLabelValues(operation, status).Inc()
}

// SetActiveUsers updates the active-user gauge. Refreshed periodically by
// the stats service.
func SetActiveUsers(count int64) {
	activeUsersTotal.Set(float64(count))
}

// Handler returns the /metrics scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware instruments every request with the request counter, latency
// histogram and in-progress gauge. The endpoint label uses the route
// pattern so path parameters don't explode cardinality.
func Middleware() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			httpRequestsInProgress.Inc()
			defer httpRequestsInProgress.Dec()

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(rec, r)

			endpoint := r.Pattern
			if endpoint == "" {
				endpoint = r.URL.Path
			}

			httpRequestsTotal.WithLabelValues(
				r.Method, endpoint, strconv.Itoa(rec.status),
			).Inc()
			httpRequestDuration.WithLabelValues(
				r.Method, endpoint,
			).Observe(time.Since(start).Seconds())
		})
	}
}
