// Package metrics exposes Prometheus collectors for the HTTP API and the
// authentication flow.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gophbank_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gophbank_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gophbank_login_attempts_total",
		Help: "Login attempts by result",
	}, []string{"result"})

	registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gophbank_registrations_total",
		Help: "Registration attempts by result",
	}, []string{"result"})
)

// Result labels.
const (
	ResultSuccess  = "success"
	ResultFailure  = "failure"
	ResultConflict = "conflict"
	ResultInvalid  = "invalid"
	ResultError    = "error"
)

// ObserveHTTPRequest records an HTTP request metric. route is the matched
// pattern, not the raw path, to keep label cardinality bounded.
func ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

func ObserveLogin(result string) {
	loginAttempts.WithLabelValues(result).Inc()
}

func ObserveRegistration(result string) {
	registrations.WithLabelValues(result).Inc()
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
