package utils

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus collectors. Request-level collectors are fed by the metrics
// middleware; the check-in counter is bumped by the controller on every
// successful creation.
var (
	RequestCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "endpoint", "status_code"})

	RequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "http_request_duration_seconds",
		Help: "HTTP request duration in seconds",
	}, []string{"method", "endpoint"})

	ErrorCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "errors_total",
		Help: "Total number of errors",
	}, []string{"type", "endpoint"})

	checkInsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "daily_checkins_total",
		Help: "Total number of daily check-ins recorded",
	})
)

// RecordCheckIn bumps the business-level check-in counter.
func RecordCheckIn() {
	checkInsTotal.Inc()
}

// MetricsHandler exposes the default Prometheus registry for scraping.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
