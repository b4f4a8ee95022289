package httpserver

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	customMiddleware "github.com/avatarctic/finance-tracker/internal/infrastructure/httpserver/middleware"
)

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route template and status",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	rateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "http_rate_limited_total",
		Help: "Requests rejected by the per-IP rate limit",
	})
)

func init() {
	prometheus.MustRegister(requestsTotal, requestDuration, rateLimitedTotal)
}

// httpMetrics bundles the process-wide collectors for the middleware chain.
func httpMetrics() customMiddleware.HTTPMetrics {
	return customMiddleware.HTTPMetrics{
		RequestsTotal:   requestsTotal,
		RequestDuration: requestDuration,
		RateLimited:     rateLimitedTotal,
	}
}

// LogMetricsInitialization logs the exported metric families
func (s *Server) LogMetricsInitialization() {
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"http_requests_total":             "HTTP requests by method, endpoint, status",
			"http_request_duration_seconds":   "HTTP request duration by method, endpoint",
			"http_rate_limited_total":         "requests rejected with 429",
			"cache_operations_total":          "cache lookups by namespace and result",
			"cache_producer_duration_seconds": "time spent recomputing cache misses",
			"metrics_endpoint":                "/metrics",
		}).Info("Prometheus metrics registered")
	}
}

// metricsEndpoint serves the default registry
func (s *Server) metricsEndpoint(c echo.Context) error {
	promhttp.Handler().ServeHTTP(c.Response(), c.Request())
	return nil
}
