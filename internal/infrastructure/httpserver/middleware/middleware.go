package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/finance-tracker/internal/core/ports"
)

// HTTPMetrics are the collectors the request pipeline writes to.
type HTTPMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RateLimited     prometheus.Counter
}

// MiddlewareCollection holds all middleware instances
type MiddlewareCollection struct {
	JWT       *JWTMiddleware
	Logging   *LoggingMiddleware
	RateLimit *RateLimitMiddleware
	Metrics   *MetricsMiddleware
}

func NewMiddlewareCollection(
	authService ports.AuthService,
	rateLimiterService ports.RateLimiterService,
	logger *logrus.Logger,
	metrics HTTPMetrics,
) *MiddlewareCollection {
	rateLimit := NewRateLimitMiddleware(rateLimiterService, logger)
	if metrics.RateLimited != nil {
		rateLimit.WithRejectCounter(metrics.RateLimited)
	}
	return &MiddlewareCollection{
		JWT:       NewJWTMiddleware(authService, logger),
		Logging:   NewLoggingMiddleware(logger),
		RateLimit: rateLimit,
		Metrics:   NewMetricsMiddleware(metrics.RequestsTotal, metrics.RequestDuration),
	}
}
