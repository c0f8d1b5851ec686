// Package metrics provides Prometheus metrics for HTTP traffic and upstream
// generation-service calls.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	UpstreamCallTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_upstream_call_total",
			Help: "Calls to the recommendation generation service by outcome",
		},
		[]string{"outcome"}, // ok, transport, protocol, shape
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(UpstreamCallTotals)
}

// Middleware records request counts and latency per route.
func Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		path := c.Path()
		if path == "" {
			path = c.Request().URL.Path
		}

		HTTPRequestTotals.WithLabelValues(
			c.Request().Method,
			path,
			strconv.Itoa(c.Response().Status),
		).Inc()
		HTTPRequestDuration.WithLabelValues(c.Request().Method, path).
			Observe(time.Since(start).Seconds())

		return err
	}
}
