package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "yamdb",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "yamdb",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "yamdb",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	signups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "yamdb",
			Subsystem: "auth",
			Name:      "signups_total",
			Help:      "Signup attempts by outcome.",
		},
		[]string{"outcome"},
	)

	tokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "yamdb",
			Subsystem: "auth",
			Name:      "token_requests_total",
			Help:      "Confirmation code exchanges by outcome.",
		},
		[]string{"outcome"},
	)

	reviews = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "yamdb",
			Subsystem: "content",
			Name:      "reviews_created_total",
			Help:      "Review submissions by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		signups,
		tokens,
		reviews,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "/metrics" {
			c.Next()
			return
		}
		if route == "" {
			route = "unmatched"
		}

		httpInFlight.Inc()
		start := time.Now()
		c.Next()
		httpInFlight.Dec()

		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func RecordSignup(outcome string) {
	signups.WithLabelValues(outcome).Inc()
}

func RecordToken(outcome string) {
	tokens.WithLabelValues(outcome).Inc()
}

func RecordReview(outcome string) {
	reviews.WithLabelValues(outcome).Inc()
}
