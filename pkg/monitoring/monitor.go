package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	SessionsStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "diagnostic_sessions_started_total",
			Help: "Diagnostic sessions started",
		},
	)

	SessionsFinalized = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagnostic_sessions_finalized_total",
			Help: "Diagnostic sessions finalized, by overall maturity level",
		},
		[]string{"maturity"},
	)

	RecommendationsGenerated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "diagnostic_recommendations_generated_total",
			Help: "Recommendation bundles generated",
		},
	)

	ContentFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "diagnostic_content_fallback_total",
			Help: "Area content searches that fell back to generic terms",
		},
	)
)

func Init() {
	prometheus.MustRegister(
		RequestCounter,
		RequestDuration,
		SessionsStarted,
		SessionsFinalized,
		RecommendationsGenerated,
		ContentFallbacks,
	)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(time.Since(start).Seconds())
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
