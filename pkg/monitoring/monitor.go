package monitoring

import (
	"strconv"
	"sync"
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
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	TestingsStarted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hr_testings_started_total",
			Help: "Testings handed out to candidates, by testing type",
		},
		[]string{"type"},
	)

	AttemptsCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hr_attempts_completed_total",
			Help: "Attempts recorded, by testing type",
		},
		[]string{"type"},
	)

	DeadlineRejections = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hr_deadline_rejections_total",
			Help: "Testing operations refused because the allotted time ran out",
		},
	)

	ApprovedRefreshDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hr_approved_refresh_duration_seconds",
			Help:    "Time spent recomputing approved candidates",
			Buckets: prometheus.DefBuckets,
		},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			TestingsStarted,
			AttemptsCompleted,
			DeadlineRejections,
			ApprovedRefreshDuration,
		)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
