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

	AttemptsStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gabigame_attempts_started_total",
			Help: "Number of level attempts opened",
		},
	)

	AttemptsFinished = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gabigame_attempts_finished_total",
			Help: "Number of level attempts closed with a score",
		},
	)

	LevelScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gabigame_level_score",
			Help:    "Score awarded when a level attempt finishes",
			Buckets: []float64{0.01, 0.25, 0.5, 0.75, 0.9, 1, 1.1},
		},
	)

	// GradebookPushes result 取值 ok / error
	GradebookPushes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gabigame_gradebook_pushes_total",
			Help: "Grade updates sent to the external gradebook",
		},
		[]string{"result"},
	)
)

var registerOnce sync.Once

// Init 可重复调用，只注册一次
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(AttemptsStarted)
		prometheus.MustRegister(AttemptsFinished)
		prometheus.MustRegister(LevelScore)
		prometheus.MustRegister(GradebookPushes)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
