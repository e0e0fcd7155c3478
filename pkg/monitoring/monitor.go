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

	// 推荐引擎指标
	PathsScored = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "recsys_paths_scored_total",
			Help: "Total number of career paths scored against a profile",
		},
	)

	Recalibrations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recsys_recalibrations_total",
			Help: "Difficulty recalibrations by resulting tier",
		},
		[]string{"tier"},
	)

	CollaborativeColdStarts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "recsys_collaborative_cold_start_total",
			Help: "Collaborative requests answered empty because of too few users or neighbours",
		},
	)

	ScoringDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recsys_scoring_duration_seconds",
			Help:    "Duration of engine computations",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"operation"},
	)

	initOnce sync.Once
)

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(PathsScored)
		prometheus.MustRegister(Recalibrations)
		prometheus.MustRegister(CollaborativeColdStarts)
		prometheus.MustRegister(ScoringDuration)
	})
}

// ObserveSince 记录某个引擎操作的耗时，配合 defer 使用
func ObserveSince(operation string, start time.Time) {
	ScoringDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
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
