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
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// InspectionSubmissions result: submitted / incomplete / liability / failed
	InspectionSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sapaa_inspection_submissions_total",
			Help: "Inspection submissions by outcome",
		},
		[]string{"result"},
	)

	ObservationRows = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sapaa_observation_rows_total",
			Help: "Observation rows written by successful submissions",
		},
	)

	DraftWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sapaa_draft_writes_total",
			Help: "Draft saves and deletes",
		},
		[]string{"op"},
	)

	LiabilityChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sapaa_liability_checks_total",
			Help: "Liability gate attempts by outcome",
		},
		[]string{"result"},
	)

	AuthEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sapaa_auth_events_total",
			Help: "Authentication state changes",
		},
		[]string{"event"},
	)
)

var registerOnce sync.Once

// Init 注册所有指标，可重复调用
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			InspectionSubmissions,
			ObservationRows,
			DraftWrites,
			LiabilityChecks,
			AuthEvents,
		)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		// 未匹配路由统一归类，避免任意路径撑爆标签基数
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
