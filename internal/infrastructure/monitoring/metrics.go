// Package monitoring provides Prometheus metrics collection.
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MetricsCollector handles Prometheus metrics collection. Each
// collector owns its registry so multiple instances can coexist.
type MetricsCollector struct {
	logger   *zap.Logger
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	chatMessagesTotal    prometheus.Counter
	draftsCreatedTotal   prometheus.Counter
	draftsPublishedTotal prometheus.Counter
	usersRegisteredTotal prometheus.Counter

	aiRequestsTotal   *prometheus.CounterVec
	aiRequestDuration prometheus.Histogram

	cacheOperations *prometheus.CounterVec
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector(logger *zap.Logger) *MetricsCollector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &MetricsCollector{
		logger:   logger,
		registry: registry,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),

		chatMessagesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "chat_messages_total",
				Help: "Total number of chat messages processed",
			},
		),
		draftsCreatedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "drafts_created_total",
				Help: "Total number of recipe drafts created from chat",
			},
		),
		draftsPublishedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "drafts_published_total",
				Help: "Total number of drafts published as recipes",
			},
		),
		usersRegisteredTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "users_registered_total",
				Help: "Total number of registered users",
			},
		),

		aiRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ai_requests_total",
				Help: "Total number of AI completion requests",
			},
			[]string{"status"},
		),
		aiRequestDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ai_request_duration_seconds",
				Help:    "AI completion request duration in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30},
			},
		),

		cacheOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_operations_total",
				Help: "Total number of cache operations",
			},
			[]string{"operation", "result"},
		),
	}
}

// Middleware instruments HTTP requests with count and duration.
func (m *MetricsCollector) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(ww, r)

			status := strconv.Itoa(ww.status)
			m.httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
			m.httpRequestDuration.WithLabelValues(r.Method, r.URL.Path, status).Observe(time.Since(start).Seconds())
		})
	}
}

// Handler exposes the metrics endpoint for this collector's registry.
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordChatMessage counts a processed chat message.
func (m *MetricsCollector) RecordChatMessage() {
	m.chatMessagesTotal.Inc()
}

// RecordDraftCreated counts a draft produced by the AI chef.
func (m *MetricsCollector) RecordDraftCreated() {
	m.draftsCreatedTotal.Inc()
}

// RecordDraftPublished counts a draft promoted to a recipe.
func (m *MetricsCollector) RecordDraftPublished() {
	m.draftsPublishedTotal.Inc()
}

// RecordUserRegistered counts a new account.
func (m *MetricsCollector) RecordUserRegistered() {
	m.usersRegisteredTotal.Inc()
}

// RecordAIRequest records an AI completion call and its duration.
func (m *MetricsCollector) RecordAIRequest(status string, duration time.Duration) {
	m.aiRequestsTotal.WithLabelValues(status).Inc()
	m.aiRequestDuration.Observe(duration.Seconds())
}

// RecordCacheOperation records a cache operation outcome.
func (m *MetricsCollector) RecordCacheOperation(operation, result string) {
	m.cacheOperations.WithLabelValues(operation, result).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
