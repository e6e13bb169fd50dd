// Package metrics provides Prometheus metrics export for the chat service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusExporter exports chat metrics in Prometheus format.
type PrometheusExporter struct {
	registry *prometheus.Registry

	// Chat metrics
	chatLatency  *prometheus.HistogramVec
	chatRequests *prometheus.CounterVec
	chatActive   prometheus.Gauge

	// LLM metrics
	llmTokensUsed *prometheus.CounterVec
	llmLatency    *prometheus.HistogramVec

	// History and formatter metrics
	historyRequests *prometheus.CounterVec
	formatted       *prometheus.CounterVec
	storeErrors     *prometheus.CounterVec
}

// Config configures the Prometheus exporter.
type Config struct {
	// Registry to use (if nil, creates a new one)
	Registry *prometheus.Registry

	// Buckets for latency histograms (in seconds)
	LatencyBuckets []float64
}

// DefaultConfig returns default Prometheus configuration.
func DefaultConfig() Config {
	return Config{
		LatencyBuckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
	}
}

// NewPrometheusExporter creates a new Prometheus metrics exporter.
func NewPrometheusExporter(cfg Config) *PrometheusExporter {
	if len(cfg.LatencyBuckets) == 0 {
		cfg.LatencyBuckets = DefaultConfig().LatencyBuckets
	}

	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	e := &PrometheusExporter{registry: registry}

	e.chatLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wanderchat",
			Subsystem: "chat",
			Name:      "latency_seconds",
			Help:      "Chat request latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"model"},
	)

	e.chatRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wanderchat",
			Subsystem: "chat",
			Name:      "requests_total",
			Help:      "Total number of chat requests",
		},
		[]string{"model", "status"},
	)

	e.chatActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "wanderchat",
			Subsystem: "chat",
			Name:      "active",
			Help:      "Number of chat requests waiting on the LLM",
		},
	)

	e.llmTokensUsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wanderchat",
			Subsystem: "llm",
			Name:      "tokens_total",
			Help:      "Total LLM tokens consumed",
		},
		[]string{"model", "token_type"},
	)

	e.llmLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wanderchat",
			Subsystem: "llm",
			Name:      "latency_seconds",
			Help:      "LLM request latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"model", "provider"},
	)

	e.historyRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wanderchat",
			Subsystem: "history",
			Name:      "requests_total",
			Help:      "Total number of history requests",
		},
		[]string{"op", "status"},
	)

	e.formatted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wanderchat",
			Subsystem: "markup",
			Name:      "formatted_total",
			Help:      "Total number of texts rendered to HTML",
		},
		[]string{"source"},
	)

	e.storeErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wanderchat",
			Subsystem: "store",
			Name:      "errors_total",
			Help:      "Total number of storage errors",
		},
		[]string{"op"},
	)

	registry.MustRegister(
		e.chatLatency,
		e.chatRequests,
		e.chatActive,
		e.llmTokensUsed,
		e.llmLatency,
		e.historyRequests,
		e.formatted,
		e.storeErrors,
	)

	return e
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}

// RecordChatRequest records a chat request metric.
func (e *PrometheusExporter) RecordChatRequest(model string, latency time.Duration, success bool) {
	e.chatRequests.WithLabelValues(model, statusLabel(success)).Inc()
	e.chatLatency.WithLabelValues(model).Observe(latency.Seconds())
}

// IncActiveChats and DecActiveChats track requests holding an LLM slot.
func (e *PrometheusExporter) IncActiveChats() {
	e.chatActive.Inc()
}

func (e *PrometheusExporter) DecActiveChats() {
	e.chatActive.Dec()
}

// RecordLLMTokens records LLM token usage.
func (e *PrometheusExporter) RecordLLMTokens(model, tokenType string, count int) {
	if count <= 0 {
		return
	}
	e.llmTokensUsed.WithLabelValues(model, tokenType).Add(float64(count))
}

// RecordLLMLatency records LLM request latency.
func (e *PrometheusExporter) RecordLLMLatency(model, provider string, latency time.Duration) {
	e.llmLatency.WithLabelValues(model, provider).Observe(latency.Seconds())
}

// RecordHistoryRequest records a history list or delete request.
func (e *PrometheusExporter) RecordHistoryRequest(op string, success bool) {
	e.historyRequests.WithLabelValues(op, statusLabel(success)).Inc()
}

// RecordFormatted counts formatter runs by source (chat, history, api).
func (e *PrometheusExporter) RecordFormatted(source string, n int) {
	e.formatted.WithLabelValues(source).Add(float64(n))
}

// RecordStoreError records a storage failure that did not fail the request.
func (e *PrometheusExporter) RecordStoreError(op string) {
	e.storeErrors.WithLabelValues(op).Inc()
}

// Handler returns the HTTP handler for the metrics endpoint.
func (e *PrometheusExporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// GetRegistry returns the Prometheus registry.
func (e *PrometheusExporter) GetRegistry() *prometheus.Registry {
	return e.registry
}
