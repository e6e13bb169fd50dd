package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusExporter(t *testing.T) {
	exporter := NewPrometheusExporter(DefaultConfig())

	exporter.RecordChatRequest("llama-3.3-70b-versatile", 100*time.Millisecond, true)
	exporter.RecordChatRequest("llama-3.3-70b-versatile", 200*time.Millisecond, true)
	exporter.RecordChatRequest("llama-3.3-70b-versatile", 150*time.Millisecond, false)

	assert.Equal(t, 2.0, testutil.ToFloat64(exporter.chatRequests.WithLabelValues("llama-3.3-70b-versatile", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(exporter.chatRequests.WithLabelValues("llama-3.3-70b-versatile", "error")))

	exporter.IncActiveChats()
	exporter.IncActiveChats()
	exporter.DecActiveChats()
	assert.Equal(t, 1.0, testutil.ToFloat64(exporter.chatActive))

	exporter.RecordLLMTokens("m", "prompt", 100)
	exporter.RecordLLMTokens("m", "prompt", 0)
	assert.Equal(t, 100.0, testutil.ToFloat64(exporter.llmTokensUsed.WithLabelValues("m", "prompt")))

	exporter.RecordFormatted("history", 3)
	assert.Equal(t, 3.0, testutil.ToFloat64(exporter.formatted.WithLabelValues("history")))

	exporter.RecordStoreError("create_interaction")
	assert.Equal(t, 1.0, testutil.ToFloat64(exporter.storeErrors.WithLabelValues("create_interaction")))
}

func TestPrometheusExporterHandler(t *testing.T) {
	exporter := NewPrometheusExporter(DefaultConfig())
	exporter.RecordChatRequest("m", 100*time.Millisecond, true)
	exporter.RecordLLMLatency("m", "groq", 500*time.Millisecond)
	exporter.RecordHistoryRequest("list", true)

	req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
	w := httptest.NewRecorder()
	exporter.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "wanderchat_chat_requests_total")
	assert.Contains(t, body, "wanderchat_llm_latency_seconds")
	assert.Contains(t, body, "wanderchat_history_requests_total")
}
