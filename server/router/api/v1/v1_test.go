package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/wanderchat/ai/core/llm"
	"github.com/hrygo/wanderchat/internal/profile"
	"github.com/hrygo/wanderchat/store"
	"github.com/hrygo/wanderchat/store/db/sqlite"
)

type fakeLLM struct {
	mu       sync.Mutex
	reply    string
	err      error
	messages [][]llm.Message
}

func (f *fakeLLM) Chat(_ context.Context, messages []llm.Message) (string, *llm.LLMCallStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, messages)
	if f.err != nil {
		return "", nil, f.err
	}
	return f.reply, &llm.LLMCallStats{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15, TotalDurationMs: 12}, nil
}

func (*fakeLLM) Warmup(context.Context) {}
func (*fakeLLM) Model() string          { return "fake-model" }
func (*fakeLLM) Provider() string       { return "fake" }

func newTestService(t *testing.T, llmService llm.Service) (*APIV1Service, *echo.Echo) {
	t.Helper()

	p := &profile.Profile{Mode: "dev", Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "api.db")}
	driver, err := sqlite.NewDB(p)
	require.NoError(t, err)
	t.Cleanup(func() { _ = driver.Close() })

	s := store.New(driver, p)
	require.NoError(t, s.Migrate(context.Background()))

	svc := NewAPIV1Service(p, s, llmService, nil, nil)
	e := echo.New()
	svc.RegisterRoutes(e)
	return svc, e
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestChat(t *testing.T) {
	fake := &fakeLLM{reply: "## Paris\n**Louvre** y *Orsay*"}
	_, e := newTestService(t, fake)

	rec := do(e, http.MethodPost, "/chat", `{"query":"  ¿Qué ver en París?  ","session_id":"s1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	out := decode(t, rec)
	assert.Equal(t, fake.reply, out["response"])
	assert.Equal(t, `<h3 class="chat-h3">Paris</h3><br><strong class="chat-strong">Louvre</strong> y <em class="chat-em">Orsay</em>`, out["response_html"])
	assert.Equal(t, "s1", out["session_id"])
	assert.Equal(t, "fake-model", out["model_used"])
	assert.NotEmpty(t, out["created_at"])

	require.Len(t, fake.messages, 1)
	require.Len(t, fake.messages[0], 2)
	assert.Equal(t, "system", fake.messages[0][0].Role)
	assert.Equal(t, "¿Qué ver en París?", fake.messages[0][1].Content)
}

func TestChat_DefaultSession(t *testing.T) {
	_, e := newTestService(t, &fakeLLM{reply: "hola"})

	rec := do(e, http.MethodPost, "/chat", `{"query":"hola"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, DefaultSessionID, decode(t, rec)["session_id"])
}

func TestChat_Errors(t *testing.T) {
	tests := []struct {
		name string
		llm  llm.Service
		body string
		code int
	}{
		{name: "empty query", llm: &fakeLLM{}, body: `{"query":"   "}`, code: http.StatusBadRequest},
		{name: "bad json", llm: &fakeLLM{}, body: `{"query":`, code: http.StatusBadRequest},
		{name: "llm not configured", llm: nil, body: `{"query":"hola"}`, code: http.StatusServiceUnavailable},
		{name: "llm failure", llm: &fakeLLM{err: errors.New("boom")}, body: `{"query":"hola"}`, code: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, e := newTestService(t, tt.llm)
			rec := do(e, http.MethodPost, "/chat", tt.body)
			assert.Equal(t, tt.code, rec.Code)
			assert.NotEmpty(t, decode(t, rec)["error"])
		})
	}
}

func TestChat_NotConfiguredHasDetails(t *testing.T) {
	_, e := newTestService(t, nil)
	rec := do(e, http.MethodPost, "/chat", `{"query":"hola"}`)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotEmpty(t, decode(t, rec)["details"])
}

func TestHistory(t *testing.T) {
	_, e := newTestService(t, &fakeLLM{reply: "- **uno**"})

	for _, q := range []string{"<b>primera</b>", "segunda", "tercera"} {
		body, err := json.Marshal(map[string]string{"query": q, "session_id": "trip"})
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, do(e, http.MethodPost, "/chat", string(body)).Code)
	}

	rec := do(e, http.MethodGet, "/history?session_id=trip", "")
	require.Equal(t, http.StatusOK, rec.Code)
	history := decode(t, rec)["history"].([]any)
	require.Len(t, history, 3)

	first := history[0].(map[string]any)
	assert.Equal(t, "<b>primera</b>", first["user_query"])
	assert.Equal(t, "&lt;b&gt;primera&lt;/b&gt;", first["user_query_html"])
	assert.Equal(t, `<ul class="chat-list"><br><li class="chat-li-plain"><strong class="chat-strong">uno</strong></li><br></ul>`, first["llm_response_html"])
	assert.Equal(t, "tercera", history[2].(map[string]any)["user_query"])

	rec = do(e, http.MethodGet, "/history?session_id=trip&limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	history = decode(t, rec)["history"].([]any)
	require.Len(t, history, 1)
	assert.Equal(t, "tercera", history[0].(map[string]any)["user_query"])

	for _, bad := range []string{"abc", "0", "-3"} {
		rec = do(e, http.MethodGet, "/history?session_id=trip&limit="+bad, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
	}

	rec = do(e, http.MethodDelete, "/history?session_id=trip", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(3), decode(t, rec)["deleted"])

	rec = do(e, http.MethodGet, "/history?session_id=trip", "")
	assert.Empty(t, decode(t, rec)["history"])

	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodDelete, "/history", "").Code)
}

func TestHistoryLimit(t *testing.T) {
	svc := &APIV1Service{Profile: &profile.Profile{}}

	limit, ok := svc.historyLimit("")
	assert.True(t, ok)
	assert.Equal(t, defaultHistoryLimit, limit)

	limit, ok = svc.historyLimit("1000")
	assert.True(t, ok)
	assert.Equal(t, maxHistoryLimit, limit)

	svc.Profile.HistoryLimit = 20
	limit, _ = svc.historyLimit("")
	assert.Equal(t, 20, limit)
}

func TestFormat(t *testing.T) {
	_, e := newTestService(t, nil)

	rec := do(e, http.MethodPost, "/api/v1/format", `{"text":"1. **Roma**"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		`<ol class="chat-list"><br><li class="chat-li-numbered"><span class="chat-li-number">1.</span> <strong class="chat-strong">Roma</strong></li><br></ol>`,
		decode(t, rec)["html"])

	rec = do(e, http.MethodPost, "/api/v1/format", `{"text":42}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "", decode(t, rec)["html"])
}

func TestHealth(t *testing.T) {
	_, e := newTestService(t, &fakeLLM{})

	rec := do(e, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	assert.Equal(t, "ok", out["status"])
	assert.Equal(t, "configured", out["llm"])
	assert.Equal(t, "ok", out["database"])
}
