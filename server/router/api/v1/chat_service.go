package v1

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/wanderchat/internal/logging"
	"github.com/hrygo/wanderchat/store"
)

type chatRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Response     string `json:"response"`
	ResponseHTML string `json:"response_html"`
	SessionID    string `json:"session_id"`
	ModelUsed    string `json:"model_used"`
	CreatedAt    string `json:"created_at"`
}

// Chat answers one user query and stores the exchange.
func (s *APIV1Service) Chat(c echo.Context) error {
	ctx := c.Request().Context()
	logger := logging.FromContext(ctx)

	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid request body")
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return errorResponse(c, http.StatusBadRequest, "query is required")
	}
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = DefaultSessionID
	}

	if s.LLMService == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"error":   "LLM service is not configured",
			"details": "set WANDERCHAT_LLM_API_KEY (or GROQ_API_KEY) and restart the server",
		})
	}

	if err := s.chatSemaphore.Acquire(ctx, 1); err != nil {
		return errorResponse(c, http.StatusServiceUnavailable, "request cancelled while waiting for a free slot")
	}
	s.Metrics.IncActiveChats()
	model := s.LLMService.Model()
	start := time.Now()

	content, stats, err := s.LLMService.Chat(ctx, s.Prompt.Messages(query))

	s.chatSemaphore.Release(1)
	s.Metrics.DecActiveChats()
	s.Metrics.RecordChatRequest(model, time.Since(start), err == nil)

	if err != nil {
		logger.Error("LLM chat failed", "session_id", sessionID, "model", model, "error", err)
		return errorResponse(c, http.StatusInternalServerError, "failed to get a response from the language model")
	}
	if stats != nil {
		s.Metrics.RecordLLMTokens(model, "prompt", stats.PromptTokens)
		s.Metrics.RecordLLMTokens(model, "completion", stats.CompletionTokens)
		s.Metrics.RecordLLMTokens(model, "cache_read", stats.CacheReadTokens)
		s.Metrics.RecordLLMLatency(model, s.LLMService.Provider(), time.Duration(stats.TotalDurationMs)*time.Millisecond)
	}

	createdAt := time.Now()
	interaction, err := s.Store.CreateInteraction(ctx, &store.Interaction{
		SessionID:   sessionID,
		UserQuery:   query,
		LLMResponse: content,
		Model:       model,
	})
	if err != nil {
		s.Metrics.RecordStoreError("create")
		logger.Warn("Failed to save interaction", "session_id", sessionID, "error", err)
	} else {
		createdAt = time.Unix(interaction.CreatedTs, 0)
	}

	s.Metrics.RecordFormatted("chat", 1)
	return c.JSON(http.StatusOK, chatResponse{
		Response:     content,
		ResponseHTML: s.renderer.Format(content),
		SessionID:    sessionID,
		ModelUsed:    model,
		CreatedAt:    createdAt.UTC().Format(time.RFC3339),
	})
}
