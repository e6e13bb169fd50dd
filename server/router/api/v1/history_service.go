package v1

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/wanderchat/internal/logging"
	"github.com/hrygo/wanderchat/plugin/markup"
	"github.com/hrygo/wanderchat/store"
)

type historyItem struct {
	SessionID       string `json:"session_id"`
	UserQuery       string `json:"user_query"`
	UserQueryHTML   string `json:"user_query_html"`
	LLMResponse     string `json:"llm_response"`
	LLMResponseHTML string `json:"llm_response_html"`
	CreatedAt       string `json:"created_at"`
}

func sessionParam(c echo.Context) string {
	if v := strings.TrimSpace(c.QueryParam("session_id")); v != "" {
		return v
	}
	return DefaultSessionID
}

func (s *APIV1Service) historyLimit(raw string) (int, bool) {
	if raw == "" {
		if s.Profile != nil && s.Profile.HistoryLimit > 0 {
			return min(s.Profile.HistoryLimit, maxHistoryLimit), true
		}
		return defaultHistoryLimit, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, false
	}
	return min(limit, maxHistoryLimit), true
}

// ListHistory returns the most recent exchanges of a session, oldest first.
func (s *APIV1Service) ListHistory(c echo.Context) error {
	ctx := c.Request().Context()

	limit, ok := s.historyLimit(c.QueryParam("limit"))
	if !ok {
		return errorResponse(c, http.StatusBadRequest, "limit must be a positive integer")
	}
	sessionID := sessionParam(c)

	list, err := s.Store.ListInteractions(ctx, &store.FindInteraction{
		SessionID: &sessionID,
		Limit:     &limit,
	})
	s.Metrics.RecordHistoryRequest("list", err == nil)
	if err != nil {
		logging.FromContext(ctx).Error("Failed to list interactions", "session_id", sessionID, "error", err)
		return errorResponse(c, http.StatusInternalServerError, "failed to load history")
	}

	items := make([]historyItem, 0, len(list))
	for _, i := range list {
		items = append(items, historyItem{
			SessionID:       i.SessionID,
			UserQuery:       i.UserQuery,
			UserQueryHTML:   markup.EscapeText(i.UserQuery),
			LLMResponse:     i.LLMResponse,
			LLMResponseHTML: s.renderer.Format(i.LLMResponse),
			CreatedAt:       time.Unix(i.CreatedTs, 0).UTC().Format(time.RFC3339),
		})
	}
	s.Metrics.RecordFormatted("history", len(items))

	return c.JSON(http.StatusOK, map[string]any{"history": items})
}

// DeleteHistory removes every exchange of a session.
func (s *APIV1Service) DeleteHistory(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := strings.TrimSpace(c.QueryParam("session_id"))
	if sessionID == "" {
		return errorResponse(c, http.StatusBadRequest, "session_id is required")
	}

	deleted, err := s.Store.DeleteInteractions(ctx, &store.DeleteInteraction{SessionID: sessionID})
	s.Metrics.RecordHistoryRequest("delete", err == nil)
	if err != nil {
		logging.FromContext(ctx).Error("Failed to delete interactions", "session_id", sessionID, "error", err)
		return errorResponse(c, http.StatusInternalServerError, "failed to delete history")
	}

	logging.FromContext(ctx).Info("History deleted", "session_id", sessionID, "deleted", deleted)
	return c.JSON(http.StatusOK, map[string]int64{"deleted": deleted})
}
