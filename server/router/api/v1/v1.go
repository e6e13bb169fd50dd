package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/semaphore"

	"github.com/hrygo/wanderchat/ai"
	"github.com/hrygo/wanderchat/ai/cache"
	"github.com/hrygo/wanderchat/ai/core/llm"
	"github.com/hrygo/wanderchat/ai/metrics"
	"github.com/hrygo/wanderchat/internal/profile"
	"github.com/hrygo/wanderchat/plugin/markup"
	"github.com/hrygo/wanderchat/store"
)

const (
	// DefaultSessionID is used when a request carries no session_id.
	DefaultSessionID = "default_session"

	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
	defaultMaxChats     = 4

	renderCacheSize = 1024
	renderCacheTTL  = 30 * time.Minute
)

type APIV1Service struct {
	Profile    *profile.Profile
	Store      *store.Store
	LLMService llm.Service // nil when no provider is configured
	Prompt     *ai.ChatPromptConfig
	Metrics    *metrics.PrometheusExporter

	chatSemaphore *semaphore.Weighted
	renderer      *markup.CachedFormatter
}

func NewAPIV1Service(profile *profile.Profile, store *store.Store, llmService llm.Service, prompt *ai.ChatPromptConfig, exporter *metrics.PrometheusExporter) *APIV1Service {
	if prompt == nil {
		prompt = ai.DefaultChatPromptConfig()
	}
	if exporter == nil {
		exporter = metrics.NewPrometheusExporter(metrics.DefaultConfig())
	}
	maxChats := profile.MaxConcurrentChats
	if maxChats <= 0 {
		maxChats = defaultMaxChats
	}

	return &APIV1Service{
		Profile:       profile,
		Store:         store,
		LLMService:    llmService,
		Prompt:        prompt,
		Metrics:       exporter,
		chatSemaphore: semaphore.NewWeighted(int64(maxChats)),
		renderer:      markup.NewCached(nil, cache.NewLRUCache[string, string](renderCacheSize, renderCacheTTL)),
	}
}

// RegisterRoutes registers the chat, history, format and health endpoints.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	e.POST("/chat", s.Chat)
	e.GET("/history", s.ListHistory)
	e.DELETE("/history", s.DeleteHistory)
	e.POST("/api/v1/format", s.Format)
	e.GET("/healthz", s.Health)
}

// Health reports whether the LLM is configured and the database answers.
func (s *APIV1Service) Health(c echo.Context) error {
	llmStatus := "disabled"
	if s.LLMService != nil {
		llmStatus = "configured"
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := s.Store.Ping(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":   "degraded",
			"llm":      llmStatus,
			"database": "unavailable",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status":   "ok",
		"llm":      llmStatus,
		"database": "ok",
	})
}

func errorResponse(c echo.Context, code int, message string) error {
	return c.JSON(code, map[string]string{"error": message})
}
