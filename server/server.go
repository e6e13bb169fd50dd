package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/hrygo/wanderchat/ai"
	"github.com/hrygo/wanderchat/ai/core/llm"
	"github.com/hrygo/wanderchat/ai/metrics"
	"github.com/hrygo/wanderchat/internal/logging"
	"github.com/hrygo/wanderchat/internal/profile"
	apiv1 "github.com/hrygo/wanderchat/server/router/api/v1"
	"github.com/hrygo/wanderchat/server/router/frontend"
	"github.com/hrygo/wanderchat/store"
)

type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	llmService llm.Service
}

func NewServer(ctx context.Context, profile *profile.Profile, store *store.Store) (*Server, error) {
	s := &Server{
		Store:   store,
		Profile: profile,
	}

	echoServer := echo.New()
	echoServer.Debug = profile.IsDev()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.Use(middleware.Recover())
	echoServer.Use(requestIDMiddleware())
	echoServer.Use(requestLoggerMiddleware())
	if profile.RateLimit > 0 {
		echoServer.Use(rateLimiterMiddleware(profile.RateLimit))
	}
	s.echoServer = echoServer

	prompt := ai.GetChatPromptConfig(profile.PromptDir)
	llmService, err := ai.NewLLMService(profile, prompt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create llm service")
	}
	if llmService == nil {
		slog.Warn("LLM service not configured, /chat will answer 503",
			"provider", profile.LLMProvider,
		)
	} else {
		slog.Info("LLM service initialized",
			"provider", llmService.Provider(),
			"model", llmService.Model(),
		)
		s.llmService = llmService
	}

	exporter := metrics.NewPrometheusExporter(metrics.DefaultConfig())
	echoServer.GET("/metrics", echo.WrapHandler(exporter.Handler()))

	apiV1Service := apiv1.NewAPIV1Service(profile, store, s.llmService, prompt, exporter)
	apiV1Service.RegisterRoutes(echoServer)

	frontend.NewFrontendService().Serve(ctx, echoServer)

	return s, nil
}

func (s *Server) Start(ctx context.Context) error {
	var address, network string
	if len(s.Profile.UNIXSock) == 0 {
		address = fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
		network = "tcp"
	} else {
		address = s.Profile.UNIXSock
		network = "unix"
	}
	listener, err := net.Listen(network, address)
	if err != nil {
		return errors.Wrap(err, "failed to listen")
	}
	s.echoServer.Listener = listener

	// Warmup LLM connection asynchronously to reduce first-request latency.
	if s.llmService != nil {
		go func() {
			warmupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			s.llmService.Warmup(warmupCtx)
		}()
	}

	go func() {
		if err := s.echoServer.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start echo server", "error", err)
		}
	}()
	return nil
}

func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	slog.Info("server shutting down")

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close database", "error", err)
	}

	slog.Info("server stopped properly")
}

// GetEcho returns the echo server instance.
func (s *Server) GetEcho() *echo.Echo {
	return s.echoServer
}

// requestIDMiddleware tags each request with a uuid and a logger carrying it.
func requestIDMiddleware() echo.MiddlewareFunc {
	return middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, requestID string) {
			req := c.Request()
			logger := slog.Default().With("request_id", requestID)
			c.SetRequest(req.WithContext(logging.ToContext(req.Context(), logger)))
		},
	})
}

func requestLoggerMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/healthz" || c.Request().URL.Path == "/metrics"
		},
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger := logging.FromContext(c.Request().Context())
			if v.Error != nil {
				logger.Warn("request failed",
					"method", v.Method, "uri", v.URI, "status", v.Status,
					"latency_ms", v.Latency.Milliseconds(), "error", v.Error)
				return nil
			}
			logger.Debug("request",
				"method", v.Method, "uri", v.URI, "status", v.Status,
				"latency_ms", v.Latency.Milliseconds())
			return nil
		},
	})
}

// rateLimiterMiddleware limits each client IP to perSecond requests, with a burst of twice that.
func rateLimiterMiddleware(perSecond float64) echo.MiddlewareFunc {
	burst := max(int(perSecond*2), 1)
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/healthz" || c.Request().URL.Path == "/metrics"
		},
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(perSecond),
			Burst:     burst,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "unable to identify client"})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
		},
	})
}
