package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	chatHttp "github.com/nikhilmalhotra7/ai-video-bot/internal/chat/delivery/http"
	chatRepository "github.com/nikhilmalhotra7/ai-video-bot/internal/chat/repository"
	chatUseCase "github.com/nikhilmalhotra7/ai-video-bot/internal/chat/usecase"
	apiMiddlewares "github.com/nikhilmalhotra7/ai-video-bot/internal/middleware"
	jobsHttp "github.com/nikhilmalhotra7/ai-video-bot/internal/videojobs/delivery/http"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/videojobs/orchestrator"
	jobsRepository "github.com/nikhilmalhotra7/ai-video-bot/internal/videojobs/repository"
	jobsUseCase "github.com/nikhilmalhotra7/ai-video-bot/internal/videojobs/usecase"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/metrics"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/ratelimit"
)

// MapHandlers wires repositories, use cases and routes onto the echo
// instance.
func (s *Server) MapHandlers(e *echo.Echo) error {
	jobsRepo := jobsRepository.NewJobsRepository(s.store, s.cfg.JobTTL())
	chatRepo := chatRepository.NewChatRepository(s.store, s.cfg.StateTTL(), s.cfg.JobTTL(), s.cfg.WelcomeTTL())

	orch := orchestrator.New(s.cfg, jobsRepo, s.primary, s.secondary, s.gateway, s.archive, s.logger)
	jobsUC := jobsUseCase.NewJobsUseCase(s.cfg, jobsRepo, orch, s.logger)

	limiter := ratelimit.NewLimiter(s.store, s.cfg.RateWindow(), s.cfg.RateMax())
	chatUC := chatUseCase.NewChatUseCase(s.cfg, chatRepo, jobsUC, s.primary, s.gateway, limiter, s.logger)

	jobsHandlers := jobsHttp.NewJobsHandlers(s.cfg, jobsUC, s.logger)
	chatHandlers := chatHttp.NewChatHandlers(s.cfg, chatUC, s.logger)

	mw := apiMiddlewares.NewMiddlewareManager(s.cfg, limiter, s.logger)

	e.Use(mw.RequestLoggerMiddleware)
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
	e.Use(echoMiddleware.RequestID())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.Secure())
	e.Use(echoMiddleware.BodyLimit("2M"))

	v1 := e.Group("/api/v1")
	jobsGroup := v1.Group("/jobs")
	webhookGroup := e.Group("/webhook")

	jobsHttp.MapJobsRoutes(jobsGroup, jobsHandlers, mw)
	chatHttp.MapChatRoutes(webhookGroup, chatHandlers)

	e.GET("/metrics", metrics.Handler())
	v1.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "OK",
			"version": s.cfg.Server.AppVersion,
		})
	})

	return nil
}
