// Package middleware holds the echo middleware shared across handlers.
package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/config"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/logger"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/metrics"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/ratelimit"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/utils"
)

type MiddlewareManager struct {
	cfg     *config.Config
	limiter *ratelimit.Limiter
	logger  logger.Logger
}

func NewMiddlewareManager(cfg *config.Config, limiter *ratelimit.Limiter, log logger.Logger) *MiddlewareManager {
	return &MiddlewareManager{cfg: cfg, limiter: limiter, logger: log}
}

func (mw *MiddlewareManager) RequestLoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		start := time.Now()
		err := next(ctx)
		req := ctx.Request()
		res := ctx.Response()
		mw.logger.Infof("RequestID: %s, Method: %s, URI: %s, Status: %v, Size: %v, Time: %s",
			utils.GetRequestID(ctx), req.Method, req.URL, res.Status, res.Size, time.Since(start))
		return err
	}
}

// CreateJobRateLimit applies the shared sliding-window limiter to
// anonymous HTTP submissions, keyed by client IP. Chat submissions are
// limited per identity inside the chat use case instead.
func (mw *MiddlewareManager) CreateJobRateLimit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if mw.limiter.Limited(c.Request().Context(), "ip:"+utils.GetIPAddress(c)) {
				metrics.AdmissionRejected.WithLabelValues("rate_limited").Inc()
				return c.JSON(http.StatusTooManyRequests, map[string]string{"error": mw.limiter.Message()})
			}
			return next(c)
		}
	}
}
