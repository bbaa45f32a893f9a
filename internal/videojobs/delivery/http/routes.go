package http

import (
	"github.com/labstack/echo/v4"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/middleware"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/videojobs"
)

func MapJobsRoutes(jobsGroup *echo.Group, h videojobs.Handlers, mw *middleware.MiddlewareManager) {
	jobsGroup.POST("", h.CreateJob(), mw.CreateJobRateLimit())
	jobsGroup.GET("", h.ListJobs())
	jobsGroup.GET("/:job_id", h.GetStatus())
	jobsGroup.GET("/:job_id/download", h.Download())
}
