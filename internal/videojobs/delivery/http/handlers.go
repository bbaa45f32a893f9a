package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/config"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/models"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/videojobs"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/logger"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/utils"
	"github.com/pkg/errors"
)

type jobsHandlers struct {
	cfg    *config.Config
	jobsUC videojobs.UseCase
	logger logger.Logger
}

func NewJobsHandlers(cfg *config.Config, jobsUC videojobs.UseCase, log logger.Logger) videojobs.Handlers {
	return &jobsHandlers{cfg: cfg, jobsUC: jobsUC, logger: log}
}

type createJobRequest struct {
	Prompt   string `json:"prompt" validate:"required"`
	Identity string `json:"identity"`
}

type statusResponse struct {
	*models.Job
	Stale bool `json:"stale"`
}

// CreateJob admits a prompt and returns the initial job record. The
// pipeline keeps running after the response; poll GetStatus for
// progress.
func (h *jobsHandlers) CreateJob() echo.HandlerFunc {
	return func(c echo.Context) error {
		req := &createJobRequest{}
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		}
		if err := utils.ValidateStruct(c.Request().Context(), req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "prompt is required"})
		}

		job, err := h.jobsUC.CreateJob(c.Request().Context(), req.Prompt, req.Identity, "http")
		if err != nil {
			var admission *videojobs.AdmissionError
			if errors.As(err, &admission) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": admission.Reason})
			}
			h.logger.Errorf("CreateJob: %v, RequestID: %s", err, utils.GetRequestID(c))
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create job"})
		}
		return c.JSON(http.StatusAccepted, job)
	}
}

func (h *jobsHandlers) GetStatus() echo.HandlerFunc {
	return func(c echo.Context) error {
		status, err := h.jobsUC.GetStatus(c.Request().Context(), c.Param("job_id"))
		if err != nil {
			if errors.Is(err, videojobs.ErrJobNotFound) {
				return c.JSON(http.StatusNotFound, map[string]string{"error": "job not found"})
			}
			h.logger.Errorf("GetStatus: %v, RequestID: %s", err, utils.GetRequestID(c))
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to read job"})
		}
		return c.JSON(http.StatusOK, statusResponse{Job: status.Job, Stale: status.Stale})
	}
}

func (h *jobsHandlers) Download() echo.HandlerFunc {
	return func(c echo.Context) error {
		jobID := c.Param("job_id")
		path, err := h.jobsUC.VideoFile(c.Request().Context(), jobID)
		if err != nil {
			if errors.Is(err, videojobs.ErrJobNotFound) {
				return c.JSON(http.StatusNotFound, map[string]string{"error": "job not found"})
			}
			if errors.Is(err, videojobs.ErrVideoNotReady) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "video not available"})
			}
			h.logger.Errorf("Download: %v, RequestID: %s", err, utils.GetRequestID(c))
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to read video"})
		}
		return c.Attachment(path, jobID+".mp4")
	}
}

func (h *jobsHandlers) ListJobs() echo.HandlerFunc {
	return func(c echo.Context) error {
		identity := c.QueryParam("identity")
		if identity == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "identity is required"})
		}
		pq, err := utils.GetPaginationFromCtx(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}

		list, err := h.jobsUC.ListJobs(c.Request().Context(), identity, pq)
		if err != nil {
			h.logger.Errorf("ListJobs: %v, RequestID: %s", err, utils.GetRequestID(c))
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list jobs"})
		}
		return c.JSON(http.StatusOK, list)
	}
}
