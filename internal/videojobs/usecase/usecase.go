package usecase

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/config"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/models"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/videojobs"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/filter"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/logger"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/metrics"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/utils"
	"github.com/pkg/errors"
)

type jobsUC struct {
	cfg          *config.Config
	repo         videojobs.Repository
	orchestrator videojobs.Orchestrator
	logger       logger.Logger
}

func NewJobsUseCase(cfg *config.Config, repo videojobs.Repository, orch videojobs.Orchestrator, log logger.Logger) videojobs.UseCase {
	return &jobsUC{cfg: cfg, repo: repo, orchestrator: orch, logger: log}
}

// CreateJob admits a prompt, persists the initial record and hands the
// job to the background pipeline. The returned job is already visible
// through GetStatus.
func (u *jobsUC) CreateJob(ctx context.Context, prompt, identity, source string) (*models.Job, error) {
	prompt = strings.TrimSpace(prompt)
	if ok, reason := filter.Validate(prompt); !ok {
		metrics.AdmissionRejected.WithLabelValues("content_blocked").Inc()
		return nil, &videojobs.AdmissionError{Reason: reason}
	}

	now := time.Now().UTC()
	job := &models.Job{
		JobID:     uuid.New().String(),
		Status:    models.JobStatusProcessing,
		Progress:  0,
		Message:   "Job queued",
		Prompt:    prompt,
		Identity:  utils.NormalizeIdentity(identity),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.repo.CreateJob(ctx, job); err != nil {
		return nil, errors.Wrap(err, "jobsUC.CreateJob")
	}

	metrics.JobsSubmitted.WithLabelValues(source).Inc()
	u.logger.Infof("job %s admitted from %s", job.JobID, source)
	u.orchestrator.Launch(job)
	return job, nil
}

func (u *jobsUC) GetStatus(ctx context.Context, jobID string) (*videojobs.Status, error) {
	job, err := u.repo.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return &videojobs.Status{
		Job:   job,
		Stale: job.Stale(time.Now().UTC(), videojobs.MaxPipelineDuration(u.cfg)),
	}, nil
}

// VideoFile resolves the local file for a completed job.
func (u *jobsUC) VideoFile(ctx context.Context, jobID string) (string, error) {
	job, err := u.repo.GetJob(ctx, jobID)
	if err != nil {
		return "", err
	}
	if job.Status != models.JobStatusCompleted || job.VideoPath == nil {
		return "", videojobs.ErrVideoNotReady
	}
	if _, err := os.Stat(*job.VideoPath); err != nil {
		return "", videojobs.ErrVideoNotReady
	}
	return *job.VideoPath, nil
}

func (u *jobsUC) ListJobs(ctx context.Context, identity string, pq *utils.Pagination) (*models.JobList, error) {
	return u.repo.ListJobsByIdentity(ctx, utils.NormalizeIdentity(identity), pq)
}
