package videojobs

import (
	"context"
	"errors"
	"time"

	"github.com/nikhilmalhotra7/ai-video-bot/internal/config"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/models"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/utils"
)

// ErrVideoNotReady is returned when a download is requested before the
// job completed, or after its file was swept.
var ErrVideoNotReady = errors.New("video not ready")

// AdmissionError rejects a request before it enters the pipeline. Reason
// is safe to show to the end user.
type AdmissionError struct {
	Reason string
}

func (e *AdmissionError) Error() string { return e.Reason }

// Status is a job record plus its derived staleness flag.
type Status struct {
	Job   *models.Job
	Stale bool
}

// UseCase admits, tracks and serves video-generation jobs.
type UseCase interface {
	CreateJob(ctx context.Context, prompt, identity, source string) (*models.Job, error)
	GetStatus(ctx context.Context, jobID string) (*Status, error)
	VideoFile(ctx context.Context, jobID string) (string, error)
	ListJobs(ctx context.Context, identity string, pq *utils.Pagination) (*models.JobList, error)
}

// Orchestrator runs the generation pipeline for an admitted job in the
// background.
type Orchestrator interface {
	Launch(job *models.Job)
}

// MaxPipelineDuration is the longest a healthy pipeline run can take:
// the full primary polling budget plus a margin for the fallback chain
// and post-processing. Processing jobs older than this were abandoned
// by a restart.
func MaxPipelineDuration(cfg *config.Config) time.Duration {
	return time.Duration(cfg.PollAttempts())*cfg.PollInterval() + 5*time.Minute
}
