package videojobs

import (
	"context"
	"errors"

	"github.com/nikhilmalhotra7/ai-video-bot/internal/models"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/utils"
)

// ErrJobNotFound is returned for unknown or expired job ids.
var ErrJobNotFound = errors.New("job not found")

// Repository persists job records with a bounded lifetime. Updates are
// partial merges so concurrent writers cannot wipe each other's fields.
type Repository interface {
	CreateJob(ctx context.Context, job *models.Job) error
	GetJob(ctx context.Context, jobID string) (*models.Job, error)
	UpdateJob(ctx context.Context, jobID string, update *models.JobUpdate) (*models.Job, error)
	ListJobsByIdentity(ctx context.Context, identity string, pq *utils.Pagination) (*models.JobList, error)
}
