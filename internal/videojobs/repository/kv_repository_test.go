package repository

import (
	"context"
	"testing"
	"time"

	"github.com/nikhilmalhotra7/ai-video-bot/internal/models"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/videojobs"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/kvstore"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/utils"
	"github.com/stretchr/testify/require"
)

func newTestRepo() videojobs.Repository {
	return NewJobsRepository(kvstore.NewMemoryStore(), time.Hour)
}

func makeJob(id, identity string, createdAt time.Time) *models.Job {
	return &models.Job{
		JobID:     id,
		Status:    models.JobStatusProcessing,
		Progress:  0,
		Message:   "Job queued",
		Prompt:    "a cat surfing",
		Identity:  identity,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestJobsRepo_CreateAndGet(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()

	job := makeJob("j1", "14155550100", time.Now().UTC())
	require.NoError(t, repo.CreateJob(ctx, job))

	got, err := repo.GetJob(ctx, "j1")
	require.NoError(t, err)
	require.Equal(t, "j1", got.JobID)
	require.Equal(t, models.JobStatusProcessing, got.Status)
	require.Equal(t, "a cat surfing", got.Prompt)
}

func TestJobsRepo_GetUnknown(t *testing.T) {
	repo := newTestRepo()

	_, err := repo.GetJob(context.Background(), "missing")
	require.ErrorIs(t, err, videojobs.ErrJobNotFound)
}

func TestJobsRepo_UpdateMerges(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()

	require.NoError(t, repo.CreateJob(ctx, makeJob("j1", "14155550100", time.Now().UTC())))

	updated, err := repo.UpdateJob(ctx, "j1", &models.JobUpdate{
		Progress: models.IntPtr(40),
		Message:  models.StringPtr("Your video is being generated..."),
	})
	require.NoError(t, err)
	require.Equal(t, 40, updated.Progress)
	require.Equal(t, "a cat surfing", updated.Prompt)

	// A late lower progress report must not rewind the bar.
	updated, err = repo.UpdateJob(ctx, "j1", &models.JobUpdate{Progress: models.IntPtr(20)})
	require.NoError(t, err)
	require.Equal(t, 40, updated.Progress)
}

func TestJobsRepo_TerminalJobImmutable(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()

	require.NoError(t, repo.CreateJob(ctx, makeJob("j1", "", time.Now().UTC())))

	_, err := repo.UpdateJob(ctx, "j1", &models.JobUpdate{
		Status:   models.StatusPtr(models.JobStatusCompleted),
		Progress: models.IntPtr(100),
	})
	require.NoError(t, err)

	after, err := repo.UpdateJob(ctx, "j1", &models.JobUpdate{
		Status:  models.StatusPtr(models.JobStatusError),
		Message: models.StringPtr("late failure"),
	})
	require.NoError(t, err)
	require.Equal(t, models.JobStatusCompleted, after.Status)
	require.NotEqual(t, "late failure", after.Message)
}

func TestJobsRepo_ListByIdentity(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()
	base := time.Now().UTC()

	for i, id := range []string{"j1", "j2", "j3"} {
		require.NoError(t, repo.CreateJob(ctx, makeJob(id, "14155550100", base.Add(time.Duration(i)*time.Minute))))
	}
	require.NoError(t, repo.CreateJob(ctx, makeJob("other", "14155550199", base)))

	pq := &utils.Pagination{}
	require.NoError(t, pq.SetSize("2"))
	require.NoError(t, pq.SetPage("1"))

	list, err := repo.ListJobsByIdentity(ctx, "14155550100", pq)
	require.NoError(t, err)
	require.Equal(t, 3, list.TotalCount)
	require.Equal(t, 2, list.TotalPages)
	require.True(t, list.HasMore)
	require.Len(t, list.Jobs, 2)
	require.Equal(t, "j3", list.Jobs[0].JobID)
	require.Equal(t, "j2", list.Jobs[1].JobID)
}
