package repository

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/nikhilmalhotra7/ai-video-bot/internal/models"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/videojobs"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/kvstore"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/utils"
	"github.com/pkg/errors"
)

const (
	jobKeyPrefix     = "job:"
	userJobKeyPrefix = "user_job:"
)

// jobsRepo keeps each job under job:<id> and mirrors it under
// user_job:<identity>:<id> so per-user history is a prefix scan. Both
// copies carry the same TTL and expire together.
type jobsRepo struct {
	store kvstore.Store
	ttl   time.Duration
	now   func() time.Time
}

func NewJobsRepository(store kvstore.Store, ttl time.Duration) videojobs.Repository {
	return &jobsRepo{store: store, ttl: ttl, now: time.Now}
}

func jobKey(jobID string) string { return jobKeyPrefix + jobID }

func userJobKey(identity, jobID string) string {
	return userJobKeyPrefix + identity + ":" + jobID
}

func (r *jobsRepo) save(ctx context.Context, job *models.Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return errors.Wrap(err, "jobsRepo.save.Marshal")
	}
	if err := r.store.Put(ctx, jobKey(job.JobID), payload, r.ttl); err != nil {
		return errors.Wrap(err, "jobsRepo.save.Put")
	}
	if job.Identity != "" {
		if err := r.store.Put(ctx, userJobKey(job.Identity, job.JobID), payload, r.ttl); err != nil {
			return errors.Wrap(err, "jobsRepo.save.PutUserIndex")
		}
	}
	return nil
}

func (r *jobsRepo) CreateJob(ctx context.Context, job *models.Job) error {
	return r.save(ctx, job)
}

func (r *jobsRepo) GetJob(ctx context.Context, jobID string) (*models.Job, error) {
	payload, err := r.store.Get(ctx, jobKey(jobID))
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return nil, videojobs.ErrJobNotFound
		}
		return nil, errors.Wrap(err, "jobsRepo.GetJob.Get")
	}
	job := &models.Job{}
	if err := json.Unmarshal(payload, job); err != nil {
		return nil, errors.Wrap(err, "jobsRepo.GetJob.Unmarshal")
	}
	return job, nil
}

// UpdateJob merges a partial update into the stored record. Merge rules
// live on the model: terminal jobs are immutable and progress never
// decreases.
func (r *jobsRepo) UpdateJob(ctx context.Context, jobID string, update *models.JobUpdate) (*models.Job, error) {
	job, err := r.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	job.Apply(update, r.now())
	if err := r.save(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (r *jobsRepo) ListJobsByIdentity(ctx context.Context, identity string, pq *utils.Pagination) (*models.JobList, error) {
	keys, err := r.store.Scan(ctx, userJobKeyPrefix+identity+":")
	if err != nil {
		return nil, errors.Wrap(err, "jobsRepo.ListJobsByIdentity.Scan")
	}

	jobs := make([]*models.Job, 0, len(keys))
	for _, key := range keys {
		payload, err := r.store.Get(ctx, key)
		if err != nil {
			// The key can expire between the scan and the read.
			if errors.Is(err, kvstore.ErrNotFound) {
				continue
			}
			return nil, errors.Wrap(err, "jobsRepo.ListJobsByIdentity.Get")
		}
		job := &models.Job{}
		if err := json.Unmarshal(payload, job); err != nil {
			continue
		}
		jobs = append(jobs, job)
	}

	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})

	total := len(jobs)
	offset := pq.GetOffset()
	if offset > total {
		offset = total
	}
	end := offset + pq.GetLimit()
	if end > total {
		end = total
	}

	return &models.JobList{
		TotalCount: total,
		TotalPages: utils.GetTotalPages(total, pq.GetLimit()),
		Page:       pq.Page,
		Size:       pq.Size,
		HasMore:    end < total,
		Jobs:       jobs[offset:end],
	}, nil
}
