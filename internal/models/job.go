package models

import "time"

type JobStatus string

const (
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusError      JobStatus = "error"
)

// Job is one video-generation request and its lifecycle record. Only the
// orchestrator writes a job after creation, via partial merge updates.
type Job struct {
	JobID       string    `json:"job_id" redis:"job_id"`
	Status      JobStatus `json:"status" redis:"status"`
	Progress    int       `json:"progress" redis:"progress"`
	Message     string    `json:"message" redis:"message"`
	Prompt      string    `json:"prompt" redis:"prompt"`
	VideoURL    *string   `json:"video_url,omitempty" redis:"video_url"`
	VideoPath   *string   `json:"video_path,omitempty" redis:"video_path"`
	Identity    string    `json:"identity,omitempty" redis:"identity"`
	Placeholder bool      `json:"placeholder,omitempty" redis:"placeholder"`
	CreatedAt   time.Time `json:"created_at" redis:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" redis:"updated_at"`
}

// JobUpdate is a typed partial update; nil fields are left untouched.
type JobUpdate struct {
	Status      *JobStatus
	Progress    *int
	Message     *string
	VideoURL    *string
	VideoPath   *string
	Placeholder *bool
}

func (j *Job) Terminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusError
}

// Apply merges an update into the job. Terminal jobs never transition
// again and progress never decreases.
func (j *Job) Apply(update *JobUpdate, now time.Time) {
	if j.Terminal() {
		return
	}
	if update.Status != nil {
		j.Status = *update.Status
	}
	if update.Progress != nil && *update.Progress > j.Progress {
		j.Progress = *update.Progress
	}
	if update.Message != nil {
		j.Message = *update.Message
	}
	if update.VideoURL != nil {
		j.VideoURL = update.VideoURL
	}
	if update.VideoPath != nil {
		j.VideoPath = update.VideoPath
	}
	if update.Placeholder != nil {
		j.Placeholder = *update.Placeholder
	}
	j.UpdatedAt = now
}

// Stale reports whether a still-processing record has outlived the
// longest possible pipeline run. Such jobs were abandoned by a process
// restart; the status is derived, never stored.
func (j *Job) Stale(now time.Time, maxPipeline time.Duration) bool {
	if j.Status != JobStatusProcessing {
		return false
	}
	return now.Sub(j.CreatedAt) > maxPipeline
}

// JobList is one page of a user's job history, newest first.
type JobList struct {
	TotalCount int    `json:"total_count"`
	TotalPages int    `json:"total_pages"`
	Page       int    `json:"page"`
	Size       int    `json:"size"`
	HasMore    bool   `json:"has_more"`
	Jobs       []*Job `json:"jobs"`
}

func StatusPtr(s JobStatus) *JobStatus { return &s }
func IntPtr(i int) *int                { return &i }
func StringPtr(s string) *string       { return &s }
func BoolPtr(b bool) *bool             { return &b }
