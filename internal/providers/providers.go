package providers

import (
	"context"
	"errors"
)

// Task states reported by the primary provider. Anything other than
// success or failed is treated as still pending.
const (
	TaskStateSuccess = "success"
	TaskStateFailed  = "failed"
)

// ErrNoTaskID marks a create response that succeeded at the HTTP level
// but carried no usable task identifier.
var ErrNoTaskID = errors.New("provider response contained no task id")

// ErrNotConfigured is returned by providers whose credentials are absent.
var ErrNotConfigured = errors.New("provider is not configured")

// GenerationParams are the fixed parameters sent with every create call.
type GenerationParams struct {
	Model             string
	DurationSeconds   int
	AspectRatio       string
	Resolution        string
	MovementAmplitude string
}

type PollResult struct {
	State    string
	AssetURL string
}

// Primary is the asynchronous create/poll provider at the head of the
// fallback chain.
type Primary interface {
	CreateTask(ctx context.Context, prompt string, params GenerationParams) (string, error)
	PollTask(ctx context.Context, taskID string) (*PollResult, error)
	Credits(ctx context.Context) (int, error)
}

// Secondary is the synchronous inference fallback. Infer returns either
// a local file path or a remote URL for the produced asset.
type Secondary interface {
	Infer(ctx context.Context, prompt string) (string, error)
}
