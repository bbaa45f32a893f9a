// Package archive offers optional long-term storage for finished
// videos. Local disk remains the source of truth for downloads; the
// archive is a best-effort copy that never blocks job completion.
package archive

import (
	"context"

	"github.com/nikhilmalhotra7/ai-video-bot/pkg/logger"
)

type Archive interface {
	Upload(ctx context.Context, localPath, key string) error
	Configured() bool
}

type unavailable struct {
	logger logger.Logger
}

func NewUnavailable(log logger.Logger) Archive {
	return &unavailable{logger: log}
}

func (u *unavailable) Upload(_ context.Context, _, key string) error {
	u.logger.Debugf("archive unavailable, skipping upload of %s", key)
	return nil
}

func (u *unavailable) Configured() bool { return false }
