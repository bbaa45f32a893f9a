// Package gateway abstracts the outbound messaging channel. Delivery is
// best effort everywhere: a failed send never fails the job that
// triggered it.
package gateway

import (
	"context"

	"github.com/nikhilmalhotra7/ai-video-bot/pkg/logger"
)

// Gateway delivers a message, optionally with attached media, to one
// identity. The Unavailable variant is wired when credentials are
// absent; callers treat it as a silent no-op rather than branching on
// nil clients.
type Gateway interface {
	Send(ctx context.Context, to, body, mediaURL string) error
	Configured() bool
}

type unavailable struct {
	logger logger.Logger
}

func NewUnavailable(log logger.Logger) Gateway {
	return &unavailable{logger: log}
}

func (u *unavailable) Send(_ context.Context, to, _ string, _ string) error {
	u.logger.Debugf("gateway unavailable, dropping message to %s", to)
	return nil
}

func (u *unavailable) Configured() bool { return false }
