package chat

import (
	"context"

	"github.com/nikhilmalhotra7/ai-video-bot/internal/models"
)

// Repository persists per-identity conversation data: the pending
// dialogue state, a bounded message history and the welcome marker.
// GetState returns (nil, nil) for an idle identity.
type Repository interface {
	GetState(ctx context.Context, identity string) (*models.UserState, error)
	SetState(ctx context.Context, identity string, state *models.UserState) error
	ClearState(ctx context.Context, identity string) error

	AppendContext(ctx context.Context, identity string, entry *models.ContextEntry) error
	GetContext(ctx context.Context, identity string) ([]models.ContextEntry, error)
	ClearContext(ctx context.Context, identity string) error

	Welcomed(ctx context.Context, identity string) (bool, error)
	MarkWelcomed(ctx context.Context, identity string) error
}
