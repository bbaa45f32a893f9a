package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nikhilmalhotra7/ai-video-bot/internal/chat"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/models"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/kvstore"
	"github.com/pkg/errors"
)

const (
	stateKeyPrefix   = "user_state:"
	contextKeyPrefix = "context:"
	welcomeKeyPrefix = "user_welcomed:"

	// Oldest entries are dropped once the history grows past this.
	maxContextEntries = 20
)

type chatRepo struct {
	store      kvstore.Store
	stateTTL   time.Duration
	contextTTL time.Duration
	welcomeTTL time.Duration
}

func NewChatRepository(store kvstore.Store, stateTTL, contextTTL, welcomeTTL time.Duration) chat.Repository {
	return &chatRepo{
		store:      store,
		stateTTL:   stateTTL,
		contextTTL: contextTTL,
		welcomeTTL: welcomeTTL,
	}
}

// GetState returns (nil, nil) for an idle identity. The state TTL makes
// abandoned dialogues time out on their own.
func (r *chatRepo) GetState(ctx context.Context, identity string) (*models.UserState, error) {
	payload, err := r.store.Get(ctx, stateKeyPrefix+identity)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "chatRepo.GetState")
	}
	state := &models.UserState{}
	if err := json.Unmarshal(payload, state); err != nil {
		return nil, errors.Wrap(err, "chatRepo.GetState.Unmarshal")
	}
	return state, nil
}

func (r *chatRepo) SetState(ctx context.Context, identity string, state *models.UserState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return errors.Wrap(err, "chatRepo.SetState.Marshal")
	}
	return r.store.Put(ctx, stateKeyPrefix+identity, payload, r.stateTTL)
}

func (r *chatRepo) ClearState(ctx context.Context, identity string) error {
	return r.store.Delete(ctx, stateKeyPrefix+identity)
}

func (r *chatRepo) AppendContext(ctx context.Context, identity string, entry *models.ContextEntry) error {
	entries, err := r.GetContext(ctx, identity)
	if err != nil {
		return err
	}
	entries = append(entries, *entry)
	if len(entries) > maxContextEntries {
		entries = entries[len(entries)-maxContextEntries:]
	}
	payload, err := json.Marshal(entries)
	if err != nil {
		return errors.Wrap(err, "chatRepo.AppendContext.Marshal")
	}
	return r.store.Put(ctx, contextKeyPrefix+identity, payload, r.contextTTL)
}

func (r *chatRepo) GetContext(ctx context.Context, identity string) ([]models.ContextEntry, error) {
	payload, err := r.store.Get(ctx, contextKeyPrefix+identity)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "chatRepo.GetContext")
	}
	var entries []models.ContextEntry
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, errors.Wrap(err, "chatRepo.GetContext.Unmarshal")
	}
	return entries, nil
}

func (r *chatRepo) ClearContext(ctx context.Context, identity string) error {
	return r.store.Delete(ctx, contextKeyPrefix+identity)
}

func (r *chatRepo) Welcomed(ctx context.Context, identity string) (bool, error) {
	_, err := r.store.Get(ctx, welcomeKeyPrefix+identity)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return false, nil
		}
		return false, errors.Wrap(err, "chatRepo.Welcomed")
	}
	return true, nil
}

func (r *chatRepo) MarkWelcomed(ctx context.Context, identity string) error {
	return r.store.Put(ctx, welcomeKeyPrefix+identity, []byte("1"), r.welcomeTTL)
}
