package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/nikhilmalhotra7/ai-video-bot/internal/chat"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/models"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/kvstore"
	"github.com/stretchr/testify/require"
)

func newTestRepo() chat.Repository {
	return NewChatRepository(kvstore.NewMemoryStore(), 5*time.Minute, time.Hour, 7*24*time.Hour)
}

func TestState_RoundTrip(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()

	got, err := repo.GetState(ctx, "14155550100")
	require.NoError(t, err)
	require.Nil(t, got)

	state := &models.UserState{
		Stage: models.StageAwaitingEnhancementChoice,
		Data: models.StateData{
			OriginalPrompt: "a cat surfing",
			EnhancedPrompt: "a cat surfing, cinematic lighting",
		},
	}
	require.NoError(t, repo.SetState(ctx, "14155550100", state))

	got, err = repo.GetState(ctx, "14155550100")
	require.NoError(t, err)
	require.Equal(t, models.StageAwaitingEnhancementChoice, got.Stage)
	require.Equal(t, "a cat surfing", got.Data.OriginalPrompt)

	require.NoError(t, repo.ClearState(ctx, "14155550100"))
	got, err = repo.GetState(ctx, "14155550100")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestContext_AppendCapsHistory(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()

	for i := 0; i < maxContextEntries+5; i++ {
		require.NoError(t, repo.AppendContext(ctx, "14155550100", &models.ContextEntry{
			Kind:    "inbound",
			Message: fmt.Sprintf("message %d", i),
		}))
	}

	entries, err := repo.GetContext(ctx, "14155550100")
	require.NoError(t, err)
	require.Len(t, entries, maxContextEntries)
	require.Equal(t, "message 5", entries[0].Message)
	require.Equal(t, fmt.Sprintf("message %d", maxContextEntries+4), entries[len(entries)-1].Message)
}

func TestContext_Clear(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendContext(ctx, "14155550100", &models.ContextEntry{Kind: "inbound", Message: "hi"}))
	require.NoError(t, repo.ClearContext(ctx, "14155550100"))

	entries, err := repo.GetContext(ctx, "14155550100")
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestWelcomed(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()

	welcomed, err := repo.Welcomed(ctx, "14155550100")
	require.NoError(t, err)
	require.False(t, welcomed)

	require.NoError(t, repo.MarkWelcomed(ctx, "14155550100"))

	welcomed, err = repo.Welcomed(ctx, "14155550100")
	require.NoError(t, err)
	require.True(t, welcomed)
}
