package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/chat"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/chat/gateway"
	chatrepo "github.com/nikhilmalhotra7/ai-video-bot/internal/chat/repository"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/config"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/models"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/providers"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/videojobs"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/kvstore"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/logger"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/ratelimit"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/utils"
	"github.com/stretchr/testify/require"
)

type fakeJobsUC struct {
	prompts []string
	jobs    []*models.Job
}

func (f *fakeJobsUC) CreateJob(_ context.Context, prompt, identity, _ string) (*models.Job, error) {
	f.prompts = append(f.prompts, prompt)
	job := &models.Job{
		JobID:     uuid.New().String(),
		Status:    models.JobStatusProcessing,
		Prompt:    prompt,
		Identity:  identity,
		CreatedAt: time.Now().UTC(),
	}
	f.jobs = append(f.jobs, job)
	return job, nil
}

func (f *fakeJobsUC) GetStatus(_ context.Context, _ string) (*videojobs.Status, error) {
	return nil, videojobs.ErrJobNotFound
}

func (f *fakeJobsUC) VideoFile(_ context.Context, _ string) (string, error) {
	return "", videojobs.ErrVideoNotReady
}

func (f *fakeJobsUC) ListJobs(_ context.Context, _ string, pq *utils.Pagination) (*models.JobList, error) {
	jobs := f.jobs
	if len(jobs) > pq.GetLimit() {
		jobs = jobs[:pq.GetLimit()]
	}
	return &models.JobList{TotalCount: len(f.jobs), Jobs: jobs}, nil
}

type fakePrimary struct {
	credits    int
	creditsErr error
}

func (f *fakePrimary) CreateTask(_ context.Context, _ string, _ providers.GenerationParams) (string, error) {
	return "", providers.ErrNotConfigured
}

func (f *fakePrimary) PollTask(_ context.Context, _ string) (*providers.PollResult, error) {
	return nil, providers.ErrNotConfigured
}

func (f *fakePrimary) Credits(_ context.Context) (int, error) {
	return f.credits, f.creditsErr
}

type fixture struct {
	uc     chat.UseCase
	repo   chat.Repository
	jobsUC *fakeJobsUC
}

func newFixture(t *testing.T, maxRequests int) *fixture {
	t.Helper()
	store := kvstore.NewMemoryStore()
	repo := chatrepo.NewChatRepository(store, 5*time.Minute, time.Hour, 7*24*time.Hour)
	jobsUC := &fakeJobsUC{}
	limiter := ratelimit.NewLimiter(store, time.Minute, maxRequests)
	uc := NewChatUseCase(&config.Config{}, repo, jobsUC, &fakePrimary{credits: 80},
		gateway.NewUnavailable(logger.NewNopLogger()), limiter, logger.NewNopLogger())
	return &fixture{uc: uc, repo: repo, jobsUC: jobsUC}
}

func (f *fixture) welcomed(t *testing.T, identity string) {
	t.Helper()
	require.NoError(t, f.repo.MarkWelcomed(context.Background(), identity))
}

func send(t *testing.T, uc chat.UseCase, from, body string) *chat.Reply {
	t.Helper()
	reply, err := uc.HandleInbound(context.Background(), &chat.Inbound{
		From:      from,
		Body:      body,
		MessageID: "SM" + uuid.New().String(),
	})
	require.NoError(t, err)
	require.NotNil(t, reply)
	return reply
}

func TestHandleInbound_FirstContactGetsWelcome(t *testing.T) {
	f := newFixture(t, 100)

	reply := send(t, f.uc, "whatsapp:+14155550100", "hello")
	require.Equal(t, chat.TagWelcomeSent, reply.Tag)

	reply = send(t, f.uc, "whatsapp:+14155550100", "hello again")
	require.NotEqual(t, chat.TagWelcomeSent, reply.Tag)
}

func TestHandleInbound_FirstContactCommandStillHandled(t *testing.T) {
	f := newFixture(t, 100)

	reply := send(t, f.uc, "whatsapp:+14155550100", "/generate a fox in the snow")
	require.Equal(t, chat.TagEnhancementChoice, reply.Tag)
	require.Contains(t, reply.Body, "Welcome")
	require.Contains(t, reply.Body, "a fox in the snow")

	state, err := f.repo.GetState(context.Background(), "14155550100")
	require.NoError(t, err)
	require.NotNil(t, state)

	welcomed, err := f.repo.Welcomed(context.Background(), "14155550100")
	require.NoError(t, err)
	require.True(t, welcomed)
}

func TestHandleInbound_EnhancementDialogue(t *testing.T) {
	f := newFixture(t, 100)
	f.welcomed(t, "14155550100")

	reply := send(t, f.uc, "whatsapp:+14155550100", "/generate a cat surfing a big wave")
	require.Equal(t, chat.TagEnhancementChoice, reply.Tag)
	require.Contains(t, reply.Body, "a cat surfing a big wave")
	require.Empty(t, f.jobsUC.prompts)

	reply = send(t, f.uc, "whatsapp:+14155550100", "1")
	require.Equal(t, chat.TagGeneratingEnhanced, reply.Tag)
	require.Len(t, f.jobsUC.prompts, 1)
	require.Equal(t, EnhancePrompt("a cat surfing a big wave"), f.jobsUC.prompts[0])

	state, err := f.repo.GetState(context.Background(), "14155550100")
	require.NoError(t, err)
	require.Nil(t, state)
}

func TestHandleInbound_ChoiceOriginal(t *testing.T) {
	f := newFixture(t, 100)
	f.welcomed(t, "14155550100")

	send(t, f.uc, "whatsapp:+14155550100", "/generate a fox in the snow")
	reply := send(t, f.uc, "whatsapp:+14155550100", "2")
	require.Equal(t, chat.TagGeneratingOriginal, reply.Tag)
	require.Equal(t, []string{"a fox in the snow"}, f.jobsUC.prompts)
}

func TestHandleInbound_EditFlow(t *testing.T) {
	f := newFixture(t, 100)
	f.welcomed(t, "14155550100")

	send(t, f.uc, "whatsapp:+14155550100", "/generate a fox in the snow")
	reply := send(t, f.uc, "whatsapp:+14155550100", "3")
	require.Equal(t, chat.TagAwaitingEdit, reply.Tag)

	reply = send(t, f.uc, "whatsapp:+14155550100", "abc")
	require.Equal(t, chat.TagEditTooShort, reply.Tag)

	reply = send(t, f.uc, "whatsapp:+14155550100", "an arctic fox leaping over a frozen river")
	require.Equal(t, chat.TagGeneratingEdited, reply.Tag)
	require.Equal(t, []string{"an arctic fox leaping over a frozen river"}, f.jobsUC.prompts)
}

func TestHandleInbound_InvalidChoiceKeepsState(t *testing.T) {
	f := newFixture(t, 100)
	f.welcomed(t, "14155550100")

	send(t, f.uc, "whatsapp:+14155550100", "/generate a fox in the snow")
	reply := send(t, f.uc, "whatsapp:+14155550100", "maybe")
	require.Equal(t, chat.TagInvalidChoice, reply.Tag)

	reply = send(t, f.uc, "whatsapp:+14155550100", "2")
	require.Equal(t, chat.TagGeneratingOriginal, reply.Tag)
}

func TestHandleInbound_CommandDuringChoiceReprompts(t *testing.T) {
	f := newFixture(t, 100)
	f.welcomed(t, "14155550100")

	send(t, f.uc, "whatsapp:+14155550100", "/generate a fox in the snow")
	reply := send(t, f.uc, "whatsapp:+14155550100", "/help")
	require.Equal(t, chat.TagInvalidChoice, reply.Tag)

	state, err := f.repo.GetState(context.Background(), "14155550100")
	require.NoError(t, err)
	require.NotNil(t, state)
	require.Equal(t, models.StageAwaitingEnhancementChoice, state.Stage)

	reply = send(t, f.uc, "whatsapp:+14155550100", "2")
	require.Equal(t, chat.TagGeneratingOriginal, reply.Tag)
	require.Equal(t, []string{"a fox in the snow"}, f.jobsUC.prompts)
}

func TestHandleInbound_EditConsumesCommandShapedMessage(t *testing.T) {
	f := newFixture(t, 100)
	f.welcomed(t, "14155550100")

	send(t, f.uc, "whatsapp:+14155550100", "/generate a fox in the snow")
	send(t, f.uc, "whatsapp:+14155550100", "3")

	reply := send(t, f.uc, "whatsapp:+14155550100", "/generate a cat playing piano")
	require.Equal(t, chat.TagGeneratingEdited, reply.Tag)
	require.Equal(t, []string{"/generate a cat playing piano"}, f.jobsUC.prompts)
}

func TestHandleInbound_PromptTooShort(t *testing.T) {
	f := newFixture(t, 100)
	f.welcomed(t, "14155550100")

	reply := send(t, f.uc, "whatsapp:+14155550100", "/generate hi")
	require.Equal(t, chat.TagPromptTooShort, reply.Tag)
	require.Empty(t, f.jobsUC.prompts)
}

func TestHandleInbound_NearCapPromptSkipsEnhancement(t *testing.T) {
	f := newFixture(t, 100)
	f.welcomed(t, "14155550100")

	// Long enough that any enhancement suffix would exceed the length
	// cap, while the prompt itself stays within it.
	var b strings.Builder
	for i := 0; b.Len() < 1480; i++ {
		fmt.Fprintf(&b, "scene%04d ", i)
	}
	prompt := strings.TrimSpace(b.String())
	require.LessOrEqual(t, utf8.RuneCountInString(prompt), 1500)

	reply := send(t, f.uc, "whatsapp:+14155550100", "/generate "+prompt)
	require.Equal(t, chat.TagGenerating, reply.Tag)
	require.Equal(t, []string{prompt}, f.jobsUC.prompts)

	state, err := f.repo.GetState(context.Background(), "14155550100")
	require.NoError(t, err)
	require.Nil(t, state)
}

func TestHandleInbound_BlockedPrompt(t *testing.T) {
	f := newFixture(t, 100)
	f.welcomed(t, "14155550100")

	reply := send(t, f.uc, "whatsapp:+14155550100", "/generate a bomb going off downtown")
	require.Equal(t, chat.TagContentBlocked, reply.Tag)
	require.Empty(t, f.jobsUC.prompts)
}

func TestHandleInbound_SuggestionsRemixLastPrompt(t *testing.T) {
	f := newFixture(t, 100)
	f.welcomed(t, "14155550100")

	reply := send(t, f.uc, "whatsapp:+14155550100", "/suggestions")
	require.Equal(t, chat.TagSuggestionsSent, reply.Tag)
	require.NotContains(t, reply.Body, "Based on your last prompt")

	send(t, f.uc, "whatsapp:+14155550100", "/generate a fox in the snow")
	send(t, f.uc, "whatsapp:+14155550100", "2")

	reply = send(t, f.uc, "whatsapp:+14155550100", "/suggestions")
	require.Contains(t, reply.Body, "Based on your last prompt")
	require.Contains(t, reply.Body, "a fox in the snow")
}

func TestHandleInbound_RateLimited(t *testing.T) {
	f := newFixture(t, 2)
	f.welcomed(t, "14155550100")

	send(t, f.uc, "whatsapp:+14155550100", "/help")
	send(t, f.uc, "whatsapp:+14155550100", "/help")
	reply := send(t, f.uc, "whatsapp:+14155550100", "/help")
	require.Equal(t, chat.TagRateLimited, reply.Tag)
}

func TestHandleInbound_StatusAndHistory(t *testing.T) {
	f := newFixture(t, 100)
	f.welcomed(t, "14155550100")

	reply := send(t, f.uc, "whatsapp:+14155550100", "/status")
	require.Equal(t, chat.TagStatusSent, reply.Tag)
	require.Contains(t, reply.Body, "no jobs yet")

	send(t, f.uc, "whatsapp:+14155550100", "/generate a fox in the snow")
	send(t, f.uc, "whatsapp:+14155550100", "2")

	reply = send(t, f.uc, "whatsapp:+14155550100", "/status")
	require.Equal(t, chat.TagStatusSent, reply.Tag)
	require.Contains(t, reply.Body, "processing")

	reply = send(t, f.uc, "whatsapp:+14155550100", "/history")
	require.Equal(t, chat.TagHistorySent, reply.Tag)
	require.Contains(t, reply.Body, "a fox in the snow")
}

func TestHandleInbound_Credits(t *testing.T) {
	f := newFixture(t, 100)
	f.welcomed(t, "14155550100")

	reply := send(t, f.uc, "whatsapp:+14155550100", "/credits")
	require.Equal(t, chat.TagCreditsSent, reply.Tag)
	require.Contains(t, reply.Body, "80")
}

func TestHandleInbound_Clear(t *testing.T) {
	f := newFixture(t, 100)
	f.welcomed(t, "14155550100")
	ctx := context.Background()

	send(t, f.uc, "whatsapp:+14155550100", "/help")
	reply := send(t, f.uc, "whatsapp:+14155550100", "/clear")
	require.Equal(t, chat.TagHistoryCleared, reply.Tag)

	entries, err := f.repo.GetContext(ctx, "14155550100")
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestHandleInbound_UnknownCommand(t *testing.T) {
	f := newFixture(t, 100)
	f.welcomed(t, "14155550100")

	reply := send(t, f.uc, "whatsapp:+14155550100", "/frobnicate")
	require.Equal(t, chat.TagUnknownCommand, reply.Tag)
}
