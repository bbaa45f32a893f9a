package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/nikhilmalhotra7/ai-video-bot/internal/chat"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/chat/gateway"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/config"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/models"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/providers"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/videojobs"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/filter"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/logger"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/metrics"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/ratelimit"
	"github.com/nikhilmalhotra7/ai-video-bot/pkg/utils"
	"github.com/pkg/errors"
)

const welcomeMessage = "👋 Welcome to the AI video generator!\n\n" +
	"Send /generate followed by a description and I'll create a short video for you.\n" +
	"Example: /generate a fox running through snowy woods\n\n" +
	"Send /help to see every command."

const helpMessage = "Available commands:\n" +
	"/generate <description> - create a video\n" +
	"/status - check your latest job\n" +
	"/history - your recent videos\n" +
	"/credits - remaining provider credits\n" +
	"/suggestions - prompt ideas\n" +
	"/clear - erase your conversation history\n" +
	"/help - this message"

const suggestionsMessage = "Try one of these:\n" +
	"• a koi pond rippling under cherry blossoms\n" +
	"• a steam train crossing a mountain bridge at dawn\n" +
	"• a robot learning to dance in an empty warehouse\n" +
	"• waves crashing on a black sand beach in slow motion\n" +
	"• a paper boat drifting down a rainy city street"

const generationStartedMessage = "🎬 Your video is being generated! This usually takes a few minutes. " +
	"I'll message you here when it's ready, or send /status to check progress."

type chatUC struct {
	cfg     *config.Config
	repo    chat.Repository
	jobsUC  videojobs.UseCase
	primary providers.Primary
	gateway gateway.Gateway
	limiter *ratelimit.Limiter
	logger  logger.Logger
}

func NewChatUseCase(
	cfg *config.Config,
	repo chat.Repository,
	jobsUC videojobs.UseCase,
	primary providers.Primary,
	gw gateway.Gateway,
	limiter *ratelimit.Limiter,
	log logger.Logger,
) chat.UseCase {
	return &chatUC{
		cfg:     cfg,
		repo:    repo,
		jobsUC:  jobsUC,
		primary: primary,
		gateway: gw,
		limiter: limiter,
		logger:  log,
	}
}

// HandleInbound runs one message through the conversation machine. A
// pending dialogue state takes precedence over command parsing: while a
// choice or edit is awaited, every message belongs to the dialogue.
func (u *chatUC) HandleInbound(ctx context.Context, msg *chat.Inbound) (*chat.Reply, error) {
	identity := utils.NormalizeIdentity(msg.From)
	body := strings.TrimSpace(msg.Body)

	if err := u.repo.AppendContext(ctx, identity, &models.ContextEntry{
		Kind:      "inbound",
		Message:   body,
		MessageID: msg.MessageID,
	}); err != nil {
		u.logger.Warnf("chat %s: context append failed: %v", identity, err)
	}

	if u.limiter.Limited(ctx, identity) {
		metrics.AdmissionRejected.WithLabelValues("rate_limited").Inc()
		return u.reply(chat.TagRateLimited, u.limiter.Message()), nil
	}

	welcomed, err := u.repo.Welcomed(ctx, identity)
	if err != nil {
		u.logger.Warnf("chat %s: welcome lookup failed: %v", identity, err)
	}
	if !welcomed {
		if err := u.repo.MarkWelcomed(ctx, identity); err != nil {
			u.logger.Warnf("chat %s: welcome mark failed: %v", identity, err)
		}
		// A command-shaped first message is still handled; the welcome
		// text just rides along with its reply.
		if strings.HasPrefix(body, "/") {
			reply := u.handleCommand(ctx, identity, body)
			reply.Body = welcomeMessage + "\n\n" + reply.Body
			return reply, nil
		}
		return u.reply(chat.TagWelcomeSent, welcomeMessage), nil
	}

	state, err := u.repo.GetState(ctx, identity)
	if err != nil {
		u.logger.Warnf("chat %s: state lookup failed: %v", identity, err)
	}
	if state != nil {
		return u.handleDialogue(ctx, identity, body, state), nil
	}

	if strings.HasPrefix(body, "/") {
		return u.handleCommand(ctx, identity, body), nil
	}
	return u.reply(chat.TagHelpSent, "I didn't recognize that. Use /generate <description> to create a video, or /help for all commands."), nil
}

func (u *chatUC) handleDialogue(ctx context.Context, identity, body string, state *models.UserState) *chat.Reply {
	switch state.Stage {
	case models.StageAwaitingEnhancementChoice:
		switch body {
		case "1":
			u.clearState(ctx, identity)
			return u.enqueue(ctx, identity, state.Data.EnhancedPrompt, chat.TagGeneratingEnhanced)
		case "2":
			u.clearState(ctx, identity)
			return u.enqueue(ctx, identity, state.Data.OriginalPrompt, chat.TagGeneratingOriginal)
		case "3":
			state.Stage = models.StageAwaitingUserEdit
			if err := u.repo.SetState(ctx, identity, state); err != nil {
				u.logger.Errorf("chat %s: state save failed: %v", identity, err)
				return u.reply(chat.TagError, "Something went wrong. Please try /generate again.")
			}
			return u.reply(chat.TagAwaitingEdit, "✏️ Send me your edited prompt and I'll use it as-is.")
		default:
			return u.reply(chat.TagInvalidChoice, "Please reply with 1 (enhanced), 2 (original) or 3 (edit it yourself).")
		}

	case models.StageAwaitingUserEdit:
		if utf8.RuneCountInString(body) < filter.MinPromptLength {
			return u.reply(chat.TagEditTooShort, "That prompt is too short. Please send a longer description.")
		}
		u.clearState(ctx, identity)
		return u.enqueue(ctx, identity, body, chat.TagGeneratingEdited)

	default:
		u.clearState(ctx, identity)
		return u.reply(chat.TagError, "Something went wrong. Please try /generate again.")
	}
}

func (u *chatUC) handleCommand(ctx context.Context, identity, body string) *chat.Reply {
	command := body
	argument := ""
	if idx := strings.IndexAny(body, " \t\n"); idx > 0 {
		command = body[:idx]
		argument = strings.TrimSpace(body[idx:])
	}

	switch strings.ToLower(command) {
	case "/generate":
		return u.handleGenerate(ctx, identity, argument)
	case "/help":
		return u.reply(chat.TagHelpSent, helpMessage)
	case "/status":
		return u.handleStatus(ctx, identity)
	case "/history":
		return u.handleHistory(ctx, identity)
	case "/credits":
		return u.handleCredits(ctx)
	case "/suggestions":
		return u.handleSuggestions(ctx, identity)
	case "/clear":
		if err := u.repo.ClearContext(ctx, identity); err != nil {
			u.logger.Warnf("chat %s: context clear failed: %v", identity, err)
		}
		u.clearState(ctx, identity)
		return u.reply(chat.TagHistoryCleared, "🧹 Your conversation history has been cleared.")
	default:
		return u.reply(chat.TagUnknownCommand, "Unknown command "+command+". Send /help to see what I can do.")
	}
}

// handleGenerate validates the prompt, then offers the enhanced variant
// before anything is submitted.
func (u *chatUC) handleGenerate(ctx context.Context, identity, prompt string) *chat.Reply {
	if utf8.RuneCountInString(strings.TrimSpace(prompt)) < filter.MinPromptLength {
		return u.reply(chat.TagPromptTooShort, "Please describe your video after /generate, for example: /generate a fox running through snowy woods")
	}
	if ok, reason := filter.Validate(prompt); !ok {
		metrics.AdmissionRejected.WithLabelValues("content_blocked").Inc()
		return u.reply(chat.TagContentBlocked, reason)
	}

	enhanced := EnhancePrompt(prompt)
	if ok, _ := filter.Validate(enhanced); !ok {
		// Near the length cap the suffix pushes the enhanced variant
		// over it; submit the prompt as given instead of offering a
		// choice that would be rejected after the user commits.
		return u.enqueue(ctx, identity, prompt, chat.TagGenerating)
	}
	state := &models.UserState{
		Stage: models.StageAwaitingEnhancementChoice,
		Data: models.StateData{
			OriginalPrompt: prompt,
			EnhancedPrompt: enhanced,
		},
	}
	if err := u.repo.SetState(ctx, identity, state); err != nil {
		u.logger.Errorf("chat %s: state save failed: %v", identity, err)
		// Without state the dialogue cannot continue; submit the
		// original prompt directly.
		return u.enqueue(ctx, identity, prompt, chat.TagGenerating)
	}

	body := fmt.Sprintf("✨ I polished your prompt:\n\n1️⃣ Enhanced: %s\n\n2️⃣ Original: %s\n\n3️⃣ Edit it yourself\n\nReply with 1, 2 or 3.",
		enhanced, prompt)
	return u.reply(chat.TagEnhancementChoice, body)
}

func (u *chatUC) handleStatus(ctx context.Context, identity string) *chat.Reply {
	list, err := u.jobsUC.ListJobs(ctx, identity, &utils.Pagination{Page: 1, Size: 1})
	if err != nil {
		u.logger.Errorf("chat %s: status lookup failed: %v", identity, err)
		return u.reply(chat.TagError, "Couldn't look up your jobs right now. Please try again.")
	}
	if len(list.Jobs) == 0 {
		return u.reply(chat.TagStatusSent, "You have no jobs yet. Send /generate <description> to create your first video.\n\n"+u.systemHealth(ctx))
	}

	job := list.Jobs[0]
	body := fmt.Sprintf("Latest job: %s\nStatus: %s (%d%%)\n%s", job.JobID, job.Status, job.Progress, job.Message)
	if job.Status == models.JobStatusCompleted && job.VideoURL != nil {
		body += "\nDownload: " + *job.VideoURL
	}
	body += "\n\n" + u.systemHealth(ctx)
	return u.reply(chat.TagStatusSent, body)
}

// systemHealth is the one-line service summary appended to /status.
func (u *chatUC) systemHealth(ctx context.Context) string {
	provider := "offline"
	if _, err := u.primary.Credits(ctx); err == nil {
		provider = "online"
	}
	delivery := "disabled"
	if u.gateway.Configured() {
		delivery = "enabled"
	}
	return fmt.Sprintf("Service: provider %s, delivery %s", provider, delivery)
}

func (u *chatUC) handleHistory(ctx context.Context, identity string) *chat.Reply {
	list, err := u.jobsUC.ListJobs(ctx, identity, &utils.Pagination{Page: 1, Size: 5})
	if err != nil {
		u.logger.Errorf("chat %s: history lookup failed: %v", identity, err)
		return u.reply(chat.TagError, "Couldn't look up your history right now. Please try again.")
	}
	if len(list.Jobs) == 0 {
		return u.reply(chat.TagHistorySent, "No videos yet. Send /generate <description> to create one.")
	}

	var b strings.Builder
	b.WriteString("Your recent videos:\n")
	for i, job := range list.Jobs {
		prompt := job.Prompt
		if utf8.RuneCountInString(prompt) > 60 {
			prompt = string([]rune(prompt)[:57]) + "..."
		}
		fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, job.Status, prompt)
	}
	return u.reply(chat.TagHistorySent, strings.TrimRight(b.String(), "\n"))
}

// handleSuggestions offers a remix of the user's most recent prompt when
// one exists, then the stock ideas.
func (u *chatUC) handleSuggestions(ctx context.Context, identity string) *chat.Reply {
	body := suggestionsMessage
	entries, err := u.repo.GetContext(ctx, identity)
	if err != nil {
		u.logger.Warnf("chat %s: context lookup failed: %v", identity, err)
	}
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Kind == "job" && entries[i].Prompt != "" {
			body = "Based on your last prompt:\n• " + entries[i].Prompt +
				", from a sweeping aerial view\n\n" + suggestionsMessage
			break
		}
	}
	return u.reply(chat.TagSuggestionsSent, body)
}

func (u *chatUC) handleCredits(ctx context.Context) *chat.Reply {
	credits, err := u.primary.Credits(ctx)
	if err != nil {
		u.logger.Warnf("chat: credits lookup failed: %v", err)
		return u.reply(chat.TagCreditsSent, "Credit balance is unavailable right now.")
	}
	return u.reply(chat.TagCreditsSent, fmt.Sprintf("Remaining provider credits: %d", credits))
}

// enqueue submits a prompt as a chat-sourced job.
func (u *chatUC) enqueue(ctx context.Context, identity, prompt string, tag chat.ReplyTag) *chat.Reply {
	job, err := u.jobsUC.CreateJob(ctx, prompt, identity, "chat")
	if err != nil {
		var admission *videojobs.AdmissionError
		if errors.As(err, &admission) {
			metrics.AdmissionRejected.WithLabelValues("content_blocked").Inc()
			return u.reply(chat.TagContentBlocked, admission.Reason)
		}
		u.logger.Errorf("chat %s: job submit failed: %v", identity, err)
		return u.reply(chat.TagError, "Something went wrong starting your video. Please try again in a moment.")
	}

	if err := u.repo.AppendContext(ctx, identity, &models.ContextEntry{
		Kind:   "job",
		Prompt: prompt,
		JobID:  job.JobID,
	}); err != nil {
		u.logger.Warnf("chat %s: context append failed: %v", identity, err)
	}
	return u.reply(tag, generationStartedMessage)
}

func (u *chatUC) clearState(ctx context.Context, identity string) {
	if err := u.repo.ClearState(ctx, identity); err != nil {
		u.logger.Warnf("chat %s: state clear failed: %v", identity, err)
	}
}

func (u *chatUC) reply(tag chat.ReplyTag, body string) *chat.Reply {
	metrics.ChatMessages.WithLabelValues(string(tag)).Inc()
	return &chat.Reply{Tag: tag, Body: body}
}
