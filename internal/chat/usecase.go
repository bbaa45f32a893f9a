package chat

import "context"

// ReplyTag classifies an outbound reply for metrics and tests. Tags
// never reach the end user.
type ReplyTag string

const (
	TagGenerating         ReplyTag = "generating"
	TagGeneratingEnhanced ReplyTag = "generating_enhanced"
	TagGeneratingOriginal ReplyTag = "generating_original"
	TagGeneratingEdited   ReplyTag = "generating_edited"
	TagEnhancementChoice  ReplyTag = "enhancement_choice_sent"
	TagAwaitingEdit       ReplyTag = "awaiting_edit"
	TagInvalidChoice      ReplyTag = "invalid_choice"
	TagEditTooShort       ReplyTag = "edit_too_short"
	TagPromptTooShort     ReplyTag = "prompt_too_short"
	TagWelcomeSent        ReplyTag = "welcome_sent"
	TagHelpSent           ReplyTag = "help_sent"
	TagStatusSent         ReplyTag = "status_sent"
	TagHistorySent        ReplyTag = "history_sent"
	TagHistoryCleared     ReplyTag = "history_cleared"
	TagCreditsSent        ReplyTag = "credits_sent"
	TagSuggestionsSent    ReplyTag = "suggestions_sent"
	TagRateLimited        ReplyTag = "rate_limited"
	TagContentBlocked     ReplyTag = "content_blocked"
	TagUnknownCommand     ReplyTag = "unknown_command"
	TagError              ReplyTag = "error"
)

// Inbound is one normalized webhook message.
type Inbound struct {
	From      string
	Body      string
	MessageID string
}

// Reply is the synchronous answer sent back on the webhook response.
type Reply struct {
	Tag  ReplyTag
	Body string
}

// UseCase drives the conversation: commands, the enhancement dialogue
// and job submission. HandleInbound never returns a nil reply without
// an error; every message gets an answer.
type UseCase interface {
	HandleInbound(ctx context.Context, msg *Inbound) (*Reply, error)
}
