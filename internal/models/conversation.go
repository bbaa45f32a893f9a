package models

type ConversationStage string

const (
	StageAwaitingEnhancementChoice ConversationStage = "awaiting_enhancement_choice"
	StageAwaitingUserEdit          ConversationStage = "awaiting_user_edit"
)

// UserState is the per-identity conversation record. An identity with no
// record is implicitly idle.
type UserState struct {
	Stage ConversationStage `json:"state"`
	Data  StateData         `json:"data"`
}

type StateData struct {
	OriginalPrompt string `json:"original_prompt"`
	EnhancedPrompt string `json:"enhanced_prompt"`
}

// ContextEntry is one element of an identity's conversation history.
type ContextEntry struct {
	Kind      string `json:"kind"`
	Message   string `json:"message,omitempty"`
	MessageID string `json:"message_id,omitempty"`
	Prompt    string `json:"prompt,omitempty"`
	JobID     string `json:"job_id,omitempty"`
	VideoURL  string `json:"video_url,omitempty"`
}
