package conversation

import "time"

const (
	// InitialPhase is the phase assigned to every newly created conversation.
	InitialPhase = "initial_analysis"

	// RoleAssistant marks messages produced by the inference server.
	RoleAssistant = "assistant"
	// RoleUser marks messages typed by the user.
	RoleUser = "user"
)

// Conversation is a chat thread belonging to a project.
type Conversation struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Phase     string    `json:"phase"`
	CreatedAt time.Time `json:"created_at"`
}

// Message is an immutable entry in a conversation. Metadata is an opaque
// string, usually serialized JSON supplied by the UI.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	Metadata       *string   `json:"metadata"`
	CreatedAt      time.Time `json:"created_at"`
}
