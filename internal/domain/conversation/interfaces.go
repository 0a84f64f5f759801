package conversation

import (
	"context"

	"github.com/rpggio/specmaker/internal/ollama"
)

// Repository provides persistence for conversations.
type Repository interface {
	Create(ctx context.Context, conv *Conversation) error
	ListByProject(ctx context.Context, projectID string) ([]Conversation, error)
}

// MessageRepository provides append-only persistence for messages.
type MessageRepository interface {
	Append(ctx context.Context, msg *Message) error
	List(ctx context.Context, conversationID string) ([]Message, error)
}

// ChatClient produces the next assistant reply for a conversation history.
type ChatClient interface {
	Chat(ctx context.Context, history []ollama.ChatMessage) (string, error)
}
