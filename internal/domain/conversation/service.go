package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/specmaker/internal/ollama"
)

// Service handles conversation and message operations.
type Service struct {
	conversations Repository
	messages      MessageRepository
	chat          ChatClient
	logger        *slog.Logger
	now           func() time.Time
}

// NewService creates a new conversation service.
func NewService(conversations Repository, messages MessageRepository, chat ChatClient, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		conversations: conversations,
		messages:      messages,
		chat:          chat,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Create starts a new conversation for a project. The project ID is stored
// as given; it is not checked against existing projects.
func (s *Service) Create(ctx context.Context, projectID string) (*Conversation, error) {
	conv := &Conversation{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Phase:     InitialPhase,
		CreatedAt: s.now(),
	}

	if err := s.conversations.Create(ctx, conv); err != nil {
		return nil, fmt.Errorf("creating conversation: %w", err)
	}

	s.logger.Info("conversation created", "conversation_id", conv.ID, "project_id", projectID)
	return conv, nil
}

// ListByProject returns the conversations of a project, newest first.
func (s *Service) ListByProject(ctx context.Context, projectID string) ([]Conversation, error) {
	convs, err := s.conversations.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	return convs, nil
}

// ListMessages returns the history of a conversation in creation order.
func (s *Service) ListMessages(ctx context.Context, conversationID string) ([]Message, error) {
	msgs, err := s.messages.List(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	return msgs, nil
}

// SendRequest defines the message submitted by the caller.
type SendRequest struct {
	ConversationID string
	Role           string
	Content        string
	Metadata       *string
}

// SendMessage appends the caller's message, sends the full history to the
// chat client and appends the reply as an assistant message.
//
// The steps are independent store operations. If inference fails the
// caller's message stays persisted and no assistant message is written.
// Concurrent senders on the same conversation may see each other's messages
// in the history.
func (s *Service) SendMessage(ctx context.Context, req SendRequest) (*Message, error) {
	userMsg := &Message{
		ID:             uuid.NewString(),
		ConversationID: req.ConversationID,
		Role:           req.Role,
		Content:        req.Content,
		Metadata:       req.Metadata,
		CreatedAt:      s.now(),
	}
	if err := s.messages.Append(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("saving message: %w", err)
	}

	history, err := s.messages.List(ctx, req.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	turns := make([]ollama.ChatMessage, 0, len(history))
	for _, msg := range history {
		turns = append(turns, ollama.ChatMessage{Role: msg.Role, Content: msg.Content})
	}

	s.logger.Debug("requesting reply", "conversation_id", req.ConversationID, "history_len", len(turns))
	reply, err := s.chat.Chat(ctx, turns)
	if err != nil {
		s.logger.Warn("inference failed", "conversation_id", req.ConversationID, "error", err)
		return nil, err
	}

	assistantMsg := &Message{
		ID:             uuid.NewString(),
		ConversationID: req.ConversationID,
		Role:           RoleAssistant,
		Content:        reply,
		CreatedAt:      s.now(),
	}
	if err := s.messages.Append(ctx, assistantMsg); err != nil {
		return nil, fmt.Errorf("saving reply: %w", err)
	}

	return assistantMsg, nil
}
