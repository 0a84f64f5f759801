package mocks

import (
	"context"

	"github.com/rpggio/specmaker/internal/domain/conversation"
	"github.com/rpggio/specmaker/internal/domain/project"
	"github.com/rpggio/specmaker/internal/ollama"
	"github.com/stretchr/testify/mock"
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context) ([]project.Project, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ConversationRepository is a mock for conversation.Repository.
type ConversationRepository struct {
	mock.Mock
}

func (m *ConversationRepository) Create(ctx context.Context, conv *conversation.Conversation) error {
	args := m.Called(ctx, conv)
	return args.Error(0)
}

func (m *ConversationRepository) ListByProject(ctx context.Context, projectID string) ([]conversation.Conversation, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]conversation.Conversation); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// MessageRepository is a mock for conversation.MessageRepository.
type MessageRepository struct {
	mock.Mock
}

func (m *MessageRepository) Append(ctx context.Context, msg *conversation.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MessageRepository) List(ctx context.Context, conversationID string) ([]conversation.Message, error) {
	args := m.Called(ctx, conversationID)
	if list, ok := args.Get(0).([]conversation.Message); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ChatClient is a mock for conversation.ChatClient.
type ChatClient struct {
	mock.Mock
}

func (m *ChatClient) Chat(ctx context.Context, history []ollama.ChatMessage) (string, error) {
	args := m.Called(ctx, history)
	return args.String(0), args.Error(1)
}
