// Package command maps named requests from the UI shell onto the domain
// services. Each command is one request and one response.
package command

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rpggio/specmaker/internal/domain/conversation"
	"github.com/rpggio/specmaker/internal/domain/project"
)

// Command names.
const (
	CreateProject           = "create_project"
	GetProjects             = "get_projects"
	GetProject              = "get_project"
	DeleteProject           = "delete_project"
	CreateConversation      = "create_conversation"
	GetProjectConversations = "get_project_conversations"
	GetConversationMessages = "get_conversation_messages"
	SendMessage             = "send_message"
	CheckOllamaConnection   = "check_ollama_connection"
)

// Methods lists every command in registration order.
var Methods = []string{
	CreateProject,
	GetProjects,
	GetProject,
	DeleteProject,
	CreateConversation,
	GetProjectConversations,
	GetConversationMessages,
	SendMessage,
	CheckOllamaConnection,
}

// ProjectService defines project operations needed by commands.
type ProjectService interface {
	Create(ctx context.Context, req project.CreateRequest) (*project.Project, error)
	List(ctx context.Context) ([]project.Project, error)
	Get(ctx context.Context, id string) (*project.Project, error)
	Delete(ctx context.Context, id string) error
}

// ConversationService defines conversation operations needed by commands.
type ConversationService interface {
	Create(ctx context.Context, projectID string) (*conversation.Conversation, error)
	ListByProject(ctx context.Context, projectID string) ([]conversation.Conversation, error)
	ListMessages(ctx context.Context, conversationID string) ([]conversation.Message, error)
	SendMessage(ctx context.Context, req conversation.SendRequest) (*conversation.Message, error)
}

// ConnectionChecker probes the inference server.
type ConnectionChecker interface {
	CheckConnection(ctx context.Context) (bool, error)
}

// Handler dispatches commands.
type Handler struct {
	projects      ProjectService
	conversations ConversationService
	inference     ConnectionChecker
	logger        *slog.Logger
}

// NewHandler creates a new command handler.
func NewHandler(projects ProjectService, conversations ConversationService, inference ConnectionChecker, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{
		projects:      projects,
		conversations: conversations,
		inference:     inference,
		logger:        logger,
	}
}

// Handle runs one command and returns its result.
func (h *Handler) Handle(ctx context.Context, method string, params json.RawMessage) (any, error) {
	result, err := h.dispatch(ctx, method, params)
	if err != nil {
		h.logger.Debug("command failed", "method", method, "error", err)
		return nil, err
	}
	return result, nil
}

func (h *Handler) dispatch(ctx context.Context, method string, params json.RawMessage) (any, error) {
	switch method {
	case CreateProject:
		var req CreateProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.projects.Create(ctx, project.CreateRequest{
			Name:           req.Name,
			Description:    req.Description,
			Industry:       req.Industry,
			TargetAudience: req.TargetAudience,
		})
	case GetProjects:
		return h.projects.List(ctx)
	case GetProject:
		var req ProjectIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.projects.Get(ctx, req.ProjectID)
	case DeleteProject:
		var req ProjectIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.projects.Delete(ctx, req.ProjectID); err != nil {
			return nil, err
		}
		return DeleteResult{Deleted: true}, nil
	case CreateConversation:
		var req ProjectIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.conversations.Create(ctx, req.ProjectID)
	case GetProjectConversations:
		var req ProjectIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.conversations.ListByProject(ctx, req.ProjectID)
	case GetConversationMessages:
		var req ConversationIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.conversations.ListMessages(ctx, req.ConversationID)
	case SendMessage:
		var req SendMessageParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.conversations.SendMessage(ctx, conversation.SendRequest{
			ConversationID: req.ConversationID,
			Role:           req.Role,
			Content:        req.Content,
			Metadata:       req.Metadata,
		})
	case CheckOllamaConnection:
		return h.inference.CheckConnection(ctx)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
}

func decodeParams(params json.RawMessage, target any) error {
	if len(params) == 0 || strings.TrimSpace(string(params)) == "null" {
		return nil
	}
	if err := json.Unmarshal(params, target); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return nil
}
