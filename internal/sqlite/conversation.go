package sqlite

import (
	"context"
	"fmt"

	"github.com/rpggio/specmaker/internal/domain/conversation"
)

// ConversationRepository implements conversation.Repository for SQLite
type ConversationRepository struct {
	db *DB
}

// NewConversationRepository creates a new ConversationRepository
func NewConversationRepository(db *DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// Create inserts a conversation. The project reference is not checked.
func (r *ConversationRepository) Create(ctx context.Context, conv *conversation.Conversation) error {
	release, err := r.db.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	query := `
		INSERT INTO conversations (id, project_id, phase, created_at)
		VALUES (?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		conv.ID,
		conv.ProjectID,
		conv.Phase,
		formatTime(conv.CreatedAt),
	)
	if err != nil {
		return wrapWriteError("create conversation", err)
	}

	return nil
}

// ListByProject returns the conversations of a project, newest first
func (r *ConversationRepository) ListByProject(ctx context.Context, projectID string) ([]conversation.Conversation, error) {
	release, err := r.db.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	query := `
		SELECT id, project_id, phase, created_at
		FROM conversations
		WHERE project_id = ?
		ORDER BY created_at DESC, rowid DESC
	`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	convs := []conversation.Conversation{}
	for rows.Next() {
		var conv conversation.Conversation
		var createdAt string
		if err := rows.Scan(&conv.ID, &conv.ProjectID, &conv.Phase, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		if conv.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		convs = append(convs, conv)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversation rows: %w", err)
	}

	return convs, nil
}
