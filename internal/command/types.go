package command

type CreateProjectParams struct {
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Industry       *string `json:"industry,omitempty"`
	TargetAudience *string `json:"target_audience,omitempty"`
}

type ProjectIDParams struct {
	ProjectID string `json:"project_id"`
}

type ConversationIDParams struct {
	ConversationID string `json:"conversation_id"`
}

type SendMessageParams struct {
	ConversationID string  `json:"conversation_id"`
	Role           string  `json:"role"`
	Content        string  `json:"content"`
	Metadata       *string `json:"metadata,omitempty"`
}

// DeleteResult acknowledges a delete.
type DeleteResult struct {
	Deleted bool `json:"deleted"`
}
