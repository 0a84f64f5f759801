package project

import "time"

// InitialStatus is the status assigned to every newly created project.
const InitialStatus = "ideation"

// Project is the top-level container for conversations.
type Project struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Industry       *string   `json:"industry"`
	TargetAudience *string   `json:"target_audience"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
