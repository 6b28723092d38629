package model

import (
	"time"

	"github.com/google/uuid"
)

const MinCommentLength = 10

type Feedback struct {
	ID        uuid.UUID `json:"id"`
	StartupID uuid.UUID `json:"startup_id"`
	UserID    uuid.UUID `json:"user_id"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// Author is the public projection of the user who left feedback.
type Author struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
}

// FeedbackEntry is feedback as shown to the startup's founder.
type FeedbackEntry struct {
	ID        uuid.UUID `json:"id"`
	StartupID uuid.UUID `json:"startup_id"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	User      Author    `json:"user"`
}
