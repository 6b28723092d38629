package repository

import (
	"context"

	"github.com/google/uuid"

	"launchsignal-backend/internal/domains/feedback/model"
)

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *model.Feedback) error

	// ListByStartup returns entries newest first.
	ListByStartup(ctx context.Context, startupID uuid.UUID) ([]model.FeedbackEntry, error)

	// StartupFounder returns the founder of a startup, or
	// model.ErrStartupNotFound.
	StartupFounder(ctx context.Context, startupID uuid.UUID) (uuid.UUID, error)
}
