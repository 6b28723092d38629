package service

import (
	"context"

	"github.com/google/uuid"

	"launchsignal-backend/internal/domains/feedback/model"
)

type ServiceInterface interface {
	Submit(ctx context.Context, userID uuid.UUID, req model.SubmitRequest) (*model.Feedback, error)
	ListForStartup(ctx context.Context, startupID, callerID uuid.UUID) (*model.FeedbackListResponse, error)
}
