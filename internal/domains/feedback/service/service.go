package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"launchsignal-backend/internal/domains/feedback/model"
	"launchsignal-backend/internal/domains/feedback/repository"
)

type feedbackService struct {
	repo repository.FeedbackRepository
	now  func() time.Time
}

func NewFeedbackService(repo repository.FeedbackRepository) ServiceInterface {
	return &feedbackService{repo: repo, now: time.Now}
}

func (s *feedbackService) Submit(ctx context.Context, userID uuid.UUID, req model.SubmitRequest) (*model.Feedback, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	startupID := uuid.MustParse(req.StartupID)

	if _, err := s.founderOf(ctx, startupID); err != nil {
		return nil, err
	}

	feedback := &model.Feedback{
		ID:        uuid.New(),
		StartupID: startupID,
		UserID:    userID,
		Comment:   req.Comment,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, feedback); err != nil {
		if errors.Is(err, model.ErrStartupNotFound) {
			return nil, model.NewStartupNotFoundError()
		}
		return nil, err
	}

	log.Info().
		Str("feedback_id", feedback.ID.String()).
		Str("startup_id", startupID.String()).
		Msg("Feedback submitted")
	return feedback, nil
}

// ListForStartup is restricted to the startup's founder.
func (s *feedbackService) ListForStartup(ctx context.Context, startupID, callerID uuid.UUID) (*model.FeedbackListResponse, error) {
	founderID, err := s.founderOf(ctx, startupID)
	if err != nil {
		return nil, err
	}
	if founderID != callerID {
		return nil, model.NewNotOwnerError()
	}

	entries, err := s.repo.ListByStartup(ctx, startupID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []model.FeedbackEntry{}
	}
	for i := range entries {
		if entries[i].User.FullName == "" {
			entries[i].User.FullName = "Anonymous User"
		}
	}
	return &model.FeedbackListResponse{Feedback: entries, Count: len(entries)}, nil
}

func (s *feedbackService) founderOf(ctx context.Context, startupID uuid.UUID) (uuid.UUID, error) {
	founderID, err := s.repo.StartupFounder(ctx, startupID)
	if err != nil {
		if errors.Is(err, model.ErrStartupNotFound) {
			return uuid.Nil, model.NewStartupNotFoundError()
		}
		return uuid.Nil, fmt.Errorf("find startup: %w", err)
	}
	return founderID, nil
}
