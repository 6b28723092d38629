package service

import (
	"context"

	"github.com/google/uuid"

	"launchsignal-backend/internal/domains/startup/model"
)

// Upvote is idempotent: a repeated call leaves exactly one upvote.
func (s *startupService) Upvote(ctx context.Context, id, userID uuid.UUID) error {
	if _, err := s.getStartup(ctx, id); err != nil {
		return err
	}

	created, err := s.upvotes.Add(ctx, id, userID)
	if err != nil {
		return err
	}
	if created {
		s.invalidateTrending(ctx)
	}
	return nil
}

// RemoveUpvote succeeds whether or not the upvote existed.
func (s *startupService) RemoveUpvote(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.upvotes.Remove(ctx, id, userID); err != nil {
		return err
	}
	s.invalidateTrending(ctx)
	return nil
}

func (s *startupService) GetMyUpvotes(ctx context.Context, userID uuid.UUID) (*model.UpvoteListResponse, error) {
	items, err := s.upvotes.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.UpvotedStartup{}
	}
	for i := range items {
		items[i].FounderEmail = ""
	}
	return &model.UpvoteListResponse{Startups: items, Count: len(items)}, nil
}
