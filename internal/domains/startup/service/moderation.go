package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"launchsignal-backend/internal/domains/startup/model"
)

// SetStatus moves a startup to any moderation state; every transition is
// allowed.
func (s *startupService) SetStatus(ctx context.Context, id uuid.UUID, req model.UpdateStatusRequest) (*model.Startup, error) {
	status := model.Status(strings.ToLower(strings.TrimSpace(req.Status)))
	if !status.IsValid() {
		return nil, model.NewInvalidStatusError(req.Status)
	}

	startup, err := s.startups.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, model.ErrStartupNotFound) {
			return nil, model.NewNotFoundError()
		}
		return nil, fmt.Errorf("set status: %w", err)
	}

	log.Info().
		Str("startup_id", id.String()).
		Str("status", string(status)).
		Msg("Startup moderation status changed")
	return startup, nil
}

func (s *startupService) ListAdmin(ctx context.Context, query model.AdminListQuery) (*model.StartupListResponse, error) {
	var status *model.Status
	if st := model.Status(strings.ToLower(strings.TrimSpace(query.Status))); st.IsValid() {
		status = &st
	}

	listings, err := s.startups.ListAdmin(ctx, status, strings.TrimSpace(query.Q))
	if err != nil {
		return nil, err
	}
	return listResponse(listings), nil
}

func (s *startupService) GetAdminCounts(ctx context.Context) (*model.AdminCounts, error) {
	byStatus, err := s.startups.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.startups.CountUsers(ctx)
	if err != nil {
		return nil, err
	}

	counts := &model.AdminCounts{
		TotalUsers: users,
		Pending:    byStatus[model.StatusPending],
		Approved:   byStatus[model.StatusApproved],
		Rejected:   byStatus[model.StatusRejected],
	}
	counts.TotalStartups = counts.Pending + counts.Approved + counts.Rejected
	return counts, nil
}
