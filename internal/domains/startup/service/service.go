package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"launchsignal-backend/internal/domains/startup/model"
	"launchsignal-backend/internal/domains/startup/repository"
	"launchsignal-backend/internal/infrastructure/storage"
	"launchsignal-backend/pkg/cache"
)

// Options tune moderation behaviour.
type Options struct {
	// ResetStatusOnEdit re-queues an edited approved or rejected listing
	// for review.
	ResetStatusOnEdit bool
}

type startupService struct {
	startups  repository.StartupRepository
	upvotes   repository.UpvoteRepository
	analytics repository.AnalyticsRepository
	interests InterestReader
	cache     cache.Cache
	media     storage.MediaStore
	opts      Options
	now       func() time.Time
}

func NewStartupService(
	startups repository.StartupRepository,
	upvotes repository.UpvoteRepository,
	analytics repository.AnalyticsRepository,
	interests InterestReader,
	cache cache.Cache,
	media storage.MediaStore,
	opts Options,
) ServiceInterface {
	return &startupService{
		startups:  startups,
		upvotes:   upvotes,
		analytics: analytics,
		interests: interests,
		cache:     cache,
		media:     media,
		opts:      opts,
		now:       time.Now,
	}
}

func (s *startupService) CreateStartup(ctx context.Context, founderID uuid.UUID, req model.StartupRequest) (*model.Startup, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := checkMedia(&req); err != nil {
		return nil, err
	}

	now := s.now()
	startup := &model.Startup{
		ID:        uuid.New(),
		FounderID: founderID,
		Status:    model.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := s.applyRequest(ctx, startup, &req)
	if err != nil {
		return nil, err
	}

	if err := s.startups.Create(ctx, startup); err != nil {
		s.media.Discard(ctx, created)
		return nil, fmt.Errorf("create startup: %w", err)
	}

	s.invalidateListings(ctx)
	log.Info().
		Str("startup_id", startup.ID.String()).
		Str("founder_id", founderID.String()).
		Msg("Startup submitted for review")
	return startup, nil
}

func (s *startupService) UpdateStartup(ctx context.Context, id, callerID uuid.UUID, req model.StartupRequest) (*model.Startup, error) {
	existing, err := s.getStartup(ctx, id)
	if err != nil {
		return nil, err
	}
	if !existing.IsOwnedBy(callerID) {
		return nil, model.NewNotOwnerError("You can only edit your own startups")
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := checkMedia(&req); err != nil {
		return nil, err
	}

	previous := storedMedia(existing)
	created, err := s.applyRequest(ctx, existing, &req)
	if err != nil {
		return nil, err
	}
	existing.FounderID = callerID
	existing.UpdatedAt = s.now()
	if s.opts.ResetStatusOnEdit && existing.Status != model.StatusPending {
		existing.Status = model.StatusPending
	}

	if err := s.startups.Update(ctx, existing); err != nil {
		s.media.Discard(ctx, created)
		if errors.Is(err, model.ErrStartupNotFound) {
			return nil, model.NewNotFoundError()
		}
		return nil, fmt.Errorf("update startup: %w", err)
	}

	s.media.Discard(ctx, without(previous, storedMedia(existing)))
	s.invalidateListings(ctx)
	return existing, nil
}

func (s *startupService) GetStartup(ctx context.Context, id uuid.UUID) (*model.StartupListing, error) {
	listing, err := s.startups.GetListing(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrStartupNotFound) {
			return nil, model.NewNotFoundError()
		}
		return nil, err
	}
	if listing.Status != model.StatusApproved {
		return nil, model.NewNotAvailableError()
	}
	listing.FounderEmail = ""
	return listing, nil
}

func (s *startupService) GetMyStartups(ctx context.Context, founderID uuid.UUID) (*model.StartupListResponse, error) {
	listings, err := s.startups.ListByFounder(ctx, founderID)
	if err != nil {
		return nil, err
	}
	return listResponse(listings), nil
}

// applyRequest copies the validated payload onto startup, persisting media
// through the configured store. It returns the stored values the store
// created during this call.
func (s *startupService) applyRequest(ctx context.Context, startup *model.Startup, req *model.StartupRequest) ([]string, error) {
	prefix := "startups/" + startup.ID.String()

	media, err := s.media.Persist(ctx, prefix+"/media", req.Media)
	if err != nil {
		return nil, mediaError(err)
	}
	created := without(media, req.Media)

	var logo *string
	if req.Logo != nil {
		stored, err := s.media.Persist(ctx, prefix+"/logo", []string{*req.Logo})
		if err != nil {
			s.media.Discard(ctx, created)
			return nil, mediaError(err)
		}
		logo = &stored[0]
		if stored[0] != *req.Logo {
			created = append(created, stored[0])
		}
	}

	startup.Name = req.Name
	startup.Tagline = req.Tagline
	startup.Description = req.Description
	startup.Industry = req.Industry
	startup.Categories = req.Categories
	startup.BusinessType = model.BusinessType(req.BusinessType)
	startup.TargetAudience = req.TargetAudience
	startup.Website = req.Website
	startup.Logo = logo
	startup.Media = media
	req.Offer().Apply(startup)
	return created, nil
}

func (s *startupService) getStartup(ctx context.Context, id uuid.UUID) (*model.Startup, error) {
	startup, err := s.startups.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrStartupNotFound) {
			return nil, model.NewNotFoundError()
		}
		return nil, err
	}
	return startup, nil
}

// invalidateListings drops cached aggregates that include listing content.
func (s *startupService) invalidateListings(ctx context.Context) {
	if err := s.cache.Delete(ctx, model.FilterOptionsCacheKey); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate filter options cache")
	}
	s.invalidateTrending(ctx)
}

func (s *startupService) invalidateTrending(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, model.TrendingCachePattern); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate trending cache")
	}
}

// checkMedia rejects entries that are neither data URLs nor http(s) links,
// and data URLs whose payload exceeds MaxMediaBytes.
func checkMedia(req *model.StartupRequest) error {
	if req.Logo != nil {
		if err := checkMediaEntry(*req.Logo, "Logo"); err != nil {
			return err
		}
	}
	for i, m := range req.Media {
		if err := checkMediaEntry(m, fmt.Sprintf("Media entry %d", i+1)); err != nil {
			return err
		}
	}
	return nil
}

func checkMediaEntry(entry, label string) error {
	size, err := storage.DecodedSize(entry)
	if err != nil {
		return model.NewInvalidMediaError(label, err)
	}
	if size > model.MaxMediaBytes {
		return model.NewMediaTooLargeError(label)
	}
	return nil
}

func storedMedia(startup *model.Startup) []string {
	out := append([]string{}, startup.Media...)
	if startup.Logo != nil {
		out = append(out, *startup.Logo)
	}
	return out
}

// without returns the values of a that do not appear in b.
func without(a, b []string) []string {
	skip := make(map[string]struct{}, len(b))
	for _, v := range b {
		skip[v] = struct{}{}
	}
	var out []string
	for _, v := range a {
		if _, ok := skip[v]; !ok {
			out = append(out, v)
		}
	}
	return out
}

func mediaError(err error) error {
	if errors.Is(err, storage.ErrMalformedDataURL) || errors.Is(err, storage.ErrUnsupportedMedia) {
		return model.NewInvalidMediaError("Media entry", err)
	}
	return fmt.Errorf("persist media: %w", err)
}

func listResponse(listings []model.StartupListing) *model.StartupListResponse {
	if listings == nil {
		listings = []model.StartupListing{}
	}
	return &model.StartupListResponse{Startups: listings, Count: len(listings)}
}

// hideFounderEmails strips contact details from lists served outside the
// admin dashboard.
func hideFounderEmails(listings []model.StartupListing) []model.StartupListing {
	for i := range listings {
		listings[i].FounderEmail = ""
	}
	return listings
}
