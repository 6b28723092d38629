package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"launchsignal-backend/internal/domains/startup/model"
	"launchsignal-backend/internal/shared/utils"
)

func (s *startupService) GetFeed(ctx context.Context, caller *uuid.UUID) *model.StartupListResponse {
	listings, err := s.personalizedFeed(ctx, caller)
	if err != nil {
		log.Warn().Err(err).Msg("Personalized feed failed, falling back to all startups")

		listings, err = s.startups.ListFeed(ctx, model.FeedFilter{})
		if err != nil {
			log.Error().Err(err).Msg("Unfiltered feed failed, returning empty list")
			listings = nil
		}
	}
	return listResponse(hideFounderEmails(listings))
}

func (s *startupService) personalizedFeed(ctx context.Context, caller *uuid.UUID) ([]model.StartupListing, error) {
	if caller == nil {
		return s.startups.ListFeed(ctx, model.FeedFilter{})
	}

	interests, err := s.interests.GetInterests(ctx, *caller)
	if err != nil {
		return nil, fmt.Errorf("load interests: %w", err)
	}

	return s.startups.ListFeed(ctx, model.FeedFilter{
		Interests:      utils.NormalizeTags(interests),
		ExcludeUpvoted: caller,
	})
}

func (s *startupService) GetTrending(ctx context.Context, window model.TrendingWindow) (*model.TrendingResponse, error) {
	key := model.TrendingCacheKey(window)

	var cached model.TrendingResponse
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Trending cache read failed")
	} else if found {
		return &cached, nil
	}

	resp, err := s.computeTrending(ctx, window)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, resp, model.TrendingCacheTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Trending cache write failed")
	}
	return resp, nil
}

// RefreshTrending recomputes and caches both windows.
func (s *startupService) RefreshTrending(ctx context.Context) error {
	var errs []error
	for _, window := range []model.TrendingWindow{model.WindowWeek, model.WindowAll} {
		resp, err := s.computeTrending(ctx, window)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", window, err))
			continue
		}
		if err := s.cache.Set(ctx, model.TrendingCacheKey(window), resp, model.TrendingCacheTTL); err != nil {
			errs = append(errs, fmt.Errorf("cache %s: %w", window, err))
		}
	}
	return errors.Join(errs...)
}

func (s *startupService) computeTrending(ctx context.Context, window model.TrendingWindow) (*model.TrendingResponse, error) {
	counts, err := s.upvotes.TopStartups(ctx, s.windowStart(window), nil, model.TrendingLimit)
	if err != nil {
		return nil, fmt.Errorf("rank upvotes: %w", err)
	}

	ids := make([]uuid.UUID, len(counts))
	for i, c := range counts {
		ids[i] = c.StartupID
	}
	startups, err := s.startups.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("hydrate trending startups: %w", err)
	}

	return &model.TrendingResponse{
		Window:   window,
		Startups: rankTrending(counts, startups),
	}, nil
}

func (s *startupService) windowStart(window model.TrendingWindow) *time.Time {
	if window == model.WindowAll {
		return nil
	}
	since := s.now().Add(-model.TrendingWeekWindow)
	return &since
}

// rankTrending merges grouped counts with hydrated startups, drops counts
// whose startup no longer exists and sorts by upvotes, then name.
func rankTrending(counts []model.UpvoteCount, startups []model.Startup) []model.TrendingItem {
	byID := make(map[uuid.UUID]*model.Startup, len(startups))
	for i := range startups {
		byID[startups[i].ID] = &startups[i]
	}

	items := make([]model.TrendingItem, 0, len(counts))
	for _, c := range counts {
		st, ok := byID[c.StartupID]
		if !ok {
			continue
		}
		items = append(items, model.NewTrendingItem(st, c.Count))
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Upvotes != items[j].Upvotes {
			return items[i].Upvotes > items[j].Upvotes
		}
		return items[i].Name < items[j].Name
	})
	return items
}

func (s *startupService) GetFilterOptions(ctx context.Context) (*model.FilterOptions, error) {
	var cached model.FilterOptions
	if found, err := s.cache.Get(ctx, model.FilterOptionsCacheKey, &cached); err == nil && found {
		return &cached, nil
	}

	opts, err := s.startups.FilterOptions(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, model.FilterOptionsCacheKey, opts, model.FilterOptionsCacheTTL); err != nil {
		log.Warn().Err(err).Msg("Filter options cache write failed")
	}
	return opts, nil
}

func (s *startupService) IncrementView(ctx context.Context, id uuid.UUID) (*model.ViewResponse, error) {
	views, err := s.startups.IncrementView(ctx, id, s.now())
	if err != nil {
		if errors.Is(err, model.ErrStartupNotFound) {
			return nil, model.NewNotFoundError()
		}
		return nil, err
	}
	return &model.ViewResponse{ID: id, Views: views}, nil
}
