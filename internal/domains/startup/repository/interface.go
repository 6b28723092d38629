package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"launchsignal-backend/internal/domains/startup/model"
)

type StartupRepository interface {
	Create(ctx context.Context, s *model.Startup) error
	// Update writes every editable column; founder_id and status are
	// written as given.
	Update(ctx context.Context, s *model.Startup) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Startup, error)
	GetListing(ctx context.Context, id uuid.UUID) (*model.StartupListing, error)

	// ListFeed returns startups newest-first. A non-empty Interests keeps
	// startups sharing at least one category; ExcludeUpvoted drops those the
	// given user has upvoted.
	ListFeed(ctx context.Context, filter model.FeedFilter) ([]model.StartupListing, error)
	ListByFounder(ctx context.Context, founderID uuid.UUID) ([]model.StartupListing, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Startup, error)
	ListAdmin(ctx context.Context, status *model.Status, search string) ([]model.StartupListing, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status model.Status) (*model.Startup, error)
	CountByStatus(ctx context.Context) (map[model.Status]int64, error)
	CountUsers(ctx context.Context) (int64, error)
	FilterOptions(ctx context.Context) (*model.FilterOptions, error)

	// IncrementView bumps the counter and the hourly bucket for at in one
	// transaction and returns the new total.
	IncrementView(ctx context.Context, id uuid.UUID, at time.Time) (int64, error)
	PruneViewBuckets(ctx context.Context, before time.Time) (int64, error)
}

type UpvoteRepository interface {
	// Add is idempotent; it reports whether a new row was written.
	Add(ctx context.Context, startupID, userID uuid.UUID) (bool, error)
	Remove(ctx context.Context, startupID, userID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.UpvotedStartup, error)

	// TopStartups groups upvotes created at or after since (nil: all time),
	// optionally restricted to startupIDs, ordered by count descending.
	TopStartups(ctx context.Context, since *time.Time, startupIDs []uuid.UUID, limit int) ([]model.UpvoteCount, error)
}

type AnalyticsRepository interface {
	// FounderTotals returns the feedback and upvote totals across the
	// given startups.
	FounderTotals(ctx context.Context, startupIDs []uuid.UUID) (feedback, upvotes int64, err error)
	// Source loads the raw rows for one startup's analytics since the given time.
	Source(ctx context.Context, startupID uuid.UUID, since time.Time) (*model.AnalyticsSource, error)
}
