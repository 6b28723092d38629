package service

import (
	"context"

	"github.com/google/uuid"

	"launchsignal-backend/internal/domains/startup/model"
)

type ServiceInterface interface {
	// Listings
	CreateStartup(ctx context.Context, founderID uuid.UUID, req model.StartupRequest) (*model.Startup, error)
	UpdateStartup(ctx context.Context, id, callerID uuid.UUID, req model.StartupRequest) (*model.Startup, error)
	GetStartup(ctx context.Context, id uuid.UUID) (*model.StartupListing, error)
	GetMyStartups(ctx context.Context, founderID uuid.UUID) (*model.StartupListResponse, error)

	// Discovery
	// GetFeed never fails; errors degrade to the unpersonalized list and
	// finally to an empty one.
	GetFeed(ctx context.Context, caller *uuid.UUID) *model.StartupListResponse
	GetTrending(ctx context.Context, window model.TrendingWindow) (*model.TrendingResponse, error)
	RefreshTrending(ctx context.Context) error
	GetFilterOptions(ctx context.Context) (*model.FilterOptions, error)
	IncrementView(ctx context.Context, id uuid.UUID) (*model.ViewResponse, error)

	// Upvotes
	Upvote(ctx context.Context, id, userID uuid.UUID) error
	RemoveUpvote(ctx context.Context, id, userID uuid.UUID) error
	GetMyUpvotes(ctx context.Context, userID uuid.UUID) (*model.UpvoteListResponse, error)

	// Analytics
	GetFounderAnalytics(ctx context.Context, founderID uuid.UUID) (*model.FounderAnalytics, error)
	GetStartupAnalytics(ctx context.Context, id, callerID uuid.UUID) (*model.StartupAnalytics, error)
	PruneViewBuckets(ctx context.Context) (int64, error)

	// Moderation
	SetStatus(ctx context.Context, id uuid.UUID, req model.UpdateStatusRequest) (*model.Startup, error)
	ListAdmin(ctx context.Context, query model.AdminListQuery) (*model.StartupListResponse, error)
	GetAdminCounts(ctx context.Context) (*model.AdminCounts, error)
	ExportAdmin(ctx context.Context, query model.AdminListQuery) ([]byte, error)
}

// InterestReader returns a user's declared interest tags.
type InterestReader interface {
	GetInterests(ctx context.Context, userID uuid.UUID) ([]string, error)
}
