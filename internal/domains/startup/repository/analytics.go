package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"launchsignal-backend/internal/domains/startup/model"
)

const anonymousUser = "Anonymous User"

type postgresAnalyticsRepository struct {
	pool *pgxpool.Pool
}

func NewAnalyticsRepository(pool *pgxpool.Pool) AnalyticsRepository {
	return &postgresAnalyticsRepository{pool: pool}
}

func (r *postgresAnalyticsRepository) FounderTotals(ctx context.Context, startupIDs []uuid.UUID) (int64, int64, error) {
	if len(startupIDs) == 0 {
		return 0, 0, nil
	}

	var feedback, upvotes int64
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM feedback WHERE startup_id = ANY($1)),
			(SELECT COUNT(*) FROM upvotes WHERE startup_id = ANY($1))
	`, startupIDs).Scan(&feedback, &upvotes)
	if err != nil {
		return 0, 0, fmt.Errorf("founder totals: %w", err)
	}
	return feedback, upvotes, nil
}

func (r *postgresAnalyticsRepository) Source(ctx context.Context, startupID uuid.UUID, since time.Time) (*model.AnalyticsSource, error) {
	src := &model.AnalyticsSource{}
	var err error

	src.ViewBuckets, err = r.timeCounts(ctx, `
		SELECT bucket_start, views FROM startup_view_buckets
		WHERE startup_id = $1 AND bucket_start >= $2
	`, startupID, since)
	if err != nil {
		return nil, fmt.Errorf("view buckets: %w", err)
	}

	src.Upvotes, err = r.timeCounts(ctx, `
		SELECT created_at, 1 FROM upvotes WHERE startup_id = $1 AND created_at >= $2
	`, startupID, since)
	if err != nil {
		return nil, fmt.Errorf("upvote series: %w", err)
	}

	src.Feedback, err = r.timeCounts(ctx, `
		SELECT created_at, 1 FROM feedback WHERE startup_id = $1 AND created_at >= $2
	`, startupID, since)
	if err != nil {
		return nil, fmt.Errorf("feedback series: %w", err)
	}

	err = r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM upvotes WHERE startup_id = $1),
			(SELECT COUNT(*) FROM feedback WHERE startup_id = $1)
	`, startupID).Scan(&src.TotalUpvotes, &src.TotalFeedback)
	if err != nil {
		return nil, fmt.Errorf("analytics totals: %w", err)
	}

	src.RecentUpvotes, err = r.activity(ctx, model.ActivityUpvote, `
		SELECT created_at, NULL::text FROM upvotes
		WHERE startup_id = $1 ORDER BY created_at DESC LIMIT $2
	`, startupID, model.RecentPerKind)
	if err != nil {
		return nil, fmt.Errorf("recent upvotes: %w", err)
	}

	src.RecentFeedback, err = r.activity(ctx, model.ActivityFeedback, `
		SELECT f.created_at, u.full_name FROM feedback f
		LEFT JOIN users u ON u.id = f.user_id
		WHERE f.startup_id = $1 ORDER BY f.created_at DESC LIMIT $2
	`, startupID, model.RecentPerKind)
	if err != nil {
		return nil, fmt.Errorf("recent feedback: %w", err)
	}

	return src, nil
}

func (r *postgresAnalyticsRepository) timeCounts(ctx context.Context, query string, args ...any) ([]model.TimeCount, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.TimeCount, error) {
		var tc model.TimeCount
		err := row.Scan(&tc.At, &tc.Count)
		return tc, err
	})
}

func (r *postgresAnalyticsRepository) activity(ctx context.Context, kind model.ActivityKind, query string, args ...any) ([]model.Activity, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Activity, error) {
		a := model.Activity{Type: kind, User: anonymousUser}
		var name *string
		if err := row.Scan(&a.Timestamp, &name); err != nil {
			return a, err
		}
		if name != nil && *name != "" {
			a.User = *name
		}
		return a, nil
	})
}
