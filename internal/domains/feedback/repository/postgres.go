package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"launchsignal-backend/internal/domains/feedback/model"
)

const foreignKeyViolation = "23503"

type postgresFeedbackRepository struct {
	pool *pgxpool.Pool
}

func NewFeedbackRepository(pool *pgxpool.Pool) FeedbackRepository {
	return &postgresFeedbackRepository{pool: pool}
}

func (r *postgresFeedbackRepository) Create(ctx context.Context, f *model.Feedback) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO feedback (id, startup_id, user_id, comment, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, f.ID, f.StartupID, f.UserID, f.Comment, f.CreatedAt)
	if err != nil {
		// The startup may have been deleted between lookup and insert.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return model.ErrStartupNotFound
		}
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

func (r *postgresFeedbackRepository) ListByStartup(ctx context.Context, startupID uuid.UUID) ([]model.FeedbackEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT f.id, f.startup_id, f.comment, f.created_at, f.user_id, COALESCE(u.full_name, '')
		FROM feedback f
		LEFT JOIN users u ON u.id = f.user_id
		WHERE f.startup_id = $1
		ORDER BY f.created_at DESC
	`, startupID)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.FeedbackEntry, error) {
		var e model.FeedbackEntry
		err := row.Scan(&e.ID, &e.StartupID, &e.Comment, &e.CreatedAt, &e.User.ID, &e.User.FullName)
		return e, err
	})
}

func (r *postgresFeedbackRepository) StartupFounder(ctx context.Context, startupID uuid.UUID) (uuid.UUID, error) {
	var founderID uuid.UUID
	err := r.pool.QueryRow(ctx, `SELECT founder_id FROM startups WHERE id = $1`, startupID).Scan(&founderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, model.ErrStartupNotFound
		}
		return uuid.Nil, fmt.Errorf("lookup startup founder: %w", err)
	}
	return founderID, nil
}
