package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"launchsignal-backend/internal/domains/startup/model"
	"launchsignal-backend/internal/shared/utils"
)

type postgresUpvoteRepository struct {
	pool *pgxpool.Pool
}

func NewUpvoteRepository(pool *pgxpool.Pool) UpvoteRepository {
	return &postgresUpvoteRepository{pool: pool}
}

func (r *postgresUpvoteRepository) Add(ctx context.Context, startupID, userID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO upvotes (startup_id, user_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (startup_id, user_id) DO NOTHING
	`, startupID, userID)
	if err != nil {
		return false, fmt.Errorf("insert upvote: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *postgresUpvoteRepository) Remove(ctx context.Context, startupID, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM upvotes WHERE startup_id = $1 AND user_id = $2`, startupID, userID)
	if err != nil {
		return fmt.Errorf("delete upvote: %w", err)
	}
	return nil
}

func (r *postgresUpvoteRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.UpvotedStartup, error) {
	query := `
		SELECT ` + startupColumns + `,
			(SELECT COUNT(*) FROM upvotes up WHERE up.startup_id = s.id) AS upvotes,
			u.full_name, u.email, mine.created_at
		FROM upvotes mine
		JOIN startups s ON s.id = mine.startup_id
		JOIN users u ON u.id = s.founder_id
		WHERE mine.user_id = $1
		ORDER BY mine.created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list user upvotes: %w", err)
	}
	defer rows.Close()

	result := make([]model.UpvotedStartup, 0)
	for rows.Next() {
		var item model.UpvotedStartup
		dest := append(startupFields(&item.Startup),
			&item.Upvotes, &item.FounderName, &item.FounderEmail, &item.UpvotedAt)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *postgresUpvoteRepository) TopStartups(ctx context.Context, since *time.Time, startupIDs []uuid.UUID, limit int) ([]model.UpvoteCount, error) {
	var args utils.ArgList
	var where []string

	if since != nil {
		where = append(where, "created_at >= "+args.Add(*since))
	}
	if startupIDs != nil {
		where = append(where, "startup_id = ANY("+args.Add(startupIDs)+")")
	}

	query := `SELECT startup_id, COUNT(*) AS upvotes FROM upvotes ` +
		utils.WhereClause(where) +
		` GROUP BY startup_id ORDER BY upvotes DESC, startup_id LIMIT ` + args.Add(limit)

	rows, err := r.pool.Query(ctx, query, args.Values()...)
	if err != nil {
		return nil, fmt.Errorf("top startups by upvotes: %w", err)
	}
	defer rows.Close()

	counts := make([]model.UpvoteCount, 0, limit)
	for rows.Next() {
		var c model.UpvoteCount
		if err := rows.Scan(&c.StartupID, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
