package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"launchsignal-backend/internal/domains/startup/model"
	"launchsignal-backend/internal/shared/utils"
	"launchsignal-backend/pkg/database"
)

const startupColumns = `
	s.id, s.founder_id, s.name, s.tagline, s.description, s.industry, s.categories,
	s.business_type, s.target_audience, s.website, s.logo, s.media,
	s.has_special_offer, s.special_offer_text, s.special_offer_code, s.discount,
	s.status, s.views, s.created_at, s.updated_at`

const listingSelect = `
	SELECT ` + startupColumns + `,
		(SELECT COUNT(*) FROM upvotes up WHERE up.startup_id = s.id) AS upvotes,
		u.full_name, u.email
	FROM startups s
	JOIN users u ON u.id = s.founder_id`

type postgresStartupRepository struct {
	pool *pgxpool.Pool
}

func NewStartupRepository(pool *pgxpool.Pool) StartupRepository {
	return &postgresStartupRepository{pool: pool}
}

func startupFields(s *model.Startup) []any {
	return []any{
		&s.ID, &s.FounderID, &s.Name, &s.Tagline, &s.Description, &s.Industry, &s.Categories,
		&s.BusinessType, &s.TargetAudience, &s.Website, &s.Logo, &s.Media,
		&s.HasSpecialOffer, &s.SpecialOfferText, &s.SpecialOfferCode, &s.Discount,
		&s.Status, &s.Views, &s.CreatedAt, &s.UpdatedAt,
	}
}

func scanStartup(row pgx.Row) (*model.Startup, error) {
	var s model.Startup
	if err := row.Scan(startupFields(&s)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrStartupNotFound
		}
		return nil, err
	}
	return &s, nil
}

func scanListing(row pgx.Row) (*model.StartupListing, error) {
	var l model.StartupListing
	dest := append(startupFields(&l.Startup), &l.Upvotes, &l.FounderName, &l.FounderEmail)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrStartupNotFound
		}
		return nil, err
	}
	return &l, nil
}

func collectListings(rows pgx.Rows) ([]model.StartupListing, error) {
	defer rows.Close()

	listings := make([]model.StartupListing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, *l)
	}
	return listings, rows.Err()
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func (r *postgresStartupRepository) Create(ctx context.Context, s *model.Startup) error {
	query := `
		INSERT INTO startups (
			id, founder_id, name, tagline, description, industry, categories,
			business_type, target_audience, website, logo, media,
			has_special_offer, special_offer_text, special_offer_code, discount,
			status, views, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`
	_, err := r.pool.Exec(ctx, query,
		s.ID, s.FounderID, s.Name, s.Tagline, s.Description, s.Industry, nonNil(s.Categories),
		s.BusinessType, s.TargetAudience, s.Website, s.Logo, nonNil(s.Media),
		s.HasSpecialOffer, s.SpecialOfferText, s.SpecialOfferCode, s.Discount,
		s.Status, s.Views, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert startup: %w", err)
	}
	return nil
}

func (r *postgresStartupRepository) Update(ctx context.Context, s *model.Startup) error {
	query := `
		UPDATE startups SET
			founder_id = $2, name = $3, tagline = $4, description = $5, industry = $6,
			categories = $7, business_type = $8, target_audience = $9, website = $10,
			logo = $11, media = $12, has_special_offer = $13, special_offer_text = $14,
			special_offer_code = $15, discount = $16, status = $17, updated_at = $18
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		s.ID, s.FounderID, s.Name, s.Tagline, s.Description, s.Industry,
		nonNil(s.Categories), s.BusinessType, s.TargetAudience, s.Website,
		s.Logo, nonNil(s.Media), s.HasSpecialOffer, s.SpecialOfferText,
		s.SpecialOfferCode, s.Discount, s.Status, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update startup: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrStartupNotFound
	}
	return nil
}

func (r *postgresStartupRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Startup, error) {
	s, err := scanStartup(r.pool.QueryRow(ctx, `SELECT `+startupColumns+` FROM startups s WHERE s.id = $1`, id))
	if err != nil && !errors.Is(err, model.ErrStartupNotFound) {
		return nil, fmt.Errorf("get startup: %w", err)
	}
	return s, err
}

func (r *postgresStartupRepository) GetListing(ctx context.Context, id uuid.UUID) (*model.StartupListing, error) {
	l, err := scanListing(r.pool.QueryRow(ctx, listingSelect+` WHERE s.id = $1`, id))
	if err != nil && !errors.Is(err, model.ErrStartupNotFound) {
		return nil, fmt.Errorf("get startup listing: %w", err)
	}
	return l, err
}

func (r *postgresStartupRepository) ListFeed(ctx context.Context, filter model.FeedFilter) ([]model.StartupListing, error) {
	var args utils.ArgList
	var where []string

	if len(filter.Interests) > 0 {
		where = append(where, "s.categories && "+args.Add(filter.Interests)+"::text[]")
	}
	if filter.ExcludeUpvoted != nil {
		where = append(where, `NOT EXISTS (
			SELECT 1 FROM upvotes mine
			WHERE mine.startup_id = s.id AND mine.user_id = `+args.Add(*filter.ExcludeUpvoted)+`)`)
	}

	query := listingSelect + " " + utils.WhereClause(where) + " ORDER BY s.created_at DESC"
	rows, err := r.pool.Query(ctx, query, args.Values()...)
	if err != nil {
		return nil, fmt.Errorf("list feed: %w", err)
	}
	return collectListings(rows)
}

func (r *postgresStartupRepository) ListByFounder(ctx context.Context, founderID uuid.UUID) ([]model.StartupListing, error) {
	rows, err := r.pool.Query(ctx, listingSelect+` WHERE s.founder_id = $1 ORDER BY s.created_at DESC`, founderID)
	if err != nil {
		return nil, fmt.Errorf("list founder startups: %w", err)
	}
	return collectListings(rows)
}

func (r *postgresStartupRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Startup, error) {
	if len(ids) == 0 {
		return []model.Startup{}, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT `+startupColumns+` FROM startups s WHERE s.id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("list startups by id: %w", err)
	}
	defer rows.Close()

	startups := make([]model.Startup, 0, len(ids))
	for rows.Next() {
		s, err := scanStartup(rows)
		if err != nil {
			return nil, err
		}
		startups = append(startups, *s)
	}
	return startups, rows.Err()
}

func (r *postgresStartupRepository) ListAdmin(ctx context.Context, status *model.Status, search string) ([]model.StartupListing, error) {
	var args utils.ArgList
	var where []string

	if status != nil {
		where = append(where, "s.status = "+args.Add(*status))
	}
	if search != "" {
		p := args.Add("%" + utils.EscapeLike(search) + "%")
		where = append(where, "(s.name ILIKE "+p+" OR s.tagline ILIKE "+p+")")
	}

	query := listingSelect + " " + utils.WhereClause(where) + " ORDER BY s.created_at DESC"
	rows, err := r.pool.Query(ctx, query, args.Values()...)
	if err != nil {
		return nil, fmt.Errorf("list admin startups: %w", err)
	}
	return collectListings(rows)
}

func (r *postgresStartupRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.Status) (*model.Startup, error) {
	s, err := scanStartup(r.pool.QueryRow(ctx, `
		UPDATE startups s SET status = $2, updated_at = NOW()
		WHERE s.id = $1
		RETURNING `+startupColumns, id, status))
	if err != nil && !errors.Is(err, model.ErrStartupNotFound) {
		return nil, fmt.Errorf("update status: %w", err)
	}
	return s, err
}

func (r *postgresStartupRepository) CountByStatus(ctx context.Context) (map[model.Status]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM startups GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count startups by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.Status]int64, 3)
	for rows.Next() {
		var status model.Status
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (r *postgresStartupRepository) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *postgresStartupRepository) FilterOptions(ctx context.Context) (*model.FilterOptions, error) {
	opts := &model.FilterOptions{Categories: []string{}, Industries: []string{}}

	err := r.pool.QueryRow(ctx, `
		SELECT
			COALESCE((
				SELECT array_agg(DISTINCT c ORDER BY c)
				FROM startups, unnest(categories) AS c
				WHERE btrim(c) <> ''
			), '{}'),
			COALESCE((
				SELECT array_agg(DISTINCT industry ORDER BY industry)
				FROM startups
				WHERE btrim(industry) <> ''
			), '{}')
	`).Scan(&opts.Categories, &opts.Industries)
	if err != nil {
		return nil, fmt.Errorf("filter options: %w", err)
	}
	return opts, nil
}

func (r *postgresStartupRepository) IncrementView(ctx context.Context, id uuid.UUID, at time.Time) (int64, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (int64, error) {
		var views int64
		err := tx.QueryRow(ctx,
			`UPDATE startups SET views = views + 1 WHERE id = $1 RETURNING views`, id,
		).Scan(&views)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return 0, model.ErrStartupNotFound
			}
			return 0, fmt.Errorf("increment views: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO startup_view_buckets (startup_id, bucket_start, views)
			VALUES ($1, $2, 1)
			ON CONFLICT (startup_id, bucket_start)
			DO UPDATE SET views = startup_view_buckets.views + 1
		`, id, at.UTC().Truncate(time.Hour))
		if err != nil {
			return 0, fmt.Errorf("upsert view bucket: %w", err)
		}
		return views, nil
	})
}

func (r *postgresStartupRepository) PruneViewBuckets(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM startup_view_buckets WHERE bucket_start < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("prune view buckets: %w", err)
	}
	return tag.RowsAffected(), nil
}
