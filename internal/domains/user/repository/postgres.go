package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"launchsignal-backend/internal/domains/user"
	"launchsignal-backend/pkg/cache"
)

const (
	userCacheTTL       = 15 * time.Minute
	permissionCacheTTL = 5 * time.Minute
	uniqueViolation    = "23505"
)

type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) user.Repository {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

func userCacheKey(id uuid.UUID) string {
	return "user:" + id.String()
}

func permissionCacheKey(id uuid.UUID, p user.Permission) string {
	return fmt.Sprintf("user:perm:%s:%s", id, p)
}

const userColumns = `id, email, full_name, password_hash, role, interests, created_at, updated_at`

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.FullName,
		&u.PasswordHash,
		&u.Role,
		&u.Interests,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *postgresRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (id, email, full_name, password_hash, role, interests, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	interests := u.Interests
	if interests == nil {
		interests = []string{}
	}

	_, err := r.pool.Exec(ctx, query,
		u.ID,
		u.Email,
		u.FullName,
		u.PasswordHash,
		u.Role,
		interests,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return user.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// FindByID reads through the cache. Cached users carry no password hash.
func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	key := userCacheKey(id)

	var cached user.User
	if found, err := r.cache.Get(ctx, key, &cached); err == nil && found {
		return &cached, nil
	} else if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("User cache read failed")
	}

	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}

	_ = r.cache.Set(ctx, key, u, userCacheTTL)
	return u, nil
}

func (r *postgresRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil && !errors.Is(err, user.ErrUserNotFound) {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, err
}

func (r *postgresRepository) FindByEmailFold(ctx context.Context, email string) (*user.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1) LIMIT 1`, email))
	if err != nil && !errors.Is(err, user.ErrUserNotFound) {
		return nil, fmt.Errorf("find user by email (case-insensitive): %w", err)
	}
	return u, err
}

func (r *postgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) UpdateRole(ctx context.Context, id uuid.UUID, role user.Role) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1`, id, role)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	_ = r.cache.Delete(ctx, userCacheKey(id))
	return nil
}

func (r *postgresRepository) UpdateInterests(ctx context.Context, id uuid.UUID, interests []string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET interests = $2, updated_at = NOW() WHERE id = $1`, id, interests)
	if err != nil {
		return fmt.Errorf("update interests: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	_ = r.cache.Delete(ctx, userCacheKey(id))
	return nil
}

func (r *postgresRepository) HasPermission(ctx context.Context, id uuid.UUID, p user.Permission) (bool, error) {
	key := permissionCacheKey(id, p)

	var cached bool
	if found, err := r.cache.Get(ctx, key, &cached); err == nil && found {
		return cached, nil
	}

	var has bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM user_permissions WHERE user_id = $1 AND permission = $2)`, id, p,
	).Scan(&has)
	if err != nil {
		return false, fmt.Errorf("check permission: %w", err)
	}

	_ = r.cache.Set(ctx, key, has, permissionCacheTTL)
	return has, nil
}

func (r *postgresRepository) GrantPermission(ctx context.Context, id uuid.UUID, p user.Permission) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_permissions (user_id, permission)
		VALUES ($1, $2)
		ON CONFLICT (user_id, permission) DO NOTHING
	`, id, p)
	if err != nil {
		return fmt.Errorf("grant permission: %w", err)
	}
	_ = r.cache.Delete(ctx, permissionCacheKey(id, p))
	return nil
}
