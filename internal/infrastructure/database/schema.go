package database

import (
	"context"
	"database/sql"
	"fmt"

	// Registers the "postgres" driver for database/sql.
	_ "github.com/lib/pq"
)

// OpenSQL opens a database/sql handle through lib/pq. Migrations use it so
// they can run without the pgx pool.
func OpenSQL(ctx context.Context, cfg *DBConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY,
    email TEXT NOT NULL,
    full_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role TEXT NOT NULL CHECK (role IN ('founder', 'adopter')),
    interests TEXT[] NOT NULL DEFAULT '{}',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_lower ON users (LOWER(email));

-- Named capabilities; 'admin' grants moderation.
CREATE TABLE IF NOT EXISTS user_permissions (
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    permission TEXT NOT NULL,
    granted_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (user_id, permission)
);

CREATE TABLE IF NOT EXISTS startups (
    id UUID PRIMARY KEY,
    founder_id UUID NOT NULL REFERENCES users(id),
    name TEXT NOT NULL,
    tagline TEXT NOT NULL,
    description TEXT NOT NULL,
    industry TEXT NOT NULL DEFAULT '',
    categories TEXT[] NOT NULL DEFAULT '{}' CHECK (COALESCE(array_length(categories, 1), 0) <= 3),
    business_type TEXT NOT NULL CHECK (business_type IN ('B2B', 'B2C')),
    target_audience TEXT NOT NULL DEFAULT '',
    website TEXT NOT NULL,
    logo TEXT,
    media TEXT[] NOT NULL DEFAULT '{}' CHECK (COALESCE(array_length(media, 1), 0) <= 5),
    has_special_offer BOOLEAN NOT NULL DEFAULT FALSE,
    special_offer_text TEXT NOT NULL DEFAULT '',
    special_offer_code TEXT,
    discount NUMERIC(5,2) NOT NULL DEFAULT 0 CHECK (discount >= 0 AND discount <= 100),
    status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'rejected')),
    views BIGINT NOT NULL DEFAULT 0 CHECK (views >= 0),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_startups_founder ON startups(founder_id);
CREATE INDEX IF NOT EXISTS idx_startups_status ON startups(status);
CREATE INDEX IF NOT EXISTS idx_startups_created_at ON startups(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_startups_categories ON startups USING GIN (categories);

CREATE TABLE IF NOT EXISTS upvotes (
    startup_id UUID NOT NULL REFERENCES startups(id) ON DELETE CASCADE,
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (startup_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_upvotes_user ON upvotes(user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_upvotes_created_at ON upvotes(created_at);

CREATE TABLE IF NOT EXISTS feedback (
    id UUID PRIMARY KEY,
    startup_id UUID NOT NULL REFERENCES startups(id) ON DELETE CASCADE,
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    comment TEXT NOT NULL CHECK (char_length(comment) >= 10),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_feedback_startup ON feedback(startup_id, created_at DESC);

-- Hourly view counters, written together with startups.views.
CREATE TABLE IF NOT EXISTS startup_view_buckets (
    startup_id UUID NOT NULL REFERENCES startups(id) ON DELETE CASCADE,
    bucket_start TIMESTAMPTZ NOT NULL,
    views BIGINT NOT NULL DEFAULT 0,
    PRIMARY KEY (startup_id, bucket_start)
);
`
