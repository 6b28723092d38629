package user

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail matches the stored (lower-cased) email exactly.
	FindByEmail(ctx context.Context, email string) (*User, error)
	// FindByEmailFold matches case-insensitively, for rows stored before
	// emails were normalized.
	FindByEmailFold(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	UpdateRole(ctx context.Context, id uuid.UUID, role Role) error
	UpdateInterests(ctx context.Context, id uuid.UUID, interests []string) error

	HasPermission(ctx context.Context, id uuid.UUID, permission Permission) (bool, error)
	GrantPermission(ctx context.Context, id uuid.UUID, permission Permission) error
}
