package user

import (
	"context"

	"github.com/google/uuid"
)

type Service interface {
	Signup(ctx context.Context, req SignupRequest) (*AuthResult, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResult, error)
	GoogleLogin(ctx context.Context, req GoogleLoginRequest) (*AuthResult, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	UpdateInterests(ctx context.Context, userID uuid.UUID, req UpdateInterestsRequest) (*UserDTO, error)
	GetInterests(ctx context.Context, userID uuid.UUID) ([]string, error)

	HasPermission(ctx context.Context, userID uuid.UUID, permission Permission) (bool, error)
	// SeedAdmin creates the configured admin account if needed and grants it
	// the admin permission.
	SeedAdmin(ctx context.Context, email, password, fullName string) error
}

// GoogleIdentity is the verified subset of a Google ID token.
type GoogleIdentity struct {
	Email         string
	Name          string
	EmailVerified bool
}

// GoogleVerifier validates Google ID tokens against the configured client id.
type GoogleVerifier interface {
	Verify(ctx context.Context, credential string) (*GoogleIdentity, error)
}
