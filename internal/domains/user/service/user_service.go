package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"launchsignal-backend/internal/domains/user"
	"launchsignal-backend/internal/shared/utils"
	"launchsignal-backend/pkg/cache"
	"launchsignal-backend/pkg/jwt"
)

const (
	defaultBcryptCost = 12

	MaxFailedLogins    = 5
	FailedLoginWindow  = 15 * time.Minute
	failedLoginKeyBase = "login_failed:"
)

type userService struct {
	repo       user.Repository
	jwt        *jwt.Manager
	cache      cache.Cache
	google     user.GoogleVerifier
	bcryptCost int
	now        func() time.Time
}

func NewUserService(
	repo user.Repository,
	jwtManager *jwt.Manager,
	cache cache.Cache,
	google user.GoogleVerifier,
) user.Service {
	return newUserService(repo, jwtManager, cache, google)
}

func newUserService(repo user.Repository, jwtManager *jwt.Manager, cache cache.Cache, google user.GoogleVerifier) *userService {
	return &userService{
		repo:       repo,
		jwt:        jwtManager,
		cache:      cache,
		google:     google,
		bcryptCost: defaultBcryptCost,
		now:        time.Now,
	}
}

func (s *userService) Signup(ctx context.Context, req user.SignupRequest) (*user.AuthResult, error) {
	req.Email = utils.NormalizeEmail(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email exists: %w", err)
	}
	if exists {
		return nil, user.ErrEmailAlreadyExists
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	newUser := &user.User{
		ID:           uuid.New(),
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: string(passwordHash),
		Role:         req.Role,
		Interests:    utils.NormalizeTags(req.Interests),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, newUser); err != nil {
		if errors.Is(err, user.ErrEmailAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.issue(ctx, newUser)
}

func (s *userService) Login(ctx context.Context, req user.LoginRequest) (*user.AuthResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	email := utils.NormalizeEmail(req.Email)

	if err := s.checkThrottle(ctx, email); err != nil {
		return nil, err
	}

	u, err := s.findByEmail(ctx, email)
	if errors.Is(err, user.ErrUserNotFound) {
		s.recordFailedLogin(ctx, email)
		return nil, user.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		s.recordFailedLogin(ctx, email)
		return nil, user.ErrInvalidCredentials
	}

	_ = s.cache.Delete(ctx, failedLoginKeyBase+email)
	return s.issue(ctx, u)
}

// GoogleLogin signs in an existing account only; it never creates one.
func (s *userService) GoogleLogin(ctx context.Context, req user.GoogleLoginRequest) (*user.AuthResult, error) {
	credential := strings.TrimSpace(req.Credential)
	if credential == "" {
		return nil, user.ErrMissingCredential
	}

	identity, err := s.google.Verify(ctx, credential)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", user.ErrGoogleTokenInvalid, err)
	}

	email := utils.NormalizeEmail(identity.Email)
	if email == "" {
		return nil, user.ErrGoogleEmailMissing
	}
	if !identity.EmailVerified {
		return nil, user.ErrGoogleEmailUnverified
	}

	u, err := s.findByEmail(ctx, email)
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, &user.NeedsSignupError{Email: email}
	}
	if err != nil {
		return nil, err
	}

	if u.Role != user.RoleFounder {
		isAdmin, err := s.repo.HasPermission(ctx, u.ID, user.PermissionAdmin)
		if err != nil {
			return nil, err
		}
		if isAdmin {
			if err := s.repo.UpdateRole(ctx, u.ID, user.RoleFounder); err != nil {
				return nil, fmt.Errorf("promote admin to founder: %w", err)
			}
			u.Role = user.RoleFounder
			log.Info().Str("user_id", u.ID.String()).Msg("Admin account promoted to founder on Google login")
		}
	}

	return s.issue(ctx, u)
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*user.UserDTO, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := u.ToDTO()

	isAdmin, err := s.repo.HasPermission(ctx, userID, user.PermissionAdmin)
	if err != nil {
		return nil, err
	}
	dto.IsAdmin = isAdmin
	return &dto, nil
}

func (s *userService) UpdateInterests(ctx context.Context, userID uuid.UUID, req user.UpdateInterestsRequest) (*user.UserDTO, error) {
	req.Interests = utils.NormalizeTags(req.Interests)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateInterests(ctx, userID, req.Interests); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, userID)
}

func (s *userService) GetInterests(ctx context.Context, userID uuid.UUID) ([]string, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.Interests, nil
}

func (s *userService) HasPermission(ctx context.Context, userID uuid.UUID, permission user.Permission) (bool, error) {
	return s.repo.HasPermission(ctx, userID, permission)
}

func (s *userService) SeedAdmin(ctx context.Context, email, password, fullName string) error {
	email = utils.NormalizeEmail(email)
	if email == "" {
		return nil
	}

	u, err := s.findByEmail(ctx, email)
	if errors.Is(err, user.ErrUserNotFound) {
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
		if hashErr != nil {
			return fmt.Errorf("hash admin password: %w", hashErr)
		}
		now := s.now()
		u = &user.User{
			ID:           uuid.New(),
			Email:        email,
			FullName:     fullName,
			PasswordHash: string(hash),
			Role:         user.RoleFounder,
			Interests:    []string{},
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.repo.Create(ctx, u); err != nil {
			return fmt.Errorf("create admin user: %w", err)
		}
		log.Info().Str("email", email).Msg("Admin user created")
	} else if err != nil {
		return err
	}

	if err := s.repo.GrantPermission(ctx, u.ID, user.PermissionAdmin); err != nil {
		return err
	}
	return nil
}

// findByEmail tries the normalized address first, then a case-insensitive
// match for legacy mixed-case rows.
func (s *userService) findByEmail(ctx context.Context, email string) (*user.User, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, user.ErrUserNotFound) {
		return s.repo.FindByEmailFold(ctx, email)
	}
	return u, err
}

func (s *userService) issue(ctx context.Context, u *user.User) (*user.AuthResult, error) {
	token, err := s.jwt.GenerateSessionToken(u.ID.String(), u.Email, u.Role.String())
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}
	return &user.AuthResult{Token: token, User: u.ToDTO()}, nil
}

func (s *userService) checkThrottle(ctx context.Context, email string) error {
	var attempts int64
	found, err := s.cache.Get(ctx, failedLoginKeyBase+email, &attempts)
	if err != nil {
		log.Warn().Err(err).Msg("Failed-login counter unavailable")
		return nil
	}
	if found && attempts >= MaxFailedLogins {
		return user.ErrTooManyAttempts
	}
	return nil
}

func (s *userService) recordFailedLogin(ctx context.Context, email string) {
	key := failedLoginKeyBase + email
	attempts, err := s.cache.Increment(ctx, key)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to record failed login")
		return
	}

	// Set the window whenever the counter has none, not only on the first attempt.
	ttl, err := s.cache.TTL(ctx, key)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read failed-login window")
		return
	}
	if ttl >= 0 {
		return
	}
	if err := s.cache.Expire(ctx, key, FailedLoginWindow); err != nil {
		log.Warn().Err(err).Int64("attempts", attempts).Msg("Failed to set failed-login window")
	}
}
