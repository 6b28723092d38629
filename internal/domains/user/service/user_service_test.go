package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"launchsignal-backend/internal/domains/user"
	"launchsignal-backend/pkg/cache"
	"launchsignal-backend/pkg/jwt"
)

type fakeRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*user.User
	perms map[uuid.UUID]map[user.Permission]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users: map[uuid.UUID]*user.User{},
		perms: map[uuid.UUID]map[user.Permission]bool{},
	}
}

func (r *fakeRepo) Create(ctx context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return user.ErrEmailAlreadyExists
		}
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *fakeRepo) FindByEmailFold(ctx context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *fakeRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmailFold(ctx, email)
	if errors.Is(err, user.ErrUserNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *fakeRepo) UpdateRole(ctx context.Context, id uuid.UUID, role user.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.Role = role
	return nil
}

func (r *fakeRepo) UpdateInterests(ctx context.Context, id uuid.UUID, interests []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.Interests = interests
	return nil
}

func (r *fakeRepo) HasPermission(ctx context.Context, id uuid.UUID, p user.Permission) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.perms[id][p], nil
}

func (r *fakeRepo) GrantPermission(ctx context.Context, id uuid.UUID, p user.Permission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.perms[id] == nil {
		r.perms[id] = map[user.Permission]bool{}
	}
	r.perms[id][p] = true
	return nil
}

type fakeVerifier struct {
	identity *user.GoogleIdentity
	err      error
}

func (v *fakeVerifier) Verify(ctx context.Context, credential string) (*user.GoogleIdentity, error) {
	return v.identity, v.err
}

// flakyExpireCache fails the first Expire call it sees.
type flakyExpireCache struct {
	*cache.MemoryCache
	failed bool
}

func (c *flakyExpireCache) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if !c.failed {
		c.failed = true
		return errors.New("connection reset")
	}
	return c.MemoryCache.Expire(ctx, key, ttl)
}

func newTestService(repo *fakeRepo, verifier user.GoogleVerifier) (*userService, *jwt.Manager) {
	manager := jwt.NewManager("test-secret", time.Hour)
	svc := newUserService(repo, manager, cache.NewMemoryCache(), verifier)
	svc.bcryptCost = bcrypt.MinCost
	return svc, manager
}

func validSignup() user.SignupRequest {
	return user.SignupRequest{
		FullName:  "  Ada Lovelace ",
		Email:     "  Ada@Example.COM ",
		Password:  "secret123",
		Role:      user.RoleFounder,
		Interests: []string{"AI", " ai ", "", "Fintech"},
	}
}

func TestSignup(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes and issues a session token", func(t *testing.T) {
		svc, manager := newTestService(newFakeRepo(), nil)

		result, err := svc.Signup(ctx, validSignup())
		require.NoError(t, err)

		assert.Equal(t, "ada@example.com", result.User.Email)
		assert.Equal(t, "Ada Lovelace", result.User.FullName)
		assert.Equal(t, user.RoleFounder, result.User.Role)
		assert.Equal(t, []string{"AI", "ai", "Fintech"}, result.User.Interests)

		claims, err := manager.ValidateSessionToken(result.Token)
		require.NoError(t, err)
		assert.Equal(t, result.User.ID.String(), claims.UserID)
		assert.Equal(t, "founder", claims.Role)
	})

	t.Run("rejects duplicate email regardless of case", func(t *testing.T) {
		svc, _ := newTestService(newFakeRepo(), nil)
		_, err := svc.Signup(ctx, validSignup())
		require.NoError(t, err)

		again := validSignup()
		again.Email = "ADA@example.com"
		_, err = svc.Signup(ctx, again)
		assert.ErrorIs(t, err, user.ErrEmailAlreadyExists)
	})

	t.Run("validation failures", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(r *user.SignupRequest)
		}{
			{"short password", func(r *user.SignupRequest) { r.Password = "12345" }},
			{"bad email", func(r *user.SignupRequest) { r.Email = "not-an-email" }},
			{"unknown role", func(r *user.SignupRequest) { r.Role = "investor" }},
			{"missing name", func(r *user.SignupRequest) { r.FullName = "   " }},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc, _ := newTestService(newFakeRepo(), nil)
				req := validSignup()
				tt.mutate(&req)
				_, err := svc.Signup(ctx, req)
				assert.Error(t, err)
				assert.NotErrorIs(t, err, user.ErrEmailAlreadyExists)
			})
		}
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds with mixed-case email", func(t *testing.T) {
		svc, _ := newTestService(newFakeRepo(), nil)
		_, err := svc.Signup(ctx, validSignup())
		require.NoError(t, err)

		result, err := svc.Login(ctx, user.LoginRequest{Email: "ADA@example.com", Password: "secret123"})
		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		svc, _ := newTestService(newFakeRepo(), nil)
		_, err := svc.Signup(ctx, validSignup())
		require.NoError(t, err)

		_, err = svc.Login(ctx, user.LoginRequest{Email: "ada@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)

		_, err = svc.Login(ctx, user.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})

	t.Run("throttles after repeated failures", func(t *testing.T) {
		svc, _ := newTestService(newFakeRepo(), nil)
		_, err := svc.Signup(ctx, validSignup())
		require.NoError(t, err)

		for i := 0; i < MaxFailedLogins; i++ {
			_, err = svc.Login(ctx, user.LoginRequest{Email: "ada@example.com", Password: "wrong"})
			require.ErrorIs(t, err, user.ErrInvalidCredentials)
		}

		_, err = svc.Login(ctx, user.LoginRequest{Email: "ada@example.com", Password: "secret123"})
		assert.ErrorIs(t, err, user.ErrTooManyAttempts)
	})

	t.Run("success clears the failure counter", func(t *testing.T) {
		svc, _ := newTestService(newFakeRepo(), nil)
		_, err := svc.Signup(ctx, validSignup())
		require.NoError(t, err)

		for i := 0; i < MaxFailedLogins-1; i++ {
			_, _ = svc.Login(ctx, user.LoginRequest{Email: "ada@example.com", Password: "wrong"})
		}
		_, err = svc.Login(ctx, user.LoginRequest{Email: "ada@example.com", Password: "secret123"})
		require.NoError(t, err)

		_, err = svc.Login(ctx, user.LoginRequest{Email: "ada@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})
}

func TestRecordFailedLogin_RetriesWindowAfterExpireFailure(t *testing.T) {
	ctx := context.Background()
	store := &flakyExpireCache{MemoryCache: cache.NewMemoryCache()}
	svc, _ := newTestService(newFakeRepo(), nil)
	svc.cache = store
	key := failedLoginKeyBase + "ada@example.com"

	svc.recordFailedLogin(ctx, "ada@example.com")
	ttl, err := store.TTL(ctx, key)
	require.NoError(t, err)
	assert.Less(t, ttl, time.Duration(0))

	svc.recordFailedLogin(ctx, "ada@example.com")
	ttl, err = store.TTL(ctx, key)
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, FailedLoginWindow)

	var attempts int64
	found, err := store.Get(ctx, key, &attempts)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(2), attempts)
}

func TestRecordFailedLogin_KeepsExistingWindow(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryCache()
	svc, _ := newTestService(newFakeRepo(), nil)
	svc.cache = store
	key := failedLoginKeyBase + "ada@example.com"

	_, err := store.Increment(ctx, key)
	require.NoError(t, err)
	require.NoError(t, store.Expire(ctx, key, time.Minute))

	svc.recordFailedLogin(ctx, "ada@example.com")

	ttl, err := store.TTL(ctx, key)
	require.NoError(t, err)
	assert.LessOrEqual(t, ttl, time.Minute)
}

func TestGoogleLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("missing credential", func(t *testing.T) {
		svc, _ := newTestService(newFakeRepo(), &fakeVerifier{})
		_, err := svc.GoogleLogin(ctx, user.GoogleLoginRequest{Credential: "  "})
		assert.ErrorIs(t, err, user.ErrMissingCredential)
	})

	t.Run("invalid token", func(t *testing.T) {
		svc, _ := newTestService(newFakeRepo(), &fakeVerifier{err: errors.New("bad signature")})
		_, err := svc.GoogleLogin(ctx, user.GoogleLoginRequest{Credential: "tok"})
		assert.ErrorIs(t, err, user.ErrGoogleTokenInvalid)
	})

	t.Run("token without email", func(t *testing.T) {
		svc, _ := newTestService(newFakeRepo(), &fakeVerifier{identity: &user.GoogleIdentity{}})
		_, err := svc.GoogleLogin(ctx, user.GoogleLoginRequest{Credential: "tok"})
		assert.ErrorIs(t, err, user.ErrGoogleEmailMissing)
	})

	t.Run("unverified email is rejected", func(t *testing.T) {
		repo := newFakeRepo()
		svc, _ := newTestService(repo, &fakeVerifier{
			identity: &user.GoogleIdentity{Email: "ada@example.com"},
		})
		_, err := svc.Signup(ctx, validSignup())
		require.NoError(t, err)

		_, err = svc.GoogleLogin(ctx, user.GoogleLoginRequest{Credential: "tok"})
		assert.ErrorIs(t, err, user.ErrGoogleEmailUnverified)
	})

	t.Run("unknown account needs signup", func(t *testing.T) {
		svc, _ := newTestService(newFakeRepo(), &fakeVerifier{
			identity: &user.GoogleIdentity{Email: "New@Example.com", EmailVerified: true},
		})
		_, err := svc.GoogleLogin(ctx, user.GoogleLoginRequest{Credential: "tok"})

		var needsSignup *user.NeedsSignupError
		require.ErrorAs(t, err, &needsSignup)
		assert.Equal(t, "new@example.com", needsSignup.Email)
		assert.ErrorIs(t, err, user.ErrNeedsSignup)
	})

	t.Run("admin adopter is promoted to founder", func(t *testing.T) {
		repo := newFakeRepo()
		svc, _ := newTestService(repo, &fakeVerifier{
			identity: &user.GoogleIdentity{Email: "ada@example.com", EmailVerified: true},
		})
		req := validSignup()
		req.Role = user.RoleAdopter
		created, err := svc.Signup(ctx, req)
		require.NoError(t, err)
		require.NoError(t, repo.GrantPermission(ctx, created.User.ID, user.PermissionAdmin))

		result, err := svc.GoogleLogin(ctx, user.GoogleLoginRequest{Credential: "tok"})
		require.NoError(t, err)
		assert.Equal(t, user.RoleFounder, result.User.Role)

		stored, err := repo.FindByID(ctx, created.User.ID)
		require.NoError(t, err)
		assert.Equal(t, user.RoleFounder, stored.Role)
	})

	t.Run("plain adopter keeps role", func(t *testing.T) {
		svc, _ := newTestService(newFakeRepo(), &fakeVerifier{
			identity: &user.GoogleIdentity{Email: "ada@example.com", EmailVerified: true},
		})
		req := validSignup()
		req.Role = user.RoleAdopter
		_, err := svc.Signup(ctx, req)
		require.NoError(t, err)

		result, err := svc.GoogleLogin(ctx, user.GoogleLoginRequest{Credential: "tok"})
		require.NoError(t, err)
		assert.Equal(t, user.RoleAdopter, result.User.Role)
	})
}

func TestProfileAndInterests(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc, _ := newTestService(repo, nil)

	created, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	profile, err := svc.GetProfile(ctx, created.User.ID)
	require.NoError(t, err)
	assert.False(t, profile.IsAdmin)

	updated, err := svc.UpdateInterests(ctx, created.User.ID, user.UpdateInterestsRequest{
		Interests: []string{" SaaS ", "SaaS", "Health"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"SaaS", "Health"}, updated.Interests)

	interests, err := svc.GetInterests(ctx, created.User.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"SaaS", "Health"}, interests)

	_, err = svc.GetProfile(ctx, uuid.New())
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestSeedAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("no email configured is a no-op", func(t *testing.T) {
		repo := newFakeRepo()
		svc, _ := newTestService(repo, nil)
		require.NoError(t, svc.SeedAdmin(ctx, "", "", ""))
		assert.Empty(t, repo.users)
	})

	t.Run("creates founder with admin permission and is idempotent", func(t *testing.T) {
		repo := newFakeRepo()
		svc, _ := newTestService(repo, nil)

		require.NoError(t, svc.SeedAdmin(ctx, "Admin@LaunchSignal.io", "adminpass", "Admin"))
		require.NoError(t, svc.SeedAdmin(ctx, "admin@launchsignal.io", "adminpass", "Admin"))
		require.Len(t, repo.users, 1)

		result, err := svc.Login(ctx, user.LoginRequest{Email: "admin@launchsignal.io", Password: "adminpass"})
		require.NoError(t, err)
		assert.Equal(t, user.RoleFounder, result.User.Role)

		isAdmin, err := svc.HasPermission(ctx, result.User.ID, user.PermissionAdmin)
		require.NoError(t, err)
		assert.True(t, isAdmin)
	})
}
