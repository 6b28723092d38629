package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchsignal-backend/internal/domains/user"
	"launchsignal-backend/internal/shared/middleware"
)

type stubService struct {
	result *user.AuthResult
	err    error
}

func (s *stubService) Signup(ctx context.Context, req user.SignupRequest) (*user.AuthResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.result, s.err
}

func (s *stubService) Login(ctx context.Context, req user.LoginRequest) (*user.AuthResult, error) {
	return s.result, s.err
}

func (s *stubService) GoogleLogin(ctx context.Context, req user.GoogleLoginRequest) (*user.AuthResult, error) {
	return s.result, s.err
}

func (s *stubService) GetProfile(ctx context.Context, userID uuid.UUID) (*user.UserDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	dto := s.result.User
	return &dto, nil
}

func (s *stubService) UpdateInterests(ctx context.Context, userID uuid.UUID, req user.UpdateInterestsRequest) (*user.UserDTO, error) {
	return s.GetProfile(ctx, userID)
}

func (s *stubService) GetInterests(ctx context.Context, userID uuid.UUID) ([]string, error) {
	return nil, s.err
}

func (s *stubService) HasPermission(ctx context.Context, userID uuid.UUID, p user.Permission) (bool, error) {
	return false, s.err
}

func (s *stubService) SeedAdmin(ctx context.Context, email, password, fullName string) error {
	return s.err
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
}

func setupRouter(svc user.Service, identity *middleware.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewUserHandler(svc, CookieConfig{Name: "token", MaxAge: 259200, Secure: true})

	r := gin.New()
	withIdentity := func(c *gin.Context) {
		if identity != nil {
			middleware.SetIdentity(c, identity)
		}
		c.Next()
	}
	r.POST("/signup", h.Signup)
	r.POST("/login", h.Login)
	r.POST("/google-login", h.GoogleLogin)
	r.POST("/logout", h.Logout)
	r.GET("/profile", withIdentity, h.GetProfile)
	return r
}

func doJSON(r http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == "token" {
			return c
		}
	}
	return nil
}

func authResult() *user.AuthResult {
	return &user.AuthResult{
		Token: "signed.jwt.token",
		User: user.UserDTO{
			ID:        uuid.New(),
			Email:     "ada@example.com",
			FullName:  "Ada",
			Role:      user.RoleFounder,
			Interests: []string{},
		},
	}
}

func TestSignupSetsCookie(t *testing.T) {
	r := setupRouter(&stubService{result: authResult()}, nil)

	w, env := doJSON(r, http.MethodPost, "/signup", map[string]interface{}{
		"full_name": "Ada",
		"email":     "ada@example.com",
		"password":  "secret123",
		"role":      "founder",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)
	assert.NotContains(t, string(env.Data), "signed.jwt.token")

	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.Equal(t, "signed.jwt.token", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteNoneMode, cookie.SameSite)
	assert.Equal(t, 259200, cookie.MaxAge)
}

func TestSignupValidationError(t *testing.T) {
	r := setupRouter(&stubService{result: authResult()}, nil)

	w, env := doJSON(r, http.MethodPost, "/signup", map[string]interface{}{
		"full_name": "Ada",
		"email":     "ada@example.com",
		"password":  "secret123",
		"role":      "investor",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Details, "role")
	assert.Nil(t, sessionCookie(w))
}

func TestHandleErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		path       string
		wantStatus int
		wantCode   string
	}{
		{"email taken", user.ErrEmailAlreadyExists, "/login", http.StatusBadRequest, "EMAIL_TAKEN"},
		{"bad credentials", user.ErrInvalidCredentials, "/login", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"throttled", user.ErrTooManyAttempts, "/login", http.StatusTooManyRequests, "TOO_MANY_REQUESTS"},
		{"missing credential", user.ErrMissingCredential, "/google-login", http.StatusBadRequest, "BAD_REQUEST"},
		{"google email unverified", user.ErrGoogleEmailUnverified, "/google-login", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"google token invalid", user.ErrGoogleTokenInvalid, "/google-login", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"unexpected", errors.New("connection reset"), "/login", http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupRouter(&stubService{err: tt.err}, nil)
			w, env := doJSON(r, http.MethodPost, tt.path, map[string]string{"email": "a@b.co", "password": "x"})

			assert.Equal(t, tt.wantStatus, w.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Code)
			assert.NotContains(t, env.Error.Message, "connection reset")
		})
	}
}

func TestGoogleLoginNeedsSignup(t *testing.T) {
	r := setupRouter(&stubService{err: &user.NeedsSignupError{Email: "new@example.com"}}, nil)

	w, env := doJSON(r, http.MethodPost, "/google-login", map[string]string{"credential": "tok"})

	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, true, env.Error.Details["needs_signup"])
	assert.Equal(t, "new@example.com", env.Error.Details["email"])
}

func TestLogoutClearsCookie(t *testing.T) {
	r := setupRouter(&stubService{}, nil)

	w, env := doJSON(r, http.MethodPost, "/logout", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)
}

func TestGetProfile(t *testing.T) {
	t.Run("without identity", func(t *testing.T) {
		r := setupRouter(&stubService{result: authResult()}, nil)
		w, _ := doJSON(r, http.MethodGet, "/profile", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("user vanished", func(t *testing.T) {
		r := setupRouter(&stubService{err: user.ErrUserNotFound}, &middleware.Identity{UserID: uuid.New()})
		w, _ := doJSON(r, http.MethodGet, "/profile", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("returns profile without hash", func(t *testing.T) {
		r := setupRouter(&stubService{result: authResult()}, &middleware.Identity{UserID: uuid.New()})
		w, env := doJSON(r, http.MethodGet, "/profile", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, string(env.Data), "ada@example.com")
		assert.NotContains(t, string(env.Data), "password")
	})
}
