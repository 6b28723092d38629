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
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchsignal-backend/internal/domains/feedback/model"
	"launchsignal-backend/internal/domains/user"
	"launchsignal-backend/internal/shared/middleware"
)

type stubService struct {
	feedback *model.Feedback
	list     *model.FeedbackListResponse
	err      error
}

func (s *stubService) Submit(ctx context.Context, userID uuid.UUID, req model.SubmitRequest) (*model.Feedback, error) {
	return s.feedback, s.err
}

func (s *stubService) ListForStartup(ctx context.Context, startupID, callerID uuid.UUID) (*model.FeedbackListResponse, error) {
	return s.list, s.err
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func setupRouter(svc *stubService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewFeedbackHandler(svc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		middleware.SetIdentity(c, &middleware.Identity{UserID: uuid.New(), Role: user.RoleAdopter})
		c.Next()
	})
	r.POST("/api/feedback", h.Submit)
	r.GET("/api/startups/:id/feedback", h.ListForStartup)
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestSubmit_Created(t *testing.T) {
	fb := &model.Feedback{ID: uuid.New(), Comment: "Great onboarding"}
	r := setupRouter(&stubService{feedback: fb})

	body, _ := json.Marshal(model.SubmitRequest{StartupID: uuid.NewString(), Comment: "Great onboarding"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/feedback", bytes.NewReader(body)))

	assert.Equal(t, http.StatusCreated, w.Code)
	env := decode(t, w)
	assert.True(t, env.Success)
	assert.Contains(t, string(env.Data), fb.ID.String())
}

func TestHandlerErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", validation.Errors{"comment": errors.New("too short")}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"startup missing", model.NewStartupNotFoundError(), http.StatusNotFound, "NOT_FOUND"},
		{"not owner", model.NewNotOwnerError(), http.StatusForbidden, "FORBIDDEN"},
		{"unexpected", errors.New("db down"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupRouter(&stubService{err: tt.err})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/startups/"+uuid.NewString()+"/feedback", nil))

			assert.Equal(t, tt.status, w.Code)
			env := decode(t, w)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestListForStartup_BadID(t *testing.T) {
	r := setupRouter(&stubService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/startups/not-a-uuid/feedback", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
