package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchsignal-backend/internal/infrastructure/email"
)

type recordingEmailService struct {
	sent []email.ContactEmailData
	err  error
}

func (r *recordingEmailService) SendContactEmail(ctx context.Context, data email.ContactEmailData) error {
	r.sent = append(r.sent, data)
	return r.err
}

func TestContactEmailHandler(t *testing.T) {
	payload, err := json.Marshal(email.ContactEmailData{Name: "Ada", Email: "ada@example.com", Subject: "Hi", Message: "Hello there"})
	require.NoError(t, err)

	svc := &recordingEmailService{}
	h := NewContactEmailHandler(svc)

	require.NoError(t, h.ProcessTask(context.Background(), asynq.NewTask("email:contact", payload)))
	require.Len(t, svc.sent, 1)
	assert.Equal(t, "ada@example.com", svc.sent[0].Email)
}

func TestContactEmailHandlerErrors(t *testing.T) {
	h := NewContactEmailHandler(&recordingEmailService{})
	err := h.ProcessTask(context.Background(), asynq.NewTask("email:contact", []byte("{")))
	assert.True(t, errors.Is(err, asynq.SkipRetry))

	failing := NewContactEmailHandler(&recordingEmailService{err: errors.New("smtp down")})
	err = failing.ProcessTask(context.Background(), asynq.NewTask("email:contact", []byte(`{"email":"a@b.co"}`)))
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}
