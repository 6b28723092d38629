package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchsignal-backend/internal/domains/contact/model"
	"launchsignal-backend/internal/infrastructure/email"
	"launchsignal-backend/internal/shared"
)

type recordingQueue struct {
	tasks []*asynq.Task
	opts  [][]asynq.Option
	err   error
}

func (q *recordingQueue) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if q.err != nil {
		return nil, q.err
	}
	q.tasks = append(q.tasks, task)
	q.opts = append(q.opts, opts)
	return &asynq.TaskInfo{ID: "task-1", Queue: shared.QueueDefault}, nil
}

func validRequest() model.ContactRequest {
	return model.ContactRequest{
		Name:    " Grace ",
		Email:   "grace@example.com",
		Subject: "Partnership",
		Message: "Would love to talk about listing our tool.",
	}
}

func TestSendContact_Enqueues(t *testing.T) {
	q := &recordingQueue{}
	svc := NewContactService(q)

	res, err := svc.SendContact(context.Background(), validRequest())
	require.NoError(t, err)
	assert.True(t, res.Queued)
	assert.Equal(t, "task-1", res.TaskID)

	require.Len(t, q.tasks, 1)
	assert.Equal(t, shared.TypeSendContactEmail, q.tasks[0].Type())

	var payload email.ContactEmailData
	require.NoError(t, json.Unmarshal(q.tasks[0].Payload(), &payload))
	assert.Equal(t, "Grace", payload.Name)
	assert.Equal(t, "Partnership", payload.Subject)

	var queue string
	var retry int
	for _, o := range q.opts[0] {
		switch o.Type() {
		case asynq.QueueOpt:
			queue = o.Value().(string)
		case asynq.MaxRetryOpt:
			retry = o.Value().(int)
		}
	}
	assert.Equal(t, shared.QueueDefault, queue)
	assert.Equal(t, 3, retry)
}

func TestSendContact_Validation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*model.ContactRequest)
		field string
	}{
		{"missing name", func(r *model.ContactRequest) { r.Name = "  " }, "name"},
		{"missing email", func(r *model.ContactRequest) { r.Email = "" }, "email"},
		{"bad email", func(r *model.ContactRequest) { r.Email = "not-an-email" }, "email"},
		{"missing subject", func(r *model.ContactRequest) { r.Subject = "" }, "subject"},
		{"missing message", func(r *model.ContactRequest) { r.Message = "" }, "message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &recordingQueue{}
			req := validRequest()
			tt.edit(&req)

			_, err := NewContactService(q).SendContact(context.Background(), req)
			var verrs validation.Errors
			require.True(t, errors.As(err, &verrs), "got %v", err)
			assert.Contains(t, verrs, tt.field)
			assert.Empty(t, q.tasks)
		})
	}
}

func TestSendContact_EnqueueFailure(t *testing.T) {
	q := &recordingQueue{err: errors.New("redis unavailable")}

	_, err := NewContactService(q).SendContact(context.Background(), validRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "enqueue contact email")
}
