package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"launchsignal-backend/internal/domains/contact/model"
	"launchsignal-backend/internal/shared"
)

const contactMaxRetry = 3

// TaskEnqueuer is the subset of *asynq.Client the service needs.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type ServiceInterface interface {
	SendContact(ctx context.Context, req model.ContactRequest) (*model.ContactResponse, error)
}

type contactService struct {
	queue TaskEnqueuer
}

func NewContactService(queue TaskEnqueuer) ServiceInterface {
	return &contactService{queue: queue}
}

// SendContact validates the form and hands delivery to the worker.
func (s *contactService) SendContact(ctx context.Context, req model.ContactRequest) (*model.ContactResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(req.Payload())
	if err != nil {
		return nil, fmt.Errorf("marshal contact payload: %w", err)
	}

	task := asynq.NewTask(shared.TypeSendContactEmail, payload)
	info, err := s.queue.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueDefault),
		asynq.MaxRetry(contactMaxRetry),
	)
	if err != nil {
		return nil, fmt.Errorf("enqueue contact email: %w", err)
	}

	log.Info().
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Msg("Contact email queued")
	return &model.ContactResponse{
		Queued:  true,
		TaskID:  info.ID,
		Message: "Your message has been received",
	}, nil
}
