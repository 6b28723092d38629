package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"launchsignal-backend/internal/infrastructure/email"
)

// ContactEmailHandler delivers contact form submissions to the team inbox.
type ContactEmailHandler struct {
	emailService email.EmailService
}

func NewContactEmailHandler(emailService email.EmailService) *ContactEmailHandler {
	return &ContactEmailHandler{emailService: emailService}
}

func (h *ContactEmailHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload email.ContactEmailData
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal ContactEmail payload")
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	log.Info().Str("from", payload.Email).Str("subject", payload.Subject).Msg("Processing contact email")

	if err := h.emailService.SendContactEmail(ctx, payload); err != nil {
		return fmt.Errorf("send contact email: %w", err)
	}

	log.Info().Str("from", payload.Email).Msg("Contact email sent")
	return nil
}
