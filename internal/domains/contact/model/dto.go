package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"launchsignal-backend/internal/infrastructure/email"
)

const (
	MaxSubjectLength = 200
	MaxMessageLength = 5000
)

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (r *ContactRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Subject = strings.TrimSpace(r.Subject)
	r.Message = strings.TrimSpace(r.Message)
}

func (r ContactRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error("name is required")),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.EmailFormat.Error("email format is invalid"),
		),
		validation.Field(&r.Subject,
			validation.Required.Error("subject is required"),
			validation.RuneLength(0, MaxSubjectLength),
		),
		validation.Field(&r.Message,
			validation.Required.Error("message is required"),
			validation.RuneLength(0, MaxMessageLength),
		),
	)
}

// Payload converts the request into the email task payload.
func (r ContactRequest) Payload() email.ContactEmailData {
	return email.ContactEmailData{
		Name:    r.Name,
		Email:   r.Email,
		Subject: r.Subject,
		Message: r.Message,
	}
}

type ContactResponse struct {
	Queued  bool   `json:"queued"`
	TaskID  string `json:"task_id"`
	Message string `json:"message"`
}
