package model

import (
	"strings"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

type SubmitRequest struct {
	StartupID string `json:"startup_id"`
	Comment   string `json:"comment"`
}

func (r *SubmitRequest) Normalize() {
	r.StartupID = strings.TrimSpace(r.StartupID)
	r.Comment = strings.TrimSpace(r.Comment)
}

func (r SubmitRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.StartupID,
			validation.Required.Error("startup_id is required"),
			validation.By(isUUID),
		),
		validation.Field(&r.Comment,
			validation.Required.Error("comment is required"),
			validation.By(minRunes(MinCommentLength)),
		),
	)
}

func isUUID(value interface{}) error {
	s, _ := value.(string)
	if _, err := uuid.Parse(s); err != nil {
		return validation.NewError("validation_is_uuid", "must be a valid UUID")
	}
	return nil
}

// minRunes counts characters rather than bytes.
func minRunes(min int) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if utf8.RuneCountInString(s) < min {
			return validation.NewError("validation_length_too_short", "comment must be at least 10 characters")
		}
		return nil
	}
}

type FeedbackListResponse struct {
	Feedback []FeedbackEntry `json:"feedback"`
	Count    int             `json:"count"`
}
