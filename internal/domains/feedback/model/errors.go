package model

import (
	"errors"
	"fmt"
)

const (
	ErrCodeStartupNotFound = "NOT_FOUND"
	ErrCodeForbidden       = "FORBIDDEN"
)

var (
	ErrStartupNotFound = errors.New("startup not found")
	ErrNotOwner        = errors.New("caller does not own this startup")
)

type FeedbackError struct {
	Code    string
	Message string
	Err     error
}

func (e *FeedbackError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *FeedbackError) Unwrap() error {
	return e.Err
}

func NewStartupNotFoundError() *FeedbackError {
	return &FeedbackError{
		Code:    ErrCodeStartupNotFound,
		Message: "Startup not found",
		Err:     ErrStartupNotFound,
	}
}

func NewNotOwnerError() *FeedbackError {
	return &FeedbackError{
		Code:    ErrCodeForbidden,
		Message: "Not authorized to view this feedback",
		Err:     ErrNotOwner,
	}
}
