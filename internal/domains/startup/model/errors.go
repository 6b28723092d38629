package model

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeForbidden     = "FORBIDDEN"
	ErrCodeNotAvailable  = "NOT_AVAILABLE"
	ErrCodeInvalidStatus = "INVALID_STATUS"
	ErrCodeMediaTooLarge = "MEDIA_TOO_LARGE"
	ErrCodeInvalidMedia  = "INVALID_MEDIA"
)

var (
	ErrStartupNotFound = errors.New("startup not found")
	ErrNotOwner        = errors.New("caller does not own this startup")
	ErrNotAvailable    = errors.New("startup is not approved")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrMediaTooLarge   = errors.New("media entry exceeds size limit")
	ErrInvalidMedia    = errors.New("invalid media entry")
)

// StartupError carries a client-facing code and message.
type StartupError struct {
	Code    string
	Message string
	Err     error
}

func (e *StartupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *StartupError) Unwrap() error {
	return e.Err
}

func NewNotFoundError() *StartupError {
	return &StartupError{
		Code:    ErrCodeNotFound,
		Message: "Startup not found",
		Err:     ErrStartupNotFound,
	}
}

func NewNotOwnerError(message string) *StartupError {
	return &StartupError{
		Code:    ErrCodeForbidden,
		Message: message,
		Err:     ErrNotOwner,
	}
}

func NewNotAvailableError() *StartupError {
	return &StartupError{
		Code:    ErrCodeNotAvailable,
		Message: "This startup is not available",
		Err:     ErrNotAvailable,
	}
}

func NewInvalidStatusError(status string) *StartupError {
	return &StartupError{
		Code:    ErrCodeInvalidStatus,
		Message: fmt.Sprintf("Invalid status %q, must be pending, approved or rejected", status),
		Err:     ErrInvalidStatus,
	}
}

// NewMediaTooLargeError names the offending entry, e.g. "logo" or "media entry 2".
func NewMediaTooLargeError(entry string) *StartupError {
	return &StartupError{
		Code:    ErrCodeMediaTooLarge,
		Message: fmt.Sprintf("%s exceeds the 5MB limit", entry),
		Err:     ErrMediaTooLarge,
	}
}

func NewInvalidMediaError(entry string, err error) *StartupError {
	return &StartupError{
		Code:    ErrCodeInvalidMedia,
		Message: fmt.Sprintf("%s must be a base64 data URL or an http(s) link", entry),
		Err:     fmt.Errorf("%w: %v", ErrInvalidMedia, err),
	}
}
