package user

import (
	"errors"
	"fmt"
)

// Repository-level errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
)

// Service-level errors
var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrTooManyAttempts       = errors.New("too many login attempts, please try again later")
	ErrMissingCredential     = errors.New("google credential is required")
	ErrGoogleTokenInvalid    = errors.New("google token verification failed")
	ErrGoogleEmailMissing    = errors.New("google account has no email")
	ErrGoogleEmailUnverified = errors.New("google account email is not verified")
	ErrNeedsSignup           = errors.New("no account for this email, please sign up")
)

// NeedsSignupError carries the verified Google email back to the client so
// it can prefill the signup form.
type NeedsSignupError struct {
	Email string
}

func (e *NeedsSignupError) Error() string {
	return fmt.Sprintf("%v: %s", ErrNeedsSignup, e.Email)
}

func (e *NeedsSignupError) Unwrap() error {
	return ErrNeedsSignup
}
