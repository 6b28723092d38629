package service

import (
	"context"
	"errors"

	"google.golang.org/api/idtoken"

	"launchsignal-backend/internal/domains/user"
)

var errGoogleNotConfigured = errors.New("google sign-in is not configured")

type googleVerifier struct {
	clientID string
	validate func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

// NewGoogleVerifier checks ID tokens signed by Google for the given OAuth
// client id.
func NewGoogleVerifier(clientID string) user.GoogleVerifier {
	return &googleVerifier{
		clientID: clientID,
		validate: idtoken.Validate,
	}
}

func (v *googleVerifier) Verify(ctx context.Context, credential string) (*user.GoogleIdentity, error) {
	if v.clientID == "" {
		return nil, errGoogleNotConfigured
	}

	payload, err := v.validate(ctx, credential, v.clientID)
	if err != nil {
		return nil, err
	}

	identity := &user.GoogleIdentity{}
	if email, ok := payload.Claims["email"].(string); ok {
		identity.Email = email
	}
	if name, ok := payload.Claims["name"].(string); ok {
		identity.Name = name
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok {
		identity.EmailVerified = verified
	}
	return identity, nil
}
