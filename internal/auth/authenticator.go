package auth

import (
	"context"

	"github.com/mmynk/groupswipe/internal/models"
)

// Authenticator verifies credentials and creates accounts.
// PasswordAuthenticator is the only implementation today.
type Authenticator interface {
	// Register creates a new account with the given email, public username and credential.
	Register(ctx context.Context, email, username, credential string) (*models.User, error)

	// Authenticate verifies the credential and returns the matching user.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
