// Package auth registers accounts, verifies credentials and issues the JWTs
// that carry a caller's tenant.
package auth

import (
	"context"

	"github.com/mmynk/duesbook/internal/models"
)

// Authenticator registers and verifies accounts. Every registered account
// owns its own tenant.
type Authenticator interface {
	// Register creates a new user account with the given email and credential.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
