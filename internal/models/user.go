package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account.
//
// Every account is its own tenant: TenantID equals ID for accounts created
// through registration, and all roster and ledger rows carry it.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// TenantID scopes every row this account can see.
	TenantID string

	// Email is the user's email address (unique).
	Email string

	// DisplayName is shown in the UI.
	DisplayName string

	// PasswordHash is the bcrypt hash of the password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the user account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last change.
	UpdatedAt int64
}

// NewUser creates an account that owns a fresh tenant.
func NewUser(email, displayName, passwordHash string) *User {
	id := uuid.New().String()
	now := time.Now().Unix()
	return &User{
		ID:           id,
		TenantID:     id,
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
