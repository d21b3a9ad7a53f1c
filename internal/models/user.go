package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account and its public profile.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's login address (unique).
	Email string

	// Username is the display name shown on chat messages and group rosters.
	Username string

	// AvatarURL is an optional profile picture URL.
	AvatarURL string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	CreatedAt int64
	UpdatedAt int64
}

// NewUser builds a User with a fresh ID and creation timestamps.
func NewUser(email, username, passwordHash string) *User {
	now := time.Now().UnixMilli()
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Profile is the public projection of a User attached to messages and rosters.
type Profile struct {
	ID        string
	Username  string
	AvatarURL string
}

// PushToken is a device token registered by a user for push notifications.
type PushToken struct {
	UserID    string
	Token     string
	CreatedAt int64
}
