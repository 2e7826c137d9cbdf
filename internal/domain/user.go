package domain

import (
	"context"
	"time"
)

const (
	DefaultUserName    = "No Name"
	DefaultUserCredits = 10
)

// User represents a patient account, created lazily on first authenticated visit
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Age       *int      `json:"age,omitempty"`
	Email     string    `json:"email"`
	Credits   int       `json:"credits"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	// Create returns ErrDuplicateEmail when the email is already taken.
	Create(ctx context.Context, user *User) error
}
