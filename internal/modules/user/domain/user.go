package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Username    string    `json:"username" db:"username"`
	DisplayName string    `json:"display_name" db:"display_name"`
	Email       string    `json:"email" db:"email"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// UserFinder resolves user identities for other modules.
type UserFinder interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
}

var ErrUserNotFound = errors.New("user not found")
