package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
}

// User represents a stored user with SCRAM authentication material.
type User struct {
	ID        uuid.UUID
	Email     string
	Role      Role
	StoredKey []byte
	ServerKey []byte
	SaltRoot  []byte
	KDF       []byte
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// Principal returns the session principal of the user.
func (u User) Principal() Principal {
	return Principal{SubjectID: u.ID.String(), Role: u.Role}
}
