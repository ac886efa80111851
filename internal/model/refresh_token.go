package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RefreshTokenStore is the durable authority for refresh tokens. A negative
// answer from it is final.
type RefreshTokenStore interface {
	Create(ctx context.Context, token RefreshToken) error
	GetByTokenHash(ctx context.Context, hash []byte) (RefreshToken, error)
	// Revoke sets the revoked flag and reports whether this call changed it.
	Revoke(ctx context.Context, id uuid.UUID) (bool, error)
	// Rotate revokes oldID and persists next atomically. It returns
	// ErrTokenAlreadyRevoked when oldID is no longer active.
	Rotate(ctx context.Context, oldID uuid.UUID, next RefreshToken) error
	// RevokeAllBySubject revokes every active token of the subject and
	// returns the hashes it revoked.
	RevokeAllBySubject(ctx context.Context, subjectID string) ([][]byte, error)
}

// TokenCache is the fast, best-effort lookup in front of RefreshTokenStore.
// Absence of a key never means the token is invalid.
type TokenCache interface {
	Set(ctx context.Context, key string, subjectID string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, keys ...string) error
}

// RoleResolver looks up the current role of a subject.
type RoleResolver interface {
	ResolveRole(ctx context.Context, subjectID string) (Role, error)
}

// RefreshToken is the durable record of an issued refresh token.
type RefreshToken struct {
	ID            uuid.UUID
	TokenHash     []byte
	SubjectID     string
	CreatedAt     time.Time
	ExpiresAt     time.Time
	Revoked       bool
	RevokedAt     *time.Time
	RotatedFromID *uuid.UUID
}

// ExpiredAt reports whether the record is past its recorded expiry at now.
func (t RefreshToken) ExpiredAt(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
