package model

import (
	"context"
	"errors"
	"time"
)

// PendingHandshakeTTL bounds how long a SCRAM handshake may stay open.
const PendingHandshakeTTL = 10 * time.Minute

// SignupStore persists pending registration handshakes.
type SignupStore interface {
	Create(ctx context.Context, pending PendingSignup) error
	GetBySessionID(ctx context.Context, sessionID string) (PendingSignup, error)
	// Consume marks the handshake used. It returns ErrNotFound if the
	// handshake is unknown or was already consumed.
	Consume(ctx context.Context, sessionID string) error
}

// LoginStore persists pending login handshakes.
type LoginStore interface {
	Create(ctx context.Context, pending PendingLogin) error
	GetBySessionID(ctx context.Context, sessionID string) (PendingLogin, error)
	Consume(ctx context.Context, sessionID string) error
}

// PendingSignup is the server half of an open registration handshake.
type PendingSignup struct {
	SessionID string
	Login     string
	SaltRoot  []byte
	KDF       []byte
	ExpiresAt time.Time
	Consumed  bool
}

// PendingLogin is the server half of an open login handshake.
type PendingLogin struct {
	SessionID   string
	Login       string
	ClientNonce []byte
	ServerNonce []byte
	ExpiresAt   time.Time
	Consumed    bool
}

// ErrHandshakeMismatch is returned when a handshake is completed for a
// different login than the one that opened it.
var ErrHandshakeMismatch = errors.New("handshake does not belong to login")
