package model

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// ReuseEvent describes a revoked refresh token being presented again.
type ReuseEvent struct {
	TokenID    uuid.UUID `json:"token_id"`
	SubjectID  string    `json:"subject_id"`
	RevokedAt  time.Time `json:"revoked_at,omitempty"`
	DetectedAt time.Time `json:"detected_at"`
}

// Storage is the object store reuse events are archived to.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader) error
}
