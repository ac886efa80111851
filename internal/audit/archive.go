// Package audit archives refresh token security events.
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/dtroode/gophkeeper-sessions/internal/logger"
	"github.com/dtroode/gophkeeper-sessions/internal/model"
)

const reusePrefix = "reuse"

// Archive writes one JSON object per reuse detection. Objects are laid out
// by detection date so they can be listed and expired per day.
type Archive struct {
	storage model.Storage
	logger  *logger.Logger
}

func NewArchive(storage model.Storage, logger *logger.Logger) *Archive {
	return &Archive{storage: storage, logger: logger}
}

// ReportReuse stores event under reuse/YYYY/MM/DD/<token id>-<ulid>.json.
func (a *Archive) ReportReuse(ctx context.Context, event model.ReuseEvent) error {
	if event.DetectedAt.IsZero() {
		event.DetectedAt = time.Now().UTC()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal reuse event: %w", err)
	}

	key := objectKey(event)
	if err := a.storage.Upload(ctx, key, bytes.NewReader(body)); err != nil {
		return fmt.Errorf("failed to archive reuse event: %w", err)
	}

	a.logger.Debug("Audit archive: reuse event stored",
		"subject_id", event.SubjectID,
		"key", key)

	return nil
}

func objectKey(event model.ReuseEvent) string {
	at := event.DetectedAt.UTC()
	return fmt.Sprintf("%s/%s/%s-%s.json",
		reusePrefix,
		at.Format("2006/01/02"),
		event.TokenID,
		ulid.MustNew(ulid.Timestamp(at), ulid.DefaultEntropy()),
	)
}
