package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dtroode/gophkeeper-sessions/internal/model"
)

var _ model.SignupStore = (*SignupRepository)(nil)

type SignupRepository struct {
	db *sql.DB
}

func NewSignupRepository(db *sql.DB) *SignupRepository {
	return &SignupRepository{db: db}
}

func (r *SignupRepository) Create(ctx context.Context, pending model.PendingSignup) error {
	const query = `
		INSERT INTO pending_signups (session_id, login, salt_root, kdf, expires_at, consumed)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.db.ExecContext(ctx, query,
		pending.SessionID, pending.Login, pending.SaltRoot, pending.KDF, pending.ExpiresAt, pending.Consumed,
	); err != nil {
		return fmt.Errorf("failed to create pending signup: %w", err)
	}
	return nil
}

func (r *SignupRepository) GetBySessionID(ctx context.Context, sessionID string) (model.PendingSignup, error) {
	const query = `
		SELECT session_id, login, salt_root, kdf, expires_at, consumed
		FROM pending_signups WHERE session_id = $1
	`
	var ps model.PendingSignup
	if err := r.db.QueryRowContext(ctx, query, sessionID).Scan(
		&ps.SessionID, &ps.Login, &ps.SaltRoot, &ps.KDF, &ps.ExpiresAt, &ps.Consumed,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.PendingSignup{}, model.ErrNotFound
		}
		return model.PendingSignup{}, fmt.Errorf("failed to get pending signup by session id: %w", err)
	}
	return ps, nil
}

func (r *SignupRepository) Consume(ctx context.Context, sessionID string) error {
	const query = `UPDATE pending_signups SET consumed = TRUE WHERE session_id = $1 AND consumed = FALSE`
	return consume(ctx, r.db, query, sessionID)
}

func consume(ctx context.Context, db *sql.DB, query, sessionID string) error {
	res, err := db.ExecContext(ctx, query, sessionID)
	if err != nil {
		return fmt.Errorf("failed to consume session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to consume session: %w", err)
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}
