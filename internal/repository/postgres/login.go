package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dtroode/gophkeeper-sessions/internal/model"
)

var _ model.LoginStore = (*LoginRepository)(nil)

type LoginRepository struct {
	db *sql.DB
}

func NewLoginRepository(db *sql.DB) *LoginRepository {
	return &LoginRepository{db: db}
}

func (r *LoginRepository) Create(ctx context.Context, pending model.PendingLogin) error {
	const query = `
		INSERT INTO pending_logins (session_id, login, client_nonce, server_nonce, expires_at, consumed)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.db.ExecContext(ctx, query,
		pending.SessionID, pending.Login, pending.ClientNonce, pending.ServerNonce, pending.ExpiresAt, pending.Consumed,
	); err != nil {
		return fmt.Errorf("failed to create pending login: %w", err)
	}
	return nil
}

func (r *LoginRepository) GetBySessionID(ctx context.Context, sessionID string) (model.PendingLogin, error) {
	const query = `
		SELECT session_id, login, client_nonce, server_nonce, expires_at, consumed
		FROM pending_logins WHERE session_id = $1
	`
	var pl model.PendingLogin
	if err := r.db.QueryRowContext(ctx, query, sessionID).Scan(
		&pl.SessionID, &pl.Login, &pl.ClientNonce, &pl.ServerNonce, &pl.ExpiresAt, &pl.Consumed,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.PendingLogin{}, model.ErrNotFound
		}
		return model.PendingLogin{}, fmt.Errorf("failed to get pending login by session id: %w", err)
	}
	return pl, nil
}

func (r *LoginRepository) Consume(ctx context.Context, sessionID string) error {
	const query = `UPDATE pending_logins SET consumed = TRUE WHERE session_id = $1 AND consumed = FALSE`
	return consume(ctx, r.db, query, sessionID)
}
