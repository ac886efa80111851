package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/gophkeeper-sessions/internal/model"
)

var _ model.RefreshTokenStore = (*RefreshTokenRepository)(nil)

// RefreshTokenRepository is the durable refresh token store.
type RefreshTokenRepository struct {
	db *sql.DB
}

func NewRefreshTokenRepository(db *sql.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

const insertRefreshToken = `
	INSERT INTO refresh_tokens (id, token_hash, subject_id, created_at, expires_at, revoked, rotated_from_id)
	VALUES ($1, $2, $3, $4, $5, FALSE, $6)
`

func (r *RefreshTokenRepository) Create(ctx context.Context, token model.RefreshToken) error {
	return insertToken(ctx, r.db, token)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertToken(ctx context.Context, db execer, token model.RefreshToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}

	_, err := db.ExecContext(ctx, insertRefreshToken,
		token.ID, token.TokenHash, token.SubjectID, token.CreatedAt, token.ExpiresAt, token.RotatedFromID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) GetByTokenHash(ctx context.Context, hash []byte) (model.RefreshToken, error) {
	const query = `
		SELECT id, token_hash, subject_id, created_at, expires_at, revoked, revoked_at, rotated_from_id
		FROM refresh_tokens WHERE token_hash = $1
	`
	var rt model.RefreshToken
	err := r.db.QueryRowContext(ctx, query, hash).Scan(
		&rt.ID, &rt.TokenHash, &rt.SubjectID, &rt.CreatedAt, &rt.ExpiresAt,
		&rt.Revoked, &rt.RevokedAt, &rt.RotatedFromID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.RefreshToken{}, model.ErrNotFound
		}
		return model.RefreshToken{}, fmt.Errorf("failed to get refresh token by hash: %w", err)
	}
	return rt, nil
}

const revokeActive = `
	UPDATE refresh_tokens SET revoked = TRUE, revoked_at = NOW()
	WHERE id = $1 AND revoked = FALSE
`

func (r *RefreshTokenRepository) Revoke(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx, revokeActive, id)
	if err != nil {
		return false, fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return n == 1, nil
}

func (r *RefreshTokenRepository) Rotate(ctx context.Context, oldID uuid.UUID, next model.RefreshToken) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, revokeActive, oldID)
		if err != nil {
			return fmt.Errorf("failed to revoke rotated refresh token: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to revoke rotated refresh token: %w", err)
		}
		if n == 0 {
			return model.ErrTokenAlreadyRevoked
		}

		return insertToken(ctx, tx, next)
	})
}

func (r *RefreshTokenRepository) RevokeAllBySubject(ctx context.Context, subjectID string) ([][]byte, error) {
	const query = `
		UPDATE refresh_tokens SET revoked = TRUE, revoked_at = NOW()
		WHERE subject_id = $1 AND revoked = FALSE
		RETURNING token_hash
	`
	rows, err := r.db.QueryContext(ctx, query, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to revoke refresh tokens by subject: %w", err)
	}
	defer rows.Close()

	var hashes [][]byte
	for rows.Next() {
		var h []byte
		if err := rows.Scan(&h); err != nil {
			return nil, fmt.Errorf("failed to scan revoked refresh token: %w", err)
		}
		hashes = append(hashes, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to revoke refresh tokens by subject: %w", err)
	}
	return hashes, nil
}
