package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/gophkeeper-sessions/internal/model"
)

var (
	_ model.UserStore    = (*UserRepository)(nil)
	_ model.RoleResolver = (*UserRepository)(nil)
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, role, stored_key, server_key, salt_root, kdf, created_at, updated_at, deleted_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (model.User, error) {
	var (
		user model.User
		role string
	)
	err := row.Scan(
		&user.ID, &user.Email, &role, &user.StoredKey, &user.ServerKey, &user.SaltRoot, &user.KDF,
		&user.CreatedAt, &user.UpdatedAt, &user.DeletedAt,
	)
	if err != nil {
		return model.User{}, err
	}
	if user.Role, err = model.ParseRole(role); err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND deleted_at IS NULL`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND deleted_at IS NULL`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `INSERT INTO users (id, email, role, stored_key, server_key, salt_root, kdf, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING ` + userColumns

	if user.Role == "" {
		user.Role = model.RoleUser
	}

	saved, err := scanUser(r.db.QueryRowContext(ctx, query,
		user.ID, user.Email, string(user.Role), user.StoredKey, user.ServerKey, user.SaltRoot, user.KDF,
		user.CreatedAt, user.UpdatedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, model.ErrAlreadyExists
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return saved, nil
}

// ResolveRole returns the current role of an active user. Subjects that are
// not user ids resolve to model.ErrNotFound.
func (r *UserRepository) ResolveRole(ctx context.Context, subjectID string) (model.Role, error) {
	id, err := uuid.Parse(subjectID)
	if err != nil {
		return "", model.ErrNotFound
	}

	var role string
	err = r.db.QueryRowContext(ctx, `SELECT role FROM users WHERE id = $1 AND deleted_at IS NULL`, id).Scan(&role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", model.ErrNotFound
		}
		return "", fmt.Errorf("failed to resolve role: %w", err)
	}
	return model.ParseRole(role)
}
