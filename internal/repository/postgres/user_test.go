package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/gophkeeper-sessions/internal/model"
)

var userRowColumns = []string{"id", "email", "role", "stored_key", "server_key", "salt_root", "kdf", "created_at", "updated_at", "deleted_at"}

func newUserRepo(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewUserRepository(db), mock
}

func userRow(id uuid.UUID, email, role string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(userRowColumns).AddRow(
		id.String(), email, role, []byte("sk"), []byte("svk"), []byte("salt"), []byte("{}"), now, now, nil,
	)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta(`FROM users WHERE email = $1`)

	t.Run("found", func(t *testing.T) {
		repo, mock := newUserRepo(t)
		id := uuid.New()
		mock.ExpectQuery(query).WithArgs("a@b.c").WillReturnRows(userRow(id, "a@b.c", "ADMIN"))

		user, err := repo.GetByEmail(ctx, "a@b.c")
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, model.RoleAdmin, user.Role)
		assert.Nil(t, user.DeletedAt)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newUserRepo(t)
		mock.ExpectQuery(query).WillReturnRows(sqlmock.NewRows(userRowColumns))

		_, err := repo.GetByEmail(ctx, "nobody@b.c")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestUserRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	repo, mock := newUserRepo(t)
	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = $1`)).
		WithArgs(id).
		WillReturnRows(userRow(id, "a@b.c", "USER"))

	user, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", user.Email)
	assert.Equal(t, model.RoleUser, user.Role)
}

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta(`INSERT INTO users`)

	t.Run("defaults role", func(t *testing.T) {
		repo, mock := newUserRepo(t)
		id := uuid.New()
		mock.ExpectQuery(query).
			WithArgs(id, "a@b.c", "USER", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(userRow(id, "a@b.c", "USER"))

		saved, err := repo.Create(ctx, model.User{ID: id, Email: "a@b.c"})
		require.NoError(t, err)
		assert.Equal(t, model.RoleUser, saved.Role)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("email taken", func(t *testing.T) {
		repo, mock := newUserRepo(t)
		mock.ExpectQuery(query).WillReturnError(&pgconn.PgError{Code: "23505"})

		_, err := repo.Create(ctx, model.User{ID: uuid.New(), Email: "a@b.c"})
		assert.ErrorIs(t, err, model.ErrAlreadyExists)
	})
}

func TestUserRepository_ResolveRole(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta(`SELECT role FROM users WHERE id = $1`)

	t.Run("current role", func(t *testing.T) {
		repo, mock := newUserRepo(t)
		id := uuid.New()
		mock.ExpectQuery(query).WithArgs(id).WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow("ADMIN"))

		role, err := repo.ResolveRole(ctx, id.String())
		require.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, role)
	})

	t.Run("malformed subject", func(t *testing.T) {
		repo, mock := newUserRepo(t)

		_, err := repo.ResolveRole(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, model.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deleted user", func(t *testing.T) {
		repo, mock := newUserRepo(t)
		mock.ExpectQuery(query).WillReturnRows(sqlmock.NewRows([]string{"role"}))

		_, err := repo.ResolveRole(ctx, uuid.NewString())
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("store error", func(t *testing.T) {
		repo, mock := newUserRepo(t)
		mock.ExpectQuery(query).WillReturnError(errors.New("conn refused"))

		_, err := repo.ResolveRole(ctx, uuid.NewString())
		require.Error(t, err)
		assert.NotErrorIs(t, err, model.ErrNotFound)
	})
}
