package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mdriyaz-a/captionflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserRepo(t *testing.T) (UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserRepository(db), mock
}

func TestUserRepository_GetByUsername(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newUserRepo(t)
		now := time.Now()

		mock.ExpectQuery("SELECT (.+) FROM users WHERE username =").
			WithArgs("alice").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "username", "password_hash", "instagram_username", "instagram_password", "created_at", "updated_at",
			}).AddRow(int64(7), "alice", "hash", "", "", now, now))

		user, exists, err := repo.GetByUsername(context.Background(), "alice")
		require.NoError(t, err)
		assert.True(t, exists)
		assert.Equal(t, int64(7), user.ID)
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock := newUserRepo(t)

		mock.ExpectQuery("SELECT (.+) FROM users WHERE username =").
			WithArgs("nobody").
			WillReturnError(sql.ErrNoRows)

		user, exists, err := repo.GetByUsername(context.Background(), "nobody")
		require.NoError(t, err)
		assert.False(t, exists)
		assert.Nil(t, user)
	})
}

func TestUserRepository_Create(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("alice", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	id, err := repo.Create(context.Background(), nil, &models.User{Username: "alice", PasswordHash: "hash"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}

func TestUserRepository_SetInstagramCredentials(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectExec("UPDATE users").
		WithArgs("ig_alice", "encrypted", sqlmock.AnyArg(), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetInstagramCredentials(context.Background(), 7, "ig_alice", "encrypted")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
