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

func newPostRepo(t *testing.T) (PostRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostRepository(db), mock
}

func samplePostRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "user_id", "image_path", "image_description",
		"caption", "post_type", "is_posted", "created_at", "updated_at",
	}).AddRow(int64(1), int64(7), "uploads/7_abc.png", "a sunset", "hello", "post", false, now, now)
}

func TestPostRepository_Create(t *testing.T) {
	repo, mock := newPostRepo(t)

	mock.ExpectQuery("INSERT INTO posts").
		WithArgs(int64(7), "uploads/7_abc.png", "a sunset", "hello", "post").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	post := &models.Post{
		UserID:           7,
		ImagePath:        sql.NullString{String: "uploads/7_abc.png", Valid: true},
		ImageDescription: sql.NullString{String: "a sunset", Valid: true},
		Caption:          "hello",
		PostType:         "post",
	}

	id, err := repo.Create(context.Background(), nil, post)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_GetByIDAndUser(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newPostRepo(t)

		mock.ExpectQuery("SELECT (.+) FROM posts WHERE id = (.+) AND user_id =").
			WithArgs(int64(1), int64(7)).
			WillReturnRows(samplePostRows())

		post, err := repo.GetByIDAndUser(context.Background(), 1, 7)
		require.NoError(t, err)
		require.NotNil(t, post)
		assert.Equal(t, int64(1), post.ID)
		assert.Equal(t, "hello", post.Caption)
	})

	t.Run("cross-owner reads as not found", func(t *testing.T) {
		repo, mock := newPostRepo(t)

		mock.ExpectQuery("SELECT (.+) FROM posts WHERE id = (.+) AND user_id =").
			WithArgs(int64(1), int64(99)).
			WillReturnError(sql.ErrNoRows)

		post, err := repo.GetByIDAndUser(context.Background(), 1, 99)
		require.NoError(t, err)
		assert.Nil(t, post)
	})
}

func TestPostRepository_MarkPosted(t *testing.T) {
	repo, mock := newPostRepo(t)

	mock.ExpectExec("UPDATE posts").
		WithArgs(sqlmock.AnyArg(), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.MarkPosted(context.Background(), 1)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Remove(t *testing.T) {
	t.Run("removed", func(t *testing.T) {
		repo, mock := newPostRepo(t)

		mock.ExpectExec("DELETE FROM posts").
			WithArgs(int64(1), int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		removed, err := repo.Remove(context.Background(), 1, 7)
		require.NoError(t, err)
		assert.True(t, removed)
	})

	t.Run("nothing matched", func(t *testing.T) {
		repo, mock := newPostRepo(t)

		mock.ExpectExec("DELETE FROM posts").
			WithArgs(int64(1), int64(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		removed, err := repo.Remove(context.Background(), 1, 99)
		require.NoError(t, err)
		assert.False(t, removed)
	})
}

func TestPostRepository_ListByUser(t *testing.T) {
	repo, mock := newPostRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM posts WHERE user_id = (.+) ORDER BY created_at DESC").
		WithArgs(int64(7)).
		WillReturnRows(samplePostRows())

	posts, err := repo.ListByUser(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, int64(7), posts[0].UserID)
}
