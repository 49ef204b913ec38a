package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestPostRepository_SlugExists(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	tests := []struct {
		name  string
		count int64
		want  bool
	}{
		{name: "taken", count: 1, want: true},
		{name: "free", count: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Unscoped: soft-deleted posts keep their slug reserved, so
			// the query must not filter on deleted_at.
			mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "posts" WHERE slug = $1`)).
				WithArgs("my-post").
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(tt.count))

			exists, err := repo.SlugExists(ctx, "my-post")
			assert.NoError(t, err)
			assert.Equal(t, tt.want, exists)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostRepository_Approve(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	at := time.Now()

	t.Run("pending post is approved", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "posts" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		updated, err := repo.Approve(ctx, 7, 9, at)
		assert.NoError(t, err)
		assert.True(t, updated)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("guard matches no rows", func(t *testing.T) {
		// Already approved or withdrawn between read and update: the
		// conditional WHERE makes the update a no-op instead of a
		// double-approval.
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "posts" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		updated, err := repo.Approve(ctx, 7, 9, at)
		assert.NoError(t, err)
		assert.False(t, updated)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostRepository_Revoke(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	t.Run("approved post is revoked", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "posts" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		updated, err := repo.Revoke(ctx, 7)
		assert.NoError(t, err)
		assert.True(t, updated)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unapproved post is a no-op", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "posts" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		updated, err := repo.Revoke(ctx, 7)
		assert.NoError(t, err)
		assert.False(t, updated)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostRepository_Delete_Cascades(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	// One transaction covers the post and every dependent table.
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "comments"`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM "views"`).
		WillReturnResult(sqlmock.NewResult(0, 12))
	mock.ExpectExec(`DELETE FROM "moderation_decisions"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "posts" SET "deleted_at"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Delete(ctx, 7)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
