package repository

import (
	"context"
	"regexp"
	"testing"

	"chronicle/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestEngagementRepository_RecordView(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()

	userID := uint(3)
	view := &models.View{
		PostID:    7,
		ViewerKey: models.UserViewerKey(userID),
		UserID:    &userID,
	}

	t.Run("first view is counted", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO "views" .* ON CONFLICT .* DO NOTHING`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectCommit()

		counted, err := repo.RecordView(ctx, view)
		assert.NoError(t, err)
		assert.True(t, counted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("repeat view hits the conflict clause", func(t *testing.T) {
		// DO NOTHING returns no rows, so the caller learns the view was
		// already on record.
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO "views" .* ON CONFLICT .* DO NOTHING`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectCommit()

		counted, err := repo.RecordView(ctx, view)
		assert.NoError(t, err)
		assert.False(t, counted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEngagementRepository_CountViews(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "views" WHERE post_id = $1`)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	count, err := repo.CountViews(ctx, 7)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEngagementRepository_ListCommentsByPost_OldestFirst(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "comments" WHERE post_id = $1 ORDER BY created_at ASC`)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "body", "post_id", "user_id"}).
			AddRow(1, "first", 7, 3).
			AddRow(2, "second", 7, 4))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" IN ($1,$2) AND "users"."deleted_at" IS NULL`)).
		WithArgs(3, 4).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).
			AddRow(3, "a@example.com").
			AddRow(4, "b@example.com"))

	comments, err := repo.ListCommentsByPost(ctx, 7)
	assert.NoError(t, err)
	if assert.Len(t, comments, 2) {
		assert.Equal(t, "first", comments[0].Body)
		assert.Equal(t, "second", comments[1].Body)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}
