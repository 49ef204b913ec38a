package service

import (
	"context"
	"strings"
	"testing"

	"chronicle/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// engagementRepoStub is a stub for repository.EngagementRepository.
type engagementRepoStub struct {
	recordViewFn     func(context.Context, *models.View) (bool, error)
	countViewsFn     func(context.Context, uint) (int64, error)
	createCommentFn  func(context.Context, *models.Comment) error
	getCommentByIDFn func(context.Context, uint) (*models.Comment, error)
	listCommentsFn   func(context.Context, uint) ([]*models.Comment, error)
}

func (s *engagementRepoStub) RecordView(ctx context.Context, view *models.View) (bool, error) {
	return s.recordViewFn(ctx, view)
}
func (s *engagementRepoStub) CountViews(ctx context.Context, postID uint) (int64, error) {
	return s.countViewsFn(ctx, postID)
}
func (s *engagementRepoStub) CreateComment(ctx context.Context, comment *models.Comment) error {
	return s.createCommentFn(ctx, comment)
}
func (s *engagementRepoStub) GetCommentByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getCommentByIDFn(ctx, id)
}
func (s *engagementRepoStub) ListCommentsByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.listCommentsFn(ctx, postID)
}

func noopEngagementRepo() *engagementRepoStub {
	return &engagementRepoStub{
		recordViewFn:     func(_ context.Context, _ *models.View) (bool, error) { return true, nil },
		countViewsFn:     func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		createCommentFn:  func(_ context.Context, _ *models.Comment) error { return nil },
		getCommentByIDFn: func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listCommentsFn:   func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
	}
}

func newEngagementService(er *engagementRepoStub, anonymousViews bool) *EngagementService {
	return NewEngagementService(er, noopPostRepo(), noopUserRepo(), anonymousViews)
}

func TestEngagementService_RecordView_BuildsUserKey(t *testing.T) {
	t.Parallel()

	var recorded *models.View
	er := noopEngagementRepo()
	er.recordViewFn = func(_ context.Context, view *models.View) (bool, error) {
		recorded = view
		return true, nil
	}
	svc := newEngagementService(er, false)

	counted, err := svc.RecordView(context.Background(), 5, 3)
	require.NoError(t, err)
	assert.True(t, counted)
	require.NotNil(t, recorded)
	assert.Equal(t, uint(5), recorded.PostID)
	require.NotNil(t, recorded.UserID)
	assert.Equal(t, uint(3), *recorded.UserID)
	assert.Equal(t, "u:3", recorded.ViewerKey)
}

func TestEngagementService_RecordView_RepeatNotCounted(t *testing.T) {
	t.Parallel()

	er := noopEngagementRepo()
	er.recordViewFn = func(_ context.Context, _ *models.View) (bool, error) {
		return false, nil // ledger already has this (post, viewer) pair
	}
	svc := newEngagementService(er, false)

	counted, err := svc.RecordView(context.Background(), 5, 3)
	require.NoError(t, err)
	assert.False(t, counted)
}

func TestEngagementService_RecordView_UnknownPost(t *testing.T) {
	t.Parallel()

	pr := noopPostRepo()
	pr.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return nil, models.NewNotFoundError("Post", id)
	}
	svc := NewEngagementService(noopEngagementRepo(), pr, noopUserRepo(), false)

	_, err := svc.RecordView(context.Background(), 99, 3)
	assertNotFoundError(t, err)
}

func TestEngagementService_RecordAnonymousView(t *testing.T) {
	t.Parallel()

	t.Run("disabled drops the view", func(t *testing.T) {
		t.Parallel()
		called := false
		er := noopEngagementRepo()
		er.recordViewFn = func(_ context.Context, _ *models.View) (bool, error) {
			called = true
			return true, nil
		}
		svc := newEngagementService(er, false)

		counted, err := svc.RecordAnonymousView(context.Background(), 5, uuid.New())
		require.NoError(t, err)
		assert.False(t, counted)
		assert.False(t, called, "disabled anonymous views must not touch the ledger")
	})

	t.Run("enabled builds visitor key", func(t *testing.T) {
		t.Parallel()
		var recorded *models.View
		er := noopEngagementRepo()
		er.recordViewFn = func(_ context.Context, view *models.View) (bool, error) {
			recorded = view
			return true, nil
		}
		svc := newEngagementService(er, true)

		visitorID := uuid.New()
		counted, err := svc.RecordAnonymousView(context.Background(), 5, visitorID)
		require.NoError(t, err)
		assert.True(t, counted)
		require.NotNil(t, recorded)
		assert.Nil(t, recorded.UserID)
		assert.Equal(t, "v:"+visitorID.String(), recorded.ViewerKey)
	})
}

func TestEngagementService_AddComment_Validation(t *testing.T) {
	t.Parallel()

	svc := newEngagementService(noopEngagementRepo(), false)
	ctx := context.Background()

	tests := []struct {
		name  string
		input AddCommentInput
	}{
		{
			name:  "empty body",
			input: AddCommentInput{PostID: 1, UserID: 1},
		},
		{
			name:  "whitespace body",
			input: AddCommentInput{PostID: 1, UserID: 1, Body: "   "},
		},
		{
			name:  "body too long",
			input: AddCommentInput{PostID: 1, UserID: 1, Body: strings.Repeat("x", 10001)},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.AddComment(ctx, tc.input)
			assertValidationError(t, err)
		})
	}
}

func TestEngagementService_AddComment_TrimsBody(t *testing.T) {
	t.Parallel()

	var created *models.Comment
	er := noopEngagementRepo()
	er.createCommentFn = func(_ context.Context, comment *models.Comment) error {
		created = comment
		return nil
	}
	svc := newEngagementService(er, false)

	_, err := svc.AddComment(context.Background(), AddCommentInput{PostID: 1, UserID: 2, Body: "  nice post  "})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "nice post", created.Body)
	assert.Equal(t, uint(1), created.PostID)
	assert.Equal(t, uint(2), created.UserID)
}

func TestEngagementService_AddComment_UnknownUser(t *testing.T) {
	t.Parallel()

	ur := noopUserRepo()
	ur.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return nil, models.NewNotFoundError("User", id)
	}
	svc := NewEngagementService(noopEngagementRepo(), noopPostRepo(), ur, false)

	_, err := svc.AddComment(context.Background(), AddCommentInput{PostID: 1, UserID: 99, Body: "hi"})
	assertNotFoundError(t, err)
}

func TestEngagementService_CountViews(t *testing.T) {
	t.Parallel()

	er := noopEngagementRepo()
	er.countViewsFn = func(_ context.Context, _ uint) (int64, error) { return 42, nil }
	svc := newEngagementService(er, false)

	count, err := svc.CountViews(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(42), count)
}
