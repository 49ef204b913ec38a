package service

import (
	"context"
	"testing"
	"time"

	"chronicle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// moderationRepoStub is a stub for repository.ModerationRepository.
type moderationRepoStub struct {
	createDecisionFn func(context.Context, *models.ModerationDecision) error
	listByPostFn     func(context.Context, uint) ([]models.ModerationDecision, error)
}

func (s *moderationRepoStub) CreateDecision(ctx context.Context, decision *models.ModerationDecision) error {
	return s.createDecisionFn(ctx, decision)
}
func (s *moderationRepoStub) ListDecisionsByPost(ctx context.Context, postID uint) ([]models.ModerationDecision, error) {
	return s.listByPostFn(ctx, postID)
}

func noopModerationRepo() *moderationRepoStub {
	return &moderationRepoStub{
		createDecisionFn: func(_ context.Context, _ *models.ModerationDecision) error { return nil },
		listByPostFn:     func(_ context.Context, _ uint) ([]models.ModerationDecision, error) { return nil, nil },
	}
}

// pendingPostRepo returns a post repo whose posts are all awaiting review.
func pendingPostRepo() *postRepoStub {
	pr := noopPostRepo()
	pr.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id, AuthorID: 1, Status: true, Approved: false}, nil
	}
	return pr
}

func TestModerationService_Approve_RequiresModerator(t *testing.T) {
	t.Parallel()

	svc := NewModerationService(pendingPostRepo(), noopModerationRepo(), neverModerator)

	_, err := svc.Approve(context.Background(), ApproveInput{PostID: 1, ModeratorID: 2})
	assertUnauthorizedError(t, err)
}

func TestModerationService_Approve_SetsFieldsAndRecordsDecision(t *testing.T) {
	t.Parallel()

	var gotPostID, gotModeratorID uint
	var gotAt time.Time
	pr := pendingPostRepo()
	pr.approveFn = func(_ context.Context, postID, moderatorID uint, at time.Time) (bool, error) {
		gotPostID, gotModeratorID, gotAt = postID, moderatorID, at
		return true, nil
	}

	var decision *models.ModerationDecision
	mr := noopModerationRepo()
	mr.createDecisionFn = func(_ context.Context, d *models.ModerationDecision) error {
		decision = d
		return nil
	}

	svc := NewModerationService(pr, mr, alwaysModerator)
	fixed := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	_, err := svc.Approve(context.Background(), ApproveInput{PostID: 7, ModeratorID: 9, Note: " looks good "})
	require.NoError(t, err)
	assert.Equal(t, uint(7), gotPostID)
	assert.Equal(t, uint(9), gotModeratorID)
	assert.Equal(t, fixed, gotAt)

	require.NotNil(t, decision)
	assert.Equal(t, uint(7), decision.PostID)
	assert.Equal(t, uint(9), decision.ModeratorID)
	assert.Equal(t, models.ModerationActionApprove, decision.Action)
	assert.Equal(t, "looks good", decision.Note)
}

func TestModerationService_Approve_InvalidStates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		post models.Post
	}{
		{
			name: "already approved",
			post: models.Post{Status: true, Approved: true},
		},
		{
			name: "draft not submitted",
			post: models.Post{Status: false, Approved: false},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			pr := noopPostRepo()
			pr.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
				post := tc.post
				post.ID = id
				return &post, nil
			}
			svc := NewModerationService(pr, noopModerationRepo(), alwaysModerator)

			_, err := svc.Approve(context.Background(), ApproveInput{PostID: 1, ModeratorID: 9})
			assertInvalidStateError(t, err)
		})
	}
}

func TestModerationService_Approve_LosesRace(t *testing.T) {
	t.Parallel()

	// The read saw a pending post but the conditional update matched no
	// rows: another moderator approved first. Exactly one approval may
	// win, so the loser gets an invalid state error.
	pr := pendingPostRepo()
	pr.approveFn = func(_ context.Context, _, _ uint, _ time.Time) (bool, error) {
		return false, nil
	}
	recorded := false
	mr := noopModerationRepo()
	mr.createDecisionFn = func(_ context.Context, _ *models.ModerationDecision) error {
		recorded = true
		return nil
	}
	svc := NewModerationService(pr, mr, alwaysModerator)

	_, err := svc.Approve(context.Background(), ApproveInput{PostID: 1, ModeratorID: 9})
	assertInvalidStateError(t, err)
	assert.False(t, recorded, "losing approval must not record a decision")
}

func TestModerationService_Revoke_RequiresModerator(t *testing.T) {
	t.Parallel()

	svc := NewModerationService(noopPostRepo(), noopModerationRepo(), neverModerator)

	_, err := svc.Revoke(context.Background(), RevokeInput{PostID: 1, ModeratorID: 2})
	assertUnauthorizedError(t, err)
}

func TestModerationService_Revoke_NotApproved(t *testing.T) {
	t.Parallel()

	svc := NewModerationService(pendingPostRepo(), noopModerationRepo(), alwaysModerator)

	_, err := svc.Revoke(context.Background(), RevokeInput{PostID: 1, ModeratorID: 9})
	assertInvalidStateError(t, err)
}

func TestModerationService_Revoke_RecordsDecision(t *testing.T) {
	t.Parallel()

	pr := noopPostRepo()
	pr.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		modID := uint(9)
		at := time.Now()
		return &models.Post{ID: id, Status: true, Approved: true, ApprovedByID: &modID, ApprovedAt: &at}, nil
	}

	var decision *models.ModerationDecision
	mr := noopModerationRepo()
	mr.createDecisionFn = func(_ context.Context, d *models.ModerationDecision) error {
		decision = d
		return nil
	}
	svc := NewModerationService(pr, mr, alwaysModerator)

	_, err := svc.Revoke(context.Background(), RevokeInput{PostID: 3, ModeratorID: 9, Note: "policy"})
	require.NoError(t, err)
	require.NotNil(t, decision)
	assert.Equal(t, models.ModerationActionRevoke, decision.Action)
	assert.Equal(t, "policy", decision.Note)
}

func TestModerationService_ListPending_RequiresModerator(t *testing.T) {
	t.Parallel()

	svc := NewModerationService(noopPostRepo(), noopModerationRepo(), neverModerator)

	_, err := svc.ListPending(context.Background(), 2, 20, 0)
	assertUnauthorizedError(t, err)
}

func TestModerationService_ListDecisions(t *testing.T) {
	t.Parallel()

	mr := noopModerationRepo()
	mr.listByPostFn = func(_ context.Context, postID uint) ([]models.ModerationDecision, error) {
		return []models.ModerationDecision{{PostID: postID, Action: models.ModerationActionApprove}}, nil
	}
	svc := NewModerationService(noopPostRepo(), mr, alwaysModerator)

	decisions, err := svc.ListDecisions(context.Background(), 9, 5)
	require.NoError(t, err)
	require.Len(t, decisions, 1)
	assert.Equal(t, uint(5), decisions[0].PostID)
}
