package service

import (
	"context"
	"strings"
	"time"

	"chronicle/internal/models"
	"chronicle/internal/observability"
	"chronicle/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// ModerationService drives the post approval workflow. All transitions
// go through conditional updates in the post repository so concurrent
// moderators cannot double-approve, and every decision leaves an audit
// record.
type ModerationService struct {
	postRepo       repository.PostRepository
	moderationRepo repository.ModerationRepository
	isModerator    func(ctx context.Context, userID uint) (bool, error)
	now            func() time.Time
}

type ApproveInput struct {
	PostID      uint
	ModeratorID uint
	Note        string
}

type RevokeInput struct {
	PostID      uint
	ModeratorID uint
	Note        string
}

func NewModerationService(
	postRepo repository.PostRepository,
	moderationRepo repository.ModerationRepository,
	isModerator func(ctx context.Context, userID uint) (bool, error),
) *ModerationService {
	return &ModerationService{
		postRepo:       postRepo,
		moderationRepo: moderationRepo,
		isModerator:    isModerator,
		now:            time.Now,
	}
}

func (s *ModerationService) requireModerator(ctx context.Context, userID uint) error {
	mod, err := s.isModerator(ctx, userID)
	if err != nil {
		return err
	}
	if !mod {
		return models.NewUnauthorizedError("Moderator privileges required")
	}
	return nil
}

// Approve moves a post from pending review to approved. The approval
// timestamp and moderator are set together with the flag; a post that
// is not awaiting review is rejected with an invalid state error, and
// re-approving never refreshes the original timestamp.
func (s *ModerationService) Approve(ctx context.Context, in ApproveInput) (*models.Post, error) {
	span, ctx := observability.NewSpan(ctx, "ModerationService.Approve")
	defer span.End()

	if err := s.requireModerator(ctx, in.ModeratorID); err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	switch post.State() {
	case models.PostStateApproved:
		return nil, models.NewInvalidStateError("Post is already approved")
	case models.PostStateDraft:
		return nil, models.NewInvalidStateError("Post is not submitted for review")
	}

	updated, err := s.postRepo.Approve(ctx, in.PostID, in.ModeratorID, s.now())
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	if !updated {
		// Another moderator got there first, or the author withdrew the
		// post between our read and the update.
		return nil, models.NewInvalidStateError("Post is no longer awaiting review")
	}

	if err := s.recordDecision(ctx, in.PostID, in.ModeratorID, models.ModerationActionApprove, in.Note); err != nil {
		return nil, err
	}

	observability.ModerationDecisions.WithLabelValues(string(models.ModerationActionApprove)).Inc()
	span.AddAttributes(attribute.Int("post.id", int(in.PostID)))
	return s.postRepo.GetByID(ctx, in.PostID)
}

// Revoke withdraws approval from an approved post, clearing all three
// approval fields together.
func (s *ModerationService) Revoke(ctx context.Context, in RevokeInput) (*models.Post, error) {
	span, ctx := observability.NewSpan(ctx, "ModerationService.Revoke")
	defer span.End()

	if err := s.requireModerator(ctx, in.ModeratorID); err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.State() != models.PostStateApproved {
		return nil, models.NewInvalidStateError("Post is not approved")
	}

	updated, err := s.postRepo.Revoke(ctx, in.PostID)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	if !updated {
		return nil, models.NewInvalidStateError("Post is not approved")
	}

	if err := s.recordDecision(ctx, in.PostID, in.ModeratorID, models.ModerationActionRevoke, in.Note); err != nil {
		return nil, err
	}

	observability.ModerationDecisions.WithLabelValues(string(models.ModerationActionRevoke)).Inc()
	span.AddAttributes(attribute.Int("post.id", int(in.PostID)))
	return s.postRepo.GetByID(ctx, in.PostID)
}

func (s *ModerationService) recordDecision(ctx context.Context, postID, moderatorID uint, action models.ModerationAction, note string) error {
	return s.moderationRepo.CreateDecision(ctx, &models.ModerationDecision{
		PostID:      postID,
		ModeratorID: moderatorID,
		Action:      action,
		Note:        strings.TrimSpace(note),
	})
}

// ListPending returns the review queue, oldest submission first.
func (s *ModerationService) ListPending(ctx context.Context, requesterID uint, limit, offset int) ([]*models.Post, error) {
	if err := s.requireModerator(ctx, requesterID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.postRepo.ListPending(ctx, limit, offset)
}

// ListDecisions returns the audit trail of a post, newest first.
func (s *ModerationService) ListDecisions(ctx context.Context, requesterID, postID uint) ([]models.ModerationDecision, error) {
	if err := s.requireModerator(ctx, requesterID); err != nil {
		return nil, err
	}
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.moderationRepo.ListDecisionsByPost(ctx, postID)
}
