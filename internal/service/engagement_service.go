package service

import (
	"context"
	"strings"

	"chronicle/internal/models"
	"chronicle/internal/observability"
	"chronicle/internal/repository"

	"github.com/google/uuid"
)

// maxCommentLen guards against pathological payloads; real comments
// are nowhere near this.
const maxCommentLen = 10000

// EngagementService records views and comments against posts. Views
// are deduplicated per viewer; comments are append-only.
type EngagementService struct {
	engagementRepo repository.EngagementRepository
	postRepo       repository.PostRepository
	userRepo       repository.UserRepository
	anonymousViews bool
}

type AddCommentInput struct {
	PostID uint
	UserID uint
	Body   string
}

func NewEngagementService(
	engagementRepo repository.EngagementRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	anonymousViews bool,
) *EngagementService {
	return &EngagementService{
		engagementRepo: engagementRepo,
		postRepo:       postRepo,
		userRepo:       userRepo,
		anonymousViews: anonymousViews,
	}
}

// RecordView counts one view of the post for the user. Repeat views by
// the same user are absorbed by the ledger and reported as counted=false.
func (s *EngagementService) RecordView(ctx context.Context, postID, userID uint) (bool, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return false, err
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return false, err
	}

	uid := userID
	counted, err := s.engagementRepo.RecordView(ctx, &models.View{
		PostID:    postID,
		UserID:    &uid,
		ViewerKey: models.UserViewerKey(userID),
	})
	if err != nil {
		return false, err
	}
	if counted {
		observability.ViewsRecorded.WithLabelValues("user").Inc()
	}
	return counted, nil
}

// RecordAnonymousView counts one view for an anonymous visitor,
// deduplicated by the visitor's cookie ID. When anonymous counting is
// disabled the view is silently dropped.
func (s *EngagementService) RecordAnonymousView(ctx context.Context, postID uint, visitorID uuid.UUID) (bool, error) {
	if !s.anonymousViews {
		return false, nil
	}
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return false, err
	}

	counted, err := s.engagementRepo.RecordView(ctx, &models.View{
		PostID:    postID,
		ViewerKey: models.VisitorViewerKey(visitorID),
	})
	if err != nil {
		return false, err
	}
	if counted {
		observability.ViewsRecorded.WithLabelValues("visitor").Inc()
	}
	return counted, nil
}

// CountViews returns the deduplicated view count of a post.
func (s *EngagementService) CountViews(ctx context.Context, postID uint) (int64, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return 0, err
	}
	return s.engagementRepo.CountViews(ctx, postID)
}

// AddComment appends a comment to a post's thread. Comments are
// immutable once written.
func (s *EngagementService) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	body := strings.TrimSpace(in.Body)
	if body == "" {
		return nil, models.NewValidationError("Comment body is required")
	}
	if len(body) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, in.UserID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID: in.PostID,
		UserID: in.UserID,
		Body:   body,
	}
	if err := s.engagementRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return s.engagementRepo.GetCommentByID(ctx, comment.ID)
}

// ListComments returns a post's thread in chronological order.
func (s *EngagementService) ListComments(ctx context.Context, postID uint) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.engagementRepo.ListCommentsByPost(ctx, postID)
}
