package service

import (
	"context"

	"chronicle/internal/models"
	"chronicle/internal/observability"
	"chronicle/internal/repository"
)

// FollowService maintains the directed follow graph. Follow and
// Unfollow are idempotent; uniqueness of an edge is enforced by the
// storage index, not by the service.
type FollowService struct {
	followerRepo repository.FollowerRepository
	userRepo     repository.UserRepository
}

func NewFollowService(followerRepo repository.FollowerRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{
		followerRepo: followerRepo,
		userRepo:     userRepo,
	}
}

// Follow creates the edge follower -> writer. Following someone you
// already follow returns the existing edge without error.
func (s *FollowService) Follow(ctx context.Context, followerID, writerID uint) (*models.Follower, error) {
	if followerID == writerID {
		return nil, models.NewValidationError("You cannot follow yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, followerID); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, writerID); err != nil {
		return nil, err
	}

	edge := &models.Follower{
		FollowerID: followerID,
		WriterID:   writerID,
	}
	created, err := s.followerRepo.Create(ctx, edge)
	if err != nil {
		return nil, err
	}
	if !created {
		// Lost the race or already following; hand back the edge that won.
		existing, err := s.followerRepo.GetEdge(ctx, followerID, writerID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
		// Edge vanished between insert and read; the insert side is
		// authoritative enough to return.
		return edge, nil
	}

	observability.FollowEdgesChanged.WithLabelValues("follow").Inc()
	return edge, nil
}

// Unfollow removes the edge follower -> writer. Unfollowing someone
// you do not follow is a no-op.
func (s *FollowService) Unfollow(ctx context.Context, followerID, writerID uint) error {
	if followerID == writerID {
		return models.NewValidationError("You cannot unfollow yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, writerID); err != nil {
		return err
	}

	if err := s.followerRepo.Delete(ctx, followerID, writerID); err != nil {
		return err
	}
	observability.FollowEdgesChanged.WithLabelValues("unfollow").Inc()
	return nil
}

// IsFollowing reports whether the edge follower -> writer exists.
func (s *FollowService) IsFollowing(ctx context.Context, followerID, writerID uint) (bool, error) {
	return s.followerRepo.Exists(ctx, followerID, writerID)
}

// ListFollowers returns the users following the writer, oldest edge
// first.
func (s *FollowService) ListFollowers(ctx context.Context, writerID uint, limit, offset int) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, writerID); err != nil {
		return nil, err
	}
	limit = clampPageSize(limit)
	ids, err := s.followerRepo.ListFollowerIDs(ctx, writerID, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.resolveUsers(ctx, ids)
}

// ListFollowing returns the users the follower follows, oldest edge
// first.
func (s *FollowService) ListFollowing(ctx context.Context, followerID uint, limit, offset int) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, followerID); err != nil {
		return nil, err
	}
	limit = clampPageSize(limit)
	ids, err := s.followerRepo.ListFollowingIDs(ctx, followerID, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.resolveUsers(ctx, ids)
}

func (s *FollowService) resolveUsers(ctx context.Context, ids []uint) ([]models.User, error) {
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		user, err := s.userRepo.GetByID(ctx, id)
		if err != nil {
			// A user deleted after the edge was listed is skipped, not
			// surfaced as an error.
			if models.HasCode(err, models.CodeNotFound) {
				continue
			}
			return nil, err
		}
		users = append(users, *user)
	}
	return users, nil
}

func clampPageSize(limit int) int {
	if limit <= 0 {
		return 50
	}
	if limit > 200 {
		return 200
	}
	return limit
}
