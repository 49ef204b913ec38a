package server

import (
	"github.com/gofiber/fiber/v2"
)

// FollowUser creates a follow edge toward the target user (protected).
// Following an already-followed user succeeds without change.
func (s *Server) FollowUser(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	writerID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	edge, err := s.followService.Follow(ctx, userID, writerID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(edge)
}

// UnfollowUser removes the follow edge toward the target user
// (protected). Unfollowing a user you do not follow is a no-op.
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	writerID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.followService.Unfollow(ctx, userID, writerID); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetFollowStatus reports whether the acting user follows the target (protected)
func (s *Server) GetFollowStatus(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	writerID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	following, err := s.followService.IsFollowing(ctx, userID, writerID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"following": following,
	})
}

// GetFollowers returns the users following the target user (public)
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	ctx := c.UserContext()

	writerID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 50)

	users, err := s.followService.ListFollowers(ctx, writerID, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(users)
}

// GetFollowing returns the users the target user follows (public)
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	ctx := c.UserContext()

	followerID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 50)

	users, err := s.followService.ListFollowing(ctx, followerID, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(users)
}
