package server

import (
	"chronicle/internal/models"
	"chronicle/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPendingPosts returns the review queue, oldest first (moderators only)
func (s *Server) GetPendingPosts(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)
	p := parsePagination(c, 20)

	posts, err := s.moderationService.ListPending(ctx, userID, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(posts)
}

// ApprovePost approves a post awaiting review (moderators only)
func (s *Server) ApprovePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Note string `json:"note"`
	}
	// The note is optional; an empty body is fine.
	if parseErr := c.BodyParser(&req); parseErr != nil && len(c.Body()) > 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	post, err := s.moderationService.Approve(ctx, service.ApproveInput{
		PostID:      postID,
		ModeratorID: userID,
		Note:        req.Note,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(post)
}

// RevokePost withdraws approval from an approved post (moderators only)
func (s *Server) RevokePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Note string `json:"note"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil && len(c.Body()) > 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	post, err := s.moderationService.Revoke(ctx, service.RevokeInput{
		PostID:      postID,
		ModeratorID: userID,
		Note:        req.Note,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(post)
}

// GetModerationDecisions returns a post's audit trail (moderators only)
func (s *Server) GetModerationDecisions(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	decisions, err := s.moderationService.ListDecisions(ctx, userID, postID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(decisions)
}
