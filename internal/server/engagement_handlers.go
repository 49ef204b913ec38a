package server

import (
	"chronicle/internal/models"
	"chronicle/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment creates a comment on a post (protected)
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Body string `json:"body"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	comment, err := s.engagementService.AddComment(ctx, service.AddCommentInput{
		PostID: postID,
		UserID: userID,
		Body:   req.Body,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments returns all comments of a post in thread order (public)
func (s *Server) GetComments(c *fiber.Ctx) error {
	ctx := c.UserContext()

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.engagementService.ListComments(ctx, postID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(comments)
}

// GetViewCount returns the deduplicated view count of a post (public)
func (s *Server) GetViewCount(c *fiber.Ctx) error {
	ctx := c.UserContext()

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	count, err := s.engagementService.CountViews(ctx, postID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"post_id": postID,
		"views":   count,
	})
}
