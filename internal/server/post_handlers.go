package server

import (
	"context"

	"chronicle/internal/middleware"
	"chronicle/internal/models"
	"chronicle/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost creates a new post for the authenticated author (protected)
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	var req struct {
		Title    string `json:"title"`
		Body     string `json:"body"`
		Category string `json:"category"`
		Image    string `json:"image"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(ctx, service.CreatePostInput{
		AuthorID: userID,
		Title:    req.Title,
		Body:     req.Body,
		Category: req.Category,
		Image:    req.Image,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts returns the public feed of approved posts (public)
func (s *Server) GetPosts(c *fiber.Ctx) error {
	ctx := c.UserContext()
	p := parsePagination(c, 20)

	posts, err := s.postService.ListPublicPosts(ctx, service.ListPublicPostsInput{
		Category: c.Query("category"),
		Sort:     c.Query("sort"),
		Limit:    p.Limit,
		Offset:   p.Offset,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(posts)
}

// GetPost returns one post by slug or ID and records a view for the
// acting viewer (public, optional auth)
func (s *Server) GetPost(c *fiber.Ctx) error {
	ctx := c.UserContext()

	post, err := s.postService.GetPost(ctx, c.Params("slug"))
	if err != nil {
		return respondServiceError(c, err)
	}

	userID := middleware.UserID(c)
	if !post.PubliclyVisible() {
		// Unapproved content is visible only to its author and to
		// moderators; everyone else sees not found, not forbidden.
		if err := s.requireAuthorOrModerator(ctx, post.AuthorID, userID); err != nil {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Post", c.Params("slug")))
		}
		return c.JSON(post)
	}

	// View recording never blocks the read path.
	if userID != 0 {
		if _, err := s.engagementService.RecordView(ctx, post.ID, userID); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to record view", "post_id", post.ID, "error", err)
		}
	} else if visitorID, ok := middleware.VisitorID(c); ok {
		if _, err := s.engagementService.RecordAnonymousView(ctx, post.ID, visitorID); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to record anonymous view", "post_id", post.ID, "error", err)
		}
	}

	return c.JSON(post)
}

// GetAuthorPosts returns every post of an author, any lifecycle state
// (protected, author or moderator)
func (s *Server) GetAuthorPosts(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	authorID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 20)

	posts, err := s.postService.ListAuthorPosts(ctx, authorID, userID, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(posts)
}

// UpdatePost updates a post's content fields (protected, author only)
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title    *string `json:"title"`
		Body     *string `json:"body"`
		Category *string `json:"category"`
		Image    *string `json:"image"`
		Status   *bool   `json:"status"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(ctx, service.UpdatePostInput{
		PostID:   postID,
		EditorID: userID,
		Title:    req.Title,
		Body:     req.Body,
		Category: req.Category,
		Image:    req.Image,
		Status:   req.Status,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(post)
}

// DeletePost deletes a post and its engagement records (protected,
// author or moderator)
func (s *Server) DeletePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(ctx, service.DeletePostInput{
		PostID:  postID,
		ActorID: userID,
	}); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// requireAuthorOrModerator returns an error unless the acting user is
// the given author or a moderator.
func (s *Server) requireAuthorOrModerator(ctx context.Context, authorID, userID uint) error {
	if userID == 0 {
		return models.NewUnauthorizedError("Authentication required")
	}
	if userID == authorID {
		return nil
	}
	mod, err := s.userService.IsModerator(ctx, userID)
	if err != nil {
		return err
	}
	if !mod {
		return models.NewUnauthorizedError("Moderator privileges required")
	}
	return nil
}
