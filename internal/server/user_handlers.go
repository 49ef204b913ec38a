package server

import (
	"chronicle/internal/models"
	"chronicle/internal/service"

	"github.com/gofiber/fiber/v2"
)

// RegisterUser creates a new user account (public)
func (s *Server) RegisterUser(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req struct {
		Email       string `json:"email"`
		DisplayName string `json:"display_name"`
		Avatar      string `json:"avatar"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Register(ctx, service.RegisterInput{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Avatar:      req.Avatar,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// GetUser returns a user's public profile (public)
func (s *Server) GetUser(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUser(ctx, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(user)
}

// GetMyProfile returns the authenticated user's own record (protected)
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	user, err := s.userService.GetUser(ctx, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(user)
}

// UpdateMyProfile updates the authenticated user's profile (protected)
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	var req struct {
		DisplayName *string `json:"display_name"`
		Avatar      *string `json:"avatar"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(ctx, userID, service.UpdateProfileInput{
		DisplayName: req.DisplayName,
		Avatar:      req.Avatar,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(user)
}

// ListUsers returns a page of users (public)
func (s *Server) ListUsers(c *fiber.Ctx) error {
	ctx := c.UserContext()
	p := parsePagination(c, 50)

	users, err := s.userService.ListUsers(ctx, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(users)
}
