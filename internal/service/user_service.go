// Package service implements the business rules of the platform core.
package service

import (
	"context"
	"net/mail"
	"strings"

	"chronicle/internal/models"
	"chronicle/internal/repository"
)

// UserService is the identity registry: it owns User records and is
// consulted by every other service for existence and moderator checks.
type UserService struct {
	userRepo repository.UserRepository
}

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Email       string
	DisplayName string
	Avatar      string
}

// UpdateProfileInput carries the mutable profile fields. Nil means
// leave unchanged. The identity key (ID, email) is immutable here.
type UpdateProfileInput struct {
	DisplayName *string
	Avatar      *string
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user with a lowercase-normalized unique email.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := NormalizeEmail(in.Email)
	if email == "" {
		return nil, models.NewValidationError("Email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, models.NewValidationError("Email is not a valid address")
	}
	if strings.TrimSpace(in.DisplayName) == "" {
		return nil, models.NewValidationError("Display name is required")
	}

	user := &models.User{
		Email:       email,
		DisplayName: strings.TrimSpace(in.DisplayName),
		Avatar:      in.Avatar,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser returns the user with the given ID.
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetUserByEmail returns the user with the given email, or NotFound.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", email)
	}
	return user, nil
}

// UpdateProfile mutates profile fields of the user's own record.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.DisplayName != nil {
		name := strings.TrimSpace(*in.DisplayName)
		if name == "" {
			return nil, models.NewValidationError("Display name cannot be empty")
		}
		user.DisplayName = name
	}
	if in.Avatar != nil {
		user.Avatar = *in.Avatar
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers returns a page of users.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	return s.userRepo.List(ctx, limit, offset)
}

// IsModerator reports whether the user carries the moderator flag.
// Other services take this as a closure so they stay decoupled from
// the identity registry.
func (s *UserService) IsModerator(ctx context.Context, userID uint) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.IsModerator, nil
}
