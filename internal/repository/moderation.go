// Package repository implements the data access layer for the application.
package repository

import (
	"context"

	"chronicle/internal/models"

	"gorm.io/gorm"
)

// ModerationRepository persists the audit trail of moderation decisions.
type ModerationRepository interface {
	CreateDecision(ctx context.Context, decision *models.ModerationDecision) error
	ListDecisionsByPost(ctx context.Context, postID uint) ([]models.ModerationDecision, error)
}

type moderationRepository struct {
	db *gorm.DB
}

// NewModerationRepository creates a new moderation repository
func NewModerationRepository(db *gorm.DB) ModerationRepository {
	return &moderationRepository{db: db}
}

func (r *moderationRepository) CreateDecision(ctx context.Context, decision *models.ModerationDecision) error {
	if err := r.db.WithContext(ctx).Create(decision).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *moderationRepository) ListDecisionsByPost(ctx context.Context, postID uint) ([]models.ModerationDecision, error) {
	var decisions []models.ModerationDecision
	err := r.db.WithContext(ctx).
		Preload("Moderator").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Find(&decisions).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return decisions, nil
}
