// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"

	"chronicle/internal/cache"
	"chronicle/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EngagementRepository persists the view ledger and comment threads of
// a post.
type EngagementRepository interface {
	// RecordView inserts the view unless the (post, viewer) pair is
	// already present. Returns whether a new row was written. Dedup is
	// enforced by the unique index, not by a check-then-insert, so
	// concurrent first views cannot both land.
	RecordView(ctx context.Context, view *models.View) (bool, error)
	CountViews(ctx context.Context, postID uint) (int64, error)
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id uint) (*models.Comment, error)
	ListCommentsByPost(ctx context.Context, postID uint) ([]*models.Comment, error)
}

type engagementRepository struct {
	db *gorm.DB
}

// NewEngagementRepository creates a new EngagementRepository
func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

func (r *engagementRepository) RecordView(ctx context.Context, view *models.View) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "post_id"}, {Name: "viewer_key"}},
			DoNothing: true,
		}).
		Create(view)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	if res.RowsAffected > 0 {
		cache.InvalidateViewCount(ctx, view.PostID)
		return true, nil
	}
	return false, nil
}

func (r *engagementRepository) CountViews(ctx context.Context, postID uint) (int64, error) {
	var count int64
	key := cache.ViewCountKey(postID)

	err := cache.Aside(ctx, key, &count, cache.ViewCountTTL, func() error {
		if err := r.db.WithContext(ctx).
			Model(&models.View{}).
			Where("post_id = ?", postID).
			Count(&count).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *engagementRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *engagementRepository) GetCommentByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("User").First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

func (r *engagementRepository) ListCommentsByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	// Thread order: oldest first.
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}
