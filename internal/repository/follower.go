// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"

	"chronicle/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowerRepository persists directed follow edges between users.
type FollowerRepository interface {
	// Create inserts the edge unless the ordered pair already exists.
	// Returns whether a new edge was written; the unique index makes
	// concurrent first-follows race-safe.
	Create(ctx context.Context, edge *models.Follower) (bool, error)
	// Delete removes the edge; deleting a missing edge is a no-op.
	Delete(ctx context.Context, followerID, writerID uint) error
	GetEdge(ctx context.Context, followerID, writerID uint) (*models.Follower, error)
	Exists(ctx context.Context, followerID, writerID uint) (bool, error)
	ListFollowerIDs(ctx context.Context, writerID uint, limit, offset int) ([]uint, error)
	ListFollowingIDs(ctx context.Context, followerID uint, limit, offset int) ([]uint, error)
}

type followerRepository struct {
	db *gorm.DB
}

// NewFollowerRepository creates a new follower repository
func NewFollowerRepository(db *gorm.DB) FollowerRepository {
	return &followerRepository{db: db}
}

func (r *followerRepository) Create(ctx context.Context, edge *models.Follower) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "follower_id"}, {Name: "writer_id"}},
			DoNothing: true,
		}).
		Create(edge)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *followerRepository) Delete(ctx context.Context, followerID, writerID uint) error {
	if err := r.db.WithContext(ctx).
		Where("follower_id = ? AND writer_id = ?", followerID, writerID).
		Delete(&models.Follower{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *followerRepository) GetEdge(ctx context.Context, followerID, writerID uint) (*models.Follower, error) {
	var edge models.Follower
	if err := r.db.WithContext(ctx).
		Where("follower_id = ? AND writer_id = ?", followerID, writerID).
		First(&edge).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // No edge exists
		}
		return nil, models.NewInternalError(err)
	}
	return &edge, nil
}

func (r *followerRepository) Exists(ctx context.Context, followerID, writerID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follower{}).
		Where("follower_id = ? AND writer_id = ?", followerID, writerID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *followerRepository) ListFollowerIDs(ctx context.Context, writerID uint, limit, offset int) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Follower{}).
		Where("writer_id = ?", writerID).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Pluck("follower_id", &ids).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func (r *followerRepository) ListFollowingIDs(ctx context.Context, followerID uint, limit, offset int) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Follower{}).
		Where("follower_id = ?", followerID).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Pluck("writer_id", &ids).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}
