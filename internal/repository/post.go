// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"time"

	"chronicle/internal/cache"
	"chronicle/internal/models"

	"gorm.io/gorm"
)

// PublicFilter shapes a page of the public feed. Sort accepts "new"
// (default, newest first) and "oldest".
type PublicFilter struct {
	Category string
	Sort     string
	Limit    int
	Offset   int
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	ListPublic(ctx context.Context, filter PublicFilter) ([]*models.Post, error)
	ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.Post, error)
	ListPending(ctx context.Context, limit, offset int) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	// Approve atomically sets the three approval fields, guarded so it
	// only fires on a post currently awaiting review. Returns whether a
	// row was updated.
	Approve(ctx context.Context, postID, moderatorID uint, at time.Time) (bool, error)
	// Revoke atomically clears the three approval fields of an approved
	// post. Returns whether a row was updated.
	Revoke(ctx context.Context, postID uint) (bool, error)
	// Delete removes the post and cascades to its comments, views and
	// moderation decisions in one transaction.
	Delete(ctx context.Context, postID uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("A post with this slug already exists", err)
		}
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.PublicFeedKey)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx)).
		Preload("Author").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx)).
		Preload("Author").
		Where("slug = ?", slug).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", slug)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	// Unscoped so a soft-deleted post keeps its slug reserved.
	if err := r.db.WithContext(ctx).
		Unscoped().
		Model(&models.Post{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *postRepository) ListPublic(ctx context.Context, filter PublicFilter) ([]*models.Post, error) {
	var posts []*models.Post
	q := r.applyPostDetails(r.db.WithContext(ctx)).
		Preload("Author").
		Where("status = ? AND approved = ?", true, true)
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	switch filter.Sort {
	case "oldest":
		q = q.Order("created_at ASC")
	default: // "new" and anything unrecognized
		q = q.Order("created_at DESC")
	}
	if err := q.Limit(filter.Limit).Offset(filter.Offset).Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx)).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListPending(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx)).
		Preload("Author").
		Where("status = ? AND approved = ?", true, false).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// applyPostDetails adds subqueries to fetch engagement counts in a single query.
func (r *postRepository) applyPostDetails(db *gorm.DB) *gorm.DB {
	return db.Select("posts.*, " +
		"(SELECT COUNT(*) FROM views WHERE views.post_id = posts.id) as views_count, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) as comments_count")
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("A post with this slug already exists", err)
		}
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID, post.Slug)
	return nil
}

func (r *postRepository) Approve(ctx context.Context, postID, moderatorID uint, at time.Time) (bool, error) {
	// Single conditional UPDATE keeps the three-field transition atomic
	// and makes concurrent approvals race-safe: only one wins.
	res := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ? AND status = ? AND approved = ?", postID, true, false).
		Updates(map[string]any{
			"approved":       true,
			"approved_by_id": moderatorID,
			"approved_at":    at,
		})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	if res.RowsAffected > 0 {
		cache.InvalidatePost(ctx, postID, "")
		cache.Invalidate(ctx, cache.PublicFeedKey)
	}
	return res.RowsAffected > 0, nil
}

func (r *postRepository) Revoke(ctx context.Context, postID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ? AND approved = ?", postID, true).
		Updates(map[string]any{
			"approved":       false,
			"approved_by_id": nil,
			"approved_at":    nil,
		})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	if res.RowsAffected > 0 {
		cache.InvalidatePost(ctx, postID, "")
		cache.Invalidate(ctx, cache.PublicFeedKey)
	}
	return res.RowsAffected > 0, nil
}

func (r *postRepository) Delete(ctx context.Context, postID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Comments and views are meaningless without their post; hard
		// delete them alongside it.
		if err := tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.View{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.ModerationDecision{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, postID).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, postID, "")
	cache.InvalidateViewCount(ctx, postID)
	return nil
}
