package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"socialhub/internal/models"

	"gorm.io/gorm"
)

// GORMPostRepository is a GORM implementation of PostRepository.
type GORMPostRepository struct {
	db *gorm.DB
}

// NewGORMPostRepository creates a new instance of GORMPostRepository.
func NewGORMPostRepository(db *gorm.DB) *GORMPostRepository {
	return &GORMPostRepository{
		db: db,
	}
}

// Create creates a new post in the database.
func (r *GORMPostRepository) Create(ctx context.Context, post *models.Post) error {
	if post.LikedBy == nil {
		post.LikedBy = []string{}
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrPostExists
		}
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// GetByUserID retrieves all posts authored by userID, newest first.
func (r *GORMPostRepository) GetByUserID(ctx context.Context, userID string) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get posts of user %s: %w", userID, err)
	}
	return posts, nil
}

// GetByPostID retrieves the post with the given ID, if any.
func (r *GORMPostRepository) GetByPostID(ctx context.Context, postID string) ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.WithContext(ctx).Where("post_id = ?", postID).Limit(1).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to get post by ID %s: %w", postID, err)
	}
	return posts, nil
}

// ToggleLike flips the like of userID on the post inside a transaction.
func (r *GORMPostRepository) ToggleLike(ctx context.Context, postID, userID string) (*models.Post, error) {
	var before models.Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, "post_id = ?", postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return fmt.Errorf("failed to get post by ID %s: %w", postID, err)
		}
		before = post.Clone()

		if post.LikedByUser(userID) {
			post.LikedBy = models.RemoveFromSet(post.LikedBy, userID)
		} else {
			post.LikedBy = models.AddToSet(post.LikedBy, userID)
		}
		if err := tx.Model(&post).Select("LikedBy").Updates(&post).Error; err != nil {
			return fmt.Errorf("failed to update likes of post %s: %w", postID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &before, nil
}

// Delete deletes a post by its ID when authorID wrote it.
func (r *GORMPostRepository) Delete(ctx context.Context, postID, authorID string) error {
	res := r.db.WithContext(ctx).Delete(&models.Post{}, "post_id = ? AND user_id = ?", postID, authorID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete post: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}
