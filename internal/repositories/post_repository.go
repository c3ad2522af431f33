package repositories

import (
	"context"

	"socialhub/internal/models"
)

// PostRepository defines the interface for post data access.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByUserID(ctx context.Context, userID string) ([]models.Post, error)
	// GetByPostID returns zero or one post.
	GetByPostID(ctx context.Context, postID string) ([]models.Post, error)
	// ToggleLike flips userID's membership in the post's like set and returns
	// the post as it was before the flip.
	ToggleLike(ctx context.Context, postID, userID string) (*models.Post, error)
	// Delete removes the post only when authorID is its author.
	Delete(ctx context.Context, postID, authorID string) error
}
