package repositories

import (
	"context"

	"socialhub/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUserID(ctx context.Context, userID string) (*models.User, error)
	GetAll(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) error
	// AddFollowEdge records followerID in followee's followers and followeeID in
	// follower's following. Both halves are idempotent.
	AddFollowEdge(ctx context.Context, followerID, followeeID string) error
	// RemoveFollowEdge undoes AddFollowEdge. Both halves are idempotent.
	RemoveFollowEdge(ctx context.Context, followerID, followeeID string) error
}
