package repositories

import (
	"context"
	"errors"
	"fmt"

	"socialhub/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.UserID == "" {
		user.UserID = uuid.New().String()
	}
	if user.Followers == nil {
		user.Followers = []string{}
	}
	if user.Following == nil {
		user.Following = []string{}
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(r.db.WithContext(ctx), "email = ?", email)
}

// GetByUserID retrieves a user by their user ID from the database.
func (r *GORMUserRepository) GetByUserID(ctx context.Context, userID string) (*models.User, error) {
	return r.first(r.db.WithContext(ctx), "user_id = ?", userID)
}

// GetAll retrieves every user, oldest first.
func (r *GORMUserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("created_at").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	return users, nil
}

// UpdateProfile overwrites the provided profile fields of a user.
func (r *GORMUserRepository) UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := r.first(tx, "user_id = ?", userID)
		if err != nil {
			return err
		}
		if update.Empty() {
			return nil
		}
		update.Apply(user)
		err = tx.Model(user).
			Select("UserName", "Email", "RelationshipStatus", "AvatarURL", "AvatarName", "CoverImage").
			Updates(user).Error
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailExists
			}
			return fmt.Errorf("failed to update profile of user %s: %w", userID, err)
		}
		return nil
	})
}

// AddFollowEdge adds both halves of a follow edge in one transaction.
func (r *GORMUserRepository) AddFollowEdge(ctx context.Context, followerID, followeeID string) error {
	return r.updateEdge(ctx, followerID, followeeID, models.AddToSet)
}

// RemoveFollowEdge removes both halves of a follow edge in one transaction.
func (r *GORMUserRepository) RemoveFollowEdge(ctx context.Context, followerID, followeeID string) error {
	return r.updateEdge(ctx, followerID, followeeID, models.RemoveFromSet)
}

func (r *GORMUserRepository) updateEdge(ctx context.Context, followerID, followeeID string, op func([]string, string) []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		follower, err := r.first(tx, "user_id = ?", followerID)
		if err != nil {
			return err
		}
		follower.Following = op(follower.Following, followeeID)
		if err := tx.Model(follower).Select("Following").Updates(follower).Error; err != nil {
			return fmt.Errorf("failed to update following of user %s: %w", followerID, err)
		}

		// Re-read so a self edge sees the write above.
		followee, err := r.first(tx, "user_id = ?", followeeID)
		if err != nil {
			return err
		}
		followee.Followers = op(followee.Followers, followerID)
		if err := tx.Model(followee).Select("Followers").Updates(followee).Error; err != nil {
			return fmt.Errorf("failed to update followers of user %s: %w", followeeID, err)
		}
		return nil
	})
}

func (r *GORMUserRepository) first(db *gorm.DB, query string, arg string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user (%s %s): %w", query, arg, err)
	}
	return &user, nil
}
