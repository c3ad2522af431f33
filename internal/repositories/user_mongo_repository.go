package repositories

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"socialhub/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const usersCollection = "users"

// MongoUserRepository stores users as documents in the "users" collection.
type MongoUserRepository struct {
	coll *mongo.Collection
}

// NewMongoUserRepository creates a new instance of MongoUserRepository.
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{
		coll: db.Collection(usersCollection),
	}
}

// EnsureIndexes creates the unique indexes backing email and userId lookups.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}
	return nil
}

// Create inserts a new user document.
func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.UserID == "" {
		user.UserID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	if user.Followers == nil {
		user.Followers = []string{}
	}
	if user.Following == nil {
		user.Following = []string{}
	}
	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user by email.
func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// GetByUserID retrieves a user by user ID.
func (r *MongoUserRepository) GetByUserID(ctx context.Context, userID string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"userId": userID})
}

// GetAll retrieves every user, oldest first.
func (r *MongoUserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

// UpdateProfile $sets the provided profile fields.
func (r *MongoUserRepository) UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) error {
	set := bson.M{}
	if update.UserName != nil {
		set["userName"] = *update.UserName
	}
	if update.Email != nil {
		set["email"] = *update.Email
	}
	if update.RelationshipStatus != nil {
		set["relationshipStatus"] = *update.RelationshipStatus
	}
	if update.AvatarURL != nil {
		set["avatarURL"] = *update.AvatarURL
	}
	if update.AvatarName != nil {
		set["avatarName"] = *update.AvatarName
	}
	if update.CoverImage != nil {
		set["coverImage"] = *update.CoverImage
	}
	if len(set) == 0 {
		_, err := r.GetByUserID(ctx, userID)
		return err
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"userId": userID}, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("failed to update profile of user %s: %w", userID, err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// AddFollowEdge pushes both halves of the edge with $addToSet. When the
// second half fails the first one is pulled again.
func (r *MongoUserRepository) AddFollowEdge(ctx context.Context, followerID, followeeID string) error {
	return r.updateEdge(ctx, followerID, followeeID, "$addToSet", "$pull")
}

// RemoveFollowEdge pulls both halves of the edge. When the second half fails
// the first one is re-added.
func (r *MongoUserRepository) RemoveFollowEdge(ctx context.Context, followerID, followeeID string) error {
	return r.updateEdge(ctx, followerID, followeeID, "$pull", "$addToSet")
}

func (r *MongoUserRepository) updateEdge(ctx context.Context, followerID, followeeID, op, undo string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"userId": followerID},
		bson.M{op: bson.M{"following": followeeID}})
	if err != nil {
		return fmt.Errorf("failed to update following of user %s: %w", followerID, err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	// A no-op first half means the state predates this call and must survive a rollback.
	firstHalfChanged := res.ModifiedCount > 0

	res, err = r.coll.UpdateOne(ctx,
		bson.M{"userId": followeeID},
		bson.M{op: bson.M{"followers": followerID}})
	if err == nil && res.MatchedCount == 0 {
		err = ErrUserNotFound
	}
	if err != nil {
		if firstHalfChanged {
			_, cerr := r.coll.UpdateOne(ctx,
				bson.M{"userId": followerID},
				bson.M{undo: bson.M{"following": followeeID}})
			if cerr != nil {
				slog.Error("follow edge left half-written", "follower", followerID, "followee", followeeID, "error", cerr)
			}
		}
		if errors.Is(err, ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("failed to update followers of user %s: %w", followeeID, err)
	}
	return nil
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
