package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"socialhub/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const postsCollection = "posts"

// MongoPostRepository stores posts as documents in the "posts" collection.
type MongoPostRepository struct {
	coll *mongo.Collection
}

// NewMongoPostRepository creates a new instance of MongoPostRepository.
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{
		coll: db.Collection(postsCollection),
	}
}

// EnsureIndexes makes postId unique and indexes posts by author.
func (r *MongoPostRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "postId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create post indexes: %w", err)
	}
	return nil
}

// Create inserts a new post document.
func (r *MongoPostRepository) Create(ctx context.Context, post *models.Post) error {
	if post.LikedBy == nil {
		post.LikedBy = []string{}
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}
	if _, err := r.coll.InsertOne(ctx, post); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrPostExists
		}
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// GetByUserID retrieves all posts of an author, newest first.
func (r *MongoPostRepository) GetByUserID(ctx context.Context, userID string) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, bson.M{"userId": userID}, opts)
}

// GetByPostID retrieves the post with the given ID, if any.
func (r *MongoPostRepository) GetByPostID(ctx context.Context, postID string) ([]models.Post, error) {
	return r.find(ctx, bson.M{"postId": postID}, options.Find().SetLimit(1))
}

// ToggleLike flips the like with a single pipeline update, so concurrent
// toggles never lose each other's writes.
func (r *MongoPostRepository) ToggleLike(ctx context.Context, postID, userID string) (*models.Post, error) {
	likedBy := bson.D{{Key: "$ifNull", Value: bson.A{"$likedBy", bson.A{}}}}
	user := bson.D{{Key: "$literal", Value: userID}}
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: "likedBy", Value: bson.D{{Key: "$cond", Value: bson.D{
			{Key: "if", Value: bson.D{{Key: "$in", Value: bson.A{user, likedBy}}}},
			{Key: "then", Value: bson.D{{Key: "$filter", Value: bson.D{
				{Key: "input", Value: likedBy},
				{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$this", user}}}},
			}}}},
			{Key: "else", Value: bson.D{{Key: "$concatArrays", Value: bson.A{likedBy, bson.A{user}}}}},
		}}}}}}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.Before)
	var before models.Post
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"postId": postID}, update, opts).Decode(&before)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to toggle like on post %s: %w", postID, err)
	}
	return &before, nil
}

// Delete removes a post when authorID wrote it.
func (r *MongoPostRepository) Delete(ctx context.Context, postID, authorID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"postId": postID, "userId": authorID})
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *MongoPostRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Post, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find posts: %w", err)
	}
	posts := []models.Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("failed to decode posts: %w", err)
	}
	return posts, nil
}
