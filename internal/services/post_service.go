package services

import (
	"context"
	"errors"
	"sort"

	"socialhub/internal/models"
	"socialhub/internal/repositories"

	"golang.org/x/sync/errgroup"
)

// ErrNotPostAuthor is returned when someone other than the author deletes a post.
var ErrNotPostAuthor = errors.New("you can delete only your post")

// PostService handles posts, likes and feed assembly.
type PostService struct {
	postRepo repositories.PostRepository
	userRepo repositories.UserRepository
	events   EventPublisher
}

// NewPostService creates a new PostService.
func NewPostService(postRepo repositories.PostRepository, userRepo repositories.UserRepository, events EventPublisher) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
		events:   events,
	}
}

// CreatePost stores post with authorID as its author.
func (s *PostService) CreatePost(ctx context.Context, authorID string, post *models.Post) error {
	post.UserID = authorID
	post.LikedBy = []string{}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return err
	}
	publish(ctx, s.events, SubjectPostCreated, PostEvent{PostID: post.PostID, UserID: authorID})
	return nil
}

// GetFeed merges userID's own posts with the posts of everyone userID
// follows, newest first. An unknown user gets an empty feed.
func (s *PostService) GetFeed(ctx context.Context, userID string) ([]models.Post, error) {
	user, err := s.userRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return []models.Post{}, nil
		}
		return nil, err
	}

	friendsPosts := make([][]models.Post, len(user.Following))
	g, gctx := errgroup.WithContext(ctx)
	for i, followedID := range user.Following {
		g.Go(func() error {
			posts, err := s.postRepo.GetByUserID(gctx, followedID)
			if err != nil {
				return err
			}
			friendsPosts[i] = posts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	own, err := s.postRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	feed := append(make([]models.Post, 0, len(own)), own...)
	for _, posts := range friendsPosts {
		feed = append(feed, posts...)
	}
	sortNewestFirst(feed)
	return feed, nil
}

// GetTimeline returns the posts written by userID, newest first.
func (s *PostService) GetTimeline(ctx context.Context, userID string) ([]models.Post, error) {
	posts, err := s.postRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.Post{}
	}
	sortNewestFirst(posts)
	return posts, nil
}

// ToggleLike flips userID's like on postID and returns the pre-toggle post.
func (s *PostService) ToggleLike(ctx context.Context, postID, userID string) (*models.Post, error) {
	before, err := s.postRepo.ToggleLike(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	subject := SubjectPostLiked
	if before.LikedByUser(userID) {
		subject = SubjectPostUnliked
	}
	publish(ctx, s.events, subject, PostEvent{PostID: postID, UserID: userID})
	return before, nil
}

// DeletePost removes postID when callerID is both the claimed and the actual author.
func (s *PostService) DeletePost(ctx context.Context, callerID, claimedAuthorID, postID string) error {
	if callerID != claimedAuthorID {
		return ErrNotPostAuthor
	}
	posts, err := s.postRepo.GetByPostID(ctx, postID)
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		return repositories.ErrPostNotFound
	}
	if posts[0].UserID != callerID {
		return ErrNotPostAuthor
	}
	if err := s.postRepo.Delete(ctx, postID, callerID); err != nil {
		return err
	}
	publish(ctx, s.events, SubjectPostDeleted, PostEvent{PostID: postID, UserID: callerID})
	return nil
}

func sortNewestFirst(posts []models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}
