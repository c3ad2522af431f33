package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"socialhub/internal/models"
)

// InMemoryPostRepository is an in-memory implementation of PostRepository.
type InMemoryPostRepository struct {
	posts map[string]models.Post
	mu    sync.RWMutex
}

// NewInMemoryPostRepository creates a new instance of InMemoryPostRepository.
func NewInMemoryPostRepository() *InMemoryPostRepository {
	return &InMemoryPostRepository{
		posts: make(map[string]models.Post),
	}
}

// Create adds a new post.
func (r *InMemoryPostRepository) Create(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[post.PostID]; ok {
		return ErrPostExists
	}
	if post.LikedBy == nil {
		post.LikedBy = []string{}
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}
	r.posts[post.PostID] = post.Clone()
	return nil
}

// GetByUserID returns the posts of an author, newest first.
func (r *InMemoryPostRepository) GetByUserID(_ context.Context, userID string) ([]models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	postList := []models.Post{}
	for _, p := range r.posts {
		if p.UserID == userID {
			postList = append(postList, p.Clone())
		}
	}
	sort.SliceStable(postList, func(i, j int) bool {
		return postList[i].CreatedAt.After(postList[j].CreatedAt)
	})
	return postList, nil
}

// GetByPostID returns the post with the given ID, if any.
func (r *InMemoryPostRepository) GetByPostID(_ context.Context, postID string) ([]models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.posts[postID]
	if !ok {
		return []models.Post{}, nil
	}
	return []models.Post{p.Clone()}, nil
}

// ToggleLike flips userID's like under the write lock.
func (r *InMemoryPostRepository) ToggleLike(_ context.Context, postID, userID string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[postID]
	if !ok {
		return nil, ErrPostNotFound
	}
	before := p.Clone()
	if p.LikedByUser(userID) {
		p.LikedBy = models.RemoveFromSet(p.LikedBy, userID)
	} else {
		p.LikedBy = models.AddToSet(append([]string{}, p.LikedBy...), userID)
	}
	r.posts[postID] = p
	return &before, nil
}

// Delete removes a post when authorID wrote it.
func (r *InMemoryPostRepository) Delete(_ context.Context, postID, authorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[postID]
	if !ok || p.UserID != authorID {
		return ErrPostNotFound
	}
	delete(r.posts, postID)
	return nil
}
