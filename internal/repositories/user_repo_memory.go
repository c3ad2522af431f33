package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"socialhub/internal/models"

	"github.com/google/uuid"
)

// InMemoryUserRepository is an in-memory implementation of UserRepository.
type InMemoryUserRepository struct {
	users map[string]models.User
	mu    sync.RWMutex
}

// NewInMemoryUserRepository creates a new instance of InMemoryUserRepository.
func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		users: make(map[string]models.User),
	}
}

// Create adds a new user.
func (r *InMemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return ErrEmailExists
		}
	}
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
	r.users[user.UserID] = cloneUser(*user)
	return nil
}

// GetByEmail returns a user by email.
func (r *InMemoryUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			u = cloneUser(u)
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

// GetByUserID returns a user by user ID.
func (r *InMemoryUserRepository) GetByUserID(_ context.Context, userID string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	u = cloneUser(u)
	return &u, nil
}

// GetAll returns all users, oldest first.
func (r *InMemoryUserRepository) GetAll(_ context.Context) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userList := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		userList = append(userList, cloneUser(u))
	}
	sort.SliceStable(userList, func(i, j int) bool {
		return userList[i].CreatedAt.Before(userList[j].CreatedAt)
	})
	return userList, nil
}

// UpdateProfile overwrites the provided profile fields.
func (r *InMemoryUserRepository) UpdateProfile(_ context.Context, userID string, update models.ProfileUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	if update.Email != nil {
		for id, other := range r.users {
			if id != userID && other.Email == *update.Email {
				return ErrEmailExists
			}
		}
	}
	update.Apply(&u)
	r.users[userID] = u
	return nil
}

// AddFollowEdge adds both halves of the edge under one lock.
func (r *InMemoryUserRepository) AddFollowEdge(_ context.Context, followerID, followeeID string) error {
	return r.updateEdge(followerID, followeeID, models.AddToSet)
}

// RemoveFollowEdge removes both halves of the edge under one lock.
func (r *InMemoryUserRepository) RemoveFollowEdge(_ context.Context, followerID, followeeID string) error {
	return r.updateEdge(followerID, followeeID, models.RemoveFromSet)
}

func (r *InMemoryUserRepository) updateEdge(followerID, followeeID string, op func([]string, string) []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[followerID]; !ok {
		return ErrUserNotFound
	}
	if _, ok := r.users[followeeID]; !ok {
		return ErrUserNotFound
	}
	follower := r.users[followerID]
	follower.Following = op(follower.Following, followeeID)
	r.users[followerID] = follower

	followee := r.users[followeeID]
	followee.Followers = op(followee.Followers, followerID)
	r.users[followeeID] = followee
	return nil
}

func cloneUser(u models.User) models.User {
	u.Followers = append([]string{}, u.Followers...)
	u.Following = append([]string{}, u.Following...)
	return u
}
