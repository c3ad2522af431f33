package services

import (
	"context"
	"errors"
	"fmt"

	"socialhub/internal/models"
	"socialhub/internal/repositories"
)

// ErrSelfFollow is returned when a user tries to follow themselves.
var ErrSelfFollow = errors.New("you cannot follow yourself")

// UserService handles profiles and the follow graph.
type UserService struct {
	userRepo repositories.UserRepository
	events   EventPublisher
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository, events EventPublisher) *UserService {
	return &UserService{
		userRepo: userRepo,
		events:   events,
	}
}

// GetProfile retrieves a single user by ID.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.GetByUserID(ctx, userID)
}

// GetPeople lists every user except callerID, projected to public fields.
func (s *UserService) GetPeople(ctx context.Context, callerID string) ([]models.PublicProfile, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	people := make([]models.PublicProfile, 0, len(users))
	for i := range users {
		if users[i].UserID == callerID {
			continue
		}
		people = append(people, users[i].PublicProfile())
	}
	return people, nil
}

// UpdateProfile overwrites the caller's mutable profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) error {
	if err := s.userRepo.UpdateProfile(ctx, userID, update); err != nil {
		return err
	}
	event := UserEvent{UserID: userID}
	if update.Email != nil {
		event.Email = *update.Email
	}
	publish(ctx, s.events, SubjectUserUpdated, event)
	return nil
}

// ToggleFollow follows targetID when callerID does not follow it yet and
// unfollows it otherwise. It reports whether the caller now follows the target.
func (s *UserService) ToggleFollow(ctx context.Context, callerID, targetID string) (bool, error) {
	if callerID == targetID {
		return false, ErrSelfFollow
	}

	caller, err := s.userRepo.GetByUserID(ctx, callerID)
	if err != nil {
		return false, err
	}
	if _, err := s.userRepo.GetByUserID(ctx, targetID); err != nil {
		return false, err
	}

	event := FollowEvent{FollowerID: callerID, FolloweeID: targetID}
	if caller.IsFollowing(targetID) {
		if err := s.userRepo.RemoveFollowEdge(ctx, callerID, targetID); err != nil {
			return false, fmt.Errorf("failed to unfollow %s: %w", targetID, err)
		}
		publish(ctx, s.events, SubjectUserUnfollowed, event)
		return false, nil
	}

	if err := s.userRepo.AddFollowEdge(ctx, callerID, targetID); err != nil {
		return false, fmt.Errorf("failed to follow %s: %w", targetID, err)
	}
	publish(ctx, s.events, SubjectUserFollowed, event)
	return true, nil
}
