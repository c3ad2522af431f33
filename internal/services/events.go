package services

import (
	"context"
	"log/slog"
)

// Subjects of the domain events published after successful writes.
const (
	SubjectUserRegistered = "user.registered"
	SubjectUserUpdated    = "user.updated"
	SubjectUserFollowed   = "user.followed"
	SubjectUserUnfollowed = "user.unfollowed"
	SubjectPostCreated    = "post.created"
	SubjectPostLiked      = "post.liked"
	SubjectPostUnliked    = "post.unliked"
	SubjectPostDeleted    = "post.deleted"
)

// EventPublisher sends domain events to a broker.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, payload any) error
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

// Publish discards the event.
func (NoopPublisher) Publish(context.Context, string, any) error { return nil }

// UserEvent is the payload of user.registered and user.updated.
type UserEvent struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// FollowEvent is the payload of user.followed and user.unfollowed.
type FollowEvent struct {
	FollowerID string `json:"followerId"`
	FolloweeID string `json:"followeeId"`
}

// PostEvent is the payload of the post.* subjects.
type PostEvent struct {
	PostID string `json:"postId"`
	UserID string `json:"userId"`
}

// publish is best effort: a broker outage never fails the request.
func publish(ctx context.Context, p EventPublisher, subject string, payload any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, subject, payload); err != nil {
		slog.Warn("failed to publish event", "subject", subject, "error", err)
	}
}
