package repositories

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email address already exists")
	ErrPostNotFound = errors.New("post not found")
	ErrPostExists   = errors.New("post already exists")
)
