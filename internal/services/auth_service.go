package services

import (
	"context"
	"errors"
	"fmt"

	"socialhub/internal/models"
	"socialhub/internal/repositories"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when the password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService handles registration and login.
type AuthService struct {
	userRepo   repositories.UserRepository
	tokens     *TokenService
	events     EventPublisher
	bcryptCost int
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, tokens *TokenService, events EventPublisher, bcryptCost int) *AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		userRepo:   userRepo,
		tokens:     tokens,
		events:     events,
		bcryptCost: bcryptCost,
	}
}

// LoginResult is what a successful login hands back to the client.
type LoginResult struct {
	User        *models.User
	AccessToken string
}

// RegisterUser hashes the password and stores a user with a fresh userId.
func (s *AuthService) RegisterUser(ctx context.Context, userName, email, password string) (*models.User, error) {
	if existing, err := s.userRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, repositories.ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		UserID:   uuid.New().String(),
		UserName: userName,
		Email:    email,
		Password: string(hashedPassword),
	}
	// The store's unique index is the final word on duplicate emails.
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrEmailExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	publish(ctx, s.events, SubjectUserRegistered, UserEvent{UserID: user.UserID, Email: user.Email})
	return user, nil
}

// LoginUser checks the password and issues a session token.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(email, user.UserID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, AccessToken: token}, nil
}

// ValidateToken verifies a session token.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	return s.tokens.Verify(tokenString)
}
