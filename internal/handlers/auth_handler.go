package handlers

import (
	"errors"
	"log/slog"

	"socialhub/internal/repositories"
	"socialhub/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the public authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/register", h.HandleRegister)
	router.Post("/login", h.HandleLogin)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	UserName string `json:"userName" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}

	if _, err := h.authService.RegisterUser(c.UserContext(), req.UserName, req.Email, req.Password); err != nil {
		if errors.Is(err, repositories.ErrEmailExists) {
			return failure(c, fiber.StatusOK, "Email address already exists")
		}
		// max counts runes; bcrypt limits bytes.
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Validation failed",
				"errors":  fiber.Map{"Password": "Field 'Password' exceeds 72 bytes"},
			})
		}
		slog.Error("Error registering user", "email", req.Email, "error", err)
		return failure(c, fiber.StatusInternalServerError,
			"There was a issue while registering you, please try after some time")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Register Successfully, Please login to continue",
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}

	res, err := h.authService.LoginUser(c.UserContext(), req.Email, req.Password)
	switch {
	case errors.Is(err, repositories.ErrUserNotFound):
		return failure(c, fiber.StatusOK, "User not found")
	case errors.Is(err, services.ErrInvalidCredentials):
		return failure(c, fiber.StatusOK, "Invalid Credentials")
	case err != nil:
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"authData": fiber.Map{
			"email":        res.User.Email,
			"userName":     res.User.UserName,
			"access_token": res.AccessToken,
			"userId":       res.User.UserID,
			"avatarURL":    res.User.AvatarURL,
			"avatarName":   res.User.AvatarName,
		},
	})
}
