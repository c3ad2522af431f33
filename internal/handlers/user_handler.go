package handlers

import (
	"errors"

	"socialhub/internal/middleware"
	"socialhub/internal/models"
	"socialhub/internal/repositories"
	"socialhub/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for profiles and follows.
type UserHandler struct {
	service  *services.UserService
	validate *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the profile routes. router must already require auth.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/getPeople", h.HandleGetPeople)
	router.Post("/profileDetails", h.HandleProfileDetails)
	router.Post("/updateProfileData", h.HandleUpdateProfileData)
	router.Put("/follow", h.HandleFollow)
}

// HandleGetPeople lists everyone but the caller.
func (h *UserHandler) HandleGetPeople(c *fiber.Ctx) error {
	people, err := h.service.GetPeople(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(people)
}

// ProfileDetailsRequest selects a profile. An empty UserID means the caller.
type ProfileDetailsRequest struct {
	UserID string `json:"userId"`
}

// HandleProfileDetails returns a user's profile.
func (h *UserHandler) HandleProfileDetails(c *fiber.Ctx) error {
	var req ProfileDetailsRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	userID := req.UserID
	if userID == "" {
		userID = middleware.CurrentUserID(c)
	}

	user, err := h.service.GetProfile(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return failure(c, fiber.StatusNotFound, "User not found")
		}
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    user.Profile(),
	})
}

// UpdateProfileRequest carries the profile fields to overwrite. Absent
// fields are left unchanged.
type UpdateProfileRequest struct {
	UserName           *string `json:"userName" validate:"omitempty,min=1,max=100"`
	Email              *string `json:"email" validate:"omitempty,email"`
	RelationshipStatus *string `json:"relationshipStatus"`
	AvatarURL          *string `json:"avatarURL"`
	AvatarName         *string `json:"avatarName"`
	CoverImage         *string `json:"coverImage"`
}

// HandleUpdateProfileData overwrites the caller's profile fields.
func (h *UserHandler) HandleUpdateProfileData(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}

	update := models.ProfileUpdate{
		UserName:           req.UserName,
		Email:              req.Email,
		RelationshipStatus: req.RelationshipStatus,
		AvatarURL:          req.AvatarURL,
		AvatarName:         req.AvatarName,
		CoverImage:         req.CoverImage,
	}
	err := h.service.UpdateProfile(c.UserContext(), middleware.CurrentUserID(c), update)
	switch {
	case errors.Is(err, repositories.ErrEmailExists):
		return failure(c, fiber.StatusOK, "Email address already exists")
	case errors.Is(err, repositories.ErrUserNotFound):
		return failure(c, fiber.StatusNotFound, "User not found")
	case err != nil:
		return failure(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Profile Updated SuccessFully",
	})
}

// HandleFollow toggles the caller's follow of the given user.
func (h *UserHandler) HandleFollow(c *fiber.Ctx) error {
	var req UserIDRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}

	followed, err := h.service.ToggleFollow(c.UserContext(), middleware.CurrentUserID(c), req.UserID)
	switch {
	case errors.Is(err, services.ErrSelfFollow):
		return failure(c, fiber.StatusBadRequest, "You cannot follow yourself")
	case errors.Is(err, repositories.ErrUserNotFound):
		return failure(c, fiber.StatusNotFound, "User not found")
	case err != nil:
		return internalError(c, err)
	}

	message := "unFollowed"
	if followed {
		message = "Followed Successfully"
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
	})
}
