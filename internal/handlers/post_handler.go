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

// PostHandler handles HTTP requests for posts and feeds.
type PostHandler struct {
	service  *services.PostService
	validate *validator.Validate
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(service *services.PostService) *PostHandler {
	return &PostHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the post routes. router must already require auth.
func (h *PostHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/createPost", h.HandleCreatePost)
	router.Get("/getPosts", h.HandleGetPosts)
	router.Put("/likePost", h.HandleLikePost)
	router.Post("/profileTimeline", h.HandleProfileTimeline)
	router.Post("/deletePost", h.HandleDeletePost)
}

// CreatePostRequest represents the request body for a new post.
type CreatePostRequest struct {
	PostID    string `json:"postId" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Content   string `json:"content" validate:"required"`
	ImageURL  string `json:"imageURL"`
	LikeCount int    `json:"likeCount" validate:"gte=0"`
	Avatar    string `json:"avatar"`
	PostName  string `json:"postName"`
}

// HandleCreatePost stores a post authored by the caller.
func (h *PostHandler) HandleCreatePost(c *fiber.Ctx) error {
	var req CreatePostRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}

	post := &models.Post{
		PostID:    req.PostID,
		Name:      req.Name,
		Content:   req.Content,
		ImageURL:  req.ImageURL,
		LikeCount: req.LikeCount,
		Avatar:    req.Avatar,
		PostName:  req.PostName,
	}
	if err := h.service.CreatePost(c.UserContext(), middleware.CurrentUserID(c), post); err != nil {
		if errors.Is(err, repositories.ErrPostExists) {
			return failure(c, fiber.StatusConflict, "Post already exists")
		}
		return internalError(c, err)
	}
	return c.SendString("Posted")
}

// HandleGetPosts returns the caller's feed.
func (h *PostHandler) HandleGetPosts(c *fiber.Ctx) error {
	feed, err := h.service.GetFeed(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(feed)
}

// LikePostRequest represents the request body for a like toggle.
// UserID defaults to the caller.
type LikePostRequest struct {
	PostID string `json:"postId" validate:"required"`
	UserID string `json:"userId"`
}

// HandleLikePost toggles a like and echoes the post as it was before.
func (h *PostHandler) HandleLikePost(c *fiber.Ctx) error {
	var req LikePostRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	if req.UserID == "" {
		req.UserID = middleware.CurrentUserID(c)
	}

	before, err := h.service.ToggleLike(c.UserContext(), req.PostID, req.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return failure(c, fiber.StatusNotFound, "post not found")
		}
		return internalError(c, err)
	}
	return c.JSON([]models.Post{*before})
}

// UserIDRequest is the body of endpoints addressing a single user.
type UserIDRequest struct {
	UserID string `json:"userId" validate:"required"`
}

// HandleProfileTimeline returns the posts written by the given user.
func (h *PostHandler) HandleProfileTimeline(c *fiber.Ctx) error {
	var req UserIDRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}

	posts, err := h.service.GetTimeline(c.UserContext(), req.UserID)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    posts,
	})
}

// DeletePostRequest represents the request body for a post deletion.
type DeletePostRequest struct {
	UserID string `json:"userId" validate:"required"`
	PostID string `json:"postId" validate:"required"`
}

// HandleDeletePost deletes one of the caller's posts.
func (h *PostHandler) HandleDeletePost(c *fiber.Ctx) error {
	var req DeletePostRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}

	err := h.service.DeletePost(c.UserContext(), middleware.CurrentUserID(c), req.UserID, req.PostID)
	switch {
	case errors.Is(err, services.ErrNotPostAuthor):
		return failure(c, fiber.StatusOK, "You can delete only your post")
	case errors.Is(err, repositories.ErrPostNotFound):
		return failure(c, fiber.StatusNotFound, "post not found")
	case err != nil:
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Deleted",
	})
}
