package handlers

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// bind parses the JSON body into req and validates it. When it returns false
// the error response has already been written and its error must be returned.
func bind(c *fiber.Ctx, validate *validator.Validate, req any) (bool, error) {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			slog.Debug("Error parsing request body", "path", c.Path(), "error", err)
			return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid request body",
				"error":   err.Error(),
			})
		}
	}

	if err := validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return false, internalError(c, err)
		}
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}
	return true, nil
}

func failure(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// internalError sends the raw store error back, as existing clients expect.
func internalError(c *fiber.Ctx, err error) error {
	slog.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	return failure(c, fiber.StatusInternalServerError, err.Error())
}
