package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/interview-copilot/internal/interview"
	"alfredoptarigan/interview-copilot/internal/models"
	"alfredoptarigan/interview-copilot/internal/repositories"
	"alfredoptarigan/interview-copilot/internal/services"
)

// errorStatus maps domain errors to HTTP status codes. Anything unknown is an
// upstream failure when it came from an external capability.
func errorStatus(err error, fallback int) int {
	switch {
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, repositories.ErrInvalidReference),
		errors.Is(err, interview.ErrEmptyAnswer),
		errors.Is(err, services.ErrUnsupportedFile),
		errors.Is(err, services.ErrEmptyResume):
		return fiber.StatusBadRequest
	case errors.Is(err, repositories.ErrNotFound),
		errors.Is(err, services.ErrSessionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, interview.ErrInvalidTransition):
		return fiber.StatusConflict
	case errors.Is(err, interview.ErrNoQuestions):
		return fiber.StatusUnprocessableEntity
	}
	return fallback
}

func respondError(c *fiber.Ctx, err error, fallback int) error {
	return c.Status(errorStatus(err, fallback)).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func parseID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid "+param+" format")
	}
	return id, nil
}

// ErrorHandler renders errors returned from handlers as {"error", "code"}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
