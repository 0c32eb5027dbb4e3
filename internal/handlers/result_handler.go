package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-copilot/internal/repositories"
)

const defaultResultLimit = 50

// ResultHandler serves persisted interviews.
type ResultHandler struct {
	interviewRepo repositories.InterviewRepository
}

func NewResultHandler(interviewRepo repositories.InterviewRepository) *ResultHandler {
	return &ResultHandler{
		interviewRepo: interviewRepo,
	}
}

// HandleListResults handles GET /results?limit=
func (h *ResultHandler) HandleListResults(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultResultLimit)
	if limit <= 0 || limit > 500 {
		limit = defaultResultLimit
	}

	records, err := h.interviewRepo.List(limit)
	if err != nil {
		return respondError(c, err, fiber.StatusInternalServerError)
	}
	return c.JSON(records)
}

// HandleGetResult handles GET /results/:id
func (h *ResultHandler) HandleGetResult(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	record, err := h.interviewRepo.FindByID(id)
	if err != nil {
		return respondError(c, err, fiber.StatusInternalServerError)
	}
	return c.JSON(record)
}
