package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/interview-copilot/internal/repositories"
)

// CRUDHandler serves list/create/get/update/delete for one resume-schema table.
type CRUDHandler[T any, PT repositories.Entity[T]] struct {
	repo repositories.Repository[T, PT]
}

func NewCRUDHandler[T any, PT repositories.Entity[T]](repo repositories.Repository[T, PT]) *CRUDHandler[T, PT] {
	return &CRUDHandler[T, PT]{repo: repo}
}

// Register mounts the handler on r. Child tables also get GET /resume/:resume_id.
func (h *CRUDHandler[T, PT]) Register(r fiber.Router, child bool) {
	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)
	if child {
		r.Get("/resume/:resume_id", h.HandleListByResume)
	}
	r.Get("/:id", h.HandleGet)
	r.Put("/:id", h.HandleUpdate)
	r.Delete("/:id", h.HandleDelete)
}

func (h *CRUDHandler[T, PT]) HandleList(c *fiber.Ctx) error {
	items, err := h.repo.List()
	if err != nil {
		return respondError(c, err, fiber.StatusInternalServerError)
	}
	return c.JSON(nonNil(items))
}

func (h *CRUDHandler[T, PT]) HandleListByResume(c *fiber.Ctx) error {
	resumeID, err := parseID(c, "resume_id")
	if err != nil {
		return err
	}

	items, err := h.repo.ListByResume(resumeID)
	if err != nil {
		return respondError(c, err, fiber.StatusInternalServerError)
	}
	return c.JSON(nonNil(items))
}

func (h *CRUDHandler[T, PT]) HandleGet(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	item, err := h.repo.FindByID(id)
	if err != nil {
		return respondError(c, err, fiber.StatusInternalServerError)
	}
	return c.JSON(item)
}

func (h *CRUDHandler[T, PT]) HandleCreate(c *fiber.Ctx) error {
	item := new(T)
	if err := c.BodyParser(item); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}
	PT(item).SetID(uuid.Nil)

	if err := h.repo.Create(item); err != nil {
		return respondError(c, err, fiber.StatusInternalServerError)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleUpdate decodes the body over the stored row, so absent fields keep their value.
func (h *CRUDHandler[T, PT]) HandleUpdate(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	item, err := h.repo.FindByID(id)
	if err != nil {
		return respondError(c, err, fiber.StatusInternalServerError)
	}
	if err := c.BodyParser(item); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}
	PT(item).SetID(id)

	if err := h.repo.Update(item); err != nil {
		return respondError(c, err, fiber.StatusInternalServerError)
	}
	return c.JSON(item)
}

func (h *CRUDHandler[T, PT]) HandleDelete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.repo.Delete(id); err != nil {
		return respondError(c, err, fiber.StatusInternalServerError)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
