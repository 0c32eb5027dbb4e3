package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-copilot/internal/models"
	"alfredoptarigan/interview-copilot/internal/repositories"
)

type ResumeHandler struct {
	*CRUDHandler[models.Resume, *models.Resume]
	resumeRepo repositories.ResumeRepository
}

func NewResumeHandler(resumeRepo repositories.ResumeRepository) *ResumeHandler {
	return &ResumeHandler{
		CRUDHandler: NewCRUDHandler[models.Resume, *models.Resume](resumeRepo),
		resumeRepo:  resumeRepo,
	}
}

func (h *ResumeHandler) Register(r fiber.Router) {
	r.Get("/:id/full", h.HandleGetFull)
	h.CRUDHandler.Register(r, false)
}

// HandleGetFull handles GET /resumes/:id/full
func (h *ResumeHandler) HandleGetFull(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	resume, err := h.resumeRepo.FindFull(id)
	if err != nil {
		return respondError(c, err, fiber.StatusInternalServerError)
	}
	return c.JSON(models.NewResumeFull(resume))
}
