package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/interview-copilot/internal/catalog"
	"alfredoptarigan/interview-copilot/internal/logger"
	"alfredoptarigan/interview-copilot/internal/models"
	"alfredoptarigan/interview-copilot/internal/repositories"
	"alfredoptarigan/interview-copilot/internal/services"
)

type StudyPlanHandler struct {
	planner services.StudyPlanner
	resumes resumeSource
	log     *zap.Logger
}

type StudyPlanHandlerDeps struct {
	Planner    services.StudyPlanner
	Catalog    *catalog.Catalog
	ResumeRepo repositories.ResumeRepository
	DocRepo    repositories.DocumentRepository
	PDFParser  services.ResumeTextExtractor
	Log        *zap.Logger
}

func NewStudyPlanHandler(deps StudyPlanHandlerDeps) *StudyPlanHandler {
	return &StudyPlanHandler{
		planner: deps.Planner,
		resumes: resumeSource{
			catalog:    deps.Catalog,
			resumeRepo: deps.ResumeRepo,
			docRepo:    deps.DocRepo,
			pdfParser:  deps.PDFParser,
		},
		log: logger.OrNop(deps.Log),
	}
}

// HandleCreate handles POST /study-plans
func (h *StudyPlanHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.StudyPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	text := req.ResumeText
	if req.ResumeID != "" || req.ResumeDocumentID != "" {
		resume, err := h.resumes.resolve(req.ResumeID, req.ResumeDocumentID)
		if err != nil {
			return respondError(c, err, fiber.StatusInternalServerError)
		}
		text = resume.Text
	}
	if strings.TrimSpace(text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume_text, resume_id or resume_document_id is required",
		})
	}

	h.log.Info("📚 Creating study plan", zap.Bool("fast", req.Fast), zap.Int("resume_chars", len(text)))
	plan, err := h.planner.CreatePlan(c.UserContext(), text, req.Fast)
	if err != nil {
		h.log.Error("❌ Study plan failed", zap.Error(err))
		return respondError(c, err, fiber.StatusBadGateway)
	}
	return c.JSON(plan)
}
