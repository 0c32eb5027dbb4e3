package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/interview-copilot/internal/catalog"
	"alfredoptarigan/interview-copilot/internal/interview"
	"alfredoptarigan/interview-copilot/internal/logger"
	"alfredoptarigan/interview-copilot/internal/models"
	"alfredoptarigan/interview-copilot/internal/repositories"
	"alfredoptarigan/interview-copilot/internal/services"
)

type InterviewHandler struct {
	manager        services.InterviewManager
	catalog        *catalog.Catalog
	resumes        resumeSource
	docRepo        repositories.DocumentRepository
	interviewRepo  repositories.InterviewRepository
	storageService services.StorageService
	maxFileSize    int64
	log            *zap.Logger
}

type InterviewHandlerDeps struct {
	Manager        services.InterviewManager
	Catalog        *catalog.Catalog
	ResumeRepo     repositories.ResumeRepository
	DocRepo        repositories.DocumentRepository
	InterviewRepo  repositories.InterviewRepository
	StorageService services.StorageService
	PDFParser      services.ResumeTextExtractor
	MaxFileSize    int64
	Log            *zap.Logger
}

func NewInterviewHandler(deps InterviewHandlerDeps) *InterviewHandler {
	return &InterviewHandler{
		manager:        deps.Manager,
		catalog:        deps.Catalog,
		resumes: resumeSource{
			catalog:    deps.Catalog,
			resumeRepo: deps.ResumeRepo,
			docRepo:    deps.DocRepo,
			pdfParser:  deps.PDFParser,
		},
		docRepo:        deps.DocRepo,
		interviewRepo:  deps.InterviewRepo,
		storageService: deps.StorageService,
		maxFileSize:    deps.MaxFileSize,
		log:            logger.OrNop(deps.Log),
	}
}

func (h *InterviewHandler) Register(r fiber.Router) {
	r.Post("/", h.HandleStart)
	r.Get("/:id", h.HandleGet)
	r.Post("/:id/turns", h.HandleTurn)
	r.Post("/:id/conclude", h.HandleConclude)
	r.Post("/:id/finalize", h.HandleFinalize)
	r.Post("/:id/audio", h.HandleUploadAudio)
	r.Get("/:id/audio", h.HandleListAudio)
}

// HandleStart handles POST /interviews
func (h *InterviewHandler) HandleStart(c *fiber.Ctx) error {
	var req models.StartInterviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	start, err := h.resolveStart(req)
	if err != nil {
		return respondError(c, err, fiber.StatusInternalServerError)
	}
	if start.CandidateName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "candidate_name is required",
		})
	}

	snap, err := h.manager.Start(c.UserContext(), start)
	if err != nil {
		return c.Status(errorStatus(err, fiber.StatusUnprocessableEntity)).JSON(models.InterviewResponse{
			ID:    snap.ID.String(),
			State: string(snap.State),
			Error: err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(models.InterviewResponse{
		ID:            snap.ID.String(),
		State:         string(snap.State),
		Prompt:        snap.Prompt,
		QuestionIndex: snap.QuestionIndex,
	})
}

// resolveStart fills resume and job text from stored resumes, catalog entries or uploads.
func (h *InterviewHandler) resolveStart(req models.StartInterviewRequest) (services.StartRequest, error) {
	start := services.StartRequest{
		CandidateName:  strings.TrimSpace(req.CandidateName),
		ResumeText:     req.ResumeText,
		JobDescription: req.JobDescription,
		Categories:     req.Categories,
	}
	if req.TimeLimitMinutes > 0 {
		start.TimeLimit = time.Duration(req.TimeLimitMinutes) * time.Minute
	}

	if req.ResumeID != "" || req.ResumeDocumentID != "" {
		resume, err := h.resumes.resolve(req.ResumeID, req.ResumeDocumentID)
		if err != nil {
			return start, err
		}
		start.ResumeText = resume.Text
		if start.CandidateName == "" {
			start.CandidateName = resume.Name
		}
	}

	if req.JobID != "" {
		job, ok := h.catalog.Job(req.JobID)
		if !ok {
			return start, fmt.Errorf("job %s: %w", req.JobID, repositories.ErrNotFound)
		}
		start.JobDescription = job.Text()
	}

	return start, nil
}

// HandleGet handles GET /interviews/:id. Finished interviews are read from the database.
func (h *InterviewHandler) HandleGet(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	snap, err := h.manager.Get(id)
	if err == nil {
		return c.JSON(snap)
	}
	if !errors.Is(err, services.ErrSessionNotFound) {
		return respondError(c, err, fiber.StatusInternalServerError)
	}

	record, err := h.interviewRepo.FindByID(id)
	if err != nil {
		return respondError(c, err, fiber.StatusInternalServerError)
	}
	return c.JSON(record)
}

// HandleTurn handles POST /interviews/:id/turns
func (h *InterviewHandler) HandleTurn(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req models.TurnRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	result, err := h.manager.RecordAnswer(c.UserContext(), id, req.Answer)
	if err != nil {
		h.log.Debug("⚠️ Turn rejected", zap.String(logger.FieldInterviewID, id.String()), zap.Error(err))
		return c.Status(errorStatus(err, fiber.StatusBadGateway)).JSON(models.InterviewResponse{
			ID:            id.String(),
			State:         string(result.State),
			Prompt:        result.Prompt,
			QuestionIndex: result.QuestionIndex,
			Error:         err.Error(),
		})
	}

	return c.JSON(models.InterviewResponse{
		ID:            id.String(),
		State:         string(result.State),
		Prompt:        result.Prompt,
		QuestionIndex: result.QuestionIndex,
		FollowUp:      result.FollowUp,
	})
}

// HandleConclude handles POST /interviews/:id/conclude
func (h *InterviewHandler) HandleConclude(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	snap, err := h.manager.Conclude(c.UserContext(), id, interview.ReasonManual)
	if err != nil {
		return respondError(c, err, fiber.StatusInternalServerError)
	}
	return c.JSON(models.InterviewResponse{
		ID:            id.String(),
		State:         string(snap.State),
		QuestionIndex: snap.QuestionIndex,
	})
}

// HandleFinalize handles POST /interviews/:id/finalize
func (h *InterviewHandler) HandleFinalize(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	snap, err := h.manager.Finalize(c.UserContext(), id)
	if err != nil {
		return c.Status(errorStatus(err, fiber.StatusBadGateway)).JSON(fiber.Map{
			"id":    id.String(),
			"state": snap.State,
			"error": err.Error(),
		})
	}

	return c.JSON(models.FinalizeResponse{
		ID:         id.String(),
		State:      string(snap.State),
		Assessment: snap.Assessment,
	})
}

// HandleUploadAudio handles POST /interviews/:id/audio
func (h *InterviewHandler) HandleUploadAudio(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.exists(id); err != nil {
		return respondError(c, err, fiber.StatusInternalServerError)
	}

	file, err := c.FormFile("audio")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No valid file uploaded. Please upload 'audio'.",
		})
	}

	doc, err := saveDocument(h.storageService, h.docRepo, file, models.DocumentAudio, h.maxFileSize, &id)
	if err != nil {
		return respondError(c, err, fiber.StatusInternalServerError)
	}
	return c.Status(fiber.StatusCreated).JSON(uploadResponse(doc))
}

// HandleListAudio handles GET /interviews/:id/audio
func (h *InterviewHandler) HandleListAudio(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	docs, err := h.docRepo.FindByInterview(id, models.DocumentAudio)
	if err != nil {
		return respondError(c, err, fiber.StatusInternalServerError)
	}

	responses := make([]models.UploadResponse, 0, len(docs))
	for i := range docs {
		responses = append(responses, uploadResponse(&docs[i]))
	}
	return c.JSON(responses)
}

func (h *InterviewHandler) exists(id uuid.UUID) error {
	if _, err := h.manager.Get(id); err == nil {
		return nil
	}
	_, err := h.interviewRepo.FindByID(id)
	return err
}
