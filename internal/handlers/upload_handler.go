package handlers

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/interview-copilot/internal/models"
	"alfredoptarigan/interview-copilot/internal/repositories"
	"alfredoptarigan/interview-copilot/internal/services"
)

type UploadHandler struct {
	docRepo        repositories.DocumentRepository
	storageService services.StorageService
	maxFileSize    int64
}

func NewUploadHandler(
	docRepo repositories.DocumentRepository,
	storageService services.StorageService,
	maxFileSize int64,
) *UploadHandler {
	return &UploadHandler{
		docRepo:        docRepo,
		storageService: storageService,
		maxFileSize:    maxFileSize,
	}
}

// HandleUpload handles POST /upload with a multipart "resume" PDF.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No valid file uploaded. Please upload 'resume' as a PDF file.",
		})
	}

	doc, err := saveDocument(h.storageService, h.docRepo, file, models.DocumentResume, h.maxFileSize, nil)
	if err != nil {
		return respondError(c, err, fiber.StatusInternalServerError)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "File uploaded successfully",
		"document": uploadResponse(doc),
	})
}

func saveDocument(
	storageService services.StorageService,
	docRepo repositories.DocumentRepository,
	file *multipart.FileHeader,
	kind models.DocumentKind,
	maxFileSize int64,
	interviewID *uuid.UUID,
) (*models.Document, error) {
	if maxFileSize > 0 && file.Size > maxFileSize {
		return nil, fmt.Errorf("%w: %s file too large. Max size: %d bytes", models.ErrValidation, kind, maxFileSize)
	}

	filename, filePath, err := storageService.SaveFile(file, kind)
	if err != nil {
		return nil, err
	}

	doc := &models.Document{
		Kind:             kind,
		InterviewID:      interviewID,
		Filename:         filename,
		OriginalFileName: file.Filename,
		FileType:         strings.TrimPrefix(strings.ToLower(filepath.Ext(file.Filename)), "."),
		FilePath:         filePath,
		Size:             file.Size,
	}

	if err := docRepo.Create(doc); err != nil {
		// Cleanup uploaded file if database insert fails
		storageService.DeleteFile(filename)
		return nil, err
	}
	return doc, nil
}

func uploadResponse(doc *models.Document) models.UploadResponse {
	return models.UploadResponse{
		ID:           doc.ID.String(),
		Kind:         string(doc.Kind),
		Filename:     doc.Filename,
		OriginalName: doc.OriginalFileName,
		FileType:     doc.FileType,
	}
}
