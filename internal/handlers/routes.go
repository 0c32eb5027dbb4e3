package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"alfredoptarigan/interview-copilot/internal/models"
	"alfredoptarigan/interview-copilot/internal/repositories"
)

type Handlers struct {
	Resume    *ResumeHandler
	Interview *InterviewHandler
	Catalog   *CatalogHandler
	Upload    *UploadHandler
	Result    *ResultHandler
	StudyPlan *StudyPlanHandler
}

// Register mounts every API route on api. Nil handlers are skipped.
func Register(api fiber.Router, db *gorm.DB, h Handlers) {
	if h.Resume != nil {
		h.Resume.Register(api.Group("/resumes"))
	}
	registerResumeSchema(api, db)

	if h.Interview != nil {
		h.Interview.Register(api.Group("/interviews"))
	}
	if h.Catalog != nil {
		h.Catalog.Register(api.Group("/catalog"))
	}
	if h.Upload != nil {
		api.Post("/upload", h.Upload.HandleUpload)
	}
	if h.Result != nil {
		api.Get("/results", h.Result.HandleListResults)
		api.Get("/results/:id", h.Result.HandleGetResult)
	}
	if h.StudyPlan != nil {
		api.Post("/study-plans", h.StudyPlan.HandleCreate)
	}
}

func registerResumeSchema(api fiber.Router, db *gorm.DB) {
	NewCRUDHandler(repositories.NewRepository[models.Education](db)).Register(api.Group("/education"), true)
	NewCRUDHandler(repositories.NewRepository[models.Certificate](db)).Register(api.Group("/certificates"), true)
	// Before /languages, whose /:id would otherwise capture "skills".
	NewCRUDHandler(repositories.NewRepository[models.LanguageSkill](db)).Register(api.Group("/languages/skills"), true)
	NewCRUDHandler(repositories.NewRepository[models.Language](db)).Register(api.Group("/languages"), false)
	NewCRUDHandler(repositories.NewRepository[models.Domain](db)).Register(api.Group("/domains"), true)
	NewCRUDHandler(repositories.NewRepository[models.Project](db)).Register(api.Group("/projects"), true)
	NewCRUDHandler(repositories.NewRepository[models.ProfessionalSkill](db)).Register(api.Group("/professional-skills"), true)
}
