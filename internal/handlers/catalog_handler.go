package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-copilot/internal/catalog"
)

type CatalogHandler struct {
	catalog *catalog.Catalog
}

func NewCatalogHandler(cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: cat}
}

func (h *CatalogHandler) Register(r fiber.Router) {
	r.Get("/questions", h.HandleQuestions)
	r.Get("/categories", h.HandleCategories)
	r.Get("/jobs", h.HandleJobs)
	r.Get("/resumes", h.HandleResumes)
	r.Get("/best-practices", h.HandleBestPractices)
	r.Get("/study-categories", h.HandleStudyCategories)
	r.Get("/study-questions", h.HandleStudyQuestions)
}

// HandleQuestions handles GET /catalog/questions?category=
func (h *CatalogHandler) HandleQuestions(c *fiber.Ctx) error {
	if category := c.Query("category"); category != "" {
		return c.JSON(nonNil(h.catalog.ByCategory(category)))
	}
	return c.JSON(h.catalog.Questions())
}

func (h *CatalogHandler) HandleCategories(c *fiber.Ctx) error {
	return c.JSON(h.catalog.Categories())
}

func (h *CatalogHandler) HandleJobs(c *fiber.Ctx) error {
	return c.JSON(h.catalog.Jobs())
}

func (h *CatalogHandler) HandleResumes(c *fiber.Ctx) error {
	return c.JSON(h.catalog.Resumes())
}

// HandleBestPractices handles GET /catalog/best-practices?kind=, defaulting to general.
func (h *CatalogHandler) HandleBestPractices(c *fiber.Ctx) error {
	return c.JSON(nonNil(h.catalog.BestPractices(c.Query("kind", catalog.PracticeGeneral))))
}

func (h *CatalogHandler) HandleStudyCategories(c *fiber.Ctx) error {
	out := make([]fiber.Map, 0)
	for _, category := range h.catalog.StudyCategories() {
		out = append(out, fiber.Map{
			"category":      category,
			"subcategories": nonNil(h.catalog.Subcategories(category)),
		})
	}
	return c.JSON(out)
}

// HandleStudyQuestions handles GET /catalog/study-questions?category=&subcategory=&count=
func (h *CatalogHandler) HandleStudyQuestions(c *fiber.Ctx) error {
	category := c.Query("category")
	if category == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "category is required",
		})
	}
	if category == catalog.StudyProgrammingLanguages && c.Query("subcategory") == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "subcategory is required for programming_languages",
		})
	}
	return c.JSON(nonNil(h.catalog.StudyQuestions(category, c.Query("subcategory"), c.QueryInt("count"))))
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
