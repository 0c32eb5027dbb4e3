package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/interview-copilot/internal/models"
)

type ResumeRepository interface {
	Repository[models.Resume, *models.Resume]
	FindFull(id uuid.UUID) (*models.Resume, error)
}

type resumeRepository struct {
	Repository[models.Resume, *models.Resume]
	db *gorm.DB
}

func NewResumeRepository(db *gorm.DB) ResumeRepository {
	return &resumeRepository{
		Repository: NewRepository[models.Resume](db),
		db:         db,
	}
}

// FindFull implements ResumeRepository.
func (r *resumeRepository) FindFull(id uuid.UUID) (*models.Resume, error) {
	var resume models.Resume
	err := r.db.
		Preload("Educations", orderByCreation).
		Preload("Certificates", orderByCreation).
		Preload("LanguageSkills", orderByCreation).
		Preload("LanguageSkills.Language").
		Preload("Domains", orderByCreation).
		Preload("Projects", orderByCreation).
		Preload("ProfessionalSkills", orderByCreation).
		Where("id = ?", id).
		First(&resume).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("resume %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find resume: %w", err)
	}
	return &resume, nil
}

// Delete removes the resume and every child row in one transaction.
func (r *resumeRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, child := range models.ResumeChildren() {
			if err := tx.Where("resume_id = ?", id).Delete(child).Error; err != nil {
				return fmt.Errorf("failed to delete children of resume: %w", err)
			}
		}

		result := tx.Where("id = ?", id).Delete(&models.Resume{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete resume: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("resume %s: %w", id, ErrNotFound)
		}
		return nil
	})
}

func orderByCreation(db *gorm.DB) *gorm.DB {
	return db.Order("created_on ASC")
}
