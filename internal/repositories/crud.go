package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"alfredoptarigan/interview-copilot/internal/models"
)

// Entity is the pointer side of a resume-schema model.
type Entity[T any] interface {
	*T
	TableName() string
	GetID() uuid.UUID
	SetID(uuid.UUID)
	Validate() error
}

type Repository[T any, PT Entity[T]] interface {
	List() ([]T, error)
	ListByResume(resumeID uuid.UUID) ([]T, error)
	FindByID(id uuid.UUID) (*T, error)
	Create(entity *T) error
	Update(entity *T) error
	Delete(id uuid.UUID) error
}

type crudRepository[T any, PT Entity[T]] struct {
	db *gorm.DB
}

func NewRepository[T any, PT Entity[T]](db *gorm.DB) Repository[T, PT] {
	return &crudRepository[T, PT]{db: db}
}

func (r *crudRepository[T, PT]) name() string {
	return PT(new(T)).TableName()
}

// List implements Repository.
func (r *crudRepository[T, PT]) List() ([]T, error) {
	var out []T
	if err := r.db.Order("created_on ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.name(), err)
	}
	return out, nil
}

// ListByResume implements Repository.
func (r *crudRepository[T, PT]) ListByResume(resumeID uuid.UUID) ([]T, error) {
	var out []T
	if err := r.db.Where("resume_id = ?", resumeID).Order("created_on ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.name(), err)
	}
	return out, nil
}

// FindByID implements Repository.
func (r *crudRepository[T, PT]) FindByID(id uuid.UUID) (*T, error) {
	var entity T
	if err := r.db.Where("id = ?", id).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s %s: %w", r.name(), id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find %s: %w", r.name(), err)
	}
	return &entity, nil
}

// Create implements Repository.
func (r *crudRepository[T, PT]) Create(entity *T) error {
	if err := PT(entity).Validate(); err != nil {
		return err
	}
	if err := checkReferences(r.db, entity); err != nil {
		return err
	}

	if err := r.db.Omit(clause.Associations).Create(entity).Error; err != nil {
		return fmt.Errorf("failed to create %s: %w", r.name(), err)
	}
	return nil
}

// Update implements Repository.
func (r *crudRepository[T, PT]) Update(entity *T) error {
	if err := PT(entity).Validate(); err != nil {
		return err
	}
	if err := checkReferences(r.db, entity); err != nil {
		return err
	}

	result := r.db.Omit(clause.Associations).Save(entity)
	if result.Error != nil {
		return fmt.Errorf("failed to update %s: %w", r.name(), result.Error)
	}
	return nil
}

// Delete implements Repository.
func (r *crudRepository[T, PT]) Delete(id uuid.UUID) error {
	result := r.db.Where("id = ?", id).Delete(new(T))
	if result.Error != nil {
		return fmt.Errorf("failed to delete %s: %w", r.name(), result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%s %s: %w", r.name(), id, ErrNotFound)
	}
	return nil
}

func checkReferences(db *gorm.DB, entity any) error {
	ref, ok := entity.(models.Referencing)
	if !ok {
		return nil
	}

	for _, r := range ref.References() {
		var count int64
		if err := db.Table(r.Table).Where("id = ?", r.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check %s reference: %w", r.Table, err)
		}
		if count == 0 {
			return fmt.Errorf("%w: %s %s", ErrInvalidReference, r.Table, r.ID)
		}
	}
	return nil
}
