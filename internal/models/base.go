package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrValidation marks a record rejected before it reached the database.
var ErrValidation = errors.New("validation failed")

// Base carries the identity and audit columns shared by the resume schema.
type Base struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedOn  time.Time `gorm:"autoCreateTime" json:"created_on"`
	CreatedBy  *string   `gorm:"type:varchar(36)" json:"created_by"`
	ModifiedOn time.Time `gorm:"autoUpdateTime" json:"modified_on"`
	ModifiedBy *string   `gorm:"type:varchar(36)" json:"modified_by"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (b *Base) GetID() uuid.UUID   { return b.ID }
func (b *Base) SetID(id uuid.UUID) { b.ID = id }

// Reference is a foreign key value that must point at an existing row.
type Reference struct {
	Table string
	ID    uuid.UUID
}

// Referencing is implemented by records with foreign keys.
type Referencing interface {
	References() []Reference
}

func required(fields map[string]string) error {
	var missing []string
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("%w: missing required field(s): %s", ErrValidation, strings.Join(missing, ", "))
}

func requiredID(name string, id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("%w: missing required field(s): %s", ErrValidation, name)
	}
	return nil
}
