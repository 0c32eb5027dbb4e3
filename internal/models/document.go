package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentKind string

const (
	DocumentResume DocumentKind = "resume"
	DocumentAudio  DocumentKind = "audio"
)

type Document struct {
	ID               uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Kind             DocumentKind `gorm:"type:varchar(20);not null;index" json:"kind"`
	InterviewID      *uuid.UUID   `gorm:"type:uuid;index" json:"interview_id,omitempty"`
	Filename         string       `gorm:"type:text" json:"filename"`
	OriginalFileName string       `gorm:"type:text" json:"original_filename"`
	FileType         string       `gorm:"type:text" json:"file_type"`
	FilePath         string       `gorm:"type:text" json:"file_path"`
	Size             int64        `json:"size"`
	CreatedAt        time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (d *Document) TableName() string {
	return "documents"
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
