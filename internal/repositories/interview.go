package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"alfredoptarigan/interview-copilot/internal/models"
)

type InterviewRepository interface {
	SaveTranscript(record *models.InterviewRecord) error
	SaveAnalysis(id uuid.UUID, data *AnalysisUpdateData) error
	FindByID(id uuid.UUID) (*models.InterviewRecord, error)
	List(limit int) ([]models.InterviewRecord, error)
}

type AnalysisUpdateData struct {
	State               string
	ConclusionReason    string
	Assessment          string
	QuestionsAndAnswers datatypes.JSON
	Metrics             models.InterviewMetrics
}

type interviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

// SaveTranscript inserts the record, or refreshes its transcript when it already exists.
func (r *interviewRepository) SaveTranscript(record *models.InterviewRecord) error {
	err := r.db.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"state", "end_time", "conclusion_reason", "transcription", "updated_at"}),
	}).Create(record).Error
	if err != nil {
		return fmt.Errorf("failed to save interview transcript: %w", err)
	}
	return nil
}

// SaveAnalysis stores the assessment and metrics of an interview whose transcript was saved.
func (r *interviewRepository) SaveAnalysis(id uuid.UUID, data *AnalysisUpdateData) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.InterviewRecord{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"state":                 data.State,
				"conclusion_reason":     data.ConclusionReason,
				"assessment":            data.Assessment,
				"questions_and_answers": data.QuestionsAndAnswers,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update interview analysis: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("interview %s: %w", id, ErrNotFound)
		}

		metrics := data.Metrics
		metrics.InterviewID = id
		if metrics.ID == uuid.Nil {
			metrics.ID = uuid.New()
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "interview_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"total_questions", "questions_answered", "follow_up_questions", "duration_minutes"}),
		}).Create(&metrics).Error
		if err != nil {
			return fmt.Errorf("failed to save interview metrics: %w", err)
		}
		return nil
	})
}

// FindByID implements InterviewRepository.
func (r *interviewRepository) FindByID(id uuid.UUID) (*models.InterviewRecord, error) {
	var record models.InterviewRecord
	if err := r.db.Preload("Metrics").Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("interview %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find interview: %w", err)
	}
	return &record, nil
}

// List implements InterviewRepository.
func (r *interviewRepository) List(limit int) ([]models.InterviewRecord, error) {
	var records []models.InterviewRecord
	err := r.db.
		Order("start_time DESC").
		Limit(limit).
		Find(&records).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}

	return records, nil
}
