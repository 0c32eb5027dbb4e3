package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// InterviewRecord is the persisted form of a finished (or finishing) interview session.
type InterviewRecord struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CandidateName       string         `gorm:"type:text" json:"candidate_name"`
	State               string         `gorm:"type:varchar(20);not null" json:"state"`
	StartTime           time.Time      `json:"start_time"`
	EndTime             *time.Time     `json:"end_time,omitempty"`
	ConclusionReason    string         `gorm:"type:varchar(50)" json:"conclusion_reason,omitempty"`
	Assessment          *string        `gorm:"type:text" json:"assessment,omitempty"`
	Transcription       datatypes.JSON `json:"transcription"`
	QuestionsAndAnswers datatypes.JSON `json:"questions_and_answers,omitempty"`
	CreatedAt           time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	Metrics *InterviewMetrics `gorm:"foreignKey:InterviewID;constraint:OnDelete:CASCADE" json:"metrics,omitempty"`
}

func (InterviewRecord) TableName() string {
	return "interviews"
}

type InterviewMetrics struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	InterviewID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"interview_id"`
	TotalQuestions    int       `json:"total_questions"`
	QuestionsAnswered int       `json:"questions_answered"`
	FollowUpQuestions int       `json:"follow_up_questions"`
	DurationMinutes   float64   `json:"duration_minutes"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (InterviewMetrics) TableName() string {
	return "interview_metrics"
}
