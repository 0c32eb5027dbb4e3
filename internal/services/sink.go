package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"alfredoptarigan/interview-copilot/internal/interview"
	"alfredoptarigan/interview-copilot/internal/models"
	"alfredoptarigan/interview-copilot/internal/repositories"
)

// FileSink writes <dir>/<id>_transcript.json and <dir>/<id>_analysis.json.
type FileSink struct {
	dir string
}

func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

func (s *FileSink) TranscriptPath(interviewID string) string {
	return filepath.Join(s.dir, interviewID+"_transcript.json")
}

func (s *FileSink) AnalysisPath(interviewID string) string {
	return filepath.Join(s.dir, interviewID+"_analysis.json")
}

func (s *FileSink) SaveTranscript(ctx context.Context, record interview.TranscriptRecord) error {
	return s.write(s.TranscriptPath(record.InterviewID), record)
}

func (s *FileSink) SaveAnalysis(ctx context.Context, record interview.AnalysisRecord) error {
	return s.write(s.AnalysisPath(record.InterviewID), record)
}

func (s *FileSink) write(path string, v any) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create transcript directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// DatabaseSink stores sessions as InterviewRecord and InterviewMetrics rows.
type DatabaseSink struct {
	repo repositories.InterviewRepository
}

func NewDatabaseSink(repo repositories.InterviewRepository) *DatabaseSink {
	return &DatabaseSink{repo: repo}
}

func (s *DatabaseSink) SaveTranscript(ctx context.Context, record interview.TranscriptRecord) error {
	id, err := uuid.Parse(record.InterviewID)
	if err != nil {
		return fmt.Errorf("invalid interview id: %w", err)
	}

	transcription, err := json.Marshal(record.Transcription)
	if err != nil {
		return fmt.Errorf("failed to encode transcription: %w", err)
	}

	row := &models.InterviewRecord{
		ID:            id,
		CandidateName: record.CandidateName,
		State:         string(interview.StateConcluding),
		StartTime:     record.StartTime,
		Transcription: datatypes.JSON(transcription),
	}
	if !record.EndTime.IsZero() {
		end := record.EndTime
		row.EndTime = &end
	}
	return s.repo.SaveTranscript(row)
}

func (s *DatabaseSink) SaveAnalysis(ctx context.Context, record interview.AnalysisRecord) error {
	id, err := uuid.Parse(record.InterviewID)
	if err != nil {
		return fmt.Errorf("invalid interview id: %w", err)
	}

	qa, err := json.Marshal(record.QuestionsAndAnswers)
	if err != nil {
		return fmt.Errorf("failed to encode questions and answers: %w", err)
	}

	summary := record.Summary
	return s.repo.SaveAnalysis(id, &repositories.AnalysisUpdateData{
		State:               string(interview.StateFinished),
		ConclusionReason:    summary.ConclusionReason,
		Assessment:          summary.Assessment,
		QuestionsAndAnswers: datatypes.JSON(qa),
		Metrics: models.InterviewMetrics{
			TotalQuestions:    summary.TotalQuestions,
			QuestionsAnswered: summary.QuestionsAnswered,
			FollowUpQuestions: summary.FollowUpQuestions,
			DurationMinutes:   summary.DurationMinutes,
		},
	})
}

// TranscriptIndexSink makes finished transcripts searchable in the vector store.
type TranscriptIndexSink struct {
	ingestor Ingestor
}

func NewTranscriptIndexSink(ingestor Ingestor) *TranscriptIndexSink {
	return &TranscriptIndexSink{ingestor: ingestor}
}

func (s *TranscriptIndexSink) SaveTranscript(ctx context.Context, record interview.TranscriptRecord) error {
	_, err := s.ingestor.IndexTranscript(ctx, record)
	return err
}

func (s *TranscriptIndexSink) SaveAnalysis(ctx context.Context, record interview.AnalysisRecord) error {
	return nil
}

// MultiSink fans out to every sink in order and stops at the first error.
type MultiSink []interview.Sink

func (m MultiSink) SaveTranscript(ctx context.Context, record interview.TranscriptRecord) error {
	for _, s := range m {
		if err := s.SaveTranscript(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

func (m MultiSink) SaveAnalysis(ctx context.Context, record interview.AnalysisRecord) error {
	for _, s := range m {
		if err := s.SaveAnalysis(ctx, record); err != nil {
			return err
		}
	}
	return nil
}
