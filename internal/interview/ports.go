package interview

import (
	"context"
	"time"
)

// PlanRequest carries what is known about the candidate and the job when planning starts.
type PlanRequest struct {
	CandidateName  string
	ResumeText     string
	JobDescription string
	Categories     []string
	PerCategory    int
}

// Planner builds an interview plan, normally from retrieval results.
type Planner interface {
	BuildPlan(ctx context.Context, req PlanRequest) (Plan, error)
}

// FollowUpWriter writes a follow-up for a question whose bank entry has none.
type FollowUpWriter interface {
	WriteFollowUp(ctx context.Context, question, answer string) (string, error)
}

// Evaluator is the opaque assessment capability. Its output is stored verbatim.
type Evaluator interface {
	Evaluate(ctx context.Context, transcript []TranscriptEntry, plan Plan) (string, error)
}

// Sink persists a session when it finishes.
type Sink interface {
	SaveTranscript(ctx context.Context, record TranscriptRecord) error
	SaveAnalysis(ctx context.Context, record AnalysisRecord) error
}

type TranscriptRecord struct {
	InterviewID   string            `json:"interview_id"`
	CandidateName string            `json:"candidate_name"`
	StartTime     time.Time         `json:"start_time"`
	EndTime       time.Time         `json:"end_time"`
	Transcription []TranscriptEntry `json:"transcription"`
}

type AnalysisRecord struct {
	InterviewID         string           `json:"-"`
	Summary             Summary          `json:"interview_summary"`
	QuestionsAndAnswers []QuestionAnswer `json:"questions_and_answers"`
}

type Summary struct {
	CandidateName     string  `json:"candidate_name"`
	Assessment        string  `json:"assessment"`
	TotalQuestions    int     `json:"total_questions"`
	QuestionsAnswered int     `json:"questions_answered"`
	FollowUpQuestions int     `json:"follow_up_questions"`
	DurationMinutes   float64 `json:"duration_minutes"`
	ConclusionReason  string  `json:"conclusion_reason"`
}

type QuestionAnswer struct {
	Category       string `json:"category"`
	Question       string `json:"question"`
	Answer         string `json:"answer"`
	FollowUp       string `json:"follow_up"`
	FollowUpAnswer string `json:"follow_up_answer,omitempty"`
	Asked          bool   `json:"asked"`
	FollowUpAsked  bool   `json:"follow_up_asked"`
}
