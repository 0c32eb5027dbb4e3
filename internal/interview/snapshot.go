package interview

import (
	"time"

	"github.com/google/uuid"
)

type Metrics struct {
	TotalQuestions    int           `json:"total_questions"`
	QuestionsAsked    int           `json:"questions_asked"`
	QuestionsAnswered int           `json:"questions_answered"`
	FollowUpQuestions int           `json:"follow_up_questions"`
	Duration          time.Duration `json:"duration"`
}

func (s *Session) Metrics() Metrics {
	m := Metrics{TotalQuestions: len(s.questions)}
	for _, q := range s.questions {
		if q.Asked {
			m.QuestionsAsked++
		}
		if q.Answer != "" {
			m.QuestionsAnswered++
		}
		if q.FollowUpAsked {
			m.FollowUpQuestions++
		}
	}

	end := s.endTime
	if end.IsZero() {
		end = s.now()
	}
	m.Duration = end.Sub(s.startTime)
	return m
}

// Snapshot is a detached copy of a session, safe to hand to other goroutines.
type Snapshot struct {
	ID               uuid.UUID         `json:"id"`
	CandidateName    string            `json:"candidate_name"`
	State            State             `json:"state"`
	StartTime        time.Time         `json:"start_time"`
	EndTime          *time.Time        `json:"end_time,omitempty"`
	Deadline         *time.Time        `json:"deadline,omitempty"`
	QuestionIndex    int               `json:"question_index"`
	Prompt           string            `json:"prompt"`
	Plan             Plan              `json:"plan"`
	Questions        []QuestionState   `json:"questions"`
	Transcript       []TranscriptEntry `json:"transcription"`
	ConclusionReason string            `json:"conclusion_reason,omitempty"`
	Assessment       string            `json:"assessment,omitempty"`
	Error            string            `json:"error,omitempty"`
	Metrics          Metrics           `json:"metrics"`
}

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		ID:               s.id,
		CandidateName:    s.candidateName,
		State:            s.state,
		StartTime:        s.startTime,
		QuestionIndex:    s.index,
		Prompt:           s.CurrentPrompt(),
		Plan:             s.InterviewPlan(),
		Questions:        s.Questions(),
		Transcript:       s.Transcript(),
		ConclusionReason: s.concludeReason,
		Assessment:       s.assessment,
		Metrics:          s.Metrics(),
	}
	if !s.endTime.IsZero() {
		end := s.endTime
		snap.EndTime = &end
	}
	if !s.deadline.IsZero() {
		deadline := s.deadline
		snap.Deadline = &deadline
	}
	if s.failure != nil {
		snap.Error = s.failure.Error()
	}
	return snap
}

// ConclusionReason is set once the session left in_progress.
func (s *Session) ConclusionReason() string { return s.concludeReason }
