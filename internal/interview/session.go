// Package interview holds the state machine driving one interview session.
// A Session is not safe for concurrent use; callers serialize turns.
package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/interview-copilot/internal/catalog"
)

type State string

const (
	StateCreated    State = "created"
	StatePlanning   State = "planning"
	StateInProgress State = "in_progress"
	StateConcluding State = "concluding"
	StateFinished   State = "finished"
	StateFailed     State = "failed"
)

// Terminal reports whether no transition is defined out of s.
func (s State) Terminal() bool {
	return s == StateFinished || s == StateFailed
}

type Speaker string

const (
	SpeakerInterviewer Speaker = "interviewer"
	SpeakerCandidate   Speaker = "candidate"
)

type EntryType string

const (
	EntryQuestion  EntryType = "question"
	EntryAnswer    EntryType = "answer"
	EntryFollowUp  EntryType = "follow-up"
	EntryStatement EntryType = "statement"
)

type TranscriptEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Speaker   Speaker   `json:"speaker"`
	Message   string    `json:"message"`
	Type      EntryType `json:"type"`

	// QuestionIndex is the plan position the entry belongs to, -1 for statements.
	QuestionIndex int `json:"-"`
}

const (
	ReasonPlanCompleted = "plan_completed"
	ReasonTimeLimit     = "time_limit"
	ReasonManual        = "manual"
)

var (
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrNoQuestions       = errors.New("no questions match the requested categories")
	ErrEmptyAnswer       = errors.New("answer is empty")
)

type Plan struct {
	Categories []string           `json:"categories"`
	Questions  []catalog.Question `json:"questions"`
}

func (p Plan) Len() int {
	return len(p.Questions)
}

type QuestionState struct {
	Question       catalog.Question `json:"question"`
	Asked          bool             `json:"asked"`
	FollowUpAsked  bool             `json:"follow_up_asked"`
	Answer         string           `json:"answer,omitempty"`
	FollowUp       string           `json:"follow_up,omitempty"`
	FollowUpAnswer string           `json:"follow_up_answer,omitempty"`
}

type Config struct {
	// Policy is used as given; the zero value never asks a follow-up.
	Policy    FollowUpPolicy
	TimeLimit time.Duration
	Now       func() time.Time
}

type Session struct {
	id            uuid.UUID
	candidateName string
	policy        FollowUpPolicy
	timeLimit     time.Duration
	now           func() time.Time

	state      State
	failure    error
	startTime  time.Time
	endTime    time.Time
	deadline   time.Time
	plan       Plan
	questions  []QuestionState
	transcript []TranscriptEntry
	index      int

	concludeReason   string
	closingDelivered bool
	assessment       string
}

func NewSession(id uuid.UUID, candidateName string, cfg Config) *Session {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Session{
		id:            id,
		candidateName: candidateName,
		policy:        cfg.Policy,
		timeLimit:     cfg.TimeLimit,
		now:           cfg.Now,
		state:         StateCreated,
		startTime:     cfg.Now(),
	}
}

func (s *Session) ID() uuid.UUID         { return s.id }
func (s *Session) State() State          { return s.state }
func (s *Session) CandidateName() string { return s.candidateName }
func (s *Session) QuestionIndex() int    { return s.index }
func (s *Session) Deadline() time.Time   { return s.deadline }
func (s *Session) Assessment() string    { return s.assessment }

// Failure returns the error that moved the session into StateFailed.
func (s *Session) Failure() error { return s.failure }

// InterviewPlan returns a copy of the plan, empty until planning succeeded.
func (s *Session) InterviewPlan() Plan {
	return Plan{
		Categories: append([]string(nil), s.plan.Categories...),
		Questions:  append([]catalog.Question(nil), s.plan.Questions...),
	}
}

func (s *Session) Transcript() []TranscriptEntry {
	return append([]TranscriptEntry(nil), s.transcript...)
}

func (s *Session) Questions() []QuestionState {
	return append([]QuestionState(nil), s.questions...)
}

// CurrentPrompt is the last thing the interviewer said, or "" before planning.
func (s *Session) CurrentPrompt() string {
	for i := len(s.transcript) - 1; i >= 0; i-- {
		if s.transcript[i].Speaker == SpeakerInterviewer {
			return s.transcript[i].Message
		}
	}
	return ""
}

// Plan moves created → planning → in_progress, or to failed when no plan can be built.
func (s *Session) Plan(ctx context.Context, planner Planner, req PlanRequest) error {
	if s.state != StateCreated {
		return s.transitionError("plan")
	}
	s.state = StatePlanning

	plan, err := planner.BuildPlan(ctx, req)
	if err != nil {
		s.fail(err)
		return fmt.Errorf("failed to build interview plan: %w", err)
	}
	if plan.Len() == 0 {
		s.fail(ErrNoQuestions)
		return ErrNoQuestions
	}

	s.plan = Plan{
		Categories: append([]string(nil), plan.Categories...),
		Questions:  append([]catalog.Question(nil), plan.Questions...),
	}
	s.questions = make([]QuestionState, len(plan.Questions))
	for i, q := range plan.Questions {
		s.questions[i] = QuestionState{Question: q}
	}

	s.startTime = s.now()
	if s.timeLimit > 0 {
		s.deadline = s.startTime.Add(s.timeLimit)
	}
	s.state = StateInProgress

	s.appendEntry(SpeakerInterviewer, s.greeting(), EntryStatement, -1)
	s.askCurrent()
	return nil
}

type TurnResult struct {
	State         State  `json:"state"`
	Prompt        string `json:"prompt"`
	FollowUp      bool   `json:"follow_up"`
	QuestionIndex int    `json:"question_index"`
}

// RecordAnswer takes one candidate utterance and produces the interviewer's next line.
// When the follow-up writer fails nothing is recorded and the session stays in progress.
// An answer arriving after the time limit concludes the session and is not recorded.
func (s *Session) RecordAnswer(ctx context.Context, answer string, writer FollowUpWriter) (TurnResult, error) {
	if s.CheckDeadline(s.now()) {
		return s.turnResult(false), s.transitionError("record answer after the time limit")
	}
	if s.state != StateInProgress {
		return s.turnResult(false), s.transitionError("record answer")
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return s.turnResult(false), ErrEmptyAnswer
	}

	current := &s.questions[s.index]
	followUp, err := s.pickFollowUp(ctx, current, answer, writer)
	if err != nil {
		return s.turnResult(false), err
	}

	s.appendEntry(SpeakerCandidate, answer, EntryAnswer, s.index)
	if current.FollowUpAsked {
		current.FollowUpAnswer = answer
	} else {
		current.Answer = answer
	}

	if followUp != "" {
		current.FollowUpAsked = true
		current.FollowUp = followUp
		s.appendEntry(SpeakerInterviewer, followUp, EntryFollowUp, s.index)
		return s.turnResult(true), nil
	}

	s.index++
	if s.index >= len(s.questions) {
		s.index = len(s.questions)
		s.conclude(ReasonPlanCompleted)
		return s.turnResult(false), nil
	}

	s.askCurrent()
	return s.turnResult(false), nil
}

func (s *Session) pickFollowUp(ctx context.Context, current *QuestionState, answer string, writer FollowUpWriter) (string, error) {
	if current.FollowUpAsked || !s.policy.NeedsFollowUp(current.Question.Prompt, answer) {
		return "", nil
	}
	if current.Question.HasFollowUp() {
		return current.Question.FollowUp, nil
	}
	if writer == nil {
		return "", nil
	}

	text, err := writer.WriteFollowUp(ctx, current.Question.Prompt, answer)
	if err != nil {
		return "", fmt.Errorf("failed to write follow-up: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// Conclude ends questioning early, for example when the time limit elapsed.
func (s *Session) Conclude(reason string) error {
	if s.state == StateConcluding {
		return nil
	}
	if s.state != StateInProgress {
		return s.transitionError("conclude")
	}
	s.conclude(reason)
	return nil
}

// CheckDeadline concludes the session when its time limit has elapsed at now.
func (s *Session) CheckDeadline(now time.Time) bool {
	if s.state != StateInProgress || s.deadline.IsZero() || now.Before(s.deadline) {
		return false
	}
	s.conclude(ReasonTimeLimit)
	return true
}

// Finalize delivers the closing statement, persists the transcript, runs the
// evaluation and persists the analysis. On any failure the session stays in
// concluding so the call can be repeated.
func (s *Session) Finalize(ctx context.Context, evaluator Evaluator, sink Sink) (string, error) {
	if s.state != StateConcluding {
		return "", s.transitionError("finalize")
	}

	if !s.closingDelivered {
		s.appendEntry(SpeakerInterviewer, s.closing(), EntryStatement, -1)
		s.closingDelivered = true
		s.endTime = s.now()
	}

	if err := sink.SaveTranscript(ctx, s.TranscriptRecord()); err != nil {
		return "", fmt.Errorf("failed to persist transcript: %w", err)
	}

	assessment, err := evaluator.Evaluate(ctx, s.Transcript(), s.InterviewPlan())
	if err != nil {
		return "", fmt.Errorf("failed to evaluate interview: %w", err)
	}

	if err := sink.SaveAnalysis(ctx, s.AnalysisRecord(assessment)); err != nil {
		return "", fmt.Errorf("failed to persist analysis: %w", err)
	}

	s.assessment = assessment
	s.state = StateFinished
	return assessment, nil
}

func (s *Session) TranscriptRecord() TranscriptRecord {
	return TranscriptRecord{
		InterviewID:   s.id.String(),
		CandidateName: s.candidateName,
		StartTime:     s.startTime,
		EndTime:       s.endTime,
		Transcription: s.Transcript(),
	}
}

func (s *Session) AnalysisRecord(assessment string) AnalysisRecord {
	m := s.Metrics()
	qa := make([]QuestionAnswer, len(s.questions))
	for i, q := range s.questions {
		followUp := q.FollowUp
		if followUp == "" {
			followUp = q.Question.FollowUp
		}
		qa[i] = QuestionAnswer{
			Category:       q.Question.Category,
			Question:       q.Question.Prompt,
			Answer:         q.Answer,
			FollowUp:       followUp,
			FollowUpAnswer: q.FollowUpAnswer,
			Asked:          q.Asked,
			FollowUpAsked:  q.FollowUpAsked,
		}
	}

	return AnalysisRecord{
		InterviewID: s.id.String(),
		Summary: Summary{
			CandidateName:     s.candidateName,
			Assessment:        assessment,
			TotalQuestions:    m.TotalQuestions,
			QuestionsAnswered: m.QuestionsAnswered,
			FollowUpQuestions: m.FollowUpQuestions,
			DurationMinutes:   m.Duration.Minutes(),
			ConclusionReason:  s.concludeReason,
		},
		QuestionsAndAnswers: qa,
	}
}

func (s *Session) askCurrent() {
	q := &s.questions[s.index]
	q.Asked = true
	s.appendEntry(SpeakerInterviewer, q.Question.Prompt, EntryQuestion, s.index)
}

func (s *Session) conclude(reason string) {
	s.state = StateConcluding
	s.concludeReason = reason
}

func (s *Session) fail(err error) {
	s.state = StateFailed
	s.failure = err
}

func (s *Session) appendEntry(speaker Speaker, message string, typ EntryType, index int) {
	s.transcript = append(s.transcript, TranscriptEntry{
		Timestamp:     s.now(),
		Speaker:       speaker,
		Message:       message,
		Type:          typ,
		QuestionIndex: index,
	})
}

func (s *Session) turnResult(followUp bool) TurnResult {
	return TurnResult{
		State:         s.state,
		Prompt:        s.CurrentPrompt(),
		FollowUp:      followUp,
		QuestionIndex: s.index,
	}
}

func (s *Session) transitionError(op string) error {
	return fmt.Errorf("%w: cannot %s in state %s", ErrInvalidTransition, op, s.state)
}

func (s *Session) greeting() string {
	return fmt.Sprintf("Hello %s! Thank you for your time today. I'll ask you about your background and experience. Let's begin.", s.candidateName)
}

func (s *Session) closing() string {
	return fmt.Sprintf("Thank you %s for your time today. We'll be in touch soon with next steps.", s.candidateName)
}
