package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/interview-copilot/internal/interview"
	"alfredoptarigan/interview-copilot/internal/logger"
)

var ErrSessionNotFound = errors.New("interview session not found")

type StartRequest struct {
	CandidateName  string
	ResumeText     string
	JobDescription string
	Categories     []string
	TimeLimit      time.Duration
}

type InterviewManager interface {
	Start(ctx context.Context, req StartRequest) (interview.Snapshot, error)
	RecordAnswer(ctx context.Context, id uuid.UUID, answer string) (interview.TurnResult, error)
	Conclude(ctx context.Context, id uuid.UUID, reason string) (interview.Snapshot, error)
	Finalize(ctx context.Context, id uuid.UUID) (interview.Snapshot, error)
	Get(id uuid.UUID) (interview.Snapshot, error)
	ExpireDue(ctx context.Context, now time.Time) []uuid.UUID
	Active() int
}

type ManagerDeps struct {
	Planner     interview.Planner
	Writer      interview.FollowUpWriter
	Evaluator   interview.Evaluator
	Sink        interview.Sink
	Publisher   TranscriptPublisher
	Session     interview.Config
	PerCategory int
	Log         *zap.Logger
}

type liveSession struct {
	mu        sync.Mutex
	session   *interview.Session
	published int
}

type interviewManager struct {
	deps ManagerDeps
	log  *zap.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*liveSession
}

func NewInterviewManager(deps ManagerDeps) InterviewManager {
	if deps.Publisher == nil {
		deps.Publisher = NewNoopPublisher()
	}
	return &interviewManager{
		deps:     deps,
		log:      logger.OrNop(deps.Log),
		sessions: make(map[uuid.UUID]*liveSession),
	}
}

// Start plans a new session and registers it when planning succeeded.
// On failure the returned snapshot is in the failed state.
func (m *interviewManager) Start(ctx context.Context, req StartRequest) (interview.Snapshot, error) {
	cfg := m.deps.Session
	if req.TimeLimit > 0 {
		cfg.TimeLimit = req.TimeLimit
	}

	id := uuid.New()
	live := &liveSession{session: interview.NewSession(id, req.CandidateName, cfg)}
	log := m.log.With(zap.String(logger.FieldInterviewID, id.String()))

	err := live.session.Plan(ctx, m.deps.Planner, interview.PlanRequest{
		CandidateName:  req.CandidateName,
		ResumeText:     req.ResumeText,
		JobDescription: req.JobDescription,
		Categories:     req.Categories,
		PerCategory:    m.deps.PerCategory,
	})
	if err != nil {
		log.Warn("❌ Interview planning failed", zap.Error(err))
		return live.session.Snapshot(), err
	}

	m.mu.Lock()
	m.sessions[id] = live
	m.mu.Unlock()

	m.publish(ctx, live)
	log.Info("🎙️ Interview started",
		zap.String("candidate", req.CandidateName),
		zap.Int("questions", live.session.InterviewPlan().Len()),
	)
	return live.session.Snapshot(), nil
}

// RecordAnswer implements InterviewManager.
func (m *interviewManager) RecordAnswer(ctx context.Context, id uuid.UUID, answer string) (interview.TurnResult, error) {
	live, err := m.lookup(id)
	if err != nil {
		return interview.TurnResult{}, err
	}

	live.mu.Lock()
	before := live.session.State()
	result, err := live.session.RecordAnswer(ctx, answer, m.deps.Writer)
	if err == nil {
		m.publish(ctx, live)
	}
	timedOut := err != nil && before == interview.StateInProgress && live.session.State() == interview.StateConcluding
	live.mu.Unlock()

	if timedOut {
		// A late answer concluded the session; finish it the way ExpireDue would.
		m.log.Info("⏰ Interview time limit reached", zap.String(logger.FieldInterviewID, id.String()))
		_, _ = m.Finalize(ctx, id)
	}
	return result, err
}

// Conclude implements InterviewManager.
func (m *interviewManager) Conclude(ctx context.Context, id uuid.UUID, reason string) (interview.Snapshot, error) {
	live, err := m.lookup(id)
	if err != nil {
		return interview.Snapshot{}, err
	}

	live.mu.Lock()
	defer live.mu.Unlock()

	if err := live.session.Conclude(reason); err != nil {
		return live.session.Snapshot(), err
	}
	return live.session.Snapshot(), nil
}

// Finalize delivers the closing statement and persists the session. A finished
// session is dropped from memory; a failed attempt leaves it concluding.
func (m *interviewManager) Finalize(ctx context.Context, id uuid.UUID) (interview.Snapshot, error) {
	live, err := m.lookup(id)
	if err != nil {
		return interview.Snapshot{}, err
	}

	live.mu.Lock()
	defer live.mu.Unlock()

	_, err = live.session.Finalize(ctx, m.deps.Evaluator, m.deps.Sink)
	m.publish(ctx, live)
	if err != nil {
		m.log.Warn("❌ Interview finalization failed",
			zap.String(logger.FieldInterviewID, id.String()),
			zap.String(logger.FieldState, string(live.session.State())),
			zap.Error(err),
		)
		return live.session.Snapshot(), err
	}

	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()

	m.log.Info("✅ Interview finished", zap.String(logger.FieldInterviewID, id.String()))
	return live.session.Snapshot(), nil
}

// Get implements InterviewManager.
func (m *interviewManager) Get(id uuid.UUID) (interview.Snapshot, error) {
	live, err := m.lookup(id)
	if err != nil {
		return interview.Snapshot{}, err
	}

	live.mu.Lock()
	defer live.mu.Unlock()
	return live.session.Snapshot(), nil
}

// ExpireDue concludes every in-progress session whose time limit elapsed at now
// and makes one finalization attempt for each. It returns the concluded ids.
func (m *interviewManager) ExpireDue(ctx context.Context, now time.Time) []uuid.UUID {
	m.mu.RLock()
	candidates := make(map[uuid.UUID]*liveSession, len(m.sessions))
	for id, live := range m.sessions {
		candidates[id] = live
	}
	m.mu.RUnlock()

	var expired []uuid.UUID
	for id, live := range candidates {
		live.mu.Lock()
		concluded := live.session.CheckDeadline(now)
		live.mu.Unlock()

		if !concluded {
			continue
		}
		expired = append(expired, id)
		m.log.Info("⏰ Interview time limit reached", zap.String(logger.FieldInterviewID, id.String()))

		// A failed attempt stays concluding and can be finalized again through the API.
		_, _ = m.Finalize(ctx, id)
	}
	return expired
}

// Active implements InterviewManager.
func (m *interviewManager) Active() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *interviewManager) lookup(id uuid.UUID) (*liveSession, error) {
	m.mu.RLock()
	live, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return live, nil
}

// publish pushes entries appended since the last publish. Caller holds live.mu.
func (m *interviewManager) publish(ctx context.Context, live *liveSession) {
	transcript := live.session.Transcript()
	if live.published >= len(transcript) {
		return
	}

	if err := m.deps.Publisher.Publish(ctx, live.session.ID(), transcript[live.published:]); err != nil {
		m.log.Warn("⚠️ Failed to publish transcript entries",
			zap.String(logger.FieldInterviewID, live.session.ID().String()),
			zap.Error(err),
		)
		return
	}
	live.published = len(transcript)
}
