package interview

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/interview-copilot/internal/catalog"
)

type fakePlanner struct {
	plan Plan
	err  error
}

func (f fakePlanner) BuildPlan(ctx context.Context, req PlanRequest) (Plan, error) {
	return f.plan, f.err
}

type fakeWriter struct {
	text  string
	err   error
	calls int
}

func (f *fakeWriter) WriteFollowUp(ctx context.Context, question, answer string) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeEvaluator struct {
	text  string
	err   error
	calls int
}

func (f *fakeEvaluator) Evaluate(ctx context.Context, transcript []TranscriptEntry, plan Plan) (string, error) {
	f.calls++
	return f.text, f.err
}

type memorySink struct {
	transcripts   []TranscriptRecord
	analyses      []AnalysisRecord
	transcriptErr error
}

func (m *memorySink) SaveTranscript(ctx context.Context, record TranscriptRecord) error {
	if m.transcriptErr != nil {
		return m.transcriptErr
	}
	m.transcripts = append(m.transcripts, record)
	return nil
}

func (m *memorySink) SaveAnalysis(ctx context.Context, record AnalysisRecord) error {
	m.analyses = append(m.analyses, record)
	return nil
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

// longAnswer never triggers a follow-up for the questions below.
const longAnswer = "I designed the distributed system architecture and led the project, " +
	"covering scalability, caching, databases, testing, deployment, monitoring and " +
	"the challenges we solved together as a team over many months of work"

func testPlan(n int) Plan {
	qs := make([]catalog.Question, n)
	for i := range qs {
		qs[i] = catalog.Question{
			ID:         "q-" + string(rune('a'+i)),
			Category:   catalog.CategorySoftwareEngineering,
			Difficulty: "Medium",
			Prompt:     "Describe a distributed system architecture project you designed.",
			FollowUp:   "What challenges did you face?",
		}
	}
	return Plan{Categories: []string{catalog.CategorySoftwareEngineering}, Questions: qs}
}

func newTestSession(t *testing.T, plan Plan) (*Session, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)}
	s := NewSession(uuid.New(), "Jane", Config{Policy: DefaultFollowUpPolicy(), TimeLimit: 15 * time.Minute, Now: clock.now})
	if err := s.Plan(context.Background(), fakePlanner{plan: plan}, PlanRequest{CandidateName: "Jane"}); err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	return s, clock
}

func countType(entries []TranscriptEntry, typ EntryType) int {
	n := 0
	for _, e := range entries {
		if e.Type == typ {
			n++
		}
	}
	return n
}

func TestPlanStartsInterview(t *testing.T) {
	s, _ := newTestSession(t, testPlan(2))

	if s.State() != StateInProgress {
		t.Fatalf("expected in_progress, got %s", s.State())
	}
	tr := s.Transcript()
	if len(tr) != 2 {
		t.Fatalf("expected greeting and first question, got %d entries", len(tr))
	}
	if tr[0].Type != EntryStatement || !strings.Contains(tr[0].Message, "Jane") {
		t.Errorf("unexpected greeting %+v", tr[0])
	}
	if tr[1].Type != EntryQuestion || s.CurrentPrompt() != tr[1].Message {
		t.Errorf("expected first question to be the current prompt, got %+v", tr[1])
	}
	if !s.Questions()[0].Asked {
		t.Error("first question must be marked asked")
	}
	if s.Deadline().IsZero() {
		t.Error("deadline must be set when a time limit is configured")
	}
}

func TestPlanWithNoMatchesFails(t *testing.T) {
	s := NewSession(uuid.New(), "Jane", Config{})
	err := s.Plan(context.Background(), fakePlanner{}, PlanRequest{Categories: []string{"Unknown"}})

	if !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
	if s.State() != StateFailed || !s.State().Terminal() {
		t.Errorf("expected failed terminal state, got %s", s.State())
	}
	if !errors.Is(s.Failure(), ErrNoQuestions) {
		t.Errorf("failure must be recorded, got %v", s.Failure())
	}
	if s.InterviewPlan().Len() != 0 || len(s.Questions()) != 0 {
		t.Error("no plan may be created when planning fails")
	}
	if _, err := s.RecordAnswer(context.Background(), "hello", nil); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition after failure, got %v", err)
	}
}

func TestPlanRetrievalErrorFails(t *testing.T) {
	s := NewSession(uuid.New(), "Jane", Config{})
	boom := errors.New("qdrant unavailable")

	err := s.Plan(context.Background(), fakePlanner{err: boom}, PlanRequest{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped retrieval error, got %v", err)
	}
	if s.State() != StateFailed {
		t.Errorf("expected failed, got %s", s.State())
	}
	if s.Snapshot().Error == "" {
		t.Error("snapshot should report the failure")
	}
}

func TestNoFollowUpsYieldsNQuestionsAndAnswers(t *testing.T) {
	const n = 3
	s, _ := newTestSession(t, testPlan(n))

	last := s.QuestionIndex()
	for i := 0; i < n; i++ {
		res, err := s.RecordAnswer(context.Background(), longAnswer, nil)
		if err != nil {
			t.Fatalf("turn %d: %v", i, err)
		}
		if res.FollowUp {
			t.Fatalf("turn %d: unexpected follow-up", i)
		}
		if s.QuestionIndex() < last || s.QuestionIndex() > n {
			t.Fatalf("index out of order: %d after %d", s.QuestionIndex(), last)
		}
		last = s.QuestionIndex()
	}

	if s.State() != StateConcluding {
		t.Fatalf("expected concluding, got %s", s.State())
	}
	if s.ConclusionReason() != ReasonPlanCompleted {
		t.Errorf("expected %s, got %s", ReasonPlanCompleted, s.ConclusionReason())
	}

	evaluator := &fakeEvaluator{text: "Strong candidate."}
	sink := &memorySink{}
	if _, err := s.Finalize(context.Background(), evaluator, sink); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	tr := s.Transcript()
	if got := countType(tr, EntryQuestion); got != n {
		t.Errorf("expected %d questions, got %d", n, got)
	}
	if got := countType(tr, EntryAnswer); got != n {
		t.Errorf("expected %d answers, got %d", n, got)
	}
	if got := countType(tr, EntryFollowUp); got != 0 {
		t.Errorf("expected no follow-ups, got %d", got)
	}
}

func TestShortAnswerAsksStoredFollowUp(t *testing.T) {
	s, _ := newTestSession(t, testPlan(2))
	writer := &fakeWriter{text: "unused"}

	res, err := s.RecordAnswer(context.Background(), "Not much.", writer)
	if err != nil {
		t.Fatalf("RecordAnswer failed: %v", err)
	}
	if !res.FollowUp || res.Prompt != "What challenges did you face?" {
		t.Fatalf("expected stored follow-up, got %+v", res)
	}
	if writer.calls != 0 {
		t.Error("writer must not be called when the bank has a follow-up")
	}
	if res.QuestionIndex != 0 {
		t.Errorf("index must not advance while a follow-up is pending, got %d", res.QuestionIndex)
	}

	// A short follow-up answer still resolves the question.
	res, err = s.RecordAnswer(context.Background(), "Latency.", writer)
	if err != nil {
		t.Fatalf("RecordAnswer failed: %v", err)
	}
	if res.FollowUp || res.QuestionIndex != 1 {
		t.Fatalf("expected advance to question 1, got %+v", res)
	}

	q := s.Questions()[0]
	if q.Answer != "Not much." || q.FollowUpAnswer != "Latency." {
		t.Errorf("unexpected answers %+v", q)
	}
}

func TestFollowUpNeverPrecedesItsQuestion(t *testing.T) {
	s, _ := newTestSession(t, testPlan(3))
	answers := []string{"short", "short again", longAnswer, "tiny", "done", "end"}
	for _, a := range answers {
		if s.State() != StateInProgress {
			break
		}
		if _, err := s.RecordAnswer(context.Background(), a, nil); err != nil {
			t.Fatalf("RecordAnswer failed: %v", err)
		}
	}

	asked := make(map[int]bool)
	for _, e := range s.Transcript() {
		switch e.Type {
		case EntryQuestion:
			asked[e.QuestionIndex] = true
		case EntryFollowUp:
			if !asked[e.QuestionIndex] {
				t.Fatalf("follow-up for question %d before the question", e.QuestionIndex)
			}
		}
	}
	for i, q := range s.Questions() {
		if q.FollowUpAsked && !q.Asked {
			t.Errorf("question %d marked follow-up asked before asked", i)
		}
	}
}

func TestGeneratedFollowUpFailureKeepsState(t *testing.T) {
	plan := testPlan(1)
	plan.Questions[0].FollowUp = ""
	s, _ := newTestSession(t, plan)
	writer := &fakeWriter{err: errors.New("llm down")}

	before := len(s.Transcript())
	if _, err := s.RecordAnswer(context.Background(), "short", writer); err == nil {
		t.Fatal("expected writer failure")
	}
	if s.State() != StateInProgress {
		t.Errorf("expected in_progress, got %s", s.State())
	}
	if len(s.Transcript()) != before {
		t.Error("a failed turn must not record anything")
	}

	writer.err = nil
	writer.text = "Can you give a concrete example?"
	res, err := s.RecordAnswer(context.Background(), "short", writer)
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if !res.FollowUp || res.Prompt != writer.text {
		t.Errorf("expected generated follow-up, got %+v", res)
	}
}

func TestEmptyAnswerRejected(t *testing.T) {
	s, _ := newTestSession(t, testPlan(1))
	if _, err := s.RecordAnswer(context.Background(), "   ", nil); !errors.Is(err, ErrEmptyAnswer) {
		t.Fatalf("expected ErrEmptyAnswer, got %v", err)
	}
}

func TestCheckDeadline(t *testing.T) {
	s, clock := newTestSession(t, testPlan(2))

	if s.CheckDeadline(clock.t) {
		t.Fatal("deadline must not fire early")
	}
	if !s.CheckDeadline(clock.t.Add(time.Hour)) {
		t.Fatal("deadline should fire")
	}
	if s.State() != StateConcluding || s.ConclusionReason() != ReasonTimeLimit {
		t.Errorf("expected concluding by time limit, got %s/%s", s.State(), s.ConclusionReason())
	}
	if err := s.Conclude(ReasonManual); err != nil {
		t.Errorf("conclude while concluding should be a no-op, got %v", err)
	}
}

func TestLateAnswerConcludesSession(t *testing.T) {
	s, clock := newTestSession(t, testPlan(2))
	before := len(s.Transcript())

	clock.t = clock.t.Add(time.Hour)
	res, err := s.RecordAnswer(context.Background(), longAnswer, nil)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition after the time limit, got %v", err)
	}
	if res.State != StateConcluding || s.ConclusionReason() != ReasonTimeLimit {
		t.Errorf("expected concluding by time limit, got %s/%s", res.State, s.ConclusionReason())
	}
	if len(s.Transcript()) != before || s.QuestionIndex() != 0 {
		t.Error("a late answer must not be recorded or ask the next question")
	}
}

func TestZeroPolicyNeverAsksFollowUps(t *testing.T) {
	s := NewSession(uuid.New(), "Jane", Config{})
	if err := s.Plan(context.Background(), fakePlanner{plan: testPlan(2)}, PlanRequest{CandidateName: "Jane"}); err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		res, err := s.RecordAnswer(context.Background(), "ok", nil)
		if err != nil {
			t.Fatalf("turn %d: %v", i, err)
		}
		if res.FollowUp {
			t.Fatalf("turn %d: zero thresholds must disable follow-ups", i)
		}
	}
	if s.State() != StateConcluding || s.ConclusionReason() != ReasonPlanCompleted {
		t.Errorf("expected plan completed, got %s/%s", s.State(), s.ConclusionReason())
	}
}

func TestFinalizeFailureStaysConcluding(t *testing.T) {
	s, _ := newTestSession(t, testPlan(1))
	if err := s.Conclude(ReasonManual); err != nil {
		t.Fatalf("Conclude failed: %v", err)
	}

	sink := &memorySink{}
	evaluator := &fakeEvaluator{err: errors.New("quota exceeded")}
	if _, err := s.Finalize(context.Background(), evaluator, sink); err == nil {
		t.Fatal("expected evaluation failure")
	}
	if s.State() != StateConcluding {
		t.Fatalf("expected concluding, got %s", s.State())
	}

	evaluator.err = nil
	evaluator.text = "Needs more depth."
	assessment, err := s.Finalize(context.Background(), evaluator, sink)
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if assessment != "Needs more depth." || s.Assessment() != assessment || s.State() != StateFinished {
		t.Errorf("unexpected result %q in state %s", assessment, s.State())
	}
	if got := countType(s.Transcript(), EntryStatement); got != 2 {
		t.Errorf("expected greeting and one closing statement, got %d statements", got)
	}
	if len(sink.analyses) != 1 || sink.analyses[0].Summary.Assessment != assessment {
		t.Errorf("analysis not persisted verbatim: %+v", sink.analyses)
	}
	if sink.analyses[0].Summary.ConclusionReason != ReasonManual {
		t.Errorf("unexpected reason %q", sink.analyses[0].Summary.ConclusionReason)
	}

	if _, err := s.Finalize(context.Background(), evaluator, sink); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("finalize after finished should fail, got %v", err)
	}
}

func TestFinalizeSinkFailure(t *testing.T) {
	s, _ := newTestSession(t, testPlan(1))
	_ = s.Conclude(ReasonManual)

	evaluator := &fakeEvaluator{text: "ok"}
	sink := &memorySink{transcriptErr: errors.New("disk full")}
	if _, err := s.Finalize(context.Background(), evaluator, sink); err == nil {
		t.Fatal("expected sink failure")
	}
	if evaluator.calls != 0 {
		t.Error("evaluation must not run when the transcript could not be saved")
	}
	if s.State() != StateConcluding {
		t.Errorf("expected concluding, got %s", s.State())
	}
}

func TestMetrics(t *testing.T) {
	s, _ := newTestSession(t, testPlan(2))
	_, _ = s.RecordAnswer(context.Background(), "short", nil)
	_, _ = s.RecordAnswer(context.Background(), "still short", nil)

	m := s.Metrics()
	if m.TotalQuestions != 2 || m.QuestionsAsked != 2 || m.QuestionsAnswered != 1 || m.FollowUpQuestions != 1 {
		t.Errorf("unexpected metrics %+v", m)
	}
	if m.Duration <= 0 {
		t.Errorf("expected positive duration, got %s", m.Duration)
	}
}
