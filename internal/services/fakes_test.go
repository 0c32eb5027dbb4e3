package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"alfredoptarigan/interview-copilot/internal/catalog"
	"alfredoptarigan/interview-copilot/internal/interview"
)

type fakeGemini struct {
	text      string
	err       error
	prompts   []string
	embedText []string
}

func (f *fakeGemini) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	f.embedText = append(f.embedText, text)
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (f *fakeGemini) GenerateText(ctx context.Context, prompt string, temperature float32, maxTokens int32) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.text, f.err
}

type fakeQdrant struct {
	points  []Point
	results []SearchResult
	filters []SearchFilter
	err     error
}

func (f *fakeQdrant) InitCollection(ctx context.Context) error { return f.err }

func (f *fakeQdrant) UpsertPoints(ctx context.Context, points []Point) error {
	if f.err != nil {
		return f.err
	}
	f.points = append(f.points, points...)
	return nil
}

func (f *fakeQdrant) Search(ctx context.Context, queryEmbedding []float32, filter SearchFilter, limit int) ([]SearchResult, error) {
	f.filters = append(f.filters, filter)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.results) > limit {
		return f.results[:limit], nil
	}
	return f.results, nil
}

func (f *fakeQdrant) DeleteDocument(ctx context.Context, docID string) error { return f.err }

// fakeRetriever serves questions per category from a fixed table.
type fakeRetriever struct {
	byCategory map[string][]catalog.Question
	err        error
	queries    []string
}

func (f *fakeRetriever) Query(ctx context.Context, text, category string, topK int) ([]catalog.Question, error) {
	f.queries = append(f.queries, category)
	if f.err != nil {
		return nil, f.err
	}
	qs := f.byCategory[category]
	if len(qs) > topK {
		qs = qs[:topK]
	}
	return qs, nil
}

type staticPlanner struct {
	plan interview.Plan
	err  error
}

func (p staticPlanner) BuildPlan(ctx context.Context, req interview.PlanRequest) (interview.Plan, error) {
	return p.plan, p.err
}

type staticEvaluator struct {
	text string
	err  error
}

func (e *staticEvaluator) Evaluate(ctx context.Context, transcript []interview.TranscriptEntry, plan interview.Plan) (string, error) {
	return e.text, e.err
}

type recordingSink struct {
	mu          sync.Mutex
	transcripts []interview.TranscriptRecord
	analyses    []interview.AnalysisRecord
	err         error
}

func (s *recordingSink) SaveTranscript(ctx context.Context, record interview.TranscriptRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.transcripts = append(s.transcripts, record)
	return nil
}

func (s *recordingSink) SaveAnalysis(ctx context.Context, record interview.AnalysisRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.analyses = append(s.analyses, record)
	return nil
}

type recordingPublisher struct {
	mu      sync.Mutex
	entries map[uuid.UUID][]interview.TranscriptEntry
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{entries: make(map[uuid.UUID][]interview.TranscriptEntry)}
}

func (p *recordingPublisher) Publish(ctx context.Context, interviewID uuid.UUID, entries []interview.TranscriptEntry) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries[interviewID] = append(p.entries[interviewID], entries...)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) count(id uuid.UUID) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries[id])
}

func question(id, category, prompt string) catalog.Question {
	return catalog.Question{ID: id, Category: category, Difficulty: "Medium", Prompt: prompt}
}
