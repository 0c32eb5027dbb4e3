package services

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"alfredoptarigan/interview-copilot/internal/catalog"
	"alfredoptarigan/interview-copilot/internal/interview"
	"alfredoptarigan/interview-copilot/internal/logger"
)

// QuestionRetriever returns catalog questions closest to text, closest first.
// It may return fewer than topK questions.
type QuestionRetriever interface {
	Query(ctx context.Context, text, category string, topK int) ([]catalog.Question, error)
}

type questionIndex struct {
	geminiService GeminiService
	qdrantService QdrantService
	catalog       *catalog.Catalog
}

func NewQuestionIndex(geminiService GeminiService, qdrantService QdrantService, cat *catalog.Catalog) QuestionRetriever {
	return &questionIndex{
		geminiService: geminiService,
		qdrantService: qdrantService,
		catalog:       cat,
	}
}

// Query implements QuestionRetriever.
func (qi *questionIndex) Query(ctx context.Context, text, category string, topK int) ([]catalog.Question, error) {
	embedding, err := qi.geminiService.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	results, err := qi.qdrantService.Search(ctx, embedding, SearchFilter{DocType: DocTypeQuestion, Category: category}, topK)
	if err != nil {
		return nil, fmt.Errorf("failed to query question index: %w", err)
	}

	questions := make([]catalog.Question, 0, len(results))
	for _, r := range results {
		if q, ok := qi.catalog.Question(r.ID); ok {
			questions = append(questions, q)
			continue
		}
		// Indexed from another catalog revision; the payload carries everything needed.
		questions = append(questions, catalog.Question{
			ID:         r.ID,
			Category:   r.Metadata["category"],
			Difficulty: r.Metadata["difficulty"],
			Prompt:     r.Metadata["question"],
			FollowUp:   r.Metadata["follow_up"],
		})
	}
	return questions, nil
}

// QuestionText is the representation embedded for a question.
func QuestionText(q catalog.Question) string {
	return fmt.Sprintf("%s | %s | %s", q.Category, q.Difficulty, q.Prompt)
}

type retrievalPlanner struct {
	retriever   QuestionRetriever
	perCategory int
	log         *zap.Logger
}

func NewRetrievalPlanner(retriever QuestionRetriever, perCategory int, log *zap.Logger) interview.Planner {
	if perCategory <= 0 {
		perCategory = 2
	}
	return &retrievalPlanner{
		retriever:   retriever,
		perCategory: perCategory,
		log:         logger.OrNop(log),
	}
}

// BuildPlan implements interview.Planner.
func (p *retrievalPlanner) BuildPlan(ctx context.Context, req interview.PlanRequest) (interview.Plan, error) {
	categories := req.Categories
	if len(categories) == 0 {
		categories = DeriveCategories(req.JobDescription)
	}
	perCategory := req.PerCategory
	if perCategory <= 0 {
		perCategory = p.perCategory
	}

	query := planQuery(req)
	plan := interview.Plan{Categories: append([]string(nil), categories...)}
	seen := make(map[string]bool)

	for _, category := range categories {
		questions, err := p.retriever.Query(ctx, query, category, perCategory)
		if err != nil {
			return interview.Plan{}, fmt.Errorf("failed to retrieve %s questions: %w", category, err)
		}

		p.log.Debug("🔍 Retrieved questions",
			zap.String(logger.FieldCategory, category),
			zap.Int("count", len(questions)),
		)

		for _, q := range questions {
			if seen[q.ID] {
				continue
			}
			seen[q.ID] = true
			plan.Questions = append(plan.Questions, q)
		}
	}

	return plan, nil
}

func planQuery(req interview.PlanRequest) string {
	var parts []string
	if s := strings.TrimSpace(req.JobDescription); s != "" {
		parts = append(parts, clip(s, 1000))
	}
	if s := strings.TrimSpace(req.ResumeText); s != "" {
		parts = append(parts, clip(s, 1000))
	}
	if len(parts) == 0 {
		return "general interview questions about background and experience"
	}
	return strings.Join(parts, "\n")
}

var (
	engineeringTerms = []string{"software", "engineer", "engineering", "developer", "development", "programming", "backend", "frontend", "full-stack"}
	dataTerms        = []string{"data", "scientist", "science", "analytics", "ml", "ai", "machine"}
)

// DeriveCategories picks interview categories from a job description.
// Behavioral and Project Deep Dive are always included.
func DeriveCategories(jobDescription string) []string {
	terms := make(map[string]bool)
	for _, w := range strings.FieldsFunc(strings.ToLower(jobDescription), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	}) {
		terms[w] = true
	}

	categories := []string{catalog.CategoryBehavioral}
	if containsAny(terms, engineeringTerms) {
		categories = append(categories, catalog.CategorySoftwareEngineering)
	}
	if containsAny(terms, dataTerms) {
		categories = append(categories, catalog.CategoryDataScience)
	}
	return append(categories, catalog.CategoryProjectDeepDive)
}

func containsAny(terms map[string]bool, words []string) bool {
	for _, w := range words {
		if terms[w] {
			return true
		}
	}
	return false
}
