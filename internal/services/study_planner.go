package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/interview-copilot/internal/catalog"
	"alfredoptarigan/interview-copilot/internal/logger"
	"alfredoptarigan/interview-copilot/internal/models"
)

var ErrEmptyResume = errors.New("resume text is empty")

const (
	ExperienceEntry  = "entry"
	ExperienceMid    = "mid"
	ExperienceSenior = "senior"
	ExperienceExpert = "expert"
)

const (
	analysisTemperature = 0.2
	analysisMaxTokens   = 512
	practiceTemperature = 0.5
	practiceMaxTokens   = 1024
	answerTemperature   = 0.4
	answerMaxTokens     = 4096

	fastPracticeLimit = 8
	llmPracticeLimit  = 10
	behavioralLimit   = 8
)

const (
	groupLeetCode     = "LeetCode Problems"
	groupCodeReview   = "Code Review & Improvement"
	groupSystemDesign = "System Design"
	groupAlgorithms   = "Algorithms & Data Structures"
)

var (
	defaultSkills = []string{"python", "javascript"}
	defaultAreas  = []string{"technical_skills", "communication"}

	timelineWeeks = map[string]int{
		ExperienceEntry:  4,
		ExperienceMid:    3,
		ExperienceSenior: 2,
		ExperienceExpert: 2,
	}

	languageTitles = map[string]string{
		"python":     "Python",
		"javascript": "JavaScript",
		"java":       "Java",
		"cpp":        "C++",
	}
)

type keywordPattern struct {
	name string
	re   *regexp.Regexp
}

// Matched against lower-cased text with "c++" rewritten to "cpp".
var (
	skillPatterns = []keywordPattern{
		{"python", regexp.MustCompile(`\b(python|django|flask|fastapi|pandas|numpy)\b`)},
		{"javascript", regexp.MustCompile(`\b(javascript|js|react|vue|angular|node\.?js|express)\b`)},
		{"java", regexp.MustCompile(`\b(java|spring|hibernate|maven|gradle)\b`)},
		{"cpp", regexp.MustCompile(`\b(cpp|c plus plus)\b`)},
		{"c", regexp.MustCompile(`\bc\b`)},
		{"sql", regexp.MustCompile(`\b(sql|mysql|postgresql|oracle|mongodb)\b`)},
		{"aws", regexp.MustCompile(`\b(aws|amazon web services|ec2|s3|lambda)\b`)},
		{"docker", regexp.MustCompile(`\b(docker|kubernetes|k8s|container)\b`)},
		{"git", regexp.MustCompile(`\b(git|github|gitlab|version control)\b`)},
	}

	areaPatterns = []keywordPattern{
		{"leadership", regexp.MustCompile(`\b(lead|manage|leadership|team lead|mentor|supervise)\b`)},
		{"system_design", regexp.MustCompile(`\b(system design|architecture|scalability|microservices)\b`)},
		{"communication", regexp.MustCompile(`\b(communication|presentation|stakeholder|client)\b`)},
		{"technical_skills", regexp.MustCompile(`\b(technical|programming|coding|development)\b`)},
		{"project_management", regexp.MustCompile(`\b(project management|agile|scrum|planning)\b`)},
	}

	// First match wins.
	levelPatterns = []keywordPattern{
		{ExperienceSenior, regexp.MustCompile(`\b(senior|lead|principal|architect|expert|[5-9]\+?\s*years?|\d{2}\+?\s*years?)\b`)},
		{ExperienceMid, regexp.MustCompile(`\b(mid|middle|[34]\+?\s*years?)\b`)},
		{ExperienceEntry, regexp.MustCompile(`\b(entry|junior|new|graduate|fresh|[12]\+?\s*years?)\b`)},
	}
)

const starAnswer = `Use the STAR method:
Situation: set the context with specific details about when and where this happened.
Task: explain what you needed to accomplish or the challenge you faced.
Action: describe the steps you took, focusing on your own contribution.
Result: share the outcome with numbers where possible and what you learned.`

const technicalAnswer = `Structure the answer in four parts:
1. Define the concept or restate the problem in your own words.
2. Walk through a small example or code sketch and explain each step.
3. Compare it with the alternatives and discuss trade-offs, complexity and pitfalls.
4. Connect it to a real system you built or maintained.`

type StudyPlanner interface {
	// CreatePlan builds a study plan from resume text. Fast plans use keyword
	// analysis and prepared answers only; otherwise each step asks the language
	// model and falls back to the prepared material when a call fails.
	CreatePlan(ctx context.Context, resumeText string, fast bool) (*models.StudyPlan, error)
}

type studyPlanner struct {
	geminiService GeminiService
	catalog       *catalog.Catalog
	promptBuilder *PromptBuilder
	log           *zap.Logger
}

// NewStudyPlanner returns a planner. Without a Gemini service every plan is built in fast mode.
func NewStudyPlanner(geminiService GeminiService, cat *catalog.Catalog, log *zap.Logger) StudyPlanner {
	return &studyPlanner{
		geminiService: geminiService,
		catalog:       cat,
		promptBuilder: NewPromptBuilder(),
		log:           logger.OrNop(log),
	}
}

// CreatePlan implements StudyPlanner.
func (p *studyPlanner) CreatePlan(ctx context.Context, resumeText string, fast bool) (*models.StudyPlan, error) {
	resumeText = strings.TrimSpace(resumeText)
	if resumeText == "" {
		return nil, ErrEmptyResume
	}

	if fast || p.geminiService == nil {
		plan := p.createFast(resumeText)
		p.log.Info("📚 Study plan created",
			zap.String("mode", plan.Mode),
			zap.String("experience_level", plan.CandidateProfile.ExperienceLevel),
		)
		return plan, nil
	}

	plan := p.createWithLLM(ctx, resumeText)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("study plan cancelled: %w", err)
	}
	p.log.Info("📚 Study plan created",
		zap.String("mode", plan.Mode),
		zap.String("experience_level", plan.CandidateProfile.ExperienceLevel),
		zap.Int("technical_groups", len(plan.TechnicalQuestions)),
	)
	return plan, nil
}

func (p *studyPlanner) createFast(resumeText string) *models.StudyPlan {
	profile := AnalyzeResume(resumeText)

	behavioral := p.modelAnswers(catalog.StudyBehavioral)
	for _, area := range []string{"leadership", "communication"} {
		if contains(profile.ImprovementAreas, area) {
			behavioral = append(behavioral, p.modelAnswers(area)...)
		}
	}

	technical := make(map[string][]models.PracticeQuestion)
	for _, skill := range profile.TechnicalSkills {
		title, ok := languageTitles[skill]
		if !ok {
			continue
		}
		answers := p.modelAnswers(skill)
		if len(answers) == 0 {
			answers = templateAnswers(p.catalog.StudyQuestions(catalog.StudyProgrammingLanguages, skill, 3), technicalAnswer)
		}
		technical[title+" Programming"] = answers
	}
	if profile.ExperienceLevel != ExperienceEntry {
		if answers := p.modelAnswers("algorithms"); len(answers) > 0 {
			technical[groupAlgorithms] = answers
		}
	}

	return &models.StudyPlan{
		Mode:                models.StudyPlanModeFast,
		CandidateProfile:    profile,
		Schedule:            BuildStudySchedule(profile),
		BestPractices:       p.fastPractices(profile),
		BehavioralQuestions: behavioral,
		TechnicalQuestions:  technical,
	}
}

func (p *studyPlanner) createWithLLM(ctx context.Context, resumeText string) *models.StudyPlan {
	p.log.Info("🔄 Creating study plan with LLM")

	profile := p.analyze(ctx, resumeText)

	return &models.StudyPlan{
		Mode:                models.StudyPlanModeLLM,
		CandidateProfile:    profile,
		Schedule:            BuildStudySchedule(profile),
		BestPractices:       p.selectPractices(ctx, profile),
		BehavioralQuestions: p.behavioralQuestions(ctx, profile),
		TechnicalQuestions:  p.technicalQuestions(ctx, profile),
	}
}

// AnalyzeResume extracts skills, improvement areas and experience level by keyword matching.
func AnalyzeResume(resumeText string) models.CandidateProfile {
	text := strings.ReplaceAll(strings.ToLower(resumeText), "c++", "cpp")

	profile := models.CandidateProfile{ExperienceLevel: ExperienceMid}
	for _, pat := range skillPatterns {
		if pat.re.MatchString(text) {
			profile.TechnicalSkills = append(profile.TechnicalSkills, pat.name)
		}
	}
	for _, pat := range areaPatterns {
		if pat.re.MatchString(text) {
			profile.ImprovementAreas = append(profile.ImprovementAreas, pat.name)
		}
	}
	for _, pat := range levelPatterns {
		if pat.re.MatchString(text) {
			profile.ExperienceLevel = pat.name
			break
		}
	}

	if len(profile.TechnicalSkills) == 0 {
		profile.TechnicalSkills = append([]string(nil), defaultSkills...)
	}
	if len(profile.ImprovementAreas) == 0 {
		profile.ImprovementAreas = append([]string(nil), defaultAreas...)
	}
	return profile
}

// BuildStudySchedule lays out a 2 to 4 week plan. Junior candidates get more weeks.
func BuildStudySchedule(profile models.CandidateProfile) models.StudySchedule {
	weeks, ok := timelineWeeks[profile.ExperienceLevel]
	if !ok {
		weeks = timelineWeeks[ExperienceMid]
	}

	all := []models.StudyWeek{
		{Focus: "Foundation & Best Practices", Activities: []string{
			"Review interview best practices",
			"Practice STAR method for behavioral questions",
			"Review resume and prepare examples",
		}},
		{Focus: "Technical Preparation", Activities: []string{
			"Practice programming language questions",
			"Solve coding problems (easy to medium)",
			"Review system design basics (if applicable)",
		}},
		{Focus: "Advanced Practice & Mock Interviews", Activities: []string{
			"Practice harder technical problems",
			"Conduct mock interviews",
			"Review and refine responses",
		}},
		{Focus: "Final Preparation & Confidence Building", Activities: []string{
			"Final mock interviews",
			"Review company-specific information",
			"Practice presentation skills",
		}},
	}

	schedule := make(map[string]models.StudyWeek, weeks)
	for i := 0; i < weeks; i++ {
		schedule[fmt.Sprintf("week_%d", i+1)] = all[i]
	}

	return models.StudySchedule{
		Timeline:         fmt.Sprintf("%d weeks", weeks),
		ExperienceLevel:  profile.ExperienceLevel,
		ImprovementFocus: profile.ImprovementAreas,
		WeeklySchedule:   schedule,
		DailyPractice: map[string]string{
			"behavioral":      "Practice 2-3 behavioral questions daily",
			"technical":       "Solve 1-2 technical problems daily",
			"mock_interviews": "Schedule 1 mock interview per week",
		},
	}
}

func (p *studyPlanner) fastPractices(profile models.CandidateProfile) []string {
	practices := p.catalog.BestPractices(catalog.PracticeGeneral)
	if len(practices) > 5 {
		practices = practices[:5]
	}
	if profile.ExperienceLevel == ExperienceEntry || profile.ExperienceLevel == ExperienceSenior {
		practices = append(practices, p.catalog.BestPractices(profile.ExperienceLevel)...)
	}
	for _, area := range []string{"leadership", "communication"} {
		if contains(profile.ImprovementAreas, area) {
			practices = append(practices, p.catalog.BestPractices(area)...)
		}
	}

	if len(practices) > fastPracticeLimit {
		practices = practices[:fastPracticeLimit]
	}
	return practices
}

func (p *studyPlanner) analyze(ctx context.Context, resumeText string) models.CandidateProfile {
	prompt := p.promptBuilder.BuildResumeAnalysisPrompt(resumeText)

	var analysis struct {
		ImprovementAreas []string `json:"improvement_areas"`
		TechnicalSkills  []string `json:"technical_skills"`
		ExperienceLevel  string   `json:"experience_level"`
	}
	text, err := p.geminiService.GenerateText(ctx, prompt, analysisTemperature, analysisMaxTokens)
	if err == nil {
		err = parseJSONResponse(text, &analysis)
	}
	if err != nil {
		p.log.Warn("⚠️ Resume analysis failed, using keyword analysis", zap.Error(err))
		return AnalyzeResume(resumeText)
	}

	level := strings.ToLower(strings.TrimSpace(analysis.ExperienceLevel))
	if _, ok := timelineWeeks[level]; !ok {
		level = ExperienceMid
	}
	return models.CandidateProfile{
		ExperienceLevel:  level,
		ImprovementAreas: nonEmpty(analysis.ImprovementAreas),
		TechnicalSkills:  nonEmpty(analysis.TechnicalSkills),
	}
}

func (p *studyPlanner) selectPractices(ctx context.Context, profile models.CandidateProfile) []string {
	general := p.catalog.BestPractices(catalog.PracticeGeneral)
	var all []string
	for _, kind := range []string{catalog.PracticeGeneral, catalog.PracticeTechnical, catalog.PracticeBehavioral} {
		all = append(all, p.catalog.BestPractices(kind)...)
	}

	prompt := p.promptBuilder.BuildBestPracticesPrompt(profile.ExperienceLevel, profile.ImprovementAreas, all, llmPracticeLimit)
	text, err := p.geminiService.GenerateText(ctx, prompt, practiceTemperature, practiceMaxTokens)

	var practices []string
	if err == nil {
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*•0123456789. "))
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			practices = append(practices, line)
		}
	}
	if len(practices) == 0 {
		p.log.Warn("⚠️ Best practice selection failed, using catalog practices", zap.Error(err))
		if len(general) > fastPracticeLimit {
			general = general[:fastPracticeLimit]
		}
		return general
	}
	if len(practices) > llmPracticeLimit {
		practices = practices[:llmPracticeLimit]
	}
	return practices
}

func (p *studyPlanner) behavioralQuestions(ctx context.Context, profile models.CandidateProfile) []models.PracticeQuestion {
	bank := p.catalog.StudyQuestions(catalog.StudyBehavioral, "", 10)
	candidates := append(append(append([]string(nil), bank...),
		p.catalog.StudyQuestions(catalog.StudyLeadership, "", 8)...),
		p.catalog.StudyQuestions(catalog.StudySoftSkills, "", 8)...)

	focus := fmt.Sprintf("Pick the questions most relevant to these improvement areas: %s. "+
		"Answer each with the STAR method, concrete example scenarios and tips that address the improvement areas.",
		strings.Join(profile.ImprovementAreas, ", "))

	answers, err := p.answer(ctx, "an expert interview coach", focus, candidates, behavioralLimit)
	if err != nil {
		p.log.Warn("⚠️ Behavioral answers failed, using templates", zap.Error(err))
		if len(bank) > behavioralLimit {
			bank = bank[:behavioralLimit]
		}
		return templateAnswers(bank, starAnswer)
	}
	return answers
}

func (p *studyPlanner) technicalQuestions(ctx context.Context, profile models.CandidateProfile) map[string][]models.PracticeQuestion {
	type group struct {
		title     string
		role      string
		focus     string
		questions []string
	}

	var groups []group
	seen := make(map[string]bool)
	for _, skill := range profile.TechnicalSkills {
		key := strings.ToLower(strings.TrimSpace(skill))
		if key == "c++" {
			key = "cpp"
		}
		title, ok := languageTitles[key]
		if !ok || seen[key] {
			continue
		}
		seen[key] = true
		groups = append(groups, group{
			title:     title + " Programming",
			role:      "a senior " + title + " developer",
			focus:     "Explain each concept thoroughly with commented code examples, best practices, common pitfalls and real-world use cases.",
			questions: p.catalog.StudyQuestions(catalog.StudyProgrammingLanguages, key, 5),
		})
	}
	groups = append(groups,
		group{
			title:     groupLeetCode,
			role:      "a senior software engineer and algorithms coach",
			focus:     "For each problem give the approach, a working solution with comments, time and space complexity, and edge cases.",
			questions: p.catalog.StudyQuestions(catalog.StudyLeetCode, "", 6),
		},
		group{
			title:     groupCodeReview,
			role:      "a senior engineer who leads code reviews",
			focus:     "For each question show a before and after example and explain why the change improves the code.",
			questions: p.catalog.StudyQuestions(catalog.StudyCodeReview, "", 4),
		},
	)
	if profile.ExperienceLevel != ExperienceEntry {
		groups = append(groups, group{
			title:     groupSystemDesign,
			role:      "a principal engineer who runs system design interviews",
			focus:     "For each system cover requirements, high-level architecture, data model, scaling, bottlenecks and trade-offs.",
			questions: p.catalog.StudyQuestions(catalog.StudySystemDesign, "", 3),
		})
	}

	technical := make(map[string][]models.PracticeQuestion, len(groups))
	for _, g := range groups {
		if len(g.questions) == 0 {
			continue
		}
		answers, err := p.answer(ctx, g.role, g.focus, g.questions, len(g.questions))
		if err != nil {
			p.log.Warn("⚠️ Technical answers failed, using templates", zap.String("group", g.title), zap.Error(err))
			answers = templateAnswers(g.questions, technicalAnswer)
		}
		technical[g.title] = answers
	}
	return technical
}

// answer asks the model for detailed answers and keeps at most limit well-formed ones.
func (p *studyPlanner) answer(ctx context.Context, role, focus string, questions []string, limit int) ([]models.PracticeQuestion, error) {
	prompt := p.promptBuilder.BuildPracticeAnswersPrompt(role, focus, questions, limit)
	text, err := p.geminiService.GenerateText(ctx, prompt, answerTemperature, answerMaxTokens)
	if err != nil {
		return nil, err
	}

	var raw []models.PracticeQuestion
	if err := parseJSONResponse(text, &raw); err != nil {
		return nil, err
	}

	var answers []models.PracticeQuestion
	for _, a := range raw {
		a.Question = strings.TrimSpace(a.Question)
		a.DetailedAnswer = strings.TrimSpace(a.DetailedAnswer)
		if a.Question == "" || a.DetailedAnswer == "" {
			continue
		}
		answers = append(answers, a)
		if len(answers) == limit {
			break
		}
	}
	if len(answers) == 0 {
		return nil, errors.New("no usable answers in model response")
	}
	return answers, nil
}

func (p *studyPlanner) modelAnswers(group string) []models.PracticeQuestion {
	var out []models.PracticeQuestion
	for _, a := range p.catalog.ModelAnswers(group) {
		out = append(out, models.PracticeQuestion{Question: a.Question, DetailedAnswer: strings.TrimSpace(a.Answer)})
	}
	return out
}

func templateAnswers(questions []string, answer string) []models.PracticeQuestion {
	out := make([]models.PracticeQuestion, 0, len(questions))
	for _, q := range questions {
		out = append(out, models.PracticeQuestion{Question: q, DetailedAnswer: answer})
	}
	return out
}

func parseJSONResponse(response string, target any) error {
	if err := json.Unmarshal([]byte(extractJSON(response)), target); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return nil
}

// extractJSON strips markdown fences and returns the outermost JSON object or array.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.IndexAny(text, "{[")
	if start == -1 {
		return text
	}
	closer := "}"
	if text[start] == '[' {
		closer = "]"
	}
	end := strings.LastIndex(text, closer)
	if end < start {
		return text
	}
	return text[start : end+1]
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func nonEmpty(list []string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
