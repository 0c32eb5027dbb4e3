package services

import (
	"fmt"
	"strings"

	"alfredoptarigan/interview-copilot/internal/interview"
)

const (
	followUpQuestionChars = 150
	followUpAnswerChars   = 300
	studyResumeChars      = 12000
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildFollowUpPrompt asks for one short probing question about a thin answer.
func (pb *PromptBuilder) BuildFollowUpPrompt(question, answer string) string {
	return fmt.Sprintf(`You are a friendly technical interviewer. The candidate's answer below was brief or missed the point of the question.

QUESTION:
%s

ANSWER:
%s

Write ONE brief follow-up question (max 20 words) that invites the candidate to elaborate with a concrete example.
Return only the question text.`,
		clip(question, followUpQuestionChars), clip(answer, followUpAnswerChars))
}

// BuildEvaluationPrompt creates the prompt for the final interview assessment.
func (pb *PromptBuilder) BuildEvaluationPrompt(transcript []interview.TranscriptEntry, plan interview.Plan) string {
	var conversation strings.Builder
	for _, e := range transcript {
		fmt.Fprintf(&conversation, "[%s] %s: %s\n", e.Type, e.Speaker, e.Message)
	}

	var questions strings.Builder
	for i, q := range plan.Questions {
		fmt.Fprintf(&questions, "%d. (%s, %s) %s\n", i+1, q.Category, q.Difficulty, q.Prompt)
	}

	return fmt.Sprintf(`You are an expert interviewer writing the assessment of a completed screening interview.

INTERVIEW PLAN:
%s
TRANSCRIPT:
%s
Write a concise assessment covering:
1. Overall impression
2. Strengths, with examples from the answers
3. Weaknesses or gaps
4. Technical competency (rating out of 5)
5. Communication skills (rating out of 5)
6. Recommendation: hire, no_hire or more_evaluation

Be objective and base every statement on the transcript.`,
		questions.String(), conversation.String())
}

// BuildResumeAnalysisPrompt asks for the skills, improvement areas and level of a resume as JSON.
func (pb *PromptBuilder) BuildResumeAnalysisPrompt(resumeText string) string {
	return fmt.Sprintf(`You are an expert career coach analyzing a resume.

RESUME:
%s

Extract:
1. Areas that need improvement, mentioned explicitly or implied
2. Technical skills and programming languages mentioned
3. Experience level: entry, mid, senior or expert

Return ONLY valid JSON:
{"improvement_areas": ["..."], "technical_skills": ["..."], "experience_level": "entry|mid|senior|expert"}`,
		clip(resumeText, studyResumeChars))
}

// BuildBestPracticesPrompt asks the model to pick and tailor practices, one per line.
func (pb *PromptBuilder) BuildBestPracticesPrompt(level string, areas, practices []string, limit int) string {
	return fmt.Sprintf(`You are an interview coach. The candidate's experience level is %s and their improvement areas are: %s.

From these practices:
- %s

Select and customize the %d most relevant, actionable tips for this candidate.
Return one tip per line without numbering or headings.`,
		level, strings.Join(areas, ", "), strings.Join(practices, "\n- "), limit)
}

// BuildPracticeAnswersPrompt asks for detailed model answers to a set of practice questions as a JSON array.
func (pb *PromptBuilder) BuildPracticeAnswersPrompt(role, focus string, questions []string, limit int) string {
	var list strings.Builder
	for i, q := range questions {
		fmt.Fprintf(&list, "%d. %s\n", i+1, q)
	}

	return fmt.Sprintf(`You are %s helping a candidate prepare for interviews.
%s

QUESTIONS:
%s
Select up to %d of these questions and write a detailed answer for each one.

Return ONLY a valid JSON array:
[{"question": "the original question", "detailed_answer": "the answer"}]`,
		role, focus, list.String(), limit)
}

func clip(s string, limit int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= limit {
		return string(runes)
	}
	return string(runes[:limit])
}
