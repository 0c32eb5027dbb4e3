package models

const (
	StudyPlanModeFast = "fast"
	StudyPlanModeLLM  = "llm"
)

type StudyPlanRequest struct {
	ResumeText       string `json:"resume_text"`
	ResumeID         string `json:"resume_id"`
	ResumeDocumentID string `json:"resume_document_id"`
	Fast             bool   `json:"fast"`
}

type CandidateProfile struct {
	ExperienceLevel  string   `json:"experience_level"`
	ImprovementAreas []string `json:"improvement_areas"`
	TechnicalSkills  []string `json:"technical_skills"`
}

type StudyWeek struct {
	Focus      string   `json:"focus"`
	Activities []string `json:"activities"`
}

// StudySchedule is keyed by "week_1", "week_2", ...
type StudySchedule struct {
	Timeline         string               `json:"timeline"`
	ExperienceLevel  string               `json:"experience_level"`
	ImprovementFocus []string             `json:"improvement_focus"`
	WeeklySchedule   map[string]StudyWeek `json:"weekly_schedule"`
	DailyPractice    map[string]string    `json:"daily_practice"`
}

type PracticeQuestion struct {
	Question       string `json:"question"`
	DetailedAnswer string `json:"detailed_answer"`
}

// StudyPlan is a personalised interview preparation plan built from a resume.
type StudyPlan struct {
	Mode                string                        `json:"mode"`
	CandidateProfile    CandidateProfile              `json:"candidate_profile"`
	Schedule            StudySchedule                 `json:"study_plan"`
	BestPractices       []string                      `json:"interview_best_practices"`
	BehavioralQuestions []PracticeQuestion            `json:"behavioral_questions"`
	TechnicalQuestions  map[string][]PracticeQuestion `json:"technical_questions"`
}
