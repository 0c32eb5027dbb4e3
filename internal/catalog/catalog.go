package catalog

import (
	"fmt"
	"strings"
)

// Well-known question categories. A loaded catalog may define more.
const (
	CategoryBehavioral          = "Behavioral"
	CategorySoftwareEngineering = "Technical - Software Engineering"
	CategoryDataScience         = "Technical - Data Science"
	CategoryProjectDeepDive     = "Project Deep Dive"
)

var difficulties = map[string]bool{
	"Easy":    true,
	"Medium":  true,
	"Hard":    true,
	"General": true,
}

// Question is a single entry of the question bank.
type Question struct {
	ID         string `json:"id"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
	Prompt     string `json:"question"`
	FollowUp   string `json:"follow_up,omitempty"`
}

// HasFollowUp reports whether the bank stores a follow-up for the question.
func (q Question) HasFollowUp() bool {
	return strings.TrimSpace(q.FollowUp) != ""
}

type JobDescription struct {
	ID               string   `json:"id" yaml:"id"`
	Title            string   `json:"title" yaml:"title"`
	Company          string   `json:"company" yaml:"company"`
	Department       string   `json:"department" yaml:"department"`
	Level            string   `json:"level" yaml:"level"`
	ExperienceYears  string   `json:"experience_years" yaml:"experience_years"`
	Requirements     []string `json:"requirements" yaml:"requirements"`
	Responsibilities []string `json:"responsibilities" yaml:"responsibilities"`
	Skills           []string `json:"skills" yaml:"skills"`
}

// Text renders the job description the way it is embedded and shown to the LLM.
func (j JobDescription) Text() string {
	parts := []string{
		fmt.Sprintf("%s at %s", j.Title, j.Company),
		fmt.Sprintf("Level: %s | Experience: %s", j.Level, j.ExperienceYears),
	}
	if len(j.Skills) > 0 {
		parts = append(parts, "Skills: "+strings.Join(j.Skills, ", "))
	}
	if len(j.Requirements) > 0 {
		parts = append(parts, "Requirements: "+strings.Join(j.Requirements, "; "))
	}
	if len(j.Responsibilities) > 0 {
		parts = append(parts, "Responsibilities: "+strings.Join(j.Responsibilities, "; "))
	}
	return strings.Join(parts, "\n")
}

type ResumeProfile struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Email    string   `json:"email" yaml:"email"`
	Summary  string   `json:"summary" yaml:"summary"`
	Skills   []string `json:"skills" yaml:"skills"`
	Projects []string `json:"projects" yaml:"projects"`
}

func (r ResumeProfile) Text() string {
	parts := []string{
		fmt.Sprintf("%s | %s", r.Name, r.Email),
		"Summary: " + r.Summary,
	}
	if len(r.Skills) > 0 {
		parts = append(parts, "Skills: "+strings.Join(r.Skills, ", "))
	}
	for _, p := range r.Projects {
		parts = append(parts, "Project: "+p)
	}
	return strings.Join(parts, "\n")
}

// Catalog is the immutable static data set. All accessors return copies.
type Catalog struct {
	questions []Question
	jobs      []JobDescription
	resumes   []ResumeProfile
	study     StudyBank
}

func New(questions []Question, jobs []JobDescription, resumes []ResumeProfile) (*Catalog, error) {
	seen := make(map[string]bool, len(questions))
	for _, q := range questions {
		if q.ID == "" {
			return nil, fmt.Errorf("question %q has no id", q.Prompt)
		}
		if seen[q.ID] {
			return nil, fmt.Errorf("duplicate question id %q", q.ID)
		}
		seen[q.ID] = true
		if strings.TrimSpace(q.Prompt) == "" {
			return nil, fmt.Errorf("question %s has empty prompt", q.ID)
		}
		if strings.TrimSpace(q.Category) == "" {
			return nil, fmt.Errorf("question %s has empty category", q.ID)
		}
		if !difficulties[q.Difficulty] {
			return nil, fmt.Errorf("question %s has unknown difficulty %q", q.ID, q.Difficulty)
		}
	}

	return &Catalog{
		questions: append([]Question(nil), questions...),
		jobs:      append([]JobDescription(nil), jobs...),
		resumes:   append([]ResumeProfile(nil), resumes...),
	}, nil
}

func (c *Catalog) Questions() []Question {
	return append([]Question(nil), c.questions...)
}

// ByCategory returns the questions of one category in bank order.
func (c *Catalog) ByCategory(category string) []Question {
	var out []Question
	for _, q := range c.questions {
		if q.Category == category {
			out = append(out, q)
		}
	}
	return out
}

// Categories lists the distinct categories in first-seen order.
func (c *Catalog) Categories() []string {
	var out []string
	seen := make(map[string]bool)
	for _, q := range c.questions {
		if !seen[q.Category] {
			seen[q.Category] = true
			out = append(out, q.Category)
		}
	}
	return out
}

func (c *Catalog) Question(id string) (Question, bool) {
	for _, q := range c.questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

func (c *Catalog) Jobs() []JobDescription {
	return append([]JobDescription(nil), c.jobs...)
}

func (c *Catalog) Job(id string) (JobDescription, bool) {
	for _, j := range c.jobs {
		if j.ID == id {
			return j, true
		}
	}
	return JobDescription{}, false
}

func (c *Catalog) Resumes() []ResumeProfile {
	return append([]ResumeProfile(nil), c.resumes...)
}

func (c *Catalog) Resume(id string) (ResumeProfile, bool) {
	for _, r := range c.resumes {
		if r.ID == id {
			return r, true
		}
	}
	return ResumeProfile{}, false
}
