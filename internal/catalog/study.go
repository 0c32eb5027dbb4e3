package catalog

import "sort"

// Study bank categories.
const (
	StudyBehavioral           = "behavioral"
	StudyLeadership           = "leadership"
	StudySoftSkills           = "soft_skills"
	StudyLeetCode             = "leetcode"
	StudyCodeReview           = "code_review"
	StudySystemDesign         = "system_design"
	StudyProgrammingLanguages = "programming_languages"
)

// Best practice kinds.
const (
	PracticeGeneral    = "general"
	PracticeTechnical  = "technical"
	PracticeBehavioral = "behavioral"
)

// ModelAnswer is a prepared answer outline used by keyword-only study plans.
type ModelAnswer struct {
	Group    string `json:"group" yaml:"group"`
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"detailed_answer" yaml:"answer"`
}

// StudyBank holds interview-preparation material. Programming language
// questions are the only category with subcategories.
type StudyBank struct {
	BestPractices map[string][]string `yaml:"best_practices"`
	Questions     map[string][]string `yaml:"questions"`
	Languages     map[string][]string `yaml:"programming_languages"`
	ModelAnswers  []ModelAnswer       `yaml:"model_answers"`
}

// BestPractices returns the practices of one kind, such as "general" or "senior".
func (c *Catalog) BestPractices(kind string) []string {
	return append([]string(nil), c.study.BestPractices[kind]...)
}

// StudyQuestions returns up to count questions of a study category, or all of
// them when count is not positive. Programming language questions need a
// subcategory; other categories ignore it.
func (c *Catalog) StudyQuestions(category, subcategory string, count int) []string {
	var questions []string
	if category == StudyProgrammingLanguages {
		questions = c.study.Languages[subcategory]
	} else {
		questions = c.study.Questions[category]
	}

	if count > 0 && len(questions) > count {
		questions = questions[:count]
	}
	return append([]string(nil), questions...)
}

// StudyCategories lists the study categories in name order.
func (c *Catalog) StudyCategories() []string {
	out := make([]string, 0, len(c.study.Questions)+1)
	for category := range c.study.Questions {
		out = append(out, category)
	}
	if len(c.study.Languages) > 0 {
		out = append(out, StudyProgrammingLanguages)
	}
	sort.Strings(out)
	return out
}

// Subcategories lists the subcategories of a study category in name order.
func (c *Catalog) Subcategories(category string) []string {
	if category != StudyProgrammingLanguages {
		return nil
	}
	out := make([]string, 0, len(c.study.Languages))
	for lang := range c.study.Languages {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

// ModelAnswers returns the prepared answers of one group in bank order.
func (c *Catalog) ModelAnswers(group string) []ModelAnswer {
	var out []ModelAnswer
	for _, a := range c.study.ModelAnswers {
		if a.Group == group {
			out = append(out, a)
		}
	}
	return out
}
