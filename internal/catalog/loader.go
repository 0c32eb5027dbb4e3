package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/catalog.yaml
var defaultCatalog []byte

type fileFormat struct {
	QuestionBanks []struct {
		Category   string `yaml:"category"`
		Difficulty string `yaml:"difficulty"`
		Questions  []struct {
			Question string `yaml:"question"`
			FollowUp string `yaml:"follow_up"`
		} `yaml:"questions"`
	} `yaml:"question_banks"`
	JobDescriptions []JobDescription `yaml:"job_descriptions"`
	Resumes         []ResumeProfile  `yaml:"resumes"`
	StudyBank       StudyBank        `yaml:"study_bank"`
}

// Load reads the catalog from path, or the embedded default catalog when path is empty.
func Load(path string) (*Catalog, error) {
	data := defaultCatalog
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
		}
		data = raw
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	var questions []Question
	counters := make(map[string]int)
	for _, bank := range f.QuestionBanks {
		for _, q := range bank.Questions {
			slug := slugify(bank.Category)
			counters[slug]++
			questions = append(questions, Question{
				ID:         fmt.Sprintf("%s-%d", slug, counters[slug]),
				Category:   bank.Category,
				Difficulty: bank.Difficulty,
				Prompt:     strings.TrimSpace(q.Question),
				FollowUp:   strings.TrimSpace(q.FollowUp),
			})
		}
	}

	c, err := New(questions, f.JobDescriptions, f.Resumes)
	if err != nil {
		return nil, err
	}
	c.study = f.StudyBank
	return c, nil
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
