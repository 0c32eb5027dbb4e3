package interview

import (
	"strings"
	"unicode"
)

const (
	DefaultMinAnswerWords     = 20
	DefaultMinKeywordCoverage = 0.15
)

// FollowUpPolicy decides whether an answer earns the stored follow-up.
// A follow-up is due when the answer is shorter than MinAnswerWords words
// or covers less than MinKeywordCoverage of the question's keywords.
type FollowUpPolicy struct {
	MinAnswerWords     int
	MinKeywordCoverage float64
}

func DefaultFollowUpPolicy() FollowUpPolicy {
	return FollowUpPolicy{
		MinAnswerWords:     DefaultMinAnswerWords,
		MinKeywordCoverage: DefaultMinKeywordCoverage,
	}
}

func (p FollowUpPolicy) NeedsFollowUp(question, answer string) bool {
	if len(words(answer)) < p.MinAnswerWords {
		return true
	}
	return KeywordCoverage(question, answer) < p.MinKeywordCoverage
}

var stopWords = map[string]bool{
	"about": true, "also": true, "been": true, "could": true, "describe": true,
	"does": true, "during": true, "example": true, "explain": true, "from": true,
	"give": true, "have": true, "into": true, "just": true, "like": true,
	"made": true, "make": true, "more": true, "most": true, "other": true,
	"over": true, "should": true, "some": true, "tell": true, "than": true,
	"that": true, "their": true, "them": true, "then": true, "there": true,
	"they": true, "this": true, "time": true, "very": true, "were": true,
	"what": true, "when": true, "where": true, "which": true, "while": true,
	"will": true, "with": true, "would": true, "your": true, "you're": true,
}

// Keywords returns the distinct significant words of text in order of appearance.
func Keywords(text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, w := range words(text) {
		if len([]rune(w)) < 4 || stopWords[w] || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// KeywordCoverage is the fraction of the question's keywords found in the answer.
// A question without keywords is fully covered.
func KeywordCoverage(question, answer string) float64 {
	keywords := Keywords(question)
	if len(keywords) == 0 {
		return 1
	}

	answerWords := words(answer)
	covered := 0
	for _, kw := range keywords {
		for _, aw := range answerWords {
			if sameStem(kw, aw) {
				covered++
				break
			}
		}
	}
	return float64(covered) / float64(len(keywords))
}

func sameStem(keyword, word string) bool {
	if keyword == word {
		return true
	}
	if len(word) < 4 {
		return false
	}
	return strings.HasPrefix(word, keyword) || strings.HasPrefix(keyword, word)
}

func words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}
