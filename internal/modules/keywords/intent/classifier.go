package intent

import (
	"strings"

	"github.com/yungbote/seoplanner-backend/internal/domain/seo"
)

type Result struct {
	Intent          seo.IntentLabel `json:"intent"`
	Confidence      float64         `json:"confidence"`
	MatchedPatterns []string        `json:"matched_patterns"`
}

type Classifier struct {
	categories []Category
}

func NewClassifier(categories []Category) *Classifier {
	if len(categories) == 0 {
		categories = DefaultCategories()
	}
	return &Classifier{categories: categories}
}

var defaultClassifier = NewClassifier(nil)

// Classify runs keyword through the default Spanish rule set.
func Classify(keyword string) Result {
	return defaultClassifier.Classify(keyword)
}

// Classify adds a category's weight once per matching pattern; the highest total
// wins and confidence is that total over the sum of all totals.
func (c *Classifier) Classify(keyword string) Result {
	kw := strings.TrimSpace(keyword)
	if kw == "" {
		return Result{Intent: seo.IntentUnknown, MatchedPatterns: []string{}}
	}

	var (
		total    float64
		best     float64
		winner   = seo.IntentUnknown
		matched  = []string{}
		seenName = map[string]struct{}{}
	)
	for _, cat := range c.categories {
		var score float64
		for _, p := range cat.Patterns {
			if !p.Match(kw) {
				continue
			}
			score += cat.Weight
			if _, ok := seenName[p.Name]; !ok {
				seenName[p.Name] = struct{}{}
				matched = append(matched, p.Name)
			}
		}
		total += score
		if score > best {
			best = score
			winner = cat.Intent
		}
	}

	if best == 0 || total == 0 {
		return Result{Intent: seo.IntentUnknown, MatchedPatterns: []string{}}
	}
	return Result{
		Intent:          winner,
		Confidence:      best / total,
		MatchedPatterns: matched,
	}
}
