package intent

import (
	"sort"

	"github.com/yungbote/seoplanner-backend/internal/domain/seo"
	"github.com/yungbote/seoplanner-backend/internal/modules/keywords/naming"
)

type KeywordGroup struct {
	Intent        seo.IntentLabel  `json:"intent"`
	Keywords      []seo.KeywordRef `json:"keywords"`
	SuggestedName string           `json:"suggested_name"`
}

// groupOrder breaks ties between groups of equal size.
var groupOrder = map[seo.IntentLabel]int{
	seo.IntentTransactional: 0,
	seo.IntentInformational: 1,
	seo.IntentCommercial:    2,
	seo.IntentNavigational:  3,
	seo.IntentUnknown:       4,
}

// Group classifies every keyword and buckets them by intent, largest bucket first.
func Group(keywords []seo.KeywordRef) []KeywordGroup {
	return defaultClassifier.Group(keywords)
}

func (c *Classifier) Group(keywords []seo.KeywordRef) []KeywordGroup {
	buckets := map[seo.IntentLabel][]seo.KeywordRef{}
	for _, k := range keywords {
		res := c.Classify(k.Text)
		buckets[res.Intent] = append(buckets[res.Intent], k)
	}

	out := make([]KeywordGroup, 0, len(buckets))
	for label, refs := range buckets {
		if len(refs) == 0 {
			continue
		}
		texts := make([]string, 0, len(refs))
		for _, r := range refs {
			texts = append(texts, r.Text)
		}
		out = append(out, KeywordGroup{
			Intent:        label,
			Keywords:      refs,
			SuggestedName: naming.Name(texts),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if len(out[i].Keywords) != len(out[j].Keywords) {
			return len(out[i].Keywords) > len(out[j].Keywords)
		}
		return groupOrder[out[i].Intent] < groupOrder[out[j].Intent]
	})
	return out
}

// Majority returns the most frequent intent among texts, unknown when empty.
func (c *Classifier) Majority(texts []string) seo.IntentLabel {
	counts := map[seo.IntentLabel]int{}
	best := seo.IntentUnknown
	for _, t := range texts {
		label := c.Classify(t).Intent
		counts[label]++
		if counts[label] > counts[best] || (counts[label] == counts[best] && groupOrder[label] < groupOrder[best]) {
			best = label
		}
	}
	return best
}
