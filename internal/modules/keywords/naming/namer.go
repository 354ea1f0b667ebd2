package naming

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// EmptyName is returned for an empty keyword list.
const EmptyName = "Cluster Vacío"

const maxWords = 3

// Name suggests a cluster name from the most frequent meaningful words in keywords.
func Name(keywords []string) string {
	if len(keywords) == 0 {
		return EmptyName
	}

	type tally struct {
		word  string
		count int
		first int
	}
	counts := map[string]*tally{}
	order := 0
	for _, kw := range keywords {
		for _, tok := range strings.Fields(strings.ToLower(kw)) {
			if !meaningful(tok) {
				continue
			}
			if t, ok := counts[tok]; ok {
				t.count++
				continue
			}
			counts[tok] = &tally{word: tok, count: 1, first: order}
			order++
		}
	}

	if len(counts) == 0 {
		words := strings.Fields(keywords[0])
		if len(words) > maxWords {
			words = words[:maxWords]
		}
		if len(words) == 0 {
			return EmptyName
		}
		return strings.Join(words, " ")
	}

	ranked := make([]*tally, 0, len(counts))
	for _, t := range counts {
		ranked = append(ranked, t)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].first < ranked[j].first
	})
	if len(ranked) > maxWords {
		ranked = ranked[:maxWords]
	}
	parts := make([]string, 0, len(ranked))
	for _, t := range ranked {
		parts = append(parts, titleCase(t.word))
	}
	return strings.Join(parts, " ")
}

func meaningful(tok string) bool {
	if utf8.RuneCountInString(tok) <= 2 {
		return false
	}
	if isNumeric(tok) {
		return false
	}
	_, stop := spanishStopwords[tok]
	return !stop
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

func titleCase(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if r == utf8.RuneError {
		return w
	}
	return string(unicode.ToUpper(r)) + w[size:]
}
