package intent

import (
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/seoplanner-backend/internal/domain/seo"
)

func refs(texts ...string) []seo.KeywordRef {
	out := make([]seo.KeywordRef, 0, len(texts))
	for _, t := range texts {
		out = append(out, seo.KeywordRef{ID: uuid.New(), Text: t})
	}
	return out
}

func TestGroupEndToEnd(t *testing.T) {
	groups := Group(refs("comprar zapatillas running", "qué es seo técnico", "mejor crm para pymes"))
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}
	want := []seo.IntentLabel{seo.IntentTransactional, seo.IntentInformational, seo.IntentCommercial}
	for i, g := range groups {
		if len(g.Keywords) != 1 {
			t.Fatalf("group %s has %d keywords, want 1", g.Intent, len(g.Keywords))
		}
		if g.Intent != want[i] {
			t.Fatalf("group %d intent = %s, want %s", i, g.Intent, want[i])
		}
	}
	if groups[1].SuggestedName != "Seo Técnico" {
		t.Fatalf("informational name = %q", groups[1].SuggestedName)
	}
}

func TestGroupSortsBySize(t *testing.T) {
	groups := Group(refs("que es seo", "como hacer seo", "guia seo local", "comprar dominio", "sin patron"))
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}
	if groups[0].Intent != seo.IntentInformational || len(groups[0].Keywords) != 3 {
		t.Fatalf("first group = %s/%d", groups[0].Intent, len(groups[0].Keywords))
	}
	if groups[1].Intent != seo.IntentTransactional || groups[2].Intent != seo.IntentUnknown {
		t.Fatalf("tie order = %s, %s", groups[1].Intent, groups[2].Intent)
	}
}

func TestGroupEmpty(t *testing.T) {
	if got := Group(nil); len(got) != 0 {
		t.Fatalf("Group(nil) = %v", got)
	}
}

func TestMajority(t *testing.T) {
	c := NewClassifier(nil)
	if got := c.Majority([]string{"comprar seo", "que es seo", "como hacer seo"}); got != seo.IntentInformational {
		t.Fatalf("Majority = %s", got)
	}
	if got := c.Majority(nil); got != seo.IntentUnknown {
		t.Fatalf("Majority(nil) = %s", got)
	}
}
