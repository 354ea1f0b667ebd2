package intent

import (
	"math"
	"reflect"
	"testing"

	"github.com/yungbote/seoplanner-backend/internal/domain/seo"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		keyword    string
		want       seo.IntentLabel
		confidence float64
	}{
		{"comprar zapatillas running", seo.IntentTransactional, 1},
		{"qué es seo técnico", seo.IntentInformational, 1},
		{"mejor crm para pymes", seo.IntentCommercial, 1},
		{"login gmail", seo.IntentNavigational, 1},
		{"zapatillas running", seo.IntentUnknown, 0},
		{"   ", seo.IntentUnknown, 0},
		{"", seo.IntentUnknown, 0},
		{"COMPRAR Zapatillas", seo.IntentTransactional, 1},
		// equal scores resolve to the earlier category
		{"guia mejor", seo.IntentInformational, 0.5},
		{"como comprar", seo.IntentTransactional, 1.2 / 2.2},
	}
	for _, tc := range cases {
		got := Classify(tc.keyword)
		if got.Intent != tc.want {
			t.Fatalf("Classify(%q).Intent = %s, want %s (matched %v)", tc.keyword, got.Intent, tc.want, got.MatchedPatterns)
		}
		if math.Abs(got.Confidence-tc.confidence) > 1e-9 {
			t.Fatalf("Classify(%q).Confidence = %v, want %v", tc.keyword, got.Confidence, tc.confidence)
		}
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	for _, kw := range []string{"precio seo local", "que es un crm", "facebook login", "vs"} {
		a := Classify(kw)
		b := Classify(kw)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("Classify(%q) not deterministic: %+v vs %+v", kw, a, b)
		}
	}
}

func TestClassifyTransactionalOnly(t *testing.T) {
	for _, kw := range []string{"precio hosting", "ofertas portatiles", "contratar abogado", "cupon descuento"} {
		got := Classify(kw)
		if got.Intent != seo.IntentTransactional || got.Confidence != 1 {
			t.Fatalf("Classify(%q) = %+v, want transactional with confidence 1", kw, got)
		}
	}
}

func TestClassifyDedupesPatterns(t *testing.T) {
	got := Classify("precio precios comprar")
	want := []string{"comprar", "precio"}
	if !reflect.DeepEqual(got.MatchedPatterns, want) {
		t.Fatalf("matched = %v, want %v", got.MatchedPatterns, want)
	}
}

func TestClassifyDoesNotNormaliseAccents(t *testing.T) {
	// "guía" is not the unaccented pattern "guia".
	if got := Classify("guía completa"); got.Intent != seo.IntentUnknown {
		t.Fatalf("Classify(guía completa) = %s, want unknown", got.Intent)
	}
}
