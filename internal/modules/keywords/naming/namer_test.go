package naming

import "testing"

func TestName(t *testing.T) {
	cases := []struct {
		name     string
		keywords []string
		want     string
	}{
		{"empty", nil, EmptyName},
		// "qué" and "es" are stopwords while "seo" and "técnico" are content
		// terms, so the name is built from the latter. The raw first-words
		// prefix "qué es seo" only appears when no content term survives.
		{"single keyword", []string{"qué es seo técnico"}, "Seo Técnico"},
		{
			"frequency then first appearance",
			[]string{"agencia seo madrid", "seo local madrid", "precio agencia seo"},
			"Seo Agencia Madrid",
		},
		{"drops numbers and short tokens", []string{"top 10 ideas 2024 de marketing"}, "Top Ideas Marketing"},
		{"fallback to first words", []string{"qué es el de la", "y por 2024"}, "qué es el"},
		{"case folded", []string{"SEO Local", "seo local"}, "Seo Local"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Name(tc.keywords); got != tc.want {
				t.Fatalf("Name(%v) = %q, want %q", tc.keywords, got, tc.want)
			}
		})
	}
}
