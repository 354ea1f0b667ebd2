package analysis

import (
	"fmt"
	"testing"
)

func keywords(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("kw %d", i)
	}
	return out
}

func TestSplit(t *testing.T) {
	cases := []struct {
		n       int
		batches int
		first   int
		last    int
	}{
		{0, 0, 0, 0},
		{1, 1, 1, 1},
		{50, 1, 50, 50},
		{51, 2, 50, 1},
		{500, 10, 50, 50},
		{501, 6, 100, 1},
		{1000, 10, 100, 100},
	}
	for _, tc := range cases {
		got := Split(keywords(tc.n))
		if len(got) != tc.batches {
			t.Fatalf("Split(%d): %d batches, want %d", tc.n, len(got), tc.batches)
		}
		if tc.batches == 0 {
			continue
		}
		if len(got[0]) != tc.first || len(got[len(got)-1]) != tc.last {
			t.Fatalf("Split(%d): first=%d last=%d, want %d/%d", tc.n, len(got[0]), len(got[len(got)-1]), tc.first, tc.last)
		}
	}
}

func TestBatchKeyStable(t *testing.T) {
	a := BatchKey([]string{"seo local", "agencia seo"})
	b := BatchKey([]string{" seo local ", "agencia seo"})
	c := BatchKey([]string{"agencia seo", "seo local"})
	if a != b {
		t.Fatalf("keys differ on whitespace")
	}
	if a == c {
		t.Fatalf("keys should depend on order")
	}
}
