package testutil

import (
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/seoplanner-backend/internal/domain/seo"
)

// SeedKeywords inserts pending keywords with the given texts.
func SeedKeywords(tb testing.TB, tx *gorm.DB, texts ...string) []*seo.Keyword {
	tb.Helper()
	out := make([]*seo.Keyword, 0, len(texts))
	for i, text := range texts {
		k := &seo.Keyword{
			Text:         text,
			SearchVolume: 100 * (i + 1),
			Status:       seo.KeywordPending,
		}
		if err := tx.Create(k).Error; err != nil {
			tb.Fatalf("seed keyword %q: %v", text, err)
		}
		out = append(out, k)
	}
	return out
}

func CountRows(tb testing.TB, tx *gorm.DB, model any) int64 {
	tb.Helper()
	var n int64
	if err := tx.Model(model).Count(&n).Error; err != nil {
		tb.Fatalf("count rows: %v", err)
	}
	return n
}
