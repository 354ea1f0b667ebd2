package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/seoplanner-backend/internal/modules/keywords/analysis"
	"github.com/yungbote/seoplanner-backend/internal/platform/logger"
)

func TestNewAnalysisCacheDisabledWithoutAddr(t *testing.T) {
	c, err := NewAnalysisCache(logger.Nop(), Config{})
	if err != nil || c != nil {
		t.Fatalf("expected nil cache, got %v %v", c, err)
	}
	if _, ok, err := c.Get(context.Background(), "k"); ok || err != nil {
		t.Fatalf("nil cache should miss, got ok=%v err=%v", ok, err)
	}
}

func TestAnalysisCacheRoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	c, err := NewAnalysisCache(logger.Nop(), Config{Addr: addr, Prefix: "test:" + uuid.NewString() + ":", TTL: time.Minute})
	if err != nil {
		t.Fatalf("NewAnalysisCache: %v", err)
	}
	defer c.Close()
	ctx := context.Background()
	key := analysis.BatchKey([]string{"seo local"})

	if _, ok, err := c.Get(ctx, key); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	want := &analysis.AnalysisPayload{
		Clusters:   []analysis.ProposedCluster{{Name: "SEO", Keywords: []string{"seo local"}}},
		Intentions: map[string]string{"seo local": "transactional"},
	}
	if err := c.Set(ctx, key, want); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got.Intentions["seo local"] != "transactional" || len(got.Clusters) != 1 {
		t.Fatalf("unexpected payload %+v", got)
	}
}
