package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/yungbote/seoplanner-backend/internal/modules/keywords/analysis"
	"github.com/yungbote/seoplanner-backend/internal/platform/logger"
)

func TestBuildOfflineSQLite(t *testing.T) {
	for _, k := range []string{"OPENAI_API_KEY", "REDIS_ADDR", "NEO4J_URI", "OTEL_ENABLED"} {
		t.Setenv(k, "")
	}
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "app.db"))

	a, err := Build(logger.Nop(), LoadConfig(logger.Nop()))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer a.Close(context.Background())

	if a.Clients.OpenAI != nil || a.Clients.AnalysisCache != nil || a.Clients.ClusterGraph != nil {
		t.Fatalf("optional clients should be nil: %+v", a.Clients)
	}
	if a.Server == nil || a.Services.Structure == nil || a.Services.Cluster == nil {
		t.Fatalf("app not fully wired")
	}
	if _, err := a.Services.Structure.Propose(context.Background(), []string{"seo local"}); !errors.Is(err, analysis.ErrNoGenerator) {
		t.Fatalf("propose without model: %v", err)
	}
}
