package app

import (
	"testing"
	"time"

	"github.com/yungbote/seoplanner-backend/internal/modules/keywords/reconcile"
	"github.com/yungbote/seoplanner-backend/internal/platform/logger"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{
		"PORT", "DB_DRIVER", "ANALYSIS_MAX_RETRIES", "ANALYSIS_RETRY_BACKOFF_MS", "ANALYSIS_BATCH_DELAY_MS",
		"ANALYSIS_CALL_TIMEOUT_SECONDS", "RECONCILE_UNREFERENCED_POLICY", "OTEL_SAMPLER_RATIO", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(k, "")
	}
	cfg := LoadConfig(logger.Nop())

	if cfg.Port != "8080" || cfg.DB.Driver != "postgres" {
		t.Fatalf("port=%q driver=%q", cfg.Port, cfg.DB.Driver)
	}
	if cfg.Analysis.MaxRetries != 2 || cfg.Analysis.RetryBackoff != 2*time.Second ||
		cfg.Analysis.BatchDelay != 500*time.Millisecond || cfg.Analysis.CallTimeout != 120*time.Second {
		t.Fatalf("analysis policy=%+v", cfg.Analysis)
	}
	if cfg.UnreferencedPolicy != reconcile.PolicyDiscard {
		t.Fatalf("policy=%q", cfg.UnreferencedPolicy)
	}
	if cfg.Otel.SampleRatio != 1.0 || cfg.CORSOrigins != nil {
		t.Fatalf("ratio=%v origins=%v", cfg.Otel.SampleRatio, cfg.CORSOrigins)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("ANALYSIS_MAX_RETRIES", "5")
	t.Setenv("ANALYSIS_BATCH_DELAY_MS", "0")
	t.Setenv("RECONCILE_UNREFERENCED_POLICY", "PENDING")
	t.Setenv("OTEL_SAMPLER_RATIO", "0.25")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	cfg := LoadConfig(logger.Nop())

	if cfg.Analysis.MaxRetries != 5 || cfg.Analysis.BatchDelay != 0 {
		t.Fatalf("analysis policy=%+v", cfg.Analysis)
	}
	if cfg.UnreferencedPolicy != reconcile.PolicyPending {
		t.Fatalf("policy=%q", cfg.UnreferencedPolicy)
	}
	if cfg.Otel.SampleRatio != 0.25 {
		t.Fatalf("ratio=%v", cfg.Otel.SampleRatio)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("origins=%v", cfg.CORSOrigins)
	}
}

func TestLoadConfigUnknownPolicyFallsBack(t *testing.T) {
	t.Setenv("RECONCILE_UNREFERENCED_POLICY", "archive")
	if got := LoadConfig(logger.Nop()).UnreferencedPolicy; got != reconcile.PolicyDiscard {
		t.Fatalf("policy=%q", got)
	}
}
