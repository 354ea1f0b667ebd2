package app

import (
	"time"

	"github.com/yungbote/seoplanner-backend/internal/clients/redis"
	"github.com/yungbote/seoplanner-backend/internal/data/db"
	"github.com/yungbote/seoplanner-backend/internal/modules/keywords/analysis"
	"github.com/yungbote/seoplanner-backend/internal/modules/keywords/reconcile"
	"github.com/yungbote/seoplanner-backend/internal/observability"
	"github.com/yungbote/seoplanner-backend/internal/platform/envutil"
	"github.com/yungbote/seoplanner-backend/internal/platform/logger"
	"github.com/yungbote/seoplanner-backend/internal/platform/neo4jdb"
	"github.com/yungbote/seoplanner-backend/internal/platform/openai"
)

type Config struct {
	Port        string
	CORSOrigins []string

	DB       db.Config
	OpenAI   openai.Config
	Redis    redis.Config
	Neo4j    neo4jdb.Config
	Otel     observability.OtelConfig
	Analysis analysis.Policy

	// UnreferencedPolicy applies when an apply request names no policy.
	UnreferencedPolicy reconcile.Policy
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:        envutil.String("PORT", "8080", log),
		CORSOrigins: envutil.List("CORS_ALLOWED_ORIGINS", log),
		DB: db.Config{
			Driver:     envutil.String("DB_DRIVER", "postgres", log),
			Host:       envutil.String("POSTGRES_HOST", "localhost", log),
			Port:       envutil.String("POSTGRES_PORT", "5432", log),
			User:       envutil.String("POSTGRES_USER", "postgres", log),
			Password:   envutil.String("POSTGRES_PASSWORD", "", log),
			Name:       envutil.String("POSTGRES_NAME", "seoplanner", log),
			SSLMode:    envutil.String("POSTGRES_SSLMODE", "disable", log),
			SQLitePath: envutil.String("SQLITE_PATH", "seoplanner.db", log),
		},
		OpenAI: openai.Config{
			APIKey:     envutil.String("OPENAI_API_KEY", "", log),
			BaseURL:    envutil.String("OPENAI_BASE_URL", "https://api.openai.com", log),
			Model:      envutil.String("OPENAI_MODEL", "gpt-4o-mini", log),
			Timeout:    envutil.Duration("OPENAI_TIMEOUT_SECONDS", 120*time.Second, time.Second, log),
			MaxRetries: envutil.Int("OPENAI_MAX_RETRIES", 0, log),
		},
		Redis: redis.Config{
			Addr:     envutil.String("REDIS_ADDR", "", log),
			Password: envutil.String("REDIS_PASSWORD", "", log),
			TTL:      envutil.Duration("ANALYSIS_CACHE_TTL_SECONDS", 86400*time.Second, time.Second, log),
		},
		Neo4j: neo4jdb.Config{
			URI:      envutil.String("NEO4J_URI", "", log),
			User:     envutil.String("NEO4J_USER", "neo4j", log),
			Password: envutil.String("NEO4J_PASSWORD", "", log),
			Database: envutil.String("NEO4J_DATABASE", "", log),
		},
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false, log),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "seoplanner", log),
			Environment: envutil.String("APP_ENV", "development", log),
			Version:     envutil.String("APP_VERSION", "dev", log),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false, log),
			Headers:     observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "", log)),
			SampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 1.0, log),
		},
		Analysis: analysis.Policy{
			MaxRetries:   envutil.Int("ANALYSIS_MAX_RETRIES", 2, log),
			RetryBackoff: envutil.Duration("ANALYSIS_RETRY_BACKOFF_MS", 2000*time.Millisecond, time.Millisecond, log),
			BatchDelay:   envutil.Duration("ANALYSIS_BATCH_DELAY_MS", 500*time.Millisecond, time.Millisecond, log),
			CallTimeout:  envutil.Duration("ANALYSIS_CALL_TIMEOUT_SECONDS", 120*time.Second, time.Second, log),
		},
	}

	policy, err := reconcile.ParsePolicy(envutil.String("RECONCILE_UNREFERENCED_POLICY", string(reconcile.PolicyDiscard), log))
	if err != nil {
		if log != nil {
			log.Warn("Unknown reconcile policy, using discard", "error", err)
		}
		policy = reconcile.PolicyDiscard
	}
	cfg.UnreferencedPolicy = policy
	return cfg
}
