package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/yungbote/seoplanner-backend/internal/clients/redis"
	"github.com/yungbote/seoplanner-backend/internal/data/graph"
	"github.com/yungbote/seoplanner-backend/internal/platform/logger"
	"github.com/yungbote/seoplanner-backend/internal/platform/neo4jdb"
	"github.com/yungbote/seoplanner-backend/internal/platform/openai"
)

// Clients holds the optional outside systems. Any of them may be nil.
type Clients struct {
	OpenAI        openai.Client
	AnalysisCache *redis.AnalysisCache
	Neo4j         *neo4jdb.Client
	ClusterGraph  graph.ClusterGraph
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	// Openai
	oa, err := openai.NewClient(log, cfg.OpenAI)
	switch {
	case errors.Is(err, openai.ErrMissingAPIKey):
		log.Warn("OPENAI_API_KEY not set; model-backed endpoints will answer 503")
	case err != nil:
		return Clients{}, fmt.Errorf("init openai client: %w", err)
	default:
		out.OpenAI = oa
	}

	// Redis
	cache, err := redis.NewAnalysisCache(log, cfg.Redis)
	if err != nil {
		return Clients{}, fmt.Errorf("init analysis cache: %w", err)
	}
	out.AnalysisCache = cache

	// Neo4j
	n4j, err := neo4jdb.New(log, cfg.Neo4j)
	if err != nil {
		out.Close(context.Background())
		return Clients{}, fmt.Errorf("init neo4j: %w", err)
	}
	out.Neo4j = n4j
	out.ClusterGraph = graph.NewClusterGraph(n4j, log)
	return out, nil
}

func (c Clients) Close(ctx context.Context) {
	if c.AnalysisCache != nil {
		_ = c.AnalysisCache.Close()
	}
	if c.Neo4j != nil {
		_ = c.Neo4j.Close(ctx)
	}
}
