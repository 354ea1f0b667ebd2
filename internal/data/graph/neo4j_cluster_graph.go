package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/seoplanner-backend/internal/domain/seo"
	"github.com/yungbote/seoplanner-backend/internal/platform/logger"
	"github.com/yungbote/seoplanner-backend/internal/platform/neo4jdb"
)

// ClusterGraph mirrors clusters and their relations for traversal queries.
type ClusterGraph interface {
	UpsertClusters(ctx context.Context, clusters []*seo.Cluster, relations []*seo.ClusterRelation) error
	DeleteCluster(ctx context.Context, id uuid.UUID) error
}

type neo4jClusterGraph struct {
	client *neo4jdb.Client
	log    *logger.Logger
}

// NewClusterGraph returns nil when client is nil, so callers can skip the mirror.
func NewClusterGraph(client *neo4jdb.Client, log *logger.Logger) ClusterGraph {
	if client == nil || client.Driver == nil {
		return nil
	}
	return &neo4jClusterGraph{client: client, log: log.With("graph", "ClusterGraph")}
}

func (g *neo4jClusterGraph) UpsertClusters(ctx context.Context, clusters []*seo.Cluster, relations []*seo.ClusterRelation) error {
	if ctx == nil {
		ctx = context.Background()
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	nodes := make([]map[string]any, 0, len(clusters))
	parents := make([]map[string]any, 0, len(clusters))
	for _, c := range clusters {
		if c == nil || c.ID == uuid.Nil {
			continue
		}
		nodes = append(nodes, map[string]any{
			"id":             c.ID.String(),
			"name":           c.Name,
			"intent":         string(c.Intent),
			"keyword_count":  int64(c.KeywordCount),
			"search_volume":  int64(c.SearchVolumeTotal),
			"final_priority": int64(c.PriorityScore.FinalPriority),
			"pillar_url":     c.PillarURL(),
			"synced_at":      now,
		})
		if c.ParentClusterID != nil && *c.ParentClusterID != uuid.Nil {
			parents = append(parents, map[string]any{
				"child_id":  c.ID.String(),
				"parent_id": c.ParentClusterID.String(),
			})
		}
	}

	rels := make([]map[string]any, 0, len(relations))
	for _, r := range relations {
		if r == nil || r.SourceClusterID == uuid.Nil || r.TargetClusterID == uuid.Nil {
			continue
		}
		rels = append(rels, map[string]any{
			"from_id":       r.SourceClusterID.String(),
			"to_id":         r.TargetClusterID.String(),
			"relation_type": string(r.RelationType),
			"similarity":    r.SimilarityScore,
			"synced_at":     now,
		})
	}
	if len(nodes) == 0 && len(rels) == 0 {
		return nil
	}

	session := g.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: g.client.Database,
	})
	defer session.Close(ctx)

	if res, err := session.Run(ctx, `CREATE CONSTRAINT seo_cluster_id_unique IF NOT EXISTS FOR (c:SeoCluster) REQUIRE c.id IS UNIQUE`, nil); err != nil {
		g.log.Warn("neo4j schema init failed (continuing)", "error", err)
	} else {
		_, _ = res.Consume(ctx)
	}

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if len(nodes) > 0 {
			res, err := tx.Run(ctx, `
UNWIND $nodes AS n
MERGE (c:SeoCluster {id: n.id})
SET c += n
`, map[string]any{"nodes": nodes})
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}
		if len(parents) > 0 {
			res, err := tx.Run(ctx, `
UNWIND $parents AS p
MATCH (child:SeoCluster {id: p.child_id})
OPTIONAL MATCH (child)-[old:CHILD_OF]->()
DELETE old
WITH child, p
MERGE (parent:SeoCluster {id: p.parent_id})
MERGE (child)-[:CHILD_OF]->(parent)
`, map[string]any{"parents": parents})
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}
		if len(rels) > 0 {
			res, err := tx.Run(ctx, `
UNWIND $rels AS r
MERGE (a:SeoCluster {id: r.from_id})
MERGE (b:SeoCluster {id: r.to_id})
MERGE (a)-[e:CLUSTER_RELATION]->(b)
SET e.relation_type = r.relation_type,
    e.similarity = r.similarity,
    e.synced_at = r.synced_at
`, map[string]any{"rels": rels})
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("neo4j cluster graph sync: %w", err)
	}
	g.log.Debug("neo4j cluster graph synced", "clusters", len(nodes), "relations", len(rels))
	return nil
}

func (g *neo4jClusterGraph) DeleteCluster(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	session := g.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: g.client.Database,
	})
	defer session.Close(ctx)
	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `MATCH (c:SeoCluster {id: $id}) DETACH DELETE c`, map[string]any{"id": id.String()})
		if err != nil {
			return nil, err
		}
		_, err = res.Consume(ctx)
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("neo4j cluster delete: %w", err)
	}
	return nil
}
