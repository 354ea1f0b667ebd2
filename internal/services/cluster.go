package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/seoplanner-backend/internal/data/graph"
	seorepo "github.com/yungbote/seoplanner-backend/internal/data/repos/seo"
	"github.com/yungbote/seoplanner-backend/internal/domain/seo"
	"github.com/yungbote/seoplanner-backend/internal/modules/keywords/hierarchy"
	"github.com/yungbote/seoplanner-backend/internal/modules/keywords/intent"
	"github.com/yungbote/seoplanner-backend/internal/modules/keywords/naming"
	"github.com/yungbote/seoplanner-backend/internal/modules/keywords/priority"
	"github.com/yungbote/seoplanner-backend/internal/modules/keywords/sitemap"
	"github.com/yungbote/seoplanner-backend/internal/platform/ctxutil"
	"github.com/yungbote/seoplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/seoplanner-backend/internal/platform/logger"
)

// CanibalizationThreshold is the similarity at which two clusters compete for the same query.
const CanibalizationThreshold = 0.85

const recomputeConcurrency = 8

type ManualClusterInput struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Intent      string      `json:"intent"`
	KeywordIDs  []uuid.UUID `json:"keyword_ids"`
	ParentID    *uuid.UUID  `json:"parent_cluster_id"`
}

type RelationInput struct {
	SourceClusterID uuid.UUID `json:"source_cluster_id"`
	TargetClusterID uuid.UUID `json:"target_cluster_id"`
	SimilarityScore float64   `json:"similarity_score"`
	RelationType    string    `json:"relation_type,omitempty"`
}

type ClusterService interface {
	List(ctx context.Context) ([]*seo.Cluster, error)
	CreateManual(ctx context.Context, in ManualClusterInput) (*seo.Cluster, error)
	// CreateFromIntentGroups clusters the given pending keywords, or every pending keyword when ids is empty.
	CreateFromIntentGroups(ctx context.Context, keywordIDs []uuid.UUID) ([]*seo.Cluster, error)
	Delete(ctx context.Context, id uuid.UUID, confirm bool) error
	SetParent(ctx context.Context, id uuid.UUID, parentID *uuid.UUID) (*seo.Cluster, error)
	Recompute(ctx context.Context, ids []uuid.UUID) ([]*seo.Cluster, error)
	RecordRelations(ctx context.Context, in []RelationInput) ([]*seo.ClusterRelation, error)
}

type clusterService struct {
	db         *gorm.DB
	log        *logger.Logger
	keywords   seorepo.KeywordRepo
	clusters   seorepo.ClusterRepo
	relations  seorepo.ClusterRelationRepo
	graph      graph.ClusterGraph
	classifier *intent.Classifier
}

// NewClusterService wires the cluster lifecycle. clusterGraph may be nil.
func NewClusterService(
	db *gorm.DB,
	log *logger.Logger,
	keywords seorepo.KeywordRepo,
	clusters seorepo.ClusterRepo,
	relations seorepo.ClusterRelationRepo,
	clusterGraph graph.ClusterGraph,
) ClusterService {
	return &clusterService{
		db:         db,
		log:        log.With("service", "ClusterService"),
		keywords:   keywords,
		clusters:   clusters,
		relations:  relations,
		graph:      clusterGraph,
		classifier: intent.NewClassifier(nil),
	}
}

func (s *clusterService) List(ctx context.Context) ([]*seo.Cluster, error) {
	return s.clusters.List(dbctx.From(ctx))
}

func (s *clusterService) CreateManual(ctx context.Context, in ManualClusterInput) (*seo.Cluster, error) {
	if len(in.KeywordIDs) == 0 {
		return nil, fmt.Errorf("cluster needs at least one keyword: %w", seo.ErrValidation)
	}
	dbc := dbctx.From(ctx)
	kws, err := s.keywords.GetByIDs(dbc, in.KeywordIDs)
	if err != nil {
		return nil, err
	}
	if len(kws) != len(uniqueIDs(in.KeywordIDs)) {
		return nil, fmt.Errorf("some keywords do not exist: %w", seo.ErrNotFound)
	}
	for _, k := range kws {
		if k.Status == seo.KeywordDiscarded {
			return nil, fmt.Errorf("keyword %q is discarded: %w", k.Text, seo.ErrValidation)
		}
	}
	if in.ParentID != nil {
		parent, err := s.clusters.GetByID(dbc, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, fmt.Errorf("parent cluster %s: %w", *in.ParentID, seo.ErrNotFound)
		}
	}

	texts := keywordTexts(kws)
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = naming.Name(texts)
	}
	label := seo.ParseIntent(in.Intent)
	if label == seo.IntentUnknown {
		label = s.classifier.Majority(texts)
	}

	c := &seo.Cluster{
		Name:            name,
		Description:     strings.TrimSpace(in.Description),
		Intent:          label,
		ParentClusterID: in.ParentID,
	}
	created, err := s.create(ctx, []clusterDraft{{cluster: c, members: kws}})
	if err != nil {
		return nil, err
	}
	return created[0], nil
}

func (s *clusterService) CreateFromIntentGroups(ctx context.Context, keywordIDs []uuid.UUID) ([]*seo.Cluster, error) {
	dbc := dbctx.From(ctx)
	var (
		kws []*seo.Keyword
		err error
	)
	if len(keywordIDs) > 0 {
		kws, err = s.keywords.GetByIDs(dbc, keywordIDs)
	} else {
		kws, err = s.keywords.ListByStatus(dbc, seo.KeywordPending)
	}
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*seo.Keyword, len(kws))
	refs := make([]seo.KeywordRef, 0, len(kws))
	for _, k := range kws {
		if k.Status != seo.KeywordPending {
			continue
		}
		byID[k.ID] = k
		refs = append(refs, k.Ref())
	}
	if len(refs) == 0 {
		return []*seo.Cluster{}, nil
	}

	groups := s.classifier.Group(refs)
	drafts := make([]clusterDraft, 0, len(groups))
	for _, g := range groups {
		members := make([]*seo.Keyword, 0, len(g.Keywords))
		for _, r := range g.Keywords {
			members = append(members, byID[r.ID])
		}
		drafts = append(drafts, clusterDraft{
			cluster: &seo.Cluster{Name: g.SuggestedName, Intent: g.Intent},
			members: members,
		})
	}
	return s.create(ctx, drafts)
}

type clusterDraft struct {
	cluster *seo.Cluster
	members []*seo.Keyword
}

// create stores the drafts and moves their keywords in one transaction, then
// refreshes any cluster that lost members.
func (s *clusterService) create(ctx context.Context, drafts []clusterDraft) ([]*seo.Cluster, error) {
	previous := map[uuid.UUID]struct{}{}
	rows := make([]*seo.Cluster, 0, len(drafts))
	for _, d := range drafts {
		d.cluster.ID = uuid.New()
		applyStats(d.cluster, d.members)
		applySitemap(d.cluster)
		rows = append(rows, d.cluster)
		for _, k := range d.members {
			if k.ClusterID != nil {
				previous[*k.ClusterID] = struct{}{}
			}
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := s.clusters.Create(dbc, rows); err != nil {
			return err
		}
		for _, d := range drafts {
			if _, err := s.keywords.UpdateFields(dbc, keywordIDs(d.members), map[string]interface{}{
				"cluster_id": d.cluster.ID,
				"status":     seo.KeywordClustered,
				"intent":     d.cluster.Intent,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(previous) > 0 {
		ids := make([]uuid.UUID, 0, len(previous))
		for id := range previous {
			ids = append(ids, id)
		}
		if _, err := s.Recompute(ctx, ids); err != nil {
			s.log.Warn("Recompute of previous clusters failed", "error", err, "clusters", len(ids))
		}
	}
	s.mirror(ctx, rows, nil)
	s.log.Info("Clusters created", append(ctxutil.LogFields(ctx), "count", len(rows))...)
	return rows, nil
}

func (s *clusterService) Delete(ctx context.Context, id uuid.UUID, confirm bool) error {
	dbc := dbctx.From(ctx)
	c, err := s.clusters.GetByID(dbc, id)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("cluster %s: %w", id, seo.ErrNotFound)
	}
	if url := c.PillarURL(); sitemap.IsProtected(url) && !confirm {
		return fmt.Errorf("cluster %q targets protected url %s: %w", c.Name, url, seo.ErrConfirmationRequired)
	}

	var released int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		var err error
		if released, err = s.keywords.DetachCluster(dbc, id); err != nil {
			return err
		}
		if _, err := s.clusters.DetachChildren(dbc, id); err != nil {
			return err
		}
		if err := s.relations.DeleteByClusterID(dbc, id); err != nil {
			return err
		}
		return s.clusters.DeleteByIDs(dbc, []uuid.UUID{id})
	})
	if err != nil {
		return err
	}
	if s.graph != nil {
		if err := s.graph.DeleteCluster(ctx, id); err != nil {
			s.log.Warn("Cluster graph delete failed", "cluster_id", id, "error", err)
		}
	}
	s.log.Info("Cluster deleted", append(ctxutil.LogFields(ctx), "cluster_id", id, "keywords_released", released)...)
	return nil
}

func (s *clusterService) SetParent(ctx context.Context, id uuid.UUID, parentID *uuid.UUID) (*seo.Cluster, error) {
	dbc := dbctx.From(ctx)
	all, err := s.clusters.List(dbc)
	if err != nil {
		return nil, err
	}
	arena := hierarchy.NewArena(all)
	if !arena.Has(id) {
		return nil, fmt.Errorf("cluster %s: %w", id, seo.ErrNotFound)
	}
	if err := arena.ValidateParent(id, parentID); err != nil {
		return nil, err
	}
	var parent interface{}
	if parentID != nil {
		parent = *parentID
	}
	if err := s.clusters.UpdateFields(dbc, id, map[string]interface{}{"parent_cluster_id": parent}); err != nil {
		return nil, err
	}
	c, err := s.clusters.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	s.mirror(ctx, []*seo.Cluster{c}, nil)
	return c, nil
}

// Recompute refreshes aggregates and priority for ids, or for every cluster
// when ids is empty.
func (s *clusterService) Recompute(ctx context.Context, ids []uuid.UUID) ([]*seo.Cluster, error) {
	dbc := dbctx.From(ctx)
	var (
		targets []*seo.Cluster
		err     error
	)
	if len(ids) == 0 {
		targets, err = s.clusters.List(dbc)
	} else {
		targets, err = s.clusters.GetByIDs(dbc, ids)
	}
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	out := make([]*seo.Cluster, 0, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(recomputeConcurrency)
	for _, c := range targets {
		c := c
		g.Go(func() error {
			gdbc := dbctx.From(gctx)
			members, err := s.keywords.ListByCluster(gdbc, c.ID)
			if err != nil {
				return err
			}
			applyStats(c, members)
			if err := s.clusters.UpdateFields(gdbc, c.ID, map[string]interface{}{
				"keyword_count":             c.KeywordCount,
				"search_volume_total":       c.SearchVolumeTotal,
				"difficulty_avg":            c.DifficultyAvg,
				"content_type_target":       c.ContentTypeTarget,
				"priority_seo_score":        c.PriorityScore.SEOScore,
				"priority_business_value":   c.PriorityScore.BusinessValue,
				"priority_difficulty_score": c.PriorityScore.DifficultyScore,
				"priority_final_priority":   c.PriorityScore.FinalPriority,
			}); err != nil {
				return fmt.Errorf("recompute cluster %s: %w", c.ID, err)
			}
			mu.Lock()
			out = append(out, c)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	s.mirror(ctx, out, nil)
	return out, nil
}

func (s *clusterService) RecordRelations(ctx context.Context, in []RelationInput) ([]*seo.ClusterRelation, error) {
	if len(in) == 0 {
		return []*seo.ClusterRelation{}, nil
	}
	ids := make([]uuid.UUID, 0, 2*len(in))
	rows := make([]*seo.ClusterRelation, 0, len(in))
	for i, r := range in {
		if r.SourceClusterID == uuid.Nil || r.TargetClusterID == uuid.Nil {
			return nil, fmt.Errorf("relation %d: missing cluster id: %w", i, seo.ErrValidation)
		}
		if r.SourceClusterID == r.TargetClusterID {
			return nil, fmt.Errorf("relation %d: cluster related to itself: %w", i, seo.ErrValidation)
		}
		if math.IsNaN(r.SimilarityScore) || r.SimilarityScore < 0 || r.SimilarityScore > 1 {
			return nil, fmt.Errorf("relation %d: similarity %v outside [0,1]: %w", i, r.SimilarityScore, seo.ErrValidation)
		}
		rt, err := relationType(r.RelationType, r.SimilarityScore)
		if err != nil {
			return nil, fmt.Errorf("relation %d: %w", i, err)
		}
		ids = append(ids, r.SourceClusterID, r.TargetClusterID)
		rows = append(rows, &seo.ClusterRelation{
			SourceClusterID: r.SourceClusterID,
			TargetClusterID: r.TargetClusterID,
			SimilarityScore: r.SimilarityScore,
			RelationType:    rt,
		})
	}

	dbc := dbctx.From(ctx)
	found, err := s.clusters.GetByIDs(dbc, ids)
	if err != nil {
		return nil, err
	}
	if len(found) != len(uniqueIDs(ids)) {
		return nil, fmt.Errorf("relation references unknown cluster: %w", seo.ErrNotFound)
	}
	if err := s.relations.Upsert(dbc, rows); err != nil {
		return nil, err
	}
	s.mirror(ctx, found, rows)
	return rows, nil
}

// mirror pushes clusters and relations to the graph store; failures only log.
func (s *clusterService) mirror(ctx context.Context, clusters []*seo.Cluster, relations []*seo.ClusterRelation) {
	if s.graph == nil {
		return
	}
	syncCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := s.graph.UpsertClusters(syncCtx, clusters, relations); err != nil {
		s.log.Warn("Cluster graph sync failed", "error", err)
	}
}

func relationType(raw string, similarity float64) (seo.RelationType, error) {
	switch seo.RelationType(strings.ToLower(strings.TrimSpace(raw))) {
	case "":
		if similarity >= CanibalizationThreshold {
			return seo.RelationCanibalization, nil
		}
		return seo.RelationInternalLink, nil
	case seo.RelationCanibalization:
		return seo.RelationCanibalization, nil
	case seo.RelationInternalLink:
		return seo.RelationInternalLink, nil
	default:
		return "", fmt.Errorf("unknown relation type %q: %w", raw, seo.ErrValidation)
	}
}

// applyStats sets the aggregates and priority of c from its member keywords.
func applyStats(c *seo.Cluster, members []*seo.Keyword) {
	var (
		volume    int
		diffSum   int
		diffCount int
	)
	for _, k := range members {
		if k == nil {
			continue
		}
		volume += k.SearchVolume
		if k.Difficulty != nil {
			diffSum += *k.Difficulty
			diffCount++
		}
	}
	c.KeywordCount = len(members)
	c.SearchVolumeTotal = volume
	in := priority.Input{SearchVolumeTotal: volume, KeywordCount: len(members)}
	c.DifficultyAvg = 0
	if diffCount > 0 {
		avg := int(math.Floor(float64(diffSum)/float64(diffCount) + 0.5))
		c.DifficultyAvg = avg
		in.Difficulty = &avg
	}
	c.PriorityScore = priority.Score(in)
	c.ContentTypeTarget = seo.ContentTypeForIntent(c.Intent)
}

// applySitemap maps c onto a protected page or a suggested new URL.
func applySitemap(c *seo.Cluster) {
	d := sitemap.Match(c.Name, c.Intent)
	c.IsPillarPage = d.Protected
	c.SetPillar(&seo.PillarContent{URL: d.URL, Title: c.Name, Status: string(d.Action)})
}

func keywordTexts(kws []*seo.Keyword) []string {
	out := make([]string, 0, len(kws))
	for _, k := range kws {
		out = append(out, k.Text)
	}
	return out
}

func keywordIDs(kws []*seo.Keyword) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(kws))
	for _, k := range kws {
		out = append(out, k.ID)
	}
	return out
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
