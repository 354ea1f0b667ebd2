package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	seorepo "github.com/yungbote/seoplanner-backend/internal/data/repos/seo"
	"github.com/yungbote/seoplanner-backend/internal/domain/seo"
	"github.com/yungbote/seoplanner-backend/internal/modules/keywords/analysis"
	"github.com/yungbote/seoplanner-backend/internal/modules/keywords/reconcile"
	"github.com/yungbote/seoplanner-backend/internal/modules/keywords/sitemap"
	"github.com/yungbote/seoplanner-backend/internal/platform/ctxutil"
	"github.com/yungbote/seoplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/seoplanner-backend/internal/platform/logger"
)

type ApplyProposalInput struct {
	Proposal              seo.Proposal `json:"proposal"`
	DiscardKeywordIDs     []uuid.UUID  `json:"discard_keyword_ids"`
	KeepPendingKeywordIDs []uuid.UUID  `json:"keep_pending_keyword_ids"`
	// Policy overrides the configured handling of unreferenced pending keywords.
	Policy string `json:"policy,omitempty"`
}

type StructureService interface {
	// Propose asks the model for a silo structure over texts, or over every
	// pending keyword when texts is empty. Nothing is written.
	Propose(ctx context.Context, texts []string) (*seo.Proposal, error)
	Apply(ctx context.Context, in ApplyProposalInput) (*reconcile.Result, error)
	ValidateURLs(ctx context.Context, urls []string) (*analysis.ValidationPayload, error)
}

type structureService struct {
	log           *logger.Logger
	keywords      seorepo.KeywordRepo
	silos         seorepo.SiloRepo
	reconciler    *reconcile.Reconciler
	orchestrator  *analysis.Orchestrator
	defaultPolicy reconcile.Policy
}

func NewStructureService(
	log *logger.Logger,
	keywords seorepo.KeywordRepo,
	silos seorepo.SiloRepo,
	reconciler *reconcile.Reconciler,
	orchestrator *analysis.Orchestrator,
	defaultPolicy reconcile.Policy,
) StructureService {
	if defaultPolicy == "" {
		defaultPolicy = reconcile.PolicyDiscard
	}
	return &structureService{
		log:           log.With("service", "StructureService"),
		keywords:      keywords,
		silos:         silos,
		reconciler:    reconciler,
		orchestrator:  orchestrator,
		defaultPolicy: defaultPolicy,
	}
}

func (s *structureService) Propose(ctx context.Context, texts []string) (*seo.Proposal, error) {
	dbc := dbctx.From(ctx)
	texts = cleanTexts(texts)
	if len(texts) == 0 {
		pending, err := s.keywords.ListByStatus(dbc, seo.KeywordPending)
		if err != nil {
			return nil, err
		}
		texts = keywordTexts(pending)
	}
	if len(texts) == 0 {
		return nil, fmt.Errorf("no keywords to structure: %w", seo.ErrValidation)
	}

	existing, err := s.silos.List(dbc)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(existing))
	for _, silo := range existing {
		names = append(names, silo.Name)
	}

	resp, err := s.orchestrator.Call(ctx, analysis.StructurePrompt(texts, names), analysis.KindStructure)
	if err != nil {
		return nil, err
	}
	s.log.Info("Structure proposed", append(ctxutil.LogFields(ctx),
		"keywords", len(texts),
		"silos", len(resp.Structure.Silos),
	)...)
	return resp.Structure, nil
}

func (s *structureService) Apply(ctx context.Context, in ApplyProposalInput) (*reconcile.Result, error) {
	policy := s.defaultPolicy
	if strings.TrimSpace(in.Policy) != "" {
		p, err := reconcile.ParsePolicy(in.Policy)
		if err != nil {
			return nil, err
		}
		policy = p
	}
	if len(in.Proposal.Silos) == 0 {
		return nil, fmt.Errorf("proposal has no silos: %w", seo.ErrValidation)
	}
	return s.reconciler.Apply(ctx, reconcile.Input{
		Proposal:              in.Proposal,
		DiscardKeywordIDs:     in.DiscardKeywordIDs,
		KeepPendingKeywordIDs: in.KeepPendingKeywordIDs,
		Policy:                policy,
	})
}

func (s *structureService) ValidateURLs(ctx context.Context, urls []string) (*analysis.ValidationPayload, error) {
	urls = cleanTexts(urls)
	if len(urls) == 0 {
		return nil, fmt.Errorf("no urls to validate: %w", seo.ErrValidation)
	}
	resp, err := s.orchestrator.Call(ctx, analysis.ValidationPrompt(urls, sitemap.ProtectedURLs()), analysis.KindValidation)
	if err != nil {
		return nil, err
	}
	out := resp.Validation
	for i := range out.URLs {
		out.URLs[i].Protected = sitemap.IsProtected(out.URLs[i].URL)
	}
	return out, nil
}

func cleanTexts(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
