package reconcile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	seorepo "github.com/yungbote/seoplanner-backend/internal/data/repos/seo"
	"github.com/yungbote/seoplanner-backend/internal/domain/seo"
	"github.com/yungbote/seoplanner-backend/internal/modules/keywords/slug"
	"github.com/yungbote/seoplanner-backend/internal/platform/ctxutil"
	"github.com/yungbote/seoplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/seoplanner-backend/internal/platform/logger"
)

// Policy decides what happens to pending keywords the proposal never mentions.
type Policy string

const (
	PolicyDiscard Policy = "discard"
	PolicyPending Policy = "pending"
)

func ParsePolicy(raw string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", PolicyDiscard:
		return PolicyDiscard, nil
	case PolicyPending:
		return PolicyPending, nil
	default:
		return "", fmt.Errorf("unknown unreferenced keyword policy %q: %w", raw, seo.ErrValidation)
	}
}

type Deps struct {
	Log         *logger.Logger
	Keywords    seorepo.KeywordRepo
	Silos       seorepo.SiloRepo
	Categories  seorepo.CategoryRepo
	Pages       seorepo.PageRepo
	Assignments seorepo.KeywordAssignmentRepo
}

type Input struct {
	Proposal              seo.Proposal
	DiscardKeywordIDs     []uuid.UUID
	KeepPendingKeywordIDs []uuid.UUID
	Policy                Policy
}

type Result struct {
	SilosCreated      int      `json:"silos_created"`
	SilosReused       int      `json:"silos_reused"`
	CategoriesCreated int      `json:"categories_created"`
	CategoriesReused  int      `json:"categories_reused"`
	PagesCreated      int      `json:"pages_created"`
	PagesReused       int      `json:"pages_reused"`
	KeywordsClustered int      `json:"keywords_clustered"`
	KeywordsDiscarded int      `json:"keywords_discarded"`
	KeywordsPending   int      `json:"keywords_pending"`
	// AssignmentsRemoved counts keyword-page rows dropped for keywords that
	// left the proposal or were discarded.
	AssignmentsRemoved int      `json:"assignments_removed"`
	Unresolved         []string `json:"unresolved_keywords"`
	Errors             []string `json:"errors"`
}

type Reconciler struct {
	deps Deps
	now  func() time.Time
}

func New(deps Deps) *Reconciler {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	deps.Log = deps.Log.With("service", "ProposalReconciler")
	return &Reconciler{deps: deps, now: func() time.Time { return time.Now().UTC() }}
}

// run carries the per-call bookkeeping.
type run struct {
	dbc        dbctx.Context
	res        *Result
	intentions map[string]seo.IntentLabel
	// proposed holds every keyword id resolved from a page, in resolution order.
	proposed    map[uuid.UUID]struct{}
	proposedIDs []uuid.UUID
}

func (r *run) fail(format string, args ...any) {
	r.res.Errors = append(r.res.Errors, fmt.Sprintf(format, args...))
}

// Apply converges the store onto the proposal. Lookups run before every insert,
// so applying the same proposal twice leaves the row counts unchanged. Failures
// on a single silo, category or page are collected in Result.Errors and the
// rest of the proposal still applies. The returned error is set only when a
// store-wide step (the initial reset or the final sweep) fails.
func (rc *Reconciler) Apply(ctx context.Context, in Input) (*Result, error) {
	ctx, span := otel.Tracer("seoplanner/reconcile").Start(ctx, "reconcile.apply")
	defer span.End()

	policy := in.Policy
	if policy == "" {
		policy = PolicyDiscard
	}
	r := &run{
		dbc:        dbctx.Context{Ctx: ctx},
		res:        &Result{Unresolved: []string{}, Errors: []string{}},
		intentions: keyIntentions(in.Proposal.Intentions),
		proposed:   map[uuid.UUID]struct{}{},
	}

	reset, err := rc.deps.Keywords.ResetClusteredToPending(r.dbc)
	if err != nil {
		return r.res, fmt.Errorf("reset proposal keywords: %w", err)
	}
	// Pages below re-assign whatever this proposal still places.
	removed, err := rc.deps.Assignments.DeleteByKeywordIDs(r.dbc, reset)
	if err != nil {
		return r.res, fmt.Errorf("clear proposal assignments: %w", err)
	}
	r.res.AssignmentsRemoved += int(removed)

	for i := range in.Proposal.Silos {
		rc.applySilo(r, i, &in.Proposal.Silos[i])
	}

	discarded := idSet(in.DiscardKeywordIDs)
	keep := idSet(in.KeepPendingKeywordIDs)

	if len(in.DiscardKeywordIDs) > 0 {
		n, err := rc.deps.Keywords.SetStatus(r.dbc, in.DiscardKeywordIDs, seo.KeywordDiscarded, seo.ReasonProposal)
		if err != nil {
			r.fail("discard keywords: %v", err)
		} else {
			r.res.KeywordsDiscarded += int(n)
			rc.dropAssignments(r, in.DiscardKeywordIDs)
		}
	}
	if len(in.KeepPendingKeywordIDs) > 0 {
		n, err := rc.deps.Keywords.SetStatus(r.dbc, in.KeepPendingKeywordIDs, seo.KeywordPending, "")
		if err != nil {
			r.fail("keep pending keywords: %v", err)
		} else {
			r.res.KeywordsPending += int(n)
		}
	}

	protect := make([]uuid.UUID, 0, len(r.proposedIDs)+len(in.KeepPendingKeywordIDs))
	protect = append(protect, r.proposedIDs...)
	protect = append(protect, in.KeepPendingKeywordIDs...)
	target := seo.KeywordDiscarded
	if policy == PolicyPending {
		target = seo.KeywordPending
	}
	swept, err := rc.deps.Keywords.SweepPending(r.dbc, protect, target, seo.ReasonNotInProposal)
	if err != nil {
		return r.res, fmt.Errorf("sweep unreferenced keywords: %w", err)
	}
	if target == seo.KeywordDiscarded {
		r.res.KeywordsDiscarded += len(swept)
		rc.dropAssignments(r, swept)
	} else {
		r.res.KeywordsPending += len(swept)
	}

	for _, id := range r.proposedIDs {
		if _, ok := discarded[id]; ok {
			continue
		}
		if _, ok := keep[id]; ok {
			continue
		}
		r.res.KeywordsClustered++
	}

	span.SetAttributes(
		attribute.Int("pages.created", r.res.PagesCreated),
		attribute.Int("keywords.clustered", r.res.KeywordsClustered),
		attribute.Int("errors", len(r.res.Errors)),
	)
	rc.deps.Log.Info("Proposal applied", append(ctxutil.LogFields(ctx),
		"silos_created", r.res.SilosCreated,
		"categories_created", r.res.CategoriesCreated,
		"pages_created", r.res.PagesCreated,
		"keywords_clustered", r.res.KeywordsClustered,
		"keywords_discarded", r.res.KeywordsDiscarded,
		"keywords_pending", r.res.KeywordsPending,
		"errors", len(r.res.Errors),
	)...)
	return r.res, nil
}

func (rc *Reconciler) applySilo(r *run, idx int, ps *seo.ProposalSilo) {
	name := strings.TrimSpace(ps.Name)
	if name == "" {
		r.fail("silo %d: empty name", idx)
		return
	}
	silo, err := rc.deps.Silos.GetByName(r.dbc, name)
	if err != nil {
		r.fail("silo %q: %v", name, err)
		return
	}
	if silo != nil {
		r.res.SilosReused++
	} else {
		silo, err = rc.deps.Silos.Create(r.dbc, &seo.Silo{Name: name})
		if err != nil {
			r.fail("silo %q: %v", name, err)
			return
		}
		r.res.SilosCreated++
	}
	for i := range ps.Categories {
		rc.applyCategory(r, silo, i, &ps.Categories[i])
	}
}

func (rc *Reconciler) applyCategory(r *run, silo *seo.Silo, idx int, pc *seo.ProposalCategory) {
	name := strings.TrimSpace(pc.Name)
	if name == "" {
		r.fail("silo %q category %d: empty name", silo.Name, idx)
		return
	}
	cat, err := rc.deps.Categories.GetBySiloAndName(r.dbc, silo.ID, name)
	if err != nil {
		r.fail("category %q/%q: %v", silo.Name, name, err)
		return
	}
	if cat != nil {
		r.res.CategoriesReused++
	} else {
		cat, err = rc.deps.Categories.Create(r.dbc, &seo.Category{SiloID: silo.ID, Name: name})
		if err != nil {
			r.fail("category %q/%q: %v", silo.Name, name, err)
			return
		}
		r.res.CategoriesCreated++
	}
	for i := range pc.Pages {
		if err := rc.applyPage(r, cat, &pc.Pages[i]); err != nil {
			r.fail("page %q in %q/%q: %v", pc.Pages[i].MainKeyword, silo.Name, name, err)
		}
	}
}

func (rc *Reconciler) applyPage(r *run, cat *seo.Category, pp *seo.ProposalPage) error {
	main := strings.TrimSpace(pp.MainKeyword)
	if main == "" {
		return fmt.Errorf("empty main keyword: %w", seo.ErrValidation)
	}
	intent := seo.ParseIntent(pp.Intent)

	page, err := rc.deps.Pages.GetByCategoryAndMainKeyword(r.dbc, cat.ID, main)
	if err != nil {
		return err
	}
	if page == nil {
		s := slug.Make(main)
		if s == "" {
			return fmt.Errorf("main keyword has no slug: %w", seo.ErrValidation)
		}
		row := &seo.Page{
			CategoryID:        cat.ID,
			MainKeyword:       main,
			Slug:              s,
			Type:              pp.Type,
			IsPillar:          pp.IsPillar,
			Intent:            intent,
			Entity:            pp.Entity,
			ContentDifficulty: pp.ContentDifficulty,
		}
		row.SetLinkedSlugs(pp.InternalLinking)
		var created bool
		page, created, err = rc.deps.Pages.CreateOrGetBySlug(r.dbc, row)
		if err != nil {
			return err
		}
		if created {
			r.res.PagesCreated++
		} else {
			r.res.PagesReused++
			if err := rc.refreshPage(r, page, pp, intent); err != nil {
				return err
			}
		}
	} else {
		r.res.PagesReused++
		if err := rc.refreshPage(r, page, pp, intent); err != nil {
			return err
		}
	}

	return rc.assignKeywords(r, page, pp, intent)
}

func (rc *Reconciler) refreshPage(r *run, page *seo.Page, pp *seo.ProposalPage, intent seo.IntentLabel) error {
	updates := map[string]interface{}{
		"type":      pp.Type,
		"is_pillar": pp.IsPillar,
		"intent":    intent,
	}
	if pp.Entity != "" {
		updates["entity"] = pp.Entity
	}
	if pp.ContentDifficulty != nil {
		updates["content_difficulty"] = *pp.ContentDifficulty
	}
	if pp.InternalLinking != nil {
		tmp := seo.Page{}
		tmp.SetLinkedSlugs(pp.InternalLinking)
		updates["internal_linking"] = tmp.InternalLinking
	}
	return rc.deps.Pages.UpdateFields(r.dbc, page.ID, updates)
}

func (rc *Reconciler) assignKeywords(r *run, page *seo.Page, pp *seo.ProposalPage, pageIntent seo.IntentLabel) error {
	texts := pp.Keywords()
	found, err := rc.deps.Keywords.FindByTexts(r.dbc, texts)
	if err != nil {
		return err
	}
	byText := make(map[string][]*seo.Keyword, len(found))
	for _, k := range found {
		key := seo.TextKey(k.Text)
		byText[key] = append(byText[key], k)
	}

	byIntent := map[seo.IntentLabel][]uuid.UUID{}
	var rows []*seo.KeywordAssignment
	seen := map[uuid.UUID]struct{}{}
	now := rc.now()
	for _, t := range texts {
		key := seo.TextKey(t)
		matches := byText[key]
		if len(matches) == 0 {
			if key != "" {
				r.res.Unresolved = append(r.res.Unresolved, t)
			}
			continue
		}
		for _, k := range matches {
			if _, dup := seen[k.ID]; dup {
				continue
			}
			seen[k.ID] = struct{}{}
			intent := pageIntent
			if intent == seo.IntentUnknown {
				if li, ok := r.intentions[key]; ok {
					intent = li
				}
			}
			byIntent[intent] = append(byIntent[intent], k.ID)
			rows = append(rows, &seo.KeywordAssignment{KeywordID: k.ID, PageID: page.ID, AssignedAt: now})
		}
	}
	if len(rows) == 0 {
		return nil
	}

	for intent, ids := range byIntent {
		updates := map[string]interface{}{
			"status":           seo.KeywordClustered,
			"intent":           intent,
			"discarded_reason": nil,
			"discarded_at":     nil,
		}
		if _, err := rc.deps.Keywords.UpdateFields(r.dbc, ids, updates); err != nil {
			return err
		}
	}
	if err := rc.deps.Assignments.Upsert(r.dbc, rows); err != nil {
		return err
	}
	for _, row := range rows {
		if _, ok := r.proposed[row.KeywordID]; ok {
			continue
		}
		r.proposed[row.KeywordID] = struct{}{}
		r.proposedIDs = append(r.proposedIDs, row.KeywordID)
	}
	return nil
}

func (rc *Reconciler) dropAssignments(r *run, keywordIDs []uuid.UUID) {
	n, err := rc.deps.Assignments.DeleteByKeywordIDs(r.dbc, keywordIDs)
	if err != nil {
		r.fail("remove assignments of discarded keywords: %v", err)
		return
	}
	r.res.AssignmentsRemoved += int(n)
}

func keyIntentions(in map[string]string) map[string]seo.IntentLabel {
	out := make(map[string]seo.IntentLabel, len(in))
	for k, v := range in {
		label := seo.ParseIntent(v)
		if label == seo.IntentUnknown {
			continue
		}
		out[seo.TextKey(k)] = label
	}
	return out
}

func idSet(ids []uuid.UUID) map[uuid.UUID]struct{} {
	out := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}
