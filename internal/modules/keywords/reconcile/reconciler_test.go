package reconcile

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	seorepo "github.com/yungbote/seoplanner-backend/internal/data/repos/seo"
	"github.com/yungbote/seoplanner-backend/internal/data/repos/testutil"
	"github.com/yungbote/seoplanner-backend/internal/domain/seo"
	"github.com/yungbote/seoplanner-backend/internal/platform/dbctx"
)

func newDeps(t *testing.T, db *gorm.DB) Deps {
	t.Helper()
	log := testutil.Logger(t)
	return Deps{
		Log:         log,
		Keywords:    seorepo.NewKeywordRepo(db, log),
		Silos:       seorepo.NewSiloRepo(db, log),
		Categories:  seorepo.NewCategoryRepo(db, log),
		Pages:       seorepo.NewPageRepo(db, log),
		Assignments: seorepo.NewKeywordAssignmentRepo(db, log),
	}
}

func page(main string, secondary ...string) seo.ProposalPage {
	return seo.ProposalPage{MainKeyword: main, SecondaryKeywords: secondary, Type: "service", Intent: "transactional"}
}

func proposal(pages ...seo.ProposalPage) seo.Proposal {
	return seo.Proposal{Silos: []seo.ProposalSilo{{
		Name:       "SEO",
		Categories: []seo.ProposalCategory{{Name: "Servicios", Pages: pages}},
	}}}
}

func statusOf(t *testing.T, db *gorm.DB, id uuid.UUID) *seo.Keyword {
	t.Helper()
	var k seo.Keyword
	require.NoError(t, db.Where("id = ?", id).Take(&k).Error)
	return &k
}

func TestApplySweepsUnreferencedKeywords(t *testing.T) {
	db := testutil.DB(t)
	kws := testutil.SeedKeywords(t, db,
		"seo local", "seo local madrid", "agencia seo", "precio seo", "auditoria seo", "seo tecnico",
		"zapatillas", "recetas", "futbol", "coches")

	res, err := New(newDeps(t, db)).Apply(context.Background(), Input{
		Proposal: proposal(
			page("SEO Local", "seo local madrid"),
			page("Agencia SEO", "precio seo"),
			page("Auditoria SEO", "SEO TECNICO"),
		),
	})
	require.NoError(t, err)
	require.Empty(t, res.Errors)
	require.Equal(t, 6, res.KeywordsClustered)
	require.Equal(t, 4, res.KeywordsDiscarded)
	require.Equal(t, 3, res.PagesCreated)

	for _, k := range kws[:6] {
		got := statusOf(t, db, k.ID)
		require.Equal(t, seo.KeywordClustered, got.Status, k.Text)
		require.NotNil(t, got.Intent)
		require.Equal(t, seo.IntentTransactional, *got.Intent)
	}
	for _, k := range kws[6:] {
		got := statusOf(t, db, k.ID)
		require.Equal(t, seo.KeywordDiscarded, got.Status, k.Text)
		require.NotNil(t, got.DiscardedReason)
		require.Equal(t, seo.ReasonNotInProposal, *got.DiscardedReason)
		require.NotNil(t, got.DiscardedAt)
	}
	require.EqualValues(t, 6, testutil.CountRows(t, db, &seo.KeywordAssignment{}))
}

func TestApplyIsIdempotent(t *testing.T) {
	db := testutil.DB(t)
	testutil.SeedKeywords(t, db, "seo local", "agencia seo", "diseño web", "tienda online", "otra cosa")
	rc := New(newDeps(t, db))
	in := Input{Proposal: seo.Proposal{Silos: []seo.ProposalSilo{
		{Name: "SEO", Categories: []seo.ProposalCategory{
			{Name: "Local", Pages: []seo.ProposalPage{page("SEO Local")}},
			{Name: "Agencia", Pages: []seo.ProposalPage{page("Agencia SEO")}},
		}},
		{Name: "Web", Categories: []seo.ProposalCategory{
			{Name: "Diseño", Pages: []seo.ProposalPage{page("Diseño Web", "tienda online")}},
		}},
	}}}

	first, err := rc.Apply(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, 2, first.SilosCreated)
	require.Equal(t, 3, first.CategoriesCreated)
	require.Equal(t, 3, first.PagesCreated)
	require.Equal(t, 4, first.KeywordsClustered)

	counts := func() [4]int64 {
		return [4]int64{
			testutil.CountRows(t, db, &seo.Silo{}),
			testutil.CountRows(t, db, &seo.Category{}),
			testutil.CountRows(t, db, &seo.Page{}),
			testutil.CountRows(t, db, &seo.KeywordAssignment{}),
		}
	}
	before := counts()

	second, err := rc.Apply(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, before, counts())
	require.Zero(t, second.SilosCreated)
	require.Equal(t, 2, second.SilosReused)
	require.Zero(t, second.CategoriesCreated)
	require.Equal(t, 3, second.CategoriesReused)
	require.Zero(t, second.PagesCreated)
	require.Equal(t, 3, second.PagesReused)
	require.Equal(t, first.KeywordsClustered, second.KeywordsClustered)
}

func TestApplyReusesPageAcrossCase(t *testing.T) {
	db := testutil.DB(t)
	testutil.SeedKeywords(t, db, "seo local")
	rc := New(newDeps(t, db))

	_, err := rc.Apply(context.Background(), Input{Proposal: proposal(page("SEO Local"))})
	require.NoError(t, err)
	res, err := rc.Apply(context.Background(), Input{Proposal: proposal(page("seo local"))})
	require.NoError(t, err)

	require.Zero(t, res.PagesCreated)
	require.Equal(t, 1, res.PagesReused)
	require.EqualValues(t, 1, testutil.CountRows(t, db, &seo.Page{}))

	p, err := seorepo.NewPageRepo(db, testutil.Logger(t)).GetBySlug(dbctx.Background(), "seo-local")
	require.NoError(t, err)
	require.NotNil(t, p)
}

func TestApplySlugConflictAcrossCategoriesReusesPage(t *testing.T) {
	db := testutil.DB(t)
	testutil.SeedKeywords(t, db, "seo local")
	res, err := New(newDeps(t, db)).Apply(context.Background(), Input{Proposal: seo.Proposal{Silos: []seo.ProposalSilo{{
		Name: "SEO",
		Categories: []seo.ProposalCategory{
			{Name: "A", Pages: []seo.ProposalPage{page("SEO Local")}},
			{Name: "B", Pages: []seo.ProposalPage{page("seo  local!")}},
		},
	}}}})
	require.NoError(t, err)
	require.Empty(t, res.Errors)
	require.Equal(t, 1, res.PagesCreated)
	require.Equal(t, 1, res.PagesReused)
	require.EqualValues(t, 1, testutil.CountRows(t, db, &seo.Page{}))
}

func TestApplyExplicitDiscardAndKeepPending(t *testing.T) {
	db := testutil.DB(t)
	kws := testutil.SeedKeywords(t, db, "seo local", "agencia seo", "recetas", "futbol")

	res, err := New(newDeps(t, db)).Apply(context.Background(), Input{
		Proposal:              proposal(page("SEO Local", "agencia seo")),
		DiscardKeywordIDs:     []uuid.UUID{kws[1].ID},
		KeepPendingKeywordIDs: []uuid.UUID{kws[2].ID},
	})
	require.NoError(t, err)
	require.Equal(t, 1, res.KeywordsClustered)
	require.Equal(t, 2, res.KeywordsDiscarded)
	require.Equal(t, 1, res.KeywordsPending)

	require.Equal(t, seo.KeywordClustered, statusOf(t, db, kws[0].ID).Status)
	discarded := statusOf(t, db, kws[1].ID)
	require.Equal(t, seo.KeywordDiscarded, discarded.Status)
	require.Equal(t, seo.ReasonProposal, *discarded.DiscardedReason)
	require.Equal(t, seo.KeywordPending, statusOf(t, db, kws[2].ID).Status)
	require.Equal(t, seo.KeywordDiscarded, statusOf(t, db, kws[3].ID).Status)
}

func TestApplyPendingPolicyLeavesUnreferenced(t *testing.T) {
	db := testutil.DB(t)
	kws := testutil.SeedKeywords(t, db, "seo local", "recetas", "futbol")

	res, err := New(newDeps(t, db)).Apply(context.Background(), Input{
		Proposal: proposal(page("SEO Local")),
		Policy:   PolicyPending,
	})
	require.NoError(t, err)
	require.Equal(t, 2, res.KeywordsPending)
	require.Zero(t, res.KeywordsDiscarded)
	require.Equal(t, seo.KeywordPending, statusOf(t, db, kws[1].ID).Status)
	require.Equal(t, seo.KeywordPending, statusOf(t, db, kws[2].ID).Status)
}

func TestApplyLeavesDiscardedAndClusterOwnedKeywords(t *testing.T) {
	db := testutil.DB(t)
	kws := testutil.SeedKeywords(t, db, "seo local", "agencia seo", "marketing")
	clusterID := uuid.New()
	require.NoError(t, db.Model(&seo.Keyword{}).Where("id = ?", kws[1].ID).
		Updates(map[string]interface{}{"status": seo.KeywordDiscarded, "discarded_reason": seo.ReasonOffTopic}).Error)
	require.NoError(t, db.Model(&seo.Keyword{}).Where("id = ?", kws[2].ID).
		Updates(map[string]interface{}{"status": seo.KeywordClustered, "cluster_id": clusterID}).Error)

	res, err := New(newDeps(t, db)).Apply(context.Background(), Input{
		Proposal: proposal(page("SEO Local", "agencia seo")),
	})
	require.NoError(t, err)
	require.Equal(t, 1, res.KeywordsClustered)
	require.Equal(t, []string{"agencia seo"}, res.Unresolved)

	require.Equal(t, seo.KeywordDiscarded, statusOf(t, db, kws[1].ID).Status)
	owned := statusOf(t, db, kws[2].ID)
	require.Equal(t, seo.KeywordClustered, owned.Status)
	require.Equal(t, clusterID, *owned.ClusterID)
}

func TestApplyMatchesNonASCIITextAcrossCase(t *testing.T) {
	db := testutil.DB(t)
	kws := testutil.SeedKeywords(t, db, "DISEÑO WEB MADRID", "ÁGUILA SEO")

	res, err := New(newDeps(t, db)).Apply(context.Background(), Input{
		Proposal: proposal(page("diseño web madrid", "águila  seo")),
	})
	require.NoError(t, err)
	require.Empty(t, res.Unresolved)
	require.Equal(t, 2, res.KeywordsClustered)
	require.Zero(t, res.KeywordsDiscarded)
	for _, k := range kws {
		require.Equal(t, seo.KeywordClustered, statusOf(t, db, k.ID).Status, k.Text)
	}

	again, err := New(newDeps(t, db)).Apply(context.Background(), Input{
		Proposal: proposal(page("Diseño Web Madrid", "águila seo")),
	})
	require.NoError(t, err)
	require.Equal(t, 1, again.PagesReused)
	require.EqualValues(t, 1, testutil.CountRows(t, db, &seo.Page{}))
}

func TestApplyMovesAssignmentsBetweenPages(t *testing.T) {
	db := testutil.DB(t)
	kws := testutil.SeedKeywords(t, db, "seo local", "agencia seo", "precio seo")
	deps := newDeps(t, db)
	rc := New(deps)

	_, err := rc.Apply(context.Background(), Input{
		Proposal: proposal(page("SEO Local", "precio seo"), page("Agencia SEO")),
	})
	require.NoError(t, err)
	require.EqualValues(t, 3, testutil.CountRows(t, db, &seo.KeywordAssignment{}))

	res, err := rc.Apply(context.Background(), Input{
		Proposal: proposal(page("SEO Local"), page("Agencia SEO", "precio seo")),
	})
	require.NoError(t, err)
	require.Empty(t, res.Errors)
	require.EqualValues(t, 3, testutil.CountRows(t, db, &seo.KeywordAssignment{}))

	agencia, err := deps.Pages.GetBySlug(dbctx.Background(), "agencia-seo")
	require.NoError(t, err)
	rows, err := deps.Assignments.ListByKeywords(dbctx.Background(), []uuid.UUID{kws[2].ID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, agencia.ID, rows[0].PageID)
}

func TestApplyDropsAssignmentsOfDiscardedKeywords(t *testing.T) {
	db := testutil.DB(t)
	kws := testutil.SeedKeywords(t, db, "seo local", "agencia seo", "precio seo")
	deps := newDeps(t, db)
	rc := New(deps)

	_, err := rc.Apply(context.Background(), Input{
		Proposal: proposal(page("SEO Local", "agencia seo", "precio seo")),
	})
	require.NoError(t, err)
	require.EqualValues(t, 3, testutil.CountRows(t, db, &seo.KeywordAssignment{}))

	res, err := rc.Apply(context.Background(), Input{
		Proposal:          proposal(page("SEO Local", "agencia seo")),
		DiscardKeywordIDs: []uuid.UUID{kws[1].ID},
	})
	require.NoError(t, err)
	require.Empty(t, res.Errors)
	require.Equal(t, 2, res.KeywordsDiscarded)
	require.EqualValues(t, 1, testutil.CountRows(t, db, &seo.KeywordAssignment{}))

	rows, err := deps.Assignments.ListByKeywords(dbctx.Background(), []uuid.UUID{kws[1].ID, kws[2].ID})
	require.NoError(t, err)
	require.Empty(t, rows)
	require.Equal(t, seo.KeywordDiscarded, statusOf(t, db, kws[2].ID).Status)
}

type failingPages struct {
	seorepo.PageRepo
	failOn string
}

func (f failingPages) GetByCategoryAndMainKeyword(dbc dbctx.Context, categoryID uuid.UUID, mainKeyword string) (*seo.Page, error) {
	if strings.EqualFold(mainKeyword, f.failOn) {
		return nil, errors.New("connection reset")
	}
	return f.PageRepo.GetByCategoryAndMainKeyword(dbc, categoryID, mainKeyword)
}

func TestApplyCollectsPerItemErrors(t *testing.T) {
	db := testutil.DB(t)
	kws := testutil.SeedKeywords(t, db, "seo local", "agencia seo", "precio seo")
	deps := newDeps(t, db)
	deps.Pages = failingPages{PageRepo: deps.Pages, failOn: "agencia seo"}

	res, err := New(deps).Apply(context.Background(), Input{Proposal: seo.Proposal{Silos: []seo.ProposalSilo{
		{Name: "", Categories: []seo.ProposalCategory{{Name: "x"}}},
		{Name: "SEO", Categories: []seo.ProposalCategory{
			{Name: "", Pages: []seo.ProposalPage{page("precio seo")}},
			{Name: "Servicios", Pages: []seo.ProposalPage{page("SEO Local"), page("Agencia SEO"), page("   ")}},
		}},
	}}})
	require.NoError(t, err)
	require.Len(t, res.Errors, 4)
	require.Contains(t, res.Errors[2], "connection reset")
	require.Equal(t, 1, res.SilosCreated)
	require.Equal(t, 1, res.CategoriesCreated)
	require.Equal(t, 1, res.PagesCreated)
	require.Equal(t, 1, res.KeywordsClustered)
	require.Equal(t, seo.KeywordClustered, statusOf(t, db, kws[0].ID).Status)
	require.Equal(t, seo.KeywordDiscarded, statusOf(t, db, kws[1].ID).Status)
}

func TestParsePolicy(t *testing.T) {
	cases := map[string]Policy{"": PolicyDiscard, "discard": PolicyDiscard, " Pending ": PolicyPending}
	for in, want := range cases {
		got, err := ParsePolicy(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := ParsePolicy("keep")
	require.ErrorIs(t, err, seo.ErrValidation)
}
