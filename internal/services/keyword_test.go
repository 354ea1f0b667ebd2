package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	seorepo "github.com/yungbote/seoplanner-backend/internal/data/repos/seo"
	"github.com/yungbote/seoplanner-backend/internal/data/repos/testutil"
	"github.com/yungbote/seoplanner-backend/internal/domain/seo"
)

func TestImportSkipsDuplicatesAndOffTopic(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	testutil.SeedKeywords(t, db, "SEO local")
	svc := NewKeywordService(db, log, seorepo.NewKeywordRepo(db, log))

	res, err := svc.Import(context.Background(), []KeywordImportRow{
		{Text: "seo local", SearchVolume: 10},
		{Text: "  diseño   web ", SearchVolume: 500, Difficulty: testutil.PtrInt(40)},
		{Text: "Diseño web", SearchVolume: 20},
		{Text: "recetas veganas", SearchVolume: 900},
	}, ImportOptions{TopicTerms: []string{"diseno", "seo"}})
	require.NoError(t, err)
	require.Equal(t, 2, res.Imported)
	require.Equal(t, 2, res.Duplicates)
	require.Equal(t, 1, res.OffTopic)

	byText := map[string]*seo.Keyword{}
	for _, k := range res.Keywords {
		byText[k.Text] = k
	}
	require.Contains(t, byText, "diseño web")
	require.Equal(t, seo.KeywordPending, byText["diseño web"].Status)
	require.Equal(t, seo.KeywordDiscarded, byText["recetas veganas"].Status)
	require.Equal(t, seo.ReasonOffTopic, *byText["recetas veganas"].DiscardedReason)
}

func TestImportMatchesStoredTextAfterNormalising(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	svc := NewKeywordService(db, log, seorepo.NewKeywordRepo(db, log))

	first, err := svc.Import(context.Background(), []KeywordImportRow{{Text: "seo local"}, {Text: "DISEÑO WEB"}}, ImportOptions{})
	require.NoError(t, err)
	require.Equal(t, 2, first.Imported)

	second, err := svc.Import(context.Background(), []KeywordImportRow{{Text: "seo  local"}, {Text: " diseño web"}}, ImportOptions{})
	require.NoError(t, err)
	require.Zero(t, second.Imported)
	require.Equal(t, 2, second.Duplicates)
	require.EqualValues(t, 2, testutil.CountRows(t, db, &seo.Keyword{}))
}

func TestImportValidatesRows(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	svc := NewKeywordService(db, log, seorepo.NewKeywordRepo(db, log))

	cases := []struct {
		name string
		row  KeywordImportRow
	}{
		{"empty text", KeywordImportRow{Text: " "}},
		{"negative volume", KeywordImportRow{Text: "seo", SearchVolume: -1}},
		{"difficulty above range", KeywordImportRow{Text: "seo", Difficulty: testutil.PtrInt(101)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Import(context.Background(), []KeywordImportRow{tc.row}, ImportOptions{})
			require.ErrorIs(t, err, seo.ErrValidation)
		})
	}
	require.Zero(t, testutil.CountRows(t, db, &seo.Keyword{}))

	res, err := svc.Import(context.Background(), nil, ImportOptions{})
	require.NoError(t, err)
	require.Zero(t, res.Imported)
}

func TestDiscardRestoreAndDelete(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	kws := testutil.SeedKeywords(t, db, "seo local", "seo madrid")
	svc := NewKeywordService(db, log, seorepo.NewKeywordRepo(db, log))
	ctx := context.Background()

	n, err := svc.Discard(ctx, []uuid.UUID{kws[0].ID}, "")
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
	k := loadKeyword(t, db, kws[0].ID)
	require.Equal(t, seo.KeywordDiscarded, k.Status)
	require.Equal(t, seo.ReasonManual, *k.DiscardedReason)
	require.NotNil(t, k.DiscardedAt)

	discarded, err := svc.List(ctx, seo.KeywordDiscarded)
	require.NoError(t, err)
	require.Len(t, discarded, 1)

	_, err = svc.Restore(ctx, []uuid.UUID{kws[0].ID})
	require.NoError(t, err)
	k = loadKeyword(t, db, kws[0].ID)
	require.Equal(t, seo.KeywordPending, k.Status)
	require.Nil(t, k.DiscardedReason)

	_, err = svc.SoftDelete(ctx, []uuid.UUID{kws[1].ID})
	require.NoError(t, err)
	pending, err := svc.List(ctx, seo.KeywordPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.EqualValues(t, 1, testutil.CountRows(t, db, &seo.Keyword{}))

	_, err = svc.Discard(ctx, nil, "x")
	require.ErrorIs(t, err, seo.ErrValidation)
	_, err = svc.List(ctx, seo.KeywordStatus("archived"))
	require.ErrorIs(t, err, seo.ErrValidation)
}
