package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	seorepo "github.com/yungbote/seoplanner-backend/internal/data/repos/seo"
	"github.com/yungbote/seoplanner-backend/internal/domain/seo"
	"github.com/yungbote/seoplanner-backend/internal/modules/keywords/slug"
	"github.com/yungbote/seoplanner-backend/internal/platform/ctxutil"
	"github.com/yungbote/seoplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/seoplanner-backend/internal/platform/logger"
)

type KeywordImportRow struct {
	Text         string   `json:"text" yaml:"text"`
	SearchVolume int      `json:"search_volume" yaml:"search_volume"`
	Difficulty   *int     `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	CPC          *float64 `json:"cpc,omitempty" yaml:"cpc,omitempty"`
}

type ImportOptions struct {
	// TopicTerms, when set, discards keywords that mention none of them.
	TopicTerms []string `json:"topic_terms"`
}

type ImportResult struct {
	Imported   int            `json:"imported"`
	Duplicates int            `json:"duplicates"`
	OffTopic   int            `json:"off_topic"`
	Keywords   []*seo.Keyword `json:"keywords"`
}

type KeywordService interface {
	Import(ctx context.Context, rows []KeywordImportRow, opts ImportOptions) (*ImportResult, error)
	List(ctx context.Context, statuses ...seo.KeywordStatus) ([]*seo.Keyword, error)
	Discard(ctx context.Context, ids []uuid.UUID, reason string) (int64, error)
	Restore(ctx context.Context, ids []uuid.UUID) (int64, error)
	SoftDelete(ctx context.Context, ids []uuid.UUID) (int64, error)
}

type keywordService struct {
	db       *gorm.DB
	log      *logger.Logger
	keywords seorepo.KeywordRepo
}

func NewKeywordService(db *gorm.DB, log *logger.Logger, keywords seorepo.KeywordRepo) KeywordService {
	return &keywordService{db: db, log: log.With("service", "KeywordService"), keywords: keywords}
}

func (s *keywordService) Import(ctx context.Context, rows []KeywordImportRow, opts ImportOptions) (*ImportResult, error) {
	out := &ImportResult{Keywords: []*seo.Keyword{}}
	if len(rows) == 0 {
		return out, nil
	}
	for i, r := range rows {
		if strings.TrimSpace(r.Text) == "" {
			return nil, fmt.Errorf("row %d: empty text: %w", i, seo.ErrValidation)
		}
		if r.SearchVolume < 0 {
			return nil, fmt.Errorf("row %d: negative search volume: %w", i, seo.ErrValidation)
		}
		if r.Difficulty != nil && (*r.Difficulty < 0 || *r.Difficulty > 100) {
			return nil, fmt.Errorf("row %d: difficulty %d outside [0,100]: %w", i, *r.Difficulty, seo.ErrValidation)
		}
	}

	texts := make([]string, 0, len(rows))
	for _, r := range rows {
		texts = append(texts, seo.NormalizeText(r.Text))
	}
	dbc := dbctx.From(ctx)
	existing, err := s.keywords.ExistingTexts(dbc, texts)
	if err != nil {
		return nil, err
	}

	topics := normalizeTerms(opts.TopicTerms)
	now := time.Now().UTC()
	toCreate := make([]*seo.Keyword, 0, len(rows))
	for _, r := range rows {
		text := seo.NormalizeText(r.Text)
		key := seo.TextKey(text)
		if existing[key] {
			out.Duplicates++
			continue
		}
		existing[key] = true

		k := &seo.Keyword{
			Text:         text,
			SearchVolume: r.SearchVolume,
			Difficulty:   r.Difficulty,
			CPC:          r.CPC,
			Status:       seo.KeywordPending,
		}
		if len(topics) > 0 && !mentionsAny(key, topics) {
			reason := seo.ReasonOffTopic
			k.Status = seo.KeywordDiscarded
			k.DiscardedReason = &reason
			k.DiscardedAt = &now
			out.OffTopic++
		}
		toCreate = append(toCreate, k)
	}

	created, err := s.keywords.Create(dbc, toCreate)
	if err != nil {
		return nil, err
	}
	out.Imported = len(created)
	out.Keywords = created
	s.log.Info("Keywords imported", append(ctxutil.LogFields(ctx),
		"imported", out.Imported, "duplicates", out.Duplicates, "off_topic", out.OffTopic)...)
	return out, nil
}

func (s *keywordService) List(ctx context.Context, statuses ...seo.KeywordStatus) ([]*seo.Keyword, error) {
	for _, st := range statuses {
		if !st.Valid() {
			return nil, fmt.Errorf("unknown keyword status %q: %w", st, seo.ErrValidation)
		}
	}
	return s.keywords.ListByStatus(dbctx.From(ctx), statuses...)
}

func (s *keywordService) Discard(ctx context.Context, ids []uuid.UUID, reason string) (int64, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("no keyword ids: %w", seo.ErrValidation)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = seo.ReasonManual
	}
	var n int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		var err error
		n, err = s.keywords.UpdateFields(dbc, ids, map[string]interface{}{
			"status":           seo.KeywordDiscarded,
			"cluster_id":       nil,
			"discarded_reason": reason,
			"discarded_at":     time.Now().UTC(),
		})
		return err
	})
	return n, err
}

func (s *keywordService) Restore(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("no keyword ids: %w", seo.ErrValidation)
	}
	return s.keywords.SetStatus(dbctx.From(ctx), ids, seo.KeywordPending, "")
}

func (s *keywordService) SoftDelete(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("no keyword ids: %w", seo.ErrValidation)
	}
	return s.keywords.SoftDeleteByIDs(dbctx.From(ctx), ids)
}

// normalizeTerms lowercases and strips accents so "diseño" also matches "diseno".
func normalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(slug.StripDiacritics(t)))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func mentionsAny(text string, terms []string) bool {
	plain := slug.StripDiacritics(text)
	for _, t := range terms {
		if strings.Contains(plain, t) {
			return true
		}
	}
	return false
}
