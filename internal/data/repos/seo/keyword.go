package seo

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/yungbote/seoplanner-backend/internal/domain/seo"
	"github.com/yungbote/seoplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/seoplanner-backend/internal/platform/logger"
)

type KeywordRepo interface {
	Create(dbc dbctx.Context, rows []*domain.Keyword) ([]*domain.Keyword, error)

	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*domain.Keyword, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Keyword, error)
	ListByStatus(dbc dbctx.Context, statuses ...domain.KeywordStatus) ([]*domain.Keyword, error)
	ListByCluster(dbc dbctx.Context, clusterID uuid.UUID) ([]*domain.Keyword, error)
	// FindByTexts matches on text_key, so case and inner whitespace are ignored;
	// discarded keywords are skipped.
	FindByTexts(dbc dbctx.Context, texts []string) ([]*domain.Keyword, error)
	// ExistingTexts returns the text keys already stored, discarded ones included.
	ExistingTexts(dbc dbctx.Context, texts []string) (map[string]bool, error)

	UpdateFields(dbc dbctx.Context, ids []uuid.UUID, updates map[string]interface{}) (int64, error)
	SetStatus(dbc dbctx.Context, ids []uuid.UUID, status domain.KeywordStatus, reason string) (int64, error)
	ResetClusteredToPending(dbc dbctx.Context) ([]uuid.UUID, error)
	SweepPending(dbc dbctx.Context, keep []uuid.UUID, to domain.KeywordStatus, reason string) ([]uuid.UUID, error)
	DetachCluster(dbc dbctx.Context, clusterID uuid.UUID) (int64, error)

	SoftDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) (int64, error)
}

type keywordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewKeywordRepo(db *gorm.DB, baseLog *logger.Logger) KeywordRepo {
	return &keywordRepo{db: db, log: baseLog.With("repo", "KeywordRepo")}
}

func (r *keywordRepo) Create(dbc dbctx.Context, rows []*domain.Keyword) ([]*domain.Keyword, error) {
	if len(rows) == 0 {
		return []*domain.Keyword{}, nil
	}
	if err := use(dbc, r.db).CreateInBatches(&rows, 500).Error; err != nil {
		return nil, MapError("keyword.create", err)
	}
	return rows, nil
}

func (r *keywordRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*domain.Keyword, error) {
	var out []*domain.Keyword
	if len(ids) == 0 {
		return out, nil
	}
	if err := use(dbc, r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, MapError("keyword.get_by_ids", err)
	}
	return out, nil
}

func (r *keywordRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Keyword, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	rows, err := r.GetByIDs(dbc, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *keywordRepo) ListByStatus(dbc dbctx.Context, statuses ...domain.KeywordStatus) ([]*domain.Keyword, error) {
	var out []*domain.Keyword
	q := use(dbc, r.db)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	if err := q.Order("search_volume DESC, text ASC").Find(&out).Error; err != nil {
		return nil, MapError("keyword.list_by_status", err)
	}
	return out, nil
}

func (r *keywordRepo) ListByCluster(dbc dbctx.Context, clusterID uuid.UUID) ([]*domain.Keyword, error) {
	var out []*domain.Keyword
	if clusterID == uuid.Nil {
		return out, nil
	}
	if err := use(dbc, r.db).Where("cluster_id = ?", clusterID).Order("search_volume DESC").Find(&out).Error; err != nil {
		return nil, MapError("keyword.list_by_cluster", err)
	}
	return out, nil
}

func (r *keywordRepo) FindByTexts(dbc dbctx.Context, texts []string) ([]*domain.Keyword, error) {
	var out []*domain.Keyword
	keys := textKeys(texts)
	if len(keys) == 0 {
		return out, nil
	}
	if err := use(dbc, r.db).
		Where("text_key IN ? AND status <> ?", keys, domain.KeywordDiscarded).
		Find(&out).Error; err != nil {
		return nil, MapError("keyword.find_by_texts", err)
	}
	return out, nil
}

func (r *keywordRepo) ExistingTexts(dbc dbctx.Context, texts []string) (map[string]bool, error) {
	out := map[string]bool{}
	keys := textKeys(texts)
	if len(keys) == 0 {
		return out, nil
	}
	var found []string
	if err := use(dbc, r.db).Model(&domain.Keyword{}).
		Where("text_key IN ?", keys).
		Pluck("text_key", &found).Error; err != nil {
		return nil, MapError("keyword.existing_texts", err)
	}
	for _, t := range found {
		out[t] = true
	}
	return out, nil
}

func (r *keywordRepo) UpdateFields(dbc dbctx.Context, ids []uuid.UUID, updates map[string]interface{}) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	res := use(dbc, r.db).Model(&domain.Keyword{}).Where("id IN ?", ids).Updates(updates)
	if res.Error != nil {
		return 0, MapError("keyword.update_fields", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *keywordRepo) SetStatus(dbc dbctx.Context, ids []uuid.UUID, status domain.KeywordStatus, reason string) (int64, error) {
	return r.UpdateFields(dbc, ids, statusUpdates(status, reason))
}

// ResetClusteredToPending returns proposal-assigned keywords to pending and
// returns their ids. Keywords owned by a cluster row keep their status.
func (r *keywordRepo) ResetClusteredToPending(dbc dbctx.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := use(dbc, r.db).Model(&domain.Keyword{}).
		Where("status = ? AND cluster_id IS NULL", domain.KeywordClustered).
		Pluck("id", &ids).Error; err != nil {
		return nil, MapError("keyword.reset_pending", err)
	}
	if len(ids) == 0 {
		return ids, nil
	}
	if _, err := r.UpdateFields(dbc, ids, map[string]interface{}{"status": domain.KeywordPending}); err != nil {
		return nil, err
	}
	return ids, nil
}

// SweepPending moves every pending keyword outside keep to the target status and
// returns the ids it touched.
func (r *keywordRepo) SweepPending(dbc dbctx.Context, keep []uuid.UUID, to domain.KeywordStatus, reason string) ([]uuid.UUID, error) {
	q := use(dbc, r.db).Model(&domain.Keyword{}).Where("status = ?", domain.KeywordPending)
	if len(keep) > 0 {
		q = q.Where("id NOT IN ?", keep)
	}
	var ids []uuid.UUID
	if err := q.Pluck("id", &ids).Error; err != nil {
		return nil, MapError("keyword.sweep_pending", err)
	}
	if len(ids) == 0 || to == domain.KeywordPending {
		return ids, nil
	}
	if _, err := r.UpdateFields(dbc, ids, statusUpdates(to, reason)); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *keywordRepo) DetachCluster(dbc dbctx.Context, clusterID uuid.UUID) (int64, error) {
	if clusterID == uuid.Nil {
		return 0, nil
	}
	res := use(dbc, r.db).Model(&domain.Keyword{}).
		Where("cluster_id = ?", clusterID).
		Updates(map[string]interface{}{
			"cluster_id": nil,
			"status":     gorm.Expr("CASE WHEN status = ? THEN ? ELSE status END", domain.KeywordClustered, domain.KeywordPending),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return 0, MapError("keyword.detach_cluster", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *keywordRepo) SoftDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := use(dbc, r.db).Where("id IN ?", ids).Delete(&domain.Keyword{})
	if res.Error != nil {
		return 0, MapError("keyword.soft_delete", res.Error)
	}
	return res.RowsAffected, nil
}

func statusUpdates(status domain.KeywordStatus, reason string) map[string]interface{} {
	updates := map[string]interface{}{"status": status}
	if status == domain.KeywordDiscarded {
		now := time.Now().UTC()
		if reason == "" {
			reason = domain.ReasonManual
		}
		updates["discarded_reason"] = reason
		updates["discarded_at"] = now
	} else {
		updates["discarded_reason"] = nil
		updates["discarded_at"] = nil
	}
	return updates
}
