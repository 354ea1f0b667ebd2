package seo

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/yungbote/seoplanner-backend/internal/domain/seo"
	"github.com/yungbote/seoplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/seoplanner-backend/internal/platform/logger"
)

type ClusterRepo interface {
	Create(dbc dbctx.Context, rows []*domain.Cluster) ([]*domain.Cluster, error)

	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*domain.Cluster, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Cluster, error)
	List(dbc dbctx.Context) ([]*domain.Cluster, error)

	Update(dbc dbctx.Context, row *domain.Cluster) error
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	DetachChildren(dbc dbctx.Context, parentID uuid.UUID) (int64, error)

	DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
}

type clusterRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClusterRepo(db *gorm.DB, baseLog *logger.Logger) ClusterRepo {
	return &clusterRepo{db: db, log: baseLog.With("repo", "ClusterRepo")}
}

func (r *clusterRepo) Create(dbc dbctx.Context, rows []*domain.Cluster) ([]*domain.Cluster, error) {
	if len(rows) == 0 {
		return []*domain.Cluster{}, nil
	}
	if err := use(dbc, r.db).Create(&rows).Error; err != nil {
		return nil, MapError("cluster.create", err)
	}
	return rows, nil
}

func (r *clusterRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*domain.Cluster, error) {
	var out []*domain.Cluster
	if len(ids) == 0 {
		return out, nil
	}
	if err := use(dbc, r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, MapError("cluster.get_by_ids", err)
	}
	return out, nil
}

func (r *clusterRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Cluster, error) {
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

func (r *clusterRepo) List(dbc dbctx.Context) ([]*domain.Cluster, error) {
	var out []*domain.Cluster
	if err := use(dbc, r.db).Order("priority_final_priority DESC, name ASC").Find(&out).Error; err != nil {
		return nil, MapError("cluster.list", err)
	}
	return out, nil
}

func (r *clusterRepo) Update(dbc dbctx.Context, row *domain.Cluster) error {
	if row == nil || row.ID == uuid.Nil {
		return nil
	}
	row.UpdatedAt = time.Now().UTC()
	return MapError("cluster.update", use(dbc, r.db).Save(row).Error)
}

func (r *clusterRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil {
		return nil
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return MapError("cluster.update_fields", use(dbc, r.db).
		Model(&domain.Cluster{}).
		Where("id = ?", id).
		Updates(updates).Error)
}

func (r *clusterRepo) DetachChildren(dbc dbctx.Context, parentID uuid.UUID) (int64, error) {
	if parentID == uuid.Nil {
		return 0, nil
	}
	res := use(dbc, r.db).Model(&domain.Cluster{}).
		Where("parent_cluster_id = ?", parentID).
		Updates(map[string]interface{}{"parent_cluster_id": nil, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return 0, MapError("cluster.detach_children", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *clusterRepo) DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return MapError("cluster.delete", use(dbc, r.db).Where("id IN ?", ids).Delete(&domain.Cluster{}).Error)
}

type ClusterRelationRepo interface {
	Upsert(dbc dbctx.Context, rows []*domain.ClusterRelation) error
	ListByClusterIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*domain.ClusterRelation, error)
	DeleteByClusterID(dbc dbctx.Context, id uuid.UUID) error
}

type clusterRelationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClusterRelationRepo(db *gorm.DB, baseLog *logger.Logger) ClusterRelationRepo {
	return &clusterRelationRepo{db: db, log: baseLog.With("repo", "ClusterRelationRepo")}
}

func (r *clusterRelationRepo) Upsert(dbc dbctx.Context, rows []*domain.ClusterRelation) error {
	if len(rows) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for _, row := range rows {
		row.UpdatedAt = now
	}
	return MapError("cluster_relation.upsert", use(dbc, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "source_cluster_id"}, {Name: "target_cluster_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"similarity_score", "relation_type", "updated_at"}),
	}).Create(&rows).Error)
}

func (r *clusterRelationRepo) ListByClusterIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*domain.ClusterRelation, error) {
	var out []*domain.ClusterRelation
	if len(ids) == 0 {
		return out, nil
	}
	if err := use(dbc, r.db).
		Where("source_cluster_id IN ? OR target_cluster_id IN ?", ids, ids).
		Order("similarity_score DESC").
		Find(&out).Error; err != nil {
		return nil, MapError("cluster_relation.list", err)
	}
	return out, nil
}

func (r *clusterRelationRepo) DeleteByClusterID(dbc dbctx.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	return MapError("cluster_relation.delete", use(dbc, r.db).
		Where("source_cluster_id = ? OR target_cluster_id = ?", id, id).
		Delete(&domain.ClusterRelation{}).Error)
}
