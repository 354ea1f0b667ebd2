package seo

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/yungbote/seoplanner-backend/internal/domain/seo"
	"github.com/yungbote/seoplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/seoplanner-backend/internal/platform/logger"
)

type SiloRepo interface {
	GetByName(dbc dbctx.Context, name string) (*domain.Silo, error)
	Create(dbc dbctx.Context, row *domain.Silo) (*domain.Silo, error)
	List(dbc dbctx.Context) ([]*domain.Silo, error)
}

type siloRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSiloRepo(db *gorm.DB, baseLog *logger.Logger) SiloRepo {
	return &siloRepo{db: db, log: baseLog.With("repo", "SiloRepo")}
}

func (r *siloRepo) GetByName(dbc dbctx.Context, name string) (*domain.Silo, error) {
	var out domain.Silo
	err := use(dbc, r.db).Where("name = ?", name).Order("created_at ASC").Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, MapError("silo.get_by_name", err)
	}
	return &out, nil
}

func (r *siloRepo) Create(dbc dbctx.Context, row *domain.Silo) (*domain.Silo, error) {
	if err := use(dbc, r.db).Create(row).Error; err != nil {
		return nil, MapError("silo.create", err)
	}
	return row, nil
}

func (r *siloRepo) List(dbc dbctx.Context) ([]*domain.Silo, error) {
	var out []*domain.Silo
	if err := use(dbc, r.db).Order("name ASC").Find(&out).Error; err != nil {
		return nil, MapError("silo.list", err)
	}
	return out, nil
}

type CategoryRepo interface {
	GetBySiloAndName(dbc dbctx.Context, siloID uuid.UUID, name string) (*domain.Category, error)
	Create(dbc dbctx.Context, row *domain.Category) (*domain.Category, error)
	ListBySilo(dbc dbctx.Context, siloID uuid.UUID) ([]*domain.Category, error)
}

type categoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
	return &categoryRepo{db: db, log: baseLog.With("repo", "CategoryRepo")}
}

func (r *categoryRepo) GetBySiloAndName(dbc dbctx.Context, siloID uuid.UUID, name string) (*domain.Category, error) {
	var out domain.Category
	err := use(dbc, r.db).Where("silo_id = ? AND name = ?", siloID, name).Order("created_at ASC").Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, MapError("category.get_by_silo_and_name", err)
	}
	return &out, nil
}

func (r *categoryRepo) Create(dbc dbctx.Context, row *domain.Category) (*domain.Category, error) {
	if err := use(dbc, r.db).Create(row).Error; err != nil {
		return nil, MapError("category.create", err)
	}
	return row, nil
}

func (r *categoryRepo) ListBySilo(dbc dbctx.Context, siloID uuid.UUID) ([]*domain.Category, error) {
	var out []*domain.Category
	if err := use(dbc, r.db).Where("silo_id = ?", siloID).Order("name ASC").Find(&out).Error; err != nil {
		return nil, MapError("category.list_by_silo", err)
	}
	return out, nil
}

type PageRepo interface {
	GetByCategoryAndMainKeyword(dbc dbctx.Context, categoryID uuid.UUID, mainKeyword string) (*domain.Page, error)
	GetBySlug(dbc dbctx.Context, slug string) (*domain.Page, error)
	// CreateOrGetBySlug inserts row unless its slug already exists; created reports which happened.
	CreateOrGetBySlug(dbc dbctx.Context, row *domain.Page) (page *domain.Page, created bool, err error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	ListByCategory(dbc dbctx.Context, categoryID uuid.UUID) ([]*domain.Page, error)
	List(dbc dbctx.Context) ([]*domain.Page, error)
}

type pageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPageRepo(db *gorm.DB, baseLog *logger.Logger) PageRepo {
	return &pageRepo{db: db, log: baseLog.With("repo", "PageRepo")}
}

func (r *pageRepo) GetByCategoryAndMainKeyword(dbc dbctx.Context, categoryID uuid.UUID, mainKeyword string) (*domain.Page, error) {
	var out domain.Page
	err := use(dbc, r.db).
		Where("category_id = ? AND main_keyword_key = ?", categoryID, domain.TextKey(mainKeyword)).
		Order("created_at ASC").
		Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, MapError("page.get_by_category_and_main_keyword", err)
	}
	return &out, nil
}

func (r *pageRepo) GetBySlug(dbc dbctx.Context, slug string) (*domain.Page, error) {
	var out domain.Page
	err := use(dbc, r.db).Where("slug = ?", slug).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, MapError("page.get_by_slug", err)
	}
	return &out, nil
}

func (r *pageRepo) CreateOrGetBySlug(dbc dbctx.Context, row *domain.Page) (*domain.Page, bool, error) {
	if row == nil || row.Slug == "" {
		return nil, false, MapError("page.create", domain.ErrValidation)
	}
	res := use(dbc, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoNothing: true,
	}).Create(row)
	if res.Error != nil {
		return nil, false, MapError("page.create", res.Error)
	}
	if res.RowsAffected > 0 {
		return row, true, nil
	}
	existing, err := r.GetBySlug(dbc, row.Slug)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, MapError("page.create", domain.ErrConflict)
	}
	return existing, false, nil
}

func (r *pageRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return MapError("page.update_fields", use(dbc, r.db).Model(&domain.Page{}).Where("id = ?", id).Updates(updates).Error)
}

func (r *pageRepo) ListByCategory(dbc dbctx.Context, categoryID uuid.UUID) ([]*domain.Page, error) {
	var out []*domain.Page
	if err := use(dbc, r.db).Where("category_id = ?", categoryID).Order("is_pillar DESC, main_keyword ASC").Find(&out).Error; err != nil {
		return nil, MapError("page.list_by_category", err)
	}
	return out, nil
}

func (r *pageRepo) List(dbc dbctx.Context) ([]*domain.Page, error) {
	var out []*domain.Page
	if err := use(dbc, r.db).Order("slug ASC").Find(&out).Error; err != nil {
		return nil, MapError("page.list", err)
	}
	return out, nil
}

type KeywordAssignmentRepo interface {
	// Upsert relies on the (keyword_id, page_id) key; a conflict refreshes assigned_at.
	Upsert(dbc dbctx.Context, rows []*domain.KeywordAssignment) error
	ListByPage(dbc dbctx.Context, pageID uuid.UUID) ([]*domain.KeywordAssignment, error)
	ListByKeywords(dbc dbctx.Context, keywordIDs []uuid.UUID) ([]*domain.KeywordAssignment, error)
	DeleteByKeywordIDs(dbc dbctx.Context, keywordIDs []uuid.UUID) (int64, error)
	Count(dbc dbctx.Context) (int64, error)
}

type keywordAssignmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewKeywordAssignmentRepo(db *gorm.DB, baseLog *logger.Logger) KeywordAssignmentRepo {
	return &keywordAssignmentRepo{db: db, log: baseLog.With("repo", "KeywordAssignmentRepo")}
}

func (r *keywordAssignmentRepo) Upsert(dbc dbctx.Context, rows []*domain.KeywordAssignment) error {
	if len(rows) == 0 {
		return nil
	}
	return MapError("keyword_assignment.upsert", use(dbc, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "keyword_id"}, {Name: "page_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"assigned_at"}),
	}).Create(&rows).Error)
}

func (r *keywordAssignmentRepo) ListByPage(dbc dbctx.Context, pageID uuid.UUID) ([]*domain.KeywordAssignment, error) {
	var out []*domain.KeywordAssignment
	if err := use(dbc, r.db).Where("page_id = ?", pageID).Find(&out).Error; err != nil {
		return nil, MapError("keyword_assignment.list_by_page", err)
	}
	return out, nil
}

func (r *keywordAssignmentRepo) ListByKeywords(dbc dbctx.Context, keywordIDs []uuid.UUID) ([]*domain.KeywordAssignment, error) {
	var out []*domain.KeywordAssignment
	if len(keywordIDs) == 0 {
		return out, nil
	}
	if err := use(dbc, r.db).Where("keyword_id IN ?", keywordIDs).Find(&out).Error; err != nil {
		return nil, MapError("keyword_assignment.list_by_keywords", err)
	}
	return out, nil
}

func (r *keywordAssignmentRepo) DeleteByKeywordIDs(dbc dbctx.Context, keywordIDs []uuid.UUID) (int64, error) {
	if len(keywordIDs) == 0 {
		return 0, nil
	}
	res := use(dbc, r.db).Where("keyword_id IN ?", keywordIDs).Delete(&domain.KeywordAssignment{})
	if res.Error != nil {
		return 0, MapError("keyword_assignment.delete_by_keywords", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *keywordAssignmentRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := use(dbc, r.db).Model(&domain.KeywordAssignment{}).Count(&n).Error; err != nil {
		return 0, MapError("keyword_assignment.count", err)
	}
	return n, nil
}
