package db

import (
	"gorm.io/gorm"

	"github.com/yungbote/seoplanner-backend/internal/domain/seo"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		// =========================
		// Keyword inventory
		// =========================
		&seo.Keyword{},
		&seo.Cluster{},
		&seo.ClusterRelation{},

		// =========================
		// Site architecture (silo -> category -> page)
		// =========================
		&seo.Silo{},
		&seo.Category{},
		&seo.Page{},
		&seo.KeywordAssignment{},
	); err != nil {
		return err
	}
	return backfillTextKeys(db)
}

// backfillTextKeys fills match keys on rows written before the key columns existed.
func backfillTextKeys(db *gorm.DB) error {
	var keywords []seo.Keyword
	if err := db.Select("id", "text").Where("text_key = ''").Find(&keywords).Error; err != nil {
		return err
	}
	for _, k := range keywords {
		if err := db.Model(&seo.Keyword{}).Where("id = ?", k.ID).
			UpdateColumn("text_key", seo.TextKey(k.Text)).Error; err != nil {
			return err
		}
	}
	var pages []seo.Page
	if err := db.Select("id", "main_keyword").Where("main_keyword_key = ''").Find(&pages).Error; err != nil {
		return err
	}
	for _, p := range pages {
		if err := db.Model(&seo.Page{}).Where("id = ?", p.ID).
			UpdateColumn("main_keyword_key", seo.TextKey(p.MainKeyword)).Error; err != nil {
			return err
		}
	}
	return nil
}
