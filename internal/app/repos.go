package app

import (
	"gorm.io/gorm"

	seorepo "github.com/yungbote/seoplanner-backend/internal/data/repos/seo"
	"github.com/yungbote/seoplanner-backend/internal/platform/logger"
)

type Repos struct {
	Keyword           seorepo.KeywordRepo
	Cluster           seorepo.ClusterRepo
	ClusterRelation   seorepo.ClusterRelationRepo
	Silo              seorepo.SiloRepo
	Category          seorepo.CategoryRepo
	Page              seorepo.PageRepo
	KeywordAssignment seorepo.KeywordAssignmentRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Keyword:           seorepo.NewKeywordRepo(db, log),
		Cluster:           seorepo.NewClusterRepo(db, log),
		ClusterRelation:   seorepo.NewClusterRelationRepo(db, log),
		Silo:              seorepo.NewSiloRepo(db, log),
		Category:          seorepo.NewCategoryRepo(db, log),
		Page:              seorepo.NewPageRepo(db, log),
		KeywordAssignment: seorepo.NewKeywordAssignmentRepo(db, log),
	}
}
