package app

import (
	"gorm.io/gorm"

	httpH "github.com/yungbote/seoplanner-backend/internal/http/handlers"
	"github.com/yungbote/seoplanner-backend/internal/platform/logger"
)

type Handlers struct {
	Health    *httpH.HealthHandler
	Keyword   *httpH.KeywordHandler
	Intent    *httpH.IntentHandler
	Cluster   *httpH.ClusterHandler
	Structure *httpH.StructureHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:    httpH.NewHealthHandler(db),
		Keyword:   httpH.NewKeywordHandler(services.Keyword),
		Intent:    httpH.NewIntentHandler(services.Classifier),
		Cluster:   httpH.NewClusterHandler(services.Cluster),
		Structure: httpH.NewStructureHandler(services.Analysis, services.Structure),
	}
}
