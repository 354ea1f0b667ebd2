package app

import (
	"github.com/yungbote/seoplanner-backend/internal/http"
	"github.com/yungbote/seoplanner-backend/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg Config, handlers Handlers) *http.Server {
	log.Info("Wiring router...")
	return http.NewServer(http.RouterConfig{
		Log:              log,
		ServiceName:      cfg.Otel.ServiceName,
		CORSOrigins:      cfg.CORSOrigins,
		HealthHandler:    handlers.Health,
		KeywordHandler:   handlers.Keyword,
		IntentHandler:    handlers.Intent,
		ClusterHandler:   handlers.Cluster,
		StructureHandler: handlers.Structure,
	})
}
