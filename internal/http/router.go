package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/seoplanner-backend/internal/http/handlers"
	httpMW "github.com/yungbote/seoplanner-backend/internal/http/middleware"
	"github.com/yungbote/seoplanner-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string

	HealthHandler    *httpH.HealthHandler
	KeywordHandler   *httpH.KeywordHandler
	IntentHandler    *httpH.IntentHandler
	ClusterHandler   *httpH.ClusterHandler
	StructureHandler *httpH.StructureHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "seoplanner"
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Keywords
		if cfg.KeywordHandler != nil {
			api.POST("/keywords/import", cfg.KeywordHandler.Import)
			api.GET("/keywords", cfg.KeywordHandler.List)
			api.POST("/keywords/discard", cfg.KeywordHandler.Discard)
			api.POST("/keywords/restore", cfg.KeywordHandler.Restore)
			api.DELETE("/keywords/:id", cfg.KeywordHandler.Delete)
		}

		// Intent tools
		if cfg.IntentHandler != nil {
			api.POST("/intent/classify", cfg.IntentHandler.Classify)
			api.POST("/intent/group", cfg.IntentHandler.Group)
			api.POST("/intent/name", cfg.IntentHandler.Name)
			api.POST("/intent/score", cfg.IntentHandler.Score)
			api.POST("/sitemap/match", cfg.IntentHandler.MatchSitemap)
		}

		// Clusters
		if cfg.ClusterHandler != nil {
			api.GET("/clusters", cfg.ClusterHandler.List)
			api.POST("/clusters", cfg.ClusterHandler.Create)
			api.POST("/clusters/auto", cfg.ClusterHandler.CreateFromIntentGroups)
			api.POST("/clusters/recompute", cfg.ClusterHandler.Recompute)
			api.POST("/clusters/relations", cfg.ClusterHandler.RecordRelations)
			api.DELETE("/clusters/:id", cfg.ClusterHandler.Delete)
			api.PATCH("/clusters/:id/parent", cfg.ClusterHandler.SetParent)
		}

		// Model-backed analysis
		if cfg.StructureHandler != nil {
			api.POST("/analysis/semantic", cfg.StructureHandler.Semantic)
			api.POST("/structure/propose", cfg.StructureHandler.Propose)
			api.POST("/structure/apply", cfg.StructureHandler.Apply)
			api.POST("/structure/validate", cfg.StructureHandler.Validate)
		}
	}

	return r
}
