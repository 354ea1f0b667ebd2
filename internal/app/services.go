package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/seoplanner-backend/internal/modules/keywords/analysis"
	"github.com/yungbote/seoplanner-backend/internal/modules/keywords/intent"
	"github.com/yungbote/seoplanner-backend/internal/modules/keywords/reconcile"
	"github.com/yungbote/seoplanner-backend/internal/platform/logger"
	"github.com/yungbote/seoplanner-backend/internal/services"
)

type Services struct {
	Classifier   *intent.Classifier
	Orchestrator *analysis.Orchestrator
	Reconciler   *reconcile.Reconciler

	Keyword   services.KeywordService
	Cluster   services.ClusterService
	Analysis  services.AnalysisService
	Structure services.StructureService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients) Services {
	log.Info("Wiring services...")

	opts := []analysis.Option{analysis.WithPolicy(cfg.Analysis)}
	if clients.AnalysisCache != nil {
		opts = append(opts, analysis.WithCache(clients.AnalysisCache))
	}
	orchestrator := analysis.NewOrchestrator(log, services.NewLLMGenerator(clients.OpenAI), opts...)

	reconciler := reconcile.New(reconcile.Deps{
		Log:         log,
		Keywords:    repos.Keyword,
		Silos:       repos.Silo,
		Categories:  repos.Category,
		Pages:       repos.Page,
		Assignments: repos.KeywordAssignment,
	})

	return Services{
		Classifier:   intent.NewClassifier(nil),
		Orchestrator: orchestrator,
		Reconciler:   reconciler,
		Keyword:      services.NewKeywordService(db, log, repos.Keyword),
		Cluster:      services.NewClusterService(db, log, repos.Keyword, repos.Cluster, repos.ClusterRelation, clients.ClusterGraph),
		Analysis:     services.NewAnalysisService(log, orchestrator),
		Structure:    services.NewStructureService(log, repos.Keyword, repos.Silo, reconciler, orchestrator, cfg.UnreferencedPolicy),
	}
}
