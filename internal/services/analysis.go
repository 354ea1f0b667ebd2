package services

import (
	"context"
	"fmt"

	"github.com/yungbote/seoplanner-backend/internal/domain/seo"
	"github.com/yungbote/seoplanner-backend/internal/modules/keywords/analysis"
	"github.com/yungbote/seoplanner-backend/internal/platform/ctxutil"
	"github.com/yungbote/seoplanner-backend/internal/platform/logger"
)

type AnalysisService interface {
	Analyze(ctx context.Context, keywords []string) (*analysis.SemanticAnalysisResult, error)
}

type analysisService struct {
	log          *logger.Logger
	orchestrator *analysis.Orchestrator
}

func NewAnalysisService(log *logger.Logger, orchestrator *analysis.Orchestrator) AnalysisService {
	return &analysisService{log: log.With("service", "AnalysisService"), orchestrator: orchestrator}
}

func (s *analysisService) Analyze(ctx context.Context, keywords []string) (*analysis.SemanticAnalysisResult, error) {
	keywords = cleanTexts(keywords)
	if len(keywords) == 0 {
		return nil, fmt.Errorf("no keywords to analyze: %w", seo.ErrValidation)
	}
	res, err := s.orchestrator.Analyze(ctx, keywords)
	if err != nil {
		return res, err
	}
	if res.FailedCount > 0 {
		s.log.Warn("Semantic analysis finished with failed batches", append(ctxutil.LogFields(ctx),
			"total_batches", res.TotalBatches,
			"failed_batches", res.FailedBatches,
		)...)
	}
	return res, nil
}
