package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/seoplanner-backend/internal/http/response"
	"github.com/yungbote/seoplanner-backend/internal/services"
)

// StructureHandler serves the model-backed analysis and proposal endpoints.
type StructureHandler struct {
	analysis  services.AnalysisService
	structure services.StructureService
}

func NewStructureHandler(analysis services.AnalysisService, structure services.StructureService) *StructureHandler {
	return &StructureHandler{analysis: analysis, structure: structure}
}

type keywordsRequest struct {
	Keywords []string `json:"keywords"`
}

// POST /api/analysis/semantic
func (h *StructureHandler) Semantic(c *gin.Context) {
	var req keywordsRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.analysis.Analyze(c.Request.Context(), req.Keywords)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"result": res})
}

// POST /api/structure/propose
func (h *StructureHandler) Propose(c *gin.Context) {
	var req keywordsRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	p, err := h.structure.Propose(c.Request.Context(), req.Keywords)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"proposal": p})
}

// POST /api/structure/apply
func (h *StructureHandler) Apply(c *gin.Context) {
	var req services.ApplyProposalInput
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.structure.Apply(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"result": res, "errors": res.Errors})
}

type validateRequest struct {
	URLs []string `json:"urls"`
}

// POST /api/structure/validate
func (h *StructureHandler) Validate(c *gin.Context) {
	var req validateRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.structure.ValidateURLs(c.Request.Context(), req.URLs)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"urls": out.URLs, "validation": out.Validation})
}
