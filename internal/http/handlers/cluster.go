package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/seoplanner-backend/internal/http/response"
	"github.com/yungbote/seoplanner-backend/internal/services"
)

type ClusterHandler struct {
	clusters services.ClusterService
}

func NewClusterHandler(clusters services.ClusterService) *ClusterHandler {
	return &ClusterHandler{clusters: clusters}
}

// GET /api/clusters
func (h *ClusterHandler) List(c *gin.Context) {
	out, err := h.clusters.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"clusters": out, "count": len(out)})
}

// POST /api/clusters
func (h *ClusterHandler) Create(c *gin.Context) {
	var req services.ManualClusterInput
	if !bindJSON(c, &req) {
		return
	}
	cl, err := h.clusters.CreateManual(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondStatus(c, http.StatusCreated, gin.H{"cluster": cl})
}

type autoClusterRequest struct {
	KeywordIDs []uuid.UUID `json:"keyword_ids"`
}

// POST /api/clusters/auto
func (h *ClusterHandler) CreateFromIntentGroups(c *gin.Context) {
	var req autoClusterRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	out, err := h.clusters.CreateFromIntentGroups(c.Request.Context(), req.KeywordIDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondStatus(c, http.StatusCreated, gin.H{"clusters": out, "count": len(out)})
}

// DELETE /api/clusters/:id?confirm=true
func (h *ClusterHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_cluster_id", err)
		return
	}
	confirm, _ := strconv.ParseBool(c.DefaultQuery("confirm", "false"))
	if err := h.clusters.Delete(c.Request.Context(), id, confirm); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": id})
}

type setParentRequest struct {
	ParentClusterID *uuid.UUID `json:"parent_cluster_id"`
}

// PATCH /api/clusters/:id/parent
func (h *ClusterHandler) SetParent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_cluster_id", err)
		return
	}
	var req setParentRequest
	if !bindJSON(c, &req) {
		return
	}
	cl, err := h.clusters.SetParent(c.Request.Context(), id, req.ParentClusterID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"cluster": cl})
}

type recomputeRequest struct {
	ClusterIDs []uuid.UUID `json:"cluster_ids"`
}

// POST /api/clusters/recompute
func (h *ClusterHandler) Recompute(c *gin.Context) {
	var req recomputeRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	out, err := h.clusters.Recompute(c.Request.Context(), req.ClusterIDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"clusters": out, "count": len(out)})
}

type relationsRequest struct {
	Relations []services.RelationInput `json:"relations"`
}

// POST /api/clusters/relations
func (h *ClusterHandler) RecordRelations(c *gin.Context) {
	var req relationsRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.clusters.RecordRelations(c.Request.Context(), req.Relations)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"relations": out})
}
