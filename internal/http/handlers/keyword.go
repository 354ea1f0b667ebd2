package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/seoplanner-backend/internal/domain/seo"
	"github.com/yungbote/seoplanner-backend/internal/http/response"
	"github.com/yungbote/seoplanner-backend/internal/services"
)

type KeywordHandler struct {
	keywords services.KeywordService
}

func NewKeywordHandler(keywords services.KeywordService) *KeywordHandler {
	return &KeywordHandler{keywords: keywords}
}

type importKeywordsRequest struct {
	Keywords   []services.KeywordImportRow `json:"keywords"`
	TopicTerms []string                    `json:"topic_terms"`
}

type keywordIDsRequest struct {
	IDs    []uuid.UUID `json:"ids"`
	Reason string      `json:"reason"`
}

// POST /api/keywords/import
func (h *KeywordHandler) Import(c *gin.Context) {
	var req importKeywordsRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.keywords.Import(c.Request.Context(), req.Keywords, services.ImportOptions{TopicTerms: req.TopicTerms})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondStatus(c, http.StatusCreated, gin.H{
		"imported":   res.Imported,
		"duplicates": res.Duplicates,
		"off_topic":  res.OffTopic,
		"keywords":   res.Keywords,
	})
}

// GET /api/keywords?status=pending,clustered
func (h *KeywordHandler) List(c *gin.Context) {
	var statuses []seo.KeywordStatus
	for _, raw := range strings.Split(c.Query("status"), ",") {
		raw = strings.ToLower(strings.TrimSpace(raw))
		if raw == "" {
			continue
		}
		st := seo.KeywordStatus(raw)
		if !st.Valid() {
			response.RespondError(c, http.StatusBadRequest, "invalid_status", fmt.Errorf("unknown status %q", raw))
			return
		}
		statuses = append(statuses, st)
	}
	kws, err := h.keywords.List(c.Request.Context(), statuses...)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"keywords": kws, "count": len(kws)})
}

// POST /api/keywords/discard
func (h *KeywordHandler) Discard(c *gin.Context) {
	var req keywordIDsRequest
	if !bindJSON(c, &req) {
		return
	}
	n, err := h.keywords.Discard(c.Request.Context(), req.IDs, req.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"updated": n})
}

// POST /api/keywords/restore
func (h *KeywordHandler) Restore(c *gin.Context) {
	var req keywordIDsRequest
	if !bindJSON(c, &req) {
		return
	}
	n, err := h.keywords.Restore(c.Request.Context(), req.IDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"updated": n})
}

// DELETE /api/keywords/:id
func (h *KeywordHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_keyword_id", err)
		return
	}
	n, err := h.keywords.SoftDelete(c.Request.Context(), []uuid.UUID{id})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if n == 0 {
		response.RespondError(c, http.StatusNotFound, "not_found", fmt.Errorf("keyword %s not found", id))
		return
	}
	response.RespondOK(c, gin.H{"deleted": id})
}
