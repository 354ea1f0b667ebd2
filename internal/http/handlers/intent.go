package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/seoplanner-backend/internal/domain/seo"
	"github.com/yungbote/seoplanner-backend/internal/http/response"
	"github.com/yungbote/seoplanner-backend/internal/modules/keywords/intent"
	"github.com/yungbote/seoplanner-backend/internal/modules/keywords/naming"
	"github.com/yungbote/seoplanner-backend/internal/modules/keywords/priority"
	"github.com/yungbote/seoplanner-backend/internal/modules/keywords/sitemap"
)

// IntentHandler serves the store-free keyword tools.
type IntentHandler struct {
	classifier *intent.Classifier
}

func NewIntentHandler(classifier *intent.Classifier) *IntentHandler {
	if classifier == nil {
		classifier = intent.NewClassifier(nil)
	}
	return &IntentHandler{classifier: classifier}
}

type classifyRequest struct {
	Keyword  string   `json:"keyword"`
	Keywords []string `json:"keywords"`
}

type classifiedKeyword struct {
	Keyword string `json:"keyword"`
	intent.Result
}

// POST /api/intent/classify
func (h *IntentHandler) Classify(c *gin.Context) {
	var req classifyRequest
	if !bindJSON(c, &req) {
		return
	}
	texts := req.Keywords
	if strings.TrimSpace(req.Keyword) != "" {
		texts = append([]string{req.Keyword}, texts...)
	}
	if len(texts) == 0 {
		response.RespondError(c, http.StatusBadRequest, "missing_keywords", errors.New("keyword or keywords required"))
		return
	}
	out := make([]classifiedKeyword, 0, len(texts))
	for _, t := range texts {
		out = append(out, classifiedKeyword{Keyword: t, Result: h.classifier.Classify(t)})
	}
	response.RespondOK(c, gin.H{"results": out})
}

type groupRequest struct {
	Keywords []seo.KeywordRef `json:"keywords"`
	Texts    []string         `json:"texts"`
}

// POST /api/intent/group
func (h *IntentHandler) Group(c *gin.Context) {
	var req groupRequest
	if !bindJSON(c, &req) {
		return
	}
	refs := req.Keywords
	for _, t := range req.Texts {
		refs = append(refs, seo.KeywordRef{Text: t})
	}
	groups := h.classifier.Group(refs)
	response.RespondOK(c, gin.H{"groups": groups})
}

type nameRequest struct {
	Keywords []string `json:"keywords"`
}

// POST /api/intent/name
func (h *IntentHandler) Name(c *gin.Context) {
	var req nameRequest
	if !bindJSON(c, &req) {
		return
	}
	response.RespondOK(c, gin.H{"name": naming.Name(req.Keywords)})
}

type scoreRequest struct {
	SearchVolumeTotal int  `json:"search_volume_total"`
	Difficulty        *int `json:"difficulty"`
	KeywordCount      int  `json:"keyword_count"`
}

// POST /api/intent/score
func (h *IntentHandler) Score(c *gin.Context) {
	var req scoreRequest
	if !bindJSON(c, &req) {
		return
	}
	score := priority.Score(priority.Input{
		SearchVolumeTotal: req.SearchVolumeTotal,
		Difficulty:        req.Difficulty,
		KeywordCount:      req.KeywordCount,
	})
	response.RespondOK(c, gin.H{"priority_score": score})
}

type matchRequest struct {
	Name   string `json:"name"`
	Intent string `json:"intent"`
}

// POST /api/sitemap/match
func (h *IntentHandler) MatchSitemap(c *gin.Context) {
	var req matchRequest
	if !bindJSON(c, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_name", errors.New("name required"))
		return
	}
	d := sitemap.Match(req.Name, seo.ParseIntent(req.Intent))
	response.RespondOK(c, gin.H{"action": d.Action, "url": d.URL, "protected": d.Protected})
}
