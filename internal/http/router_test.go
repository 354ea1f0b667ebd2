package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	seorepo "github.com/yungbote/seoplanner-backend/internal/data/repos/seo"
	"github.com/yungbote/seoplanner-backend/internal/data/repos/testutil"
	httpH "github.com/yungbote/seoplanner-backend/internal/http/handlers"
	"github.com/yungbote/seoplanner-backend/internal/modules/keywords/analysis"
	"github.com/yungbote/seoplanner-backend/internal/modules/keywords/intent"
	"github.com/yungbote/seoplanner-backend/internal/modules/keywords/reconcile"
	"github.com/yungbote/seoplanner-backend/internal/services"
)

func testRouter(t *testing.T, gen analysis.Generator) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	log := testutil.Logger(t)

	keywords := seorepo.NewKeywordRepo(db, log)
	silos := seorepo.NewSiloRepo(db, log)
	rec := reconcile.New(reconcile.Deps{
		Log:         log,
		Keywords:    keywords,
		Silos:       silos,
		Categories:  seorepo.NewCategoryRepo(db, log),
		Pages:       seorepo.NewPageRepo(db, log),
		Assignments: seorepo.NewKeywordAssignmentRepo(db, log),
	})
	orch := analysis.NewOrchestrator(log, gen, analysis.WithSleep(func(context.Context, time.Duration) error { return nil }))

	r := NewRouter(RouterConfig{
		Log:              log,
		HealthHandler:    httpH.NewHealthHandler(db),
		KeywordHandler:   httpH.NewKeywordHandler(services.NewKeywordService(db, log, keywords)),
		IntentHandler:    httpH.NewIntentHandler(intent.NewClassifier(nil)),
		ClusterHandler:   httpH.NewClusterHandler(services.NewClusterService(db, log, keywords, seorepo.NewClusterRepo(db, log), seorepo.NewClusterRelationRepo(db, log), nil)),
		StructureHandler: httpH.NewStructureHandler(services.NewAnalysisService(log, orch), services.NewStructureService(log, keywords, silos, rec, orch, reconcile.PolicyDiscard)),
	})
	return r, db
}

func do(t *testing.T, r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	out := map[string]any{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode %s %s: %v body=%s", method, path, err, rec.Body.String())
		}
	}
	return rec, out
}

func TestHealthcheck(t *testing.T) {
	r, _ := testRouter(t, nil)
	rec, out := do(t, r, http.MethodGet, "/healthcheck", nil)
	if rec.Code != http.StatusOK || out["success"] != true {
		t.Fatalf("status=%d body=%v", rec.Code, out)
	}
}

func TestClassifyAndMatch(t *testing.T) {
	r, _ := testRouter(t, nil)

	rec, out := do(t, r, http.MethodPost, "/api/intent/classify", map[string]any{"keywords": []string{"comprar zapatillas running"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%v", rec.Code, out)
	}
	results := out["results"].([]any)
	if got := results[0].(map[string]any)["intent"]; got != "transactional" {
		t.Fatalf("unexpected intent %v", got)
	}

	rec, out = do(t, r, http.MethodPost, "/api/sitemap/match", map[string]any{"name": "SEO Local", "intent": "informational"})
	if rec.Code != http.StatusOK || out["url"] != "/servicios/seo/local/" || out["action"] != "update" {
		t.Fatalf("status=%d body=%v", rec.Code, out)
	}

	rec, out = do(t, r, http.MethodPost, "/api/intent/classify", map[string]any{})
	if rec.Code != http.StatusBadRequest || out["error"] == nil {
		t.Fatalf("status=%d body=%v", rec.Code, out)
	}
}

func TestKeywordAndClusterFlow(t *testing.T) {
	r, _ := testRouter(t, nil)

	rec, out := do(t, r, http.MethodPost, "/api/keywords/import", map[string]any{
		"keywords": []map[string]any{
			{"text": "seo local madrid", "search_volume": 300},
			{"text": "SEO local madrid", "search_volume": 10},
			{"text": "agencia seo local", "search_volume": 200},
		},
	})
	if rec.Code != http.StatusCreated || out["imported"].(float64) != 2 || out["duplicates"].(float64) != 1 {
		t.Fatalf("status=%d body=%v", rec.Code, out)
	}

	rec, out = do(t, r, http.MethodPost, "/api/clusters/auto", nil)
	if rec.Code != http.StatusCreated || out["count"].(float64) < 1 {
		t.Fatalf("status=%d body=%v", rec.Code, out)
	}

	rec, out = do(t, r, http.MethodGet, "/api/keywords?status=clustered", nil)
	if rec.Code != http.StatusOK || out["count"].(float64) != 2 {
		t.Fatalf("status=%d body=%v", rec.Code, out)
	}

	rec, out = do(t, r, http.MethodGet, "/api/keywords?status=archived", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%v", rec.Code, out)
	}

	rec, _ = do(t, r, http.MethodDelete, "/api/clusters/not-a-uuid", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", rec.Code)
	}
}

func TestProtectedClusterDeleteNeedsConfirm(t *testing.T) {
	r, _ := testRouter(t, nil)
	_, out := do(t, r, http.MethodPost, "/api/keywords/import", map[string]any{
		"keywords": []map[string]any{{"text": "seo local madrid"}},
	})
	id := out["keywords"].([]any)[0].(map[string]any)["id"].(string)

	rec, out := do(t, r, http.MethodPost, "/api/clusters", map[string]any{"name": "SEO Local", "keyword_ids": []string{id}})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%v", rec.Code, out)
	}
	clusterID := out["cluster"].(map[string]any)["id"].(string)

	rec, out = do(t, r, http.MethodDelete, "/api/clusters/"+clusterID, nil)
	if rec.Code != http.StatusPreconditionRequired || out["code"] != "confirmation_required" {
		t.Fatalf("status=%d body=%v", rec.Code, out)
	}
	rec, out = do(t, r, http.MethodDelete, "/api/clusters/"+clusterID+"?confirm=true", nil)
	if rec.Code != http.StatusOK || out["success"] != true {
		t.Fatalf("status=%d body=%v", rec.Code, out)
	}
}

func TestAnalysisWithoutModel(t *testing.T) {
	r, _ := testRouter(t, nil)
	rec, out := do(t, r, http.MethodPost, "/api/structure/propose", map[string]any{"keywords": []string{"seo local"}})
	if rec.Code != http.StatusServiceUnavailable || out["error"] == nil {
		t.Fatalf("status=%d body=%v", rec.Code, out)
	}
}

func TestSemanticAnalysis(t *testing.T) {
	gen := analysis.GeneratorFunc(func(context.Context, string, analysis.GenerateConfig) (string, error) {
		return `{"duplicates":[],"clusters":[{"name":"SEO","keywords":["seo local"]}],"canibalizations":[],"intentions":{"seo local":"transactional"}}`, nil
	})
	r, _ := testRouter(t, gen)
	rec, out := do(t, r, http.MethodPost, "/api/analysis/semantic", map[string]any{"keywords": []string{"seo local"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%v", rec.Code, out)
	}
	res := out["result"].(map[string]any)
	if res["total_batches"].(float64) != 1 || res["failed_count"].(float64) != 0 {
		t.Fatalf("unexpected result %v", res)
	}
}

func TestApplyProposal(t *testing.T) {
	r, _ := testRouter(t, nil)
	do(t, r, http.MethodPost, "/api/keywords/import", map[string]any{
		"keywords": []map[string]any{{"text": "seo local"}, {"text": "recetas"}},
	})
	rec, out := do(t, r, http.MethodPost, "/api/structure/apply", map[string]any{
		"proposal": map[string]any{"silos": []any{map[string]any{
			"name": "SEO",
			"categories": []any{map[string]any{
				"name":  "Servicios",
				"pages": []any{map[string]any{"main_keyword": "seo local", "type": "service", "intent": "transactional"}},
			}},
		}}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%v", rec.Code, out)
	}
	res := out["result"].(map[string]any)
	if res["keywords_clustered"].(float64) != 1 || res["keywords_discarded"].(float64) != 1 {
		t.Fatalf("unexpected result %v", res)
	}
}
