package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/yungbote/seoplanner-backend/internal/platform/httpx"
	"github.com/yungbote/seoplanner-backend/internal/platform/logger"
)

const okReply = `{"output":[{"type":"message","role":"assistant","content":[{"type":"output_text","text":"{\"clusters\":[]}"}]}],"usage":{"input_tokens":10,"output_tokens":4}}`

func newTestClient(t *testing.T, url string, temp *float64) Client {
	t.Helper()
	c, err := NewClient(logger.Nop(), Config{APIKey: "test-key", BaseURL: url, Model: "test-model", Temperature: temp})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestGenerateTextSendsJSONFormat(t *testing.T) {
	var got responsesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/responses" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		_, _ = w.Write([]byte(okReply))
	}))
	defer srv.Close()

	temp := 0.3
	out, err := newTestClient(t, srv.URL, nil).GenerateText(context.Background(), "sys", "user", GenerateOptions{Temperature: &temp, MaxOutputTokens: 100, JSON: true})
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if out != `{"clusters":[]}` {
		t.Fatalf("unexpected output %q", out)
	}
	if got.Model != "test-model" || len(got.Input) != 2 || got.Input[1].Content != "user" {
		t.Fatalf("unexpected request %+v", got)
	}
	if got.Text.Format["type"] != "json_object" {
		t.Fatalf("expected json_object format, got %v", got.Text.Format)
	}
	if got.Temperature == nil || *got.Temperature != 0.3 || got.MaxOutputTokens != 100 {
		t.Fatalf("unexpected sampling params %+v", got)
	}
}

func TestGenerateTextDropsRejectedTemperature(t *testing.T) {
	var calls int32
	var lastHadTemp atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		var req responsesRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		lastHadTemp.Store(req.Temperature != nil)
		if req.Temperature != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"message":"Unsupported parameter: 'temperature' is not supported with this model."}}`))
			return
		}
		_, _ = w.Write([]byte(okReply))
	}))
	defer srv.Close()

	temp := 0.2
	c := newTestClient(t, srv.URL, &temp)
	if _, err := c.GenerateText(context.Background(), "", "hola", GenerateOptions{}); err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if atomic.LoadInt32(&calls) != 2 || lastHadTemp.Load() {
		t.Fatalf("expected one retry without temperature, calls=%d", calls)
	}
	if _, err := c.GenerateText(context.Background(), "", "hola", GenerateOptions{}); err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Fatalf("expected the model to be remembered, calls=%d", calls)
	}
}

func TestGenerateTextSurfacesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`rate limited`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, nil).GenerateText(context.Background(), "", "hola", GenerateOptions{})
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.HTTPStatusCode() != http.StatusTooManyRequests {
		t.Fatalf("expected 429 HTTPError, got %v", err)
	}
	if !httpx.IsRetryableError(err) {
		t.Fatalf("429 should be retryable")
	}
}

func TestGenerateTextEmptyOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"output":[]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, nil).GenerateText(context.Background(), "", "hola", GenerateOptions{})
	if err == nil || !strings.Contains(err.Error(), "no output_text") {
		t.Fatalf("expected empty output error, got %v", err)
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(logger.Nop(), Config{}); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}
