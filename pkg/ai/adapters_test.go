package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCortexGenerate(t *testing.T) {
	var gotAuth, gotPath string
	var gotReq cortexRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  A cozy night out.\n- Dinner\n"}}]}`))
	}))
	defer srv.Close()

	c := NewCortexClient(srv.URL+"/", "pat-123", "")
	text, err := c.Generate(context.Background(), "plan it")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "A cozy night out.\n- Dinner" {
		t.Fatalf("text: got=%q", text)
	}
	if gotAuth != "Bearer pat-123" {
		t.Fatalf("auth: got=%q", gotAuth)
	}
	if gotPath != cortexCompletePath {
		t.Fatalf("path: want=%q got=%q", cortexCompletePath, gotPath)
	}
	if gotReq.Model != defaultCortexModel || len(gotReq.Messages) != 1 || gotReq.Messages[0].Content != "plan it" {
		t.Fatalf("unexpected request: %+v", gotReq)
	}
}

func TestCortexGenerateStatusErrors(t *testing.T) {
	cases := []struct {
		status int
		want   Reason
	}{
		{http.StatusUnauthorized, ReasonInvalidCredentials},
		{http.StatusForbidden, ReasonInsufficientPermission},
		{http.StatusTooManyRequests, ReasonQuotaExceeded},
		{http.StatusBadGateway, ReasonUnavailable},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte(`{"message":"nope"}`))
		}))
		c := NewCortexClient(srv.URL, "pat", "")
		_, err := c.Generate(context.Background(), "x")
		srv.Close()
		if err == nil {
			t.Fatalf("status %d: expected error", tc.status)
		}
		var perr *ProviderError
		if !errors.As(err, &perr) {
			t.Fatalf("status %d: expected *ProviderError, got=%T", tc.status, err)
		}
		if got := c.ClassifyError(err); got != tc.want {
			t.Fatalf("status %d: want=%q got=%q", tc.status, tc.want, got)
		}
	}
}

func TestCortexGenerateEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"   "}}]}`))
	}))
	defer srv.Close()

	c := NewCortexClient(srv.URL, "pat", "")
	_, err := c.Generate(context.Background(), "x")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got=%v", err)
	}
	if got := c.ClassifyError(err); got != ReasonEmptyResponse {
		t.Fatalf("want=%q got=%q", ReasonEmptyResponse, got)
	}
}

func TestOpenAIGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Have fun tonight."},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("sk-test", "", srv.URL+"/v1")
	text, err := c.Generate(context.Background(), "plan it")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "Have fun tonight." {
		t.Fatalf("text: got=%q", text)
	}
}

func TestOpenAIGenerateRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("sk-test", "", srv.URL+"/v1")
	_, err := c.Generate(context.Background(), "plan it")
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := c.ClassifyError(err); got != ReasonQuotaExceeded {
		t.Fatalf("want=%q got=%q", ReasonQuotaExceeded, got)
	}
}
