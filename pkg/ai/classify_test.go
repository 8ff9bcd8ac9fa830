package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/api/googleapi"
)

func TestClassifyMessage(t *testing.T) {
	cases := []struct {
		msg  string
		want Reason
	}{
		{"googleapi: Error 429: RESOURCE_EXHAUSTED", ReasonQuotaExceeded},
		{"rpc error: code = ResourceExhausted desc = quota", ReasonQuotaExceeded},
		{"quota", ReasonQuotaExceeded},
		{"Rate limit reached for requests", ReasonQuotaExceeded},
		{"API key not valid. Please pass a valid API key.", ReasonInvalidCredentials},
		{"rpc error: code = Unauthenticated", ReasonInvalidCredentials},
		{"PERMISSION_DENIED: caller lacks access", ReasonInsufficientPermission},
		{"dial tcp: connection refused", ReasonUnavailable},
		{"", ReasonUnavailable},
	}
	for _, tc := range cases {
		if got := classifyMessage(tc.msg); got != tc.want {
			t.Fatalf("classifyMessage(%q): want=%q got=%q", tc.msg, tc.want, got)
		}
	}
}

func TestClassifyCommonSpecialCases(t *testing.T) {
	if got := classifyCommon(newProviderError("Cortex", ErrEmptyResponse)); got != ReasonEmptyResponse {
		t.Fatalf("empty: want=%q got=%q", ReasonEmptyResponse, got)
	}
	deadline := fmt.Errorf("post: %w", context.DeadlineExceeded)
	if got := classifyCommon(deadline); got != ReasonUnavailable {
		t.Fatalf("deadline: want=%q got=%q", ReasonUnavailable, got)
	}
	status := newProviderError("Cortex", &httpStatusError{StatusCode: 403, Body: "{}"})
	if got := classifyCommon(status); got != ReasonInsufficientPermission {
		t.Fatalf("status: want=%q got=%q", ReasonInsufficientPermission, got)
	}
}

func TestOpenAIClassifyError(t *testing.T) {
	c := NewOpenAIClient("sk-test", "", "")
	cases := []struct {
		name string
		err  error
		want Reason
	}{
		{"401", &openai.APIError{HTTPStatusCode: 401, Message: "bad key"}, ReasonInvalidCredentials},
		{"429", &openai.APIError{HTTPStatusCode: 429, Message: "slow down"}, ReasonQuotaExceeded},
		{"code", &openai.APIError{HTTPStatusCode: 400, Code: "insufficient_quota"}, ReasonQuotaExceeded},
		{"request", &openai.RequestError{HTTPStatusCode: 403, Err: errors.New("nope")}, ReasonInsufficientPermission},
		{"other", errors.New("boom"), ReasonUnavailable},
	}
	for _, tc := range cases {
		if got := c.ClassifyError(newProviderError(c.Name(), tc.err)); got != tc.want {
			t.Fatalf("%s: want=%q got=%q", tc.name, tc.want, got)
		}
	}
}

func TestGeminiClassifyError(t *testing.T) {
	c := &GeminiClient{model: defaultGeminiModel}
	err := newProviderError(c.Name(), &googleapi.Error{Code: 429, Message: "exhausted"})
	if got := c.ClassifyError(err); got != ReasonQuotaExceeded {
		t.Fatalf("want=%q got=%q", ReasonQuotaExceeded, got)
	}
	err = newProviderError(c.Name(), errors.New("API key not valid"))
	if got := c.ClassifyError(err); got != ReasonInvalidCredentials {
		t.Fatalf("want=%q got=%q", ReasonInvalidCredentials, got)
	}
}

func TestProviderErrorIs(t *testing.T) {
	err := &ProviderError{Provider: "Gemini", Reason: ReasonQuotaExceeded, Err: errors.New("429")}
	if !errors.Is(err, ErrProviderQuota) {
		t.Fatalf("expected ErrProviderQuota match")
	}
	if errors.Is(err, ErrProviderAuth) {
		t.Fatalf("unexpected ErrProviderAuth match")
	}
	perm := &ProviderError{Provider: "Gemini", Reason: ReasonInsufficientPermission}
	if !errors.Is(perm, ErrProviderAuth) {
		t.Fatalf("permission errors should match ErrProviderAuth")
	}
}

func TestDescribeReason(t *testing.T) {
	cases := map[Reason]string{
		ReasonQuotaExceeded:          "Gemini quota exceeded",
		ReasonInvalidCredentials:     "invalid Gemini API key",
		ReasonInsufficientPermission: "insufficient Gemini permissions",
		ReasonEmptyResponse:          "Gemini empty response",
		ReasonUnavailable:            "Gemini unavailable",
	}
	for reason, want := range cases {
		if got := DescribeReason("Gemini", reason); got != want {
			t.Fatalf("DescribeReason(%q): want=%q got=%q", reason, want, got)
		}
	}
}

func TestNewChainSkipsMissingCredentials(t *testing.T) {
	chain, err := NewChain([]Config{
		{Kind: KindCortex, APIKey: "pat"}, // no account url
		{Kind: KindOpenAI, APIKey: ""},
		{Kind: KindOpenAI, APIKey: "sk-test"},
	})
	if err != nil {
		t.Fatalf("NewChain: %v", err)
	}
	if len(chain) != 1 {
		t.Fatalf("len: want=1 got=%d", len(chain))
	}
	if chain[0].Name() != "OpenAI" {
		t.Fatalf("name: want=OpenAI got=%s", chain[0].Name())
	}
}

func TestNewProviderUnknownKind(t *testing.T) {
	if _, err := NewProvider(Config{Kind: "llama", APIKey: "x"}); err == nil {
		t.Fatalf("expected error for unsupported kind")
	}
}
