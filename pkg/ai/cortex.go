package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	defaultCortexModel = "mistral-large2"
	cortexCompletePath = "/api/v2/cortex/inference:complete"
)

type httpStatusError struct {
	StatusCode int
	Body       string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Body)
}

// CortexClient calls the warehouse-hosted completion endpoint
// (Snowflake Cortex REST) with a programmatic access token.
type CortexClient struct {
	baseURL    string
	token      string
	model      string
	httpClient *http.Client
}

func NewCortexClient(accountURL, token, model string) *CortexClient {
	if model == "" {
		model = defaultCortexModel
	}
	return &CortexClient{
		baseURL:    strings.TrimRight(strings.TrimSpace(accountURL), "/"),
		token:      token,
		model:      model,
		httpClient: &http.Client{},
	}
}

func (c *CortexClient) Name() string { return "Cortex" }

type cortexMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type cortexRequest struct {
	Model    string          `json:"model"`
	Messages []cortexMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type cortexResponse struct {
	Choices []struct {
		Message  cortexMessage `json:"message"`
		Messages string        `json:"messages"`
	} `json:"choices"`
}

func (c *CortexClient) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(cortexRequest{
		Model:    c.model,
		Messages: []cortexMessage{{Role: "user", Content: prompt}},
		Stream:   false,
	})
	if err != nil {
		return "", newProviderError(c.Name(), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+cortexCompletePath, bytes.NewReader(body))
	if err != nil {
		return "", newProviderError(c.Name(), err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-Snowflake-Authorization-Token-Type", "PROGRAMMATIC_ACCESS_TOKEN")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", newProviderError(c.Name(), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", newProviderError(c.Name(), err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", newProviderError(c.Name(), &httpStatusError{StatusCode: resp.StatusCode, Body: string(raw)})
	}

	var out cortexResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", newProviderError(c.Name(), fmt.Errorf("decode cortex response: %w", err))
	}
	if len(out.Choices) == 0 {
		return "", newProviderError(c.Name(), ErrEmptyResponse)
	}
	text := out.Choices[0].Message.Content
	if text == "" {
		text = out.Choices[0].Messages
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", newProviderError(c.Name(), ErrEmptyResponse)
	}
	return text, nil
}

func (c *CortexClient) ClassifyError(err error) Reason {
	return classifyCommon(err)
}
