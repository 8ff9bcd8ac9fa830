package ai

import (
	"context"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenAIModel = openai.GPT4oMini

// OpenAIClient generates plans through the chat-completion API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIClient(apiKey, model, baseURL string) *OpenAIClient {
	if model == "" {
		model = defaultOpenAIModel
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (c *OpenAIClient) Name() string { return "OpenAI" }

func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", newProviderError(c.Name(), err)
	}
	if len(resp.Choices) == 0 {
		return "", newProviderError(c.Name(), ErrEmptyResponse)
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", newProviderError(c.Name(), ErrEmptyResponse)
	}
	return text, nil
}

func (c *OpenAIClient) ClassifyError(err error) Reason {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if reason, ok := classifyStatus(apiErr.HTTPStatusCode); ok {
			return reason
		}
		if code, ok := apiErr.Code.(string); ok {
			switch code {
			case "invalid_api_key":
				return ReasonInvalidCredentials
			case "insufficient_quota", "rate_limit_exceeded":
				return ReasonQuotaExceeded
			}
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reason, ok := classifyStatus(reqErr.HTTPStatusCode); ok {
			return reason
		}
	}
	return classifyCommon(err)
}
