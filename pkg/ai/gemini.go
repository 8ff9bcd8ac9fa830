package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiClient generates plans with Google's Gemini models.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(apiKey, model string) (*GeminiClient, error) {
	if model == "" {
		model = defaultGeminiModel
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiClient) Name() string { return "Gemini" }

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	m := c.client.GenerativeModel(c.model)
	m.SetTemperature(0.7)

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", newProviderError(c.Name(), err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", newProviderError(c.Name(), ErrEmptyResponse)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		} else {
			fmt.Fprintf(&sb, "%v", part)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", newProviderError(c.Name(), ErrEmptyResponse)
	}
	return text, nil
}

func (c *GeminiClient) ClassifyError(err error) Reason {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		if reason, ok := classifyStatus(gErr.Code); ok {
			return reason
		}
	}
	return classifyCommon(err)
}

// Close closes the Gemini client
func (c *GeminiClient) Close() error {
	return c.client.Close()
}
