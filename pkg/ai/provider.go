package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Provider is one external text-generation backend.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
	ClassifyError(err error) Reason
}

type Kind string

const (
	KindCortex Kind = "cortex"
	KindOpenAI Kind = "openai"
	KindGemini Kind = "gemini"
)

// Config describes one entry of the provider chain.
type Config struct {
	Kind    Kind
	APIKey  string
	Model   string
	BaseURL string
}

func (c Config) HasCredentials() bool {
	if strings.TrimSpace(c.APIKey) == "" {
		return false
	}
	// cortex needs the account endpoint as well as the token
	if c.Kind == KindCortex && strings.TrimSpace(c.BaseURL) == "" {
		return false
	}
	return true
}

// NewProvider builds the adapter for a single config entry.
func NewProvider(cfg Config) (Provider, error) {
	switch Kind(strings.ToLower(string(cfg.Kind))) {
	case KindCortex:
		return NewCortexClient(cfg.BaseURL, cfg.APIKey, cfg.Model), nil
	case KindOpenAI:
		return NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	case KindGemini:
		client, err := NewGeminiClient(cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Kind)
	}
}

// NewChain builds adapters for every config that carries credentials,
// preserving the given priority order.
func NewChain(cfgs []Config) ([]Provider, error) {
	providers := make([]Provider, 0, len(cfgs))
	for _, cfg := range cfgs {
		if !cfg.HasCredentials() {
			continue
		}
		p, err := NewProvider(cfg)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return providers, nil
}

// Reason is the normalized category of a failed provider attempt.
type Reason string

const (
	ReasonInvalidCredentials     Reason = "invalid_credentials"
	ReasonInsufficientPermission Reason = "insufficient_permission"
	ReasonQuotaExceeded          Reason = "quota_exceeded"
	ReasonUnavailable            Reason = "unavailable"
	ReasonEmptyResponse          Reason = "empty_response"
)

var (
	ErrProviderAuth        = errors.New("provider authentication failed")
	ErrProviderQuota       = errors.New("provider quota exceeded")
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrEmptyResponse       = errors.New("provider returned an empty response")
)

// ProviderError wraps the raw cause of a failed Generate call.
// Reason is filled in by the pipeline once the adapter has classified it.
type ProviderError struct {
	Provider string
	Reason   Reason
	Err      error
}

func (e *ProviderError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", strings.ToLower(e.Provider), e.Err)
	}
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", strings.ToLower(e.Provider), e.Reason)
	}
	return strings.ToLower(e.Provider) + ": provider error"
}

func (e *ProviderError) Unwrap() error { return e.Err }

func (e *ProviderError) Is(target error) bool {
	switch target {
	case ErrProviderAuth:
		return e.Reason == ReasonInvalidCredentials || e.Reason == ReasonInsufficientPermission
	case ErrProviderQuota:
		return e.Reason == ReasonQuotaExceeded
	case ErrProviderUnavailable:
		return e.Reason == ReasonUnavailable
	case ErrEmptyResponse:
		return e.Reason == ReasonEmptyResponse
	}
	return false
}

func newProviderError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Err: err}
}

// DescribeReason renders a short human-readable annotation for the fallback text.
func DescribeReason(provider string, reason Reason) string {
	switch reason {
	case ReasonInvalidCredentials:
		return fmt.Sprintf("invalid %s API key", provider)
	case ReasonInsufficientPermission:
		return fmt.Sprintf("insufficient %s permissions", provider)
	case ReasonQuotaExceeded:
		return fmt.Sprintf("%s quota exceeded", provider)
	case ReasonEmptyResponse:
		return fmt.Sprintf("%s empty response", provider)
	default:
		return fmt.Sprintf("%s unavailable", provider)
	}
}
