package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"datenite/pkg/ai"
)

type Config struct {
	Port        string `validate:"required,numeric"`
	Environment string `validate:"oneof=development production test"`
	BaseURL     string `validate:"required,url"`
	PostgresURL string `validate:"required"`

	EnableAI  bool
	AITimeout time.Duration `validate:"gt=0"`

	// Cortex
	SnowflakeAccountURL string `validate:"omitempty,url"`
	SnowflakePAT        string
	CortexModel         string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string `validate:"omitempty,url"`

	GeminiAPIKey string
	GeminiModel  string
}

var validate = validator.New()

// Load reads the environment, optionally seeded from a .env file, and
// validates the result.
func Load() (*Config, error) {
	// a missing .env is fine outside local development
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		BaseURL:     getEnv("BASE_URL", ""),
		PostgresURL: getEnv("POSTGRES_URL", ""),

		EnableAI:  getEnvBool("ENABLE_AI", true),
		AITimeout: getEnvDuration("AI_TIMEOUT", "30s"),

		SnowflakeAccountURL: getEnv("SNOWFLAKE_ACCOUNT_URL", ""),
		SnowflakePAT:        getEnv("SNOWFLAKE_PAT", ""),
		CortexModel:         getEnv("CORTEX_MODEL", ""),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", getEnv("GOOGLE_API_KEY", "")),
		GeminiModel:  getEnv("GEMINI_MODEL", ""),
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = fmt.Sprintf("http://localhost:%s", cfg.Port)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, ", "))
}

// ProviderConfigs returns the provider chain in priority order. Entries
// without credentials are kept; ai.NewChain skips them.
func (c *Config) ProviderConfigs() []ai.Config {
	return []ai.Config{
		{Kind: ai.KindCortex, APIKey: c.SnowflakePAT, Model: c.CortexModel, BaseURL: c.SnowflakeAccountURL},
		{Kind: ai.KindOpenAI, APIKey: c.OpenAIAPIKey, Model: c.OpenAIModel, BaseURL: c.OpenAIBaseURL},
		{Kind: ai.KindGemini, APIKey: c.GeminiAPIKey, Model: c.GeminiModel},
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvDuration(key, defaultValue string) time.Duration {
	value := getEnv(key, defaultValue)
	d, err := time.ParseDuration(value)
	if err != nil {
		// bare numbers are seconds
		if secs, convErr := strconv.Atoi(value); convErr == nil {
			return time.Duration(secs) * time.Second
		}
		d, _ = time.ParseDuration(defaultValue)
	}
	return d
}
