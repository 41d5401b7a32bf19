package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderGemini     = "gemini"
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config selects and configures a provider.
type Config struct {
	Provider string

	Gemini     GeminiConfig
	OpenAI     OpenAIConfig
	Anthropic  AnthropicConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds one logical request including retries.
	Timeout time.Duration
}

// GeminiConfig configures the Gemini provider. ImageModel is used for book
// covers.
type GeminiConfig struct {
	APIKey     string
	Model      string
	ImageModel string
}

// OpenAIConfig configures the OpenAI provider. BaseURL points it at any
// OpenAI-compatible API.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// AnthropicConfig configures the Anthropic provider.
type AnthropicConfig struct {
	APIKey string
	Model  string
}

// OpenRouterConfig configures the OpenRouter provider.
type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig controls exponential backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns the Gemini setup with the default retry policy.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderGemini,
		Gemini: GeminiConfig{
			Model:      "gemini-flash",
			ImageModel: "imagen",
		},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.5-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 45 * time.Second,
	}
}

// envBinding maps one READLOG_ variable onto a Config field.
type envBinding struct {
	name string
	set  func(*Config, string)
}

var envBindings = []envBinding{
	{"READLOG_LLM_PROVIDER", func(c *Config, v string) { c.Provider = v }},
	{"READLOG_GEMINI_API_KEY", func(c *Config, v string) { c.Gemini.APIKey = v }},
	{"READLOG_GEMINI_MODEL", func(c *Config, v string) { c.Gemini.Model = v }},
	{"READLOG_GEMINI_IMAGE_MODEL", func(c *Config, v string) { c.Gemini.ImageModel = v }},
	{"READLOG_OPENAI_API_KEY", func(c *Config, v string) { c.OpenAI.APIKey = v }},
	{"READLOG_OPENAI_MODEL", func(c *Config, v string) { c.OpenAI.Model = v }},
	{"READLOG_OPENAI_BASE_URL", func(c *Config, v string) { c.OpenAI.BaseURL = v }},
	{"READLOG_ANTHROPIC_API_KEY", func(c *Config, v string) { c.Anthropic.APIKey = v }},
	{"READLOG_ANTHROPIC_MODEL", func(c *Config, v string) { c.Anthropic.Model = v }},
	{"READLOG_OPENROUTER_API_KEY", func(c *Config, v string) { c.OpenRouter.APIKey = v }},
	{"READLOG_OPENROUTER_MODEL", func(c *Config, v string) { c.OpenRouter.Model = v }},
}

// ConfigFromEnv overlays READLOG_ variables on the defaults.
func ConfigFromEnv() Config {
	return configFrom(os.Getenv)
}

func configFrom(getenv func(string) string) Config {
	cfg := DefaultConfig()
	for _, b := range envBindings {
		if v := getenv(b.name); v != "" {
			b.set(&cfg, v)
		}
	}
	return cfg
}

// HasExplicitProvider reports whether READLOG_LLM_PROVIDER or a READLOG_
// API key is set.
func HasExplicitProvider() bool {
	for _, b := range envBindings {
		if os.Getenv(b.name) != "" {
			return true
		}
	}
	return false
}

// DiscoverConfig looks for the vendors' own API key variables, Gemini first,
// and configures the first provider it finds.
func DiscoverConfig() (Config, bool) {
	return discoverFrom(os.Getenv)
}

func discoverFrom(getenv func(string) string) (Config, bool) {
	cfg := DefaultConfig()
	switch {
	case getenv("GEMINI_API_KEY") != "":
		cfg.Provider = ProviderGemini
		cfg.Gemini.APIKey = getenv("GEMINI_API_KEY")
	case getenv("OPENAI_API_KEY") != "":
		cfg.Provider = ProviderOpenAI
		cfg.OpenAI.APIKey = getenv("OPENAI_API_KEY")
	case getenv("ANTHROPIC_API_KEY") != "":
		cfg.Provider = ProviderAnthropic
		cfg.Anthropic.APIKey = getenv("ANTHROPIC_API_KEY")
	case getenv("OPENROUTER_API_KEY") != "":
		cfg.Provider = ProviderOpenRouter
		cfg.OpenRouter.APIKey = getenv("OPENROUTER_API_KEY")
	default:
		return Config{}, false
	}
	return cfg, true
}

// Validate checks that the selected provider has an API key.
func (c Config) Validate() error {
	var key, env string
	switch c.Provider {
	case ProviderGemini:
		key, env = c.Gemini.APIKey, "READLOG_GEMINI_API_KEY"
	case ProviderOpenAI:
		key, env = c.OpenAI.APIKey, "READLOG_OPENAI_API_KEY"
	case ProviderAnthropic:
		key, env = c.Anthropic.APIKey, "READLOG_ANTHROPIC_API_KEY"
	case ProviderOpenRouter:
		key, env = c.OpenRouter.APIKey, "READLOG_OPENROUTER_API_KEY"
	case ProviderMock:
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s is required for the %s provider", env, c.Provider)
	}
	return nil
}
