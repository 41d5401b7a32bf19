package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ourclass/readlog/internal/store"
)

// NewProvider builds the configured provider. Calls flow
// caller → retry → logging → backend, so every attempt is recorded.
// events may be nil to skip recording.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo, logger *slog.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		backend Provider
		err     error
	)
	switch cfg.Provider {
	case ProviderGemini:
		backend, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenAI:
		backend, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderAnthropic:
		backend, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenRouter:
		backend, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		return NewMockProvider(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	if events != nil {
		backend = WithLogging(backend, cfg.Provider, events, logger)
	}
	return WithRetry(backend, cfg.Retry), nil
}

// NewImageGenerator returns the image backend for cfg, or nil when the
// provider cannot draw. Only Gemini (Imagen) can.
func NewImageGenerator(ctx context.Context, cfg Config) (ImageGenerator, error) {
	if cfg.Provider != ProviderGemini {
		return nil, nil
	}
	g, err := NewGeminiProvider(ctx, cfg.Gemini)
	if err != nil {
		return nil, fmt.Errorf("initializing image provider: %w", err)
	}
	return g, nil
}

// ErrNotConfigured is returned when no provider settings or API keys are
// present in the environment.
var ErrNotConfigured = errors.New("no LLM provider configured (set READLOG_LLM_PROVIDER or an API key such as GEMINI_API_KEY)")

// ResolveConfig prefers explicit READLOG_ settings and falls back to the
// vendors' own API key variables.
func ResolveConfig() (Config, error) {
	if HasExplicitProvider() {
		return ConfigFromEnv(), nil
	}
	if cfg, ok := DiscoverConfig(); ok {
		return cfg, nil
	}
	return Config{}, ErrNotConfigured
}

// NewProviderFromEnv builds a provider from ResolveConfig.
func NewProviderFromEnv(ctx context.Context, events store.EventRepo, logger *slog.Logger) (Provider, error) {
	cfg, err := ResolveConfig()
	if err != nil {
		return nil, err
	}
	return NewProvider(ctx, cfg, events, logger)
}
