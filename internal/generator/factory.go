package generator

import (
	"os"

	"github.com/aleister1102/snippetpatch/internal/common/errorwrapper"
	"github.com/aleister1102/snippetpatch/internal/config"
	"github.com/rs/zerolog"
)

// NewProvider builds the provider named by the configuration. API keys are
// read from the environment variable the configuration points at, never
// from the configuration file itself.
func NewProvider(cfg config.GeneratorConfig, logger zerolog.Logger) (Provider, error) {
	switch cfg.Provider {
	case "mock":
		return NewMockProvider(""), nil
	case "anthropic":
		apiKey, err := resolveAPIKey(cfg)
		if err != nil {
			return nil, err
		}
		model := cfg.Model
		if model == "" {
			model = config.DefaultGeneratorAnthropicModel
		}
		return NewAnthropicProvider(apiKey, model, cfg.MaxTokens, cfg.Temperature, logger), nil
	case "openai":
		apiKey, err := resolveAPIKey(cfg)
		if err != nil {
			return nil, err
		}
		model := cfg.Model
		if model == "" {
			model = config.DefaultGeneratorOpenAIModel
		}
		return NewOpenAIProvider(apiKey, model, cfg.MaxTokens, cfg.Temperature, logger), nil
	default:
		return nil, errorwrapper.WrapError(errorwrapper.ErrInvalidConfiguration, "unknown generator provider: "+cfg.Provider)
	}
}

// resolveAPIKey looks up the provider credential from the environment.
func resolveAPIKey(cfg config.GeneratorConfig) (string, error) {
	if cfg.APIKeyEnv == "" {
		return "", errorwrapper.WrapError(errorwrapper.ErrInvalidConfiguration, "generator api_key_env is not set")
	}

	apiKey := os.Getenv(cfg.APIKeyEnv)
	if apiKey == "" {
		return "", errorwrapper.WrapError(errorwrapper.ErrInvalidConfiguration, "environment variable "+cfg.APIKeyEnv+" is empty")
	}
	return apiKey, nil
}
