package config

// GeneratorConfig defines configuration for the text-generation backend
type GeneratorConfig struct {
	Provider    string  `json:"provider,omitempty" yaml:"provider,omitempty" validate:"omitempty,oneof=anthropic openai mock"`
	Model       string  `json:"model,omitempty" yaml:"model,omitempty"`
	APIKeyEnv   string  `json:"api_key_env,omitempty" yaml:"api_key_env,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty" validate:"omitempty,min=1"`
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature,omitempty" validate:"omitempty,gte=0,lte=2"`
	TimeoutSecs int     `json:"timeout_secs,omitempty" yaml:"timeout_secs,omitempty" validate:"omitempty,min=1"`
}

// NewDefaultGeneratorConfig creates default generator configuration
func NewDefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Provider:    DefaultGeneratorProvider,
		MaxTokens:   DefaultGeneratorMaxTokens,
		Temperature: DefaultGeneratorTemperature,
		TimeoutSecs: DefaultGeneratorTimeoutSecs,
	}
}
