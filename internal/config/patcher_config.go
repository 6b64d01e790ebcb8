package config

// PatcherConfig defines configuration for patch synthesis
type PatcherConfig struct {
	PreserveIndentation bool    `json:"preserve_indentation" yaml:"preserve_indentation"`
	DeleteThreshold     float64 `json:"delete_threshold,omitempty" yaml:"delete_threshold,omitempty" validate:"omitempty,gt=0,lte=1"`
}

// NewDefaultPatcherConfig creates default patcher configuration
func NewDefaultPatcherConfig() PatcherConfig {
	return PatcherConfig{
		PreserveIndentation: DefaultPatcherPreserveIndentation,
		DeleteThreshold:     DefaultPatcherDeleteThreshold,
	}
}
