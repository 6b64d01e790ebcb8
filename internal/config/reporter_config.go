package config

// ReporterConfig defines configuration for the diff report generator
type ReporterConfig struct {
	OutputDir string `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
}

// NewDefaultReporterConfig creates default reporter configuration
func NewDefaultReporterConfig() ReporterConfig {
	return ReporterConfig{
		OutputDir: DefaultReporterOutputDir,
	}
}
