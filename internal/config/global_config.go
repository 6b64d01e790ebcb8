package config

import (
	"encoding/json"
	"path/filepath"

	"github.com/aleister1102/snippetpatch/internal/common/errorwrapper"
	"github.com/aleister1102/snippetpatch/internal/common/filemanager"
	"github.com/aleister1102/snippetpatch/internal/logger"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// GlobalConfig contains all configuration sections for the application
type GlobalConfig struct {
	LocatorConfig   LocatorConfig        `json:"locator_config,omitempty" yaml:"locator_config,omitempty"`
	PatcherConfig   PatcherConfig        `json:"patcher_config,omitempty" yaml:"patcher_config,omitempty"`
	StagerConfig    StagerConfig         `json:"stager_config,omitempty" yaml:"stager_config,omitempty"`
	GeneratorConfig GeneratorConfig      `json:"generator_config,omitempty" yaml:"generator_config,omitempty"`
	ReporterConfig  ReporterConfig       `json:"reporter_config,omitempty" yaml:"reporter_config,omitempty"`
	StorageConfig   StorageConfig        `json:"storage_config,omitempty" yaml:"storage_config,omitempty"`
	LogConfig       logger.FileLogConfig `json:"log_config,omitempty" yaml:"log_config,omitempty"`
}

// NewDefaultGlobalConfig creates a new GlobalConfig with default values
func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		LocatorConfig:   NewDefaultLocatorConfig(),
		PatcherConfig:   NewDefaultPatcherConfig(),
		StagerConfig:    NewDefaultStagerConfig(),
		GeneratorConfig: NewDefaultGeneratorConfig(),
		ReporterConfig:  NewDefaultReporterConfig(),
		StorageConfig:   NewDefaultStorageConfig(),
		LogConfig:       logger.NewDefaultFileLogConfig(),
	}
}

// LoadGlobalConfig loads the configuration from a file or default locations.
// It determines the config file path using GetConfigPath and supports both
// JSON and YAML formats. YAML is preferred if the file extension is .yaml
// or .yml. A missing config file is not an error: defaults apply.
func LoadGlobalConfig(providedPath string, log zerolog.Logger) (*GlobalConfig, error) {
	cfg := NewDefaultGlobalConfig()

	filePath := GetConfigPath(providedPath)
	if filePath == "" {
		return cfg, nil
	}

	fileManager := filemanager.NewFileManager(log)
	if !fileManager.FileExists(filePath) {
		return nil, errorwrapper.NewValidationError("config_file", filePath, "config file does not exist")
	}

	data, err := loadConfigFileContent(fileManager, filePath)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to load config file content")
	}

	if err := parseConfigContent(data, filePath, cfg); err != nil {
		return nil, errorwrapper.WrapError(err, "failed to parse config content")
	}

	return cfg, nil
}

// loadConfigFileContent reads the config file using FileManager
func loadConfigFileContent(fileManager *filemanager.FileManager, filePath string) ([]byte, error) {
	opts := filemanager.DefaultFileReadOptions()
	opts.MaxSize = 10 * 1024 * 1024 // 10MB max config file size

	return fileManager.ReadFile(filePath, opts)
}

// parseConfigContent parses the config content based on file extension
func parseConfigContent(data []byte, filePath string, cfg *GlobalConfig) error {
	ext := filepath.Ext(filePath)
	if isYAMLFile(ext) {
		return parseYAMLConfig(data, filePath, cfg)
	}
	return parseJSONConfig(data, filePath, cfg)
}

// isYAMLFile checks if the file extension indicates a YAML file
func isYAMLFile(ext string) bool {
	return ext == ".yaml" || ext == ".yml"
}

// parseYAMLConfig parses YAML configuration
func parseYAMLConfig(data []byte, filePath string, cfg *GlobalConfig) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errorwrapper.NewError("failed to unmarshal YAML from '%s': %w", filePath, err)
	}
	return nil
}

// parseJSONConfig parses JSON configuration
func parseJSONConfig(data []byte, filePath string, cfg *GlobalConfig) error {
	if err := json.Unmarshal(data, cfg); err != nil {
		return errorwrapper.NewError("failed to unmarshal JSON from '%s': %w", filePath, err)
	}
	return nil
}
