package config

const (
	// Locator Defaults
	DefaultLocatorMaxBitapLength = 32
	DefaultLocatorWindowSize     = 32
	DefaultLocatorScoreThreshold = 0.9
	DefaultLocatorMatchThreshold = 0.5
	DefaultLocatorMatchDistance  = 1000

	// Patcher Defaults
	DefaultPatcherPreserveIndentation = true
	DefaultPatcherDeleteThreshold     = 0.5

	// Stager Defaults
	DefaultStagerSnapshotDir       = ""
	DefaultStagerMaxDocumentSizeMB = 16
	DefaultStagerMemoryHeadroomPct = 90.0

	// Generator Defaults
	DefaultGeneratorProvider       = "mock"
	DefaultGeneratorMaxTokens      = 4096
	DefaultGeneratorTemperature    = 0.2
	DefaultGeneratorTimeoutSecs    = 120
	DefaultGeneratorAnthropicModel = "claude-sonnet-4-20250514"
	DefaultGeneratorOpenAIModel    = "gpt-4o"

	// Reporter Defaults
	DefaultReporterOutputDir = "reports/diff"

	// Storage Defaults
	DefaultStorageParquetBasePath  = "history"
	DefaultStorageCompressionCodec = "zstd"

	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3
)
