package config

// StagerConfig defines configuration for the staging manager
type StagerConfig struct {
	// SnapshotDir is where pre-edit snapshots are written; empty means the
	// system temp directory.
	SnapshotDir string `json:"snapshot_dir,omitempty" yaml:"snapshot_dir,omitempty"`
	// MaxDocumentSizeMB caps the size of documents the stager will touch.
	MaxDocumentSizeMB int `json:"max_document_size_mb,omitempty" yaml:"max_document_size_mb,omitempty" validate:"omitempty,min=1"`
	// MemoryHeadroomPct rejects new sessions when system memory usage is
	// already above this percentage.
	MemoryHeadroomPct float64 `json:"memory_headroom_pct,omitempty" yaml:"memory_headroom_pct,omitempty" validate:"omitempty,gt=0,lte=100"`
}

// NewDefaultStagerConfig creates default stager configuration
func NewDefaultStagerConfig() StagerConfig {
	return StagerConfig{
		SnapshotDir:       DefaultStagerSnapshotDir,
		MaxDocumentSizeMB: DefaultStagerMaxDocumentSizeMB,
		MemoryHeadroomPct: DefaultStagerMemoryHeadroomPct,
	}
}
