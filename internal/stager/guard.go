package stager

import (
	"fmt"

	"github.com/aleister1102/snippetpatch/internal/config"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/mem"
)

// MemoryGuard rejects staging work that would snapshot oversized documents
// or start while the system is already under memory pressure. A staging
// session holds the full document text twice (live + snapshot), so the
// check runs before any snapshot is written.
type MemoryGuard struct {
	maxDocumentBytes  int64
	memoryHeadroomPct float64
	logger            zerolog.Logger
}

// NewMemoryGuard creates a new MemoryGuard instance
func NewMemoryGuard(cfg config.StagerConfig, logger zerolog.Logger) *MemoryGuard {
	return &MemoryGuard{
		maxDocumentBytes:  int64(cfg.MaxDocumentSizeMB) * 1024 * 1024,
		memoryHeadroomPct: cfg.MemoryHeadroomPct,
		logger:            logger.With().Str("component", "MemoryGuard").Logger(),
	}
}

// CheckDocument validates that a document of the given size may be staged.
func (mg *MemoryGuard) CheckDocument(sizeBytes int) error {
	if mg.maxDocumentBytes > 0 && int64(sizeBytes) > mg.maxDocumentBytes {
		return fmt.Errorf("document size %d bytes exceeds configured maximum of %d bytes", sizeBytes, mg.maxDocumentBytes)
	}

	vmStat, err := mem.VirtualMemory()
	if err != nil {
		// Resource statistics are advisory; a probe failure never blocks an edit.
		mg.logger.Warn().Err(err).Msg("Failed to read system memory statistics")
		return nil
	}

	if mg.memoryHeadroomPct > 0 && vmStat.UsedPercent > mg.memoryHeadroomPct {
		return fmt.Errorf("system memory usage %.1f%% is above the %.1f%% headroom limit", vmStat.UsedPercent, mg.memoryHeadroomPct)
	}

	return nil
}
