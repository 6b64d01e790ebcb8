package differ

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/aleister1102/snippetpatch/internal/models"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffConfig holds options for the diffing logic
type DiffConfig struct {
	EnableLineBasedDiff   bool
	EnableSemanticCleanup bool
}

// DefaultDiffConfig returns the default diff configuration
func DefaultDiffConfig() DiffConfig {
	return DiffConfig{
		EnableLineBasedDiff:   false,
		EnableSemanticCleanup: true,
	}
}

// DiffProcessor handles the core diffing logic between the pre-edit
// snapshot and the edited document
type DiffProcessor struct {
	dmp    *diffmatchpatch.DiffMatchPatch
	config DiffConfig
}

// NewDiffProcessor creates a new diff processor
func NewDiffProcessor(config DiffConfig) *DiffProcessor {
	return &DiffProcessor{
		dmp:    diffmatchpatch.New(),
		config: config,
	}
}

// ProcessDiff generates diff between two content strings
func (dp *DiffProcessor) ProcessDiff(text1, text2 string) []diffmatchpatch.Diff {
	diffs := dp.dmp.DiffMain(text1, text2, dp.config.EnableLineBasedDiff)

	if dp.config.EnableSemanticCleanup {
		diffs = dp.dmp.DiffCleanupSemantic(diffs)
	}

	return diffs
}

// BuildContentDiffResult compares the snapshot text against the edited
// text and returns a structured result for rendering and audit.
func (dp *DiffProcessor) BuildContentDiffResult(snapshotText, editedText string) *models.ContentDiffResult {
	startTime := time.Now()

	diffs := dp.ProcessDiff(snapshotText, editedText)

	result := &models.ContentDiffResult{
		Timestamp: startTime.UnixMilli(),
		Diffs:     make([]models.ContentDiff, 0, len(diffs)),
		OldHash:   hashContent(snapshotText),
		NewHash:   hashContent(editedText),
	}

	for _, diff := range diffs {
		result.Diffs = append(result.Diffs, models.ContentDiff{
			Operation: models.DiffOperation(diff.Type),
			Text:      diff.Text,
		})

		switch diff.Type {
		case diffmatchpatch.DiffInsert:
			result.CharsAdded += len(diff.Text)
		case diffmatchpatch.DiffDelete:
			result.CharsDeleted += len(diff.Text)
		}
	}

	result.IsIdentical = isContentIdentical(diffs, result.OldHash, result.NewHash)
	result.ProcessingTimeMs = time.Since(startTime).Milliseconds()

	return result
}

// isContentIdentical checks if content is identical
func isContentIdentical(diffs []diffmatchpatch.Diff, oldHash, newHash string) bool {
	if oldHash != "" && newHash != "" && oldHash != newHash {
		return false
	}

	for _, diff := range diffs {
		if diff.Type != diffmatchpatch.DiffEqual {
			return false
		}
	}

	return true
}

// hashContent returns the SHA-256 hex digest of content
func hashContent(content string) string {
	digest := sha256.Sum256([]byte(content))
	return hex.EncodeToString(digest[:])
}
