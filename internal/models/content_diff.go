package models

// DiffOperation defines the type of change.
type DiffOperation int

const (
	// DiffEqual indicates an unchanged segment.
	DiffEqual DiffOperation = 0
	// DiffInsert indicates an inserted segment.
	DiffInsert DiffOperation = 1
	// DiffDelete indicates a deleted segment.
	DiffDelete DiffOperation = -1
)

// ContentDiff represents a single difference between two contents.
type ContentDiff struct {
	Operation DiffOperation `json:"operation"`
	Text      string        `json:"text"`
}

// ContentDiffResult holds the structured result of comparing the pre-edit
// snapshot against the edited document.
type ContentDiffResult struct {
	Timestamp        int64         `json:"timestamp"`
	Diffs            []ContentDiff `json:"diffs"`
	CharsAdded       int           `json:"chars_added"`
	CharsDeleted     int           `json:"chars_deleted"`
	IsIdentical      bool          `json:"is_identical"`
	ProcessingTimeMs int64         `json:"processing_time_ms"`
	OldHash          string        `json:"old_hash,omitempty"`
	NewHash          string        `json:"new_hash,omitempty"`
}
