package models

// ApplyInput carries everything the staging manager needs to patch a
// snippet inside a live file.
type ApplyInput struct {
	FilePath           string `json:"file_path"`
	OriginalSnippet    string `json:"original_snippet"`
	ReplacementSnippet string `json:"replacement_snippet"`
	OffsetHint         int    `json:"offset_hint"`
}

// EditOutcome describes a successfully applied edit. ReportPath points at
// the before/after comparison report when one was generated; it is empty
// when report generation failed (presentation is best-effort).
type EditOutcome struct {
	SessionID    string      `json:"session_id"`
	FilePath     string      `json:"file_path"`
	Match        MatchResult `json:"match"`
	PatchedText  string      `json:"patched_text"`
	SnapshotPath string      `json:"snapshot_path"`
	ReportPath   string      `json:"report_path,omitempty"`
}
