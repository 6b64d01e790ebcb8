package models

// EditRecord is one row of the per-file edit history written to Parquet.
// Timestamp is Unix milliseconds.
type EditRecord struct {
	SessionID     string  `parquet:"session_id,zstd"`
	FilePath      string  `parquet:"file_path,zstd"`
	Timestamp     int64   `parquet:"timestamp,zstd"`
	Outcome       string  `parquet:"outcome,zstd"`
	MatchLocation int64   `parquet:"match_location,zstd"`
	MatchScore    float64 `parquet:"match_score,zstd"`
	MatchStrategy string  `parquet:"match_strategy,zstd"`
	OriginalHash  string  `parquet:"original_hash,zstd"`
	PatchedHash   string  `parquet:"patched_hash,zstd,optional"`
	OriginalBytes int64   `parquet:"original_bytes,zstd"`
	PatchedBytes  int64   `parquet:"patched_bytes,zstd"`
	ErrorMessage  string  `parquet:"error_message,zstd,optional"`
}

// Edit outcome values stored in EditRecord.Outcome.
const (
	EditOutcomeApplied  = "applied"
	EditOutcomeRejected = "rejected"
	EditOutcomeFailed   = "failed"
)
