package models

// ProbeStatus classifies the outcome of a snippet validity probe.
type ProbeStatus string

const (
	// ProbeSuccess means the file exists and the snippet is still locatable.
	ProbeSuccess ProbeStatus = "success"
	// ProbeFileMissing means the target path could not be opened.
	ProbeFileMissing ProbeStatus = "file_missing"
	// ProbeCodeNotMatched means the snippet is no longer locatable at any
	// tolerance.
	ProbeCodeNotMatched ProbeStatus = "code_not_matched"
)

// SnippetProbeResult is the read-only answer to "is this remembered
// snippet still meaningful". Match is populated only on ProbeSuccess so a
// UI can reveal or select the located range.
type SnippetProbeResult struct {
	Status   ProbeStatus `json:"status"`
	FilePath string      `json:"file_path"`
	Match    MatchResult `json:"match"`
}
