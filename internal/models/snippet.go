package models

// Snippet is an immutable captured substring of a source file, remembered
// by its literal text plus the offset it was captured at. The offset is a
// hint only: the live document may have drifted since capture.
type Snippet struct {
	Text       string `json:"text"`
	OffsetHint int    `json:"offset_hint"`
}

// NewSnippet creates a snippet value. Negative hints are clamped to 0.
func NewSnippet(text string, offsetHint int) Snippet {
	if offsetHint < 0 {
		offsetHint = 0
	}
	return Snippet{
		Text:       text,
		OffsetHint: offsetHint,
	}
}

// IsEmpty reports whether the snippet carries no text.
func (s Snippet) IsEmpty() bool {
	return s.Text == ""
}
