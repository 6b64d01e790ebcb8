package models

// PatchResult holds the outcome of patch synthesis. PatchedText is
// populated only on success; ErrorMessage carries a human-readable reason
// only on failure.
type PatchResult struct {
	Success      bool   `json:"success"`
	PatchedText  string `json:"patched_text,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// SuccessfulPatch builds a successful patch result.
func SuccessfulPatch(patchedText string) PatchResult {
	return PatchResult{
		Success:     true,
		PatchedText: patchedText,
	}
}

// FailedPatch builds a failed patch result with a reason.
func FailedPatch(reason string) PatchResult {
	return PatchResult{
		Success:      false,
		ErrorMessage: reason,
	}
}
