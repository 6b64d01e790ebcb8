package generator

import "context"

// GenerateRequest carries one rewrite task for a text-generation provider.
// SystemPrompt frames the task, Prompt holds the snippet and the change
// instruction.
type GenerateRequest struct {
	SystemPrompt string
	Prompt       string
}

// Provider produces replacement text for a snippet rewrite request.
// Implementations wrap one backend each and are safe for concurrent use.
type Provider interface {
	// Name identifies the backend.
	Name() string

	// Generate returns the replacement text for the request.
	Generate(ctx context.Context, request GenerateRequest) (string, error)
}
