package generator

import "context"

// MockProvider returns canned responses, for tests and offline runs.
type MockProvider struct {
	// Response is returned for every request when Respond is nil.
	Response string
	// Respond, when set, computes the response from the request.
	Respond func(request GenerateRequest) (string, error)
}

// NewMockProvider creates a mock provider with a fixed response.
func NewMockProvider(response string) *MockProvider {
	return &MockProvider{Response: response}
}

// Name returns the provider name.
func (p *MockProvider) Name() string {
	return "mock"
}

// Generate returns the configured response.
func (p *MockProvider) Generate(ctx context.Context, request GenerateRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if p.Respond != nil {
		return p.Respond(request)
	}
	return p.Response, nil
}

// Verify MockProvider implements Provider
var _ Provider = (*MockProvider)(nil)
