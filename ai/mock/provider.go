package mock

import (
	"github.com/calyptra/loom/ai"
)

// MockProvider bundles mock AI services for tests.
type MockProvider struct {
	generator *MockGenerator
	embedder  *MockEmbedder
}

// NewMockProvider creates a provider backed by fresh mock services.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		generator: NewMockGenerator(),
		embedder:  NewMockEmbedder(),
	}
}

// Generator returns the mock text generator.
func (p *MockProvider) Generator() ai.TextGenerator { return p.generator }

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder { return p.embedder }

// MockGenerator returns the concrete generator for test assertions.
func (p *MockProvider) MockGenerator() *MockGenerator { return p.generator }

// MockEmbedder returns the concrete embedder for test assertions.
func (p *MockProvider) MockEmbedder() *MockEmbedder { return p.embedder }

// Close is a no-op.
func (p *MockProvider) Close() error { return nil }

var _ ai.AIProvider = (*MockProvider)(nil)
