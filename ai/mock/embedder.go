package mock

import (
	"context"
	"sync"

	"github.com/calyptra/loom/ai"
)

// MockEmbedder is a test double for ai.Embedder. Vectors are deterministic
// functions of the input text length unless a custom function is provided.
type MockEmbedder struct {
	// EmbedTextFunc is called by EmbedText if set.
	EmbedTextFunc func(ctx context.Context, text string) ([]float32, error)

	// Dimension is the length of generated vectors. Defaults to 8.
	Dimension int

	mu        sync.Mutex
	callCount int
}

// NewMockEmbedder creates a mock embedder producing 8-dimensional vectors.
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{Dimension: 8}
}

func (m *MockEmbedder) vector(text string) []float32 {
	dim := m.Dimension
	if dim <= 0 {
		dim = 8
	}
	v := make([]float32, dim)
	for i := range v {
		v[i] = float32(len(text)%17) / 17.0
	}
	return v
}

// EmbedText returns a deterministic vector derived from the text.
func (m *MockEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.callCount++
	fn := m.EmbedTextFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, text)
	}
	return m.vector(text), nil
}

// EmbedTexts embeds each text via EmbedText.
func (m *MockEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		v, err := m.EmbedText(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// CallCount returns the number of EmbedText calls, including those made
// through EmbedTexts.
func (m *MockEmbedder) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears call state and custom functions.
func (m *MockEmbedder) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.EmbedTextFunc = nil
}

var _ ai.Embedder = (*MockEmbedder)(nil)
