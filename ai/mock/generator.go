package mock

import (
	"context"
	"sync"

	"github.com/calyptra/loom/ai"
)

// MockGenerator is a test double for ai.TextGenerator.
// It allows custom behavior injection via function fields, or a queue of
// canned responses returned in order.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set. It takes precedence over
	// the response queue.
	GenerateFunc func(ctx context.Context, prompt, systemPrompt string, maxTokens int) (string, error)

	mu        sync.Mutex
	responses []string
	prompts   []string
	callCount int
}

// NewMockGenerator creates a mock generator with default behavior (empty
// responses). Returns the concrete type to allow test assertions.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// QueueResponse appends a canned response. Responses are consumed in FIFO
// order; once exhausted, Generate returns "".
func (m *MockGenerator) QueueResponse(response string) *MockGenerator {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, response)
	return m
}

// Generate returns the injected function's result, the next queued
// response, or "".
func (m *MockGenerator) Generate(ctx context.Context, prompt, systemPrompt string, maxTokens int) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.prompts = append(m.prompts, prompt)
	fn := m.GenerateFunc
	var next string
	if fn == nil && len(m.responses) > 0 {
		next = m.responses[0]
		m.responses = m.responses[1:]
	}
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, prompt, systemPrompt, maxTokens)
	}
	return next, nil
}

// CallCount returns the number of times Generate was called.
func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Prompts returns the prompts passed to Generate, in call order.
func (m *MockGenerator) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// Reset clears call state, queued responses, and custom functions.
func (m *MockGenerator) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.responses = nil
	m.prompts = nil
	m.GenerateFunc = nil
}

var _ ai.TextGenerator = (*MockGenerator)(nil)
