package mock

import (
	"github.com/calyptra/loom/ai"
)

// MockTagger is a test double for ai.PhraseTagger returning fixed spans.
type MockTagger struct {
	Phrases    []string
	NamedSpans []string

	// NounPhrasesFunc is called by NounPhrases if set.
	NounPhrasesFunc func(text string) ([]string, error)
}

// NewMockTagger creates a mock tagger with no canned spans.
func NewMockTagger() *MockTagger {
	return &MockTagger{}
}

// NounPhrases returns the injected function's result or the canned phrases.
func (m *MockTagger) NounPhrases(text string) ([]string, error) {
	if m.NounPhrasesFunc != nil {
		return m.NounPhrasesFunc(text)
	}
	return append([]string(nil), m.Phrases...), nil
}

// Entities returns the canned named-entity spans.
func (m *MockTagger) Entities(text string) ([]string, error) {
	return append([]string(nil), m.NamedSpans...), nil
}

var _ ai.PhraseTagger = (*MockTagger)(nil)
