package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calyptra/loom/ai/mock"
)

func TestExtractorAutoWithoutGenerator(t *testing.T) {
	e, err := NewExtractor()
	require.NoError(t, err)
	defer e.Release()

	result, err := e.Extract(context.Background(),
		"Machine learning is a subset of artificial intelligence.", MethodAuto)
	require.NoError(t, err)

	assert.Equal(t, MethodRule, result.Method)
	assert.NotEmpty(t, result.Concepts)
	assert.Empty(t, result.Relationships)
}

func TestExtractorAutoStepsDownOnGenerativeFailure(t *testing.T) {
	gen := mock.NewMockGenerator()
	gen.GenerateFunc = func(ctx context.Context, prompt, systemPrompt string, maxTokens int) (string, error) {
		return "", errors.New("model offline")
	}

	e, err := NewExtractor(WithGenerator(gen))
	require.NoError(t, err)
	defer e.Release()

	result, err := e.Extract(context.Background(),
		"Machine learning is a subset of artificial intelligence.", MethodAuto)
	require.NoError(t, err, "auto must complete when a weaker strategy can serve")

	assert.Equal(t, MethodRule, result.Method)
	assert.NotEmpty(t, result.Concepts)
}

func TestExtractorAutoPrefersGenerative(t *testing.T) {
	gen := mock.NewMockGenerator()
	gen.QueueResponse(passOneResponse)
	gen.QueueResponse(passTwoResponse)

	e, err := NewExtractor(WithGenerator(gen))
	require.NoError(t, err)
	defer e.Release()

	result, err := e.Extract(context.Background(),
		"Gradient descent minimizes the loss function.", MethodAuto)
	require.NoError(t, err)

	assert.Equal(t, MethodGenerative, result.Method)
	assert.Len(t, result.Concepts, 2)
	assert.Len(t, result.Relationships, 1)
}

func TestExtractorStatisticalWithTagger(t *testing.T) {
	tagger := mock.NewMockTagger()
	tagger.Phrases = []string{"gradient descent", "the weather"}
	tagger.NamedSpans = []string{"Claude Shannon"}

	e, err := NewExtractor(WithTagger(tagger))
	require.NoError(t, err)
	defer e.Release()

	result, err := e.Extract(context.Background(), "some text about gradient descent", MethodStatistical)
	require.NoError(t, err)

	assert.Equal(t, MethodStatistical, result.Method)
	names := make([]string, len(result.Concepts))
	for i, c := range result.Concepts {
		names[i] = c.Name
		assert.Equal(t, SourceStatistical, c.Source)
	}
	assert.Contains(t, names, "Gradient Descent")
	assert.Contains(t, names, "Claude Shannon")
	assert.NotContains(t, names, "The Weather")
}

func TestExtractorStatisticalWithoutTaggerFallsBack(t *testing.T) {
	e, err := NewExtractor()
	require.NoError(t, err)
	defer e.Release()

	result, err := e.Extract(context.Background(), "Machine learning rules.", MethodStatistical)
	require.NoError(t, err)

	assert.Equal(t, MethodRule, result.Method)
	assert.NotEmpty(t, result.Concepts)
}

func TestExtractorGenerativeUnavailable(t *testing.T) {
	e, err := NewExtractor()
	require.NoError(t, err)
	defer e.Release()

	_, err = e.Extract(context.Background(), "text", MethodGenerative)
	assert.ErrorIs(t, err, ErrGeneratorUnavailable)
}

func TestExtractorUnknownMethod(t *testing.T) {
	e, err := NewExtractor()
	require.NoError(t, err)
	defer e.Release()

	_, err = e.Extract(context.Background(), "text", Method("psychic"))
	assert.ErrorIs(t, err, ErrUnknownMethod)
}

func TestExtractorEmptyText(t *testing.T) {
	e, err := NewExtractor()
	require.NoError(t, err)
	defer e.Release()

	_, err = e.Extract(context.Background(), "", MethodAuto)
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestExtractorMaxConcepts(t *testing.T) {
	e, err := NewExtractor(WithMaxConcepts(1))
	require.NoError(t, err)
	defer e.Release()

	result, err := e.Extract(context.Background(),
		"Alpha Wave, Beta Test, Gamma Ray.", MethodRule)
	require.NoError(t, err)
	assert.Len(t, result.Concepts, 1)
}
