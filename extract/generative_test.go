package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calyptra/loom/ai/mock"
)

const passOneResponse = `[
  {"name":"gradient descent","type":"algorithm","description":"iterative optimization","relevance":0.9,"related_concepts":["loss function"]},
  {"name":"loss function","type":"abstract concept","description":"quantity to minimize","relevance":0.7}
]`

const passTwoResponse = `[
  {"source":"gradient descent","target":"loss function","type":"uses","strength":0.9,"description":"minimizes it"}
]`

func newGenerative(t *testing.T, gen *mock.MockGenerator) *GenerativeStrategy {
	t.Helper()
	s, err := NewGenerativeStrategy(gen, nil, nil, nil)
	require.NoError(t, err)
	return s
}

func TestGenerativeTwoPass(t *testing.T) {
	gen := mock.NewMockGenerator()
	gen.QueueResponse(passOneResponse)
	gen.QueueResponse(passTwoResponse)
	s := newGenerative(t, gen)

	concepts, relationships, err := s.Extract(context.Background(),
		"Gradient descent minimizes the loss function.", 0)
	require.NoError(t, err)

	require.Len(t, concepts, 2)
	assert.Equal(t, "gradient descent", concepts[0].Name)
	assert.Equal(t, "algorithm", concepts[0].Type)
	assert.Equal(t, SourceGenerative, concepts[0].Source)
	assert.Equal(t, "abstract_concept", concepts[1].Type)

	require.Len(t, relationships, 1)
	assert.Equal(t, "gradient descent", relationships[0].Source)
	assert.Equal(t, "uses", relationships[0].Type)
	assert.Equal(t, 0.9, relationships[0].Strength)

	assert.Equal(t, 2, gen.CallCount())
}

func TestGenerativeDropsUnknownEndpoints(t *testing.T) {
	gen := mock.NewMockGenerator()
	gen.QueueResponse(passOneResponse)
	gen.QueueResponse(`[
	  {"source":"gradient descent","target":"loss function","type":"uses","strength":0.9},
	  {"source":"gradient descent","target":"hallucinated thing","type":"causes","strength":0.5}
	]`)
	monitor := &CountingMonitor{}
	s, err := NewGenerativeStrategy(gen, nil, monitor, nil)
	require.NoError(t, err)

	_, relationships, err := s.Extract(context.Background(),
		"Gradient descent minimizes the loss function.", 0)
	require.NoError(t, err)

	require.Len(t, relationships, 1)
	assert.Equal(t, "loss function", relationships[0].Target)
	assert.Equal(t, 1, monitor.DroppedEdges)
}

func TestGenerativeSkipsPassTwoWhenNoConcepts(t *testing.T) {
	gen := mock.NewMockGenerator()
	gen.QueueResponse(`[]`)
	s := newGenerative(t, gen)

	concepts, relationships, err := s.Extract(context.Background(), "nothing of note", 0)
	require.NoError(t, err)

	assert.Empty(t, concepts)
	assert.Empty(t, relationships)
	assert.Equal(t, 1, gen.CallCount(), "pass 2 must not run when pass 1 finds nothing")
}

func TestGenerativeAllChunksFailed(t *testing.T) {
	gen := mock.NewMockGenerator()
	gen.GenerateFunc = func(ctx context.Context, prompt, systemPrompt string, maxTokens int) (string, error) {
		return "", errors.New("model offline")
	}
	s := newGenerative(t, gen)

	_, _, err := s.Extract(context.Background(), "some document text", 0)
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestGenerativeSentinelResponse(t *testing.T) {
	gen := mock.NewMockGenerator()
	gen.QueueResponse("Error: context length exceeded")
	monitor := &CountingMonitor{}
	s, err := NewGenerativeStrategy(gen, nil, monitor, nil)
	require.NoError(t, err)

	_, _, err = s.Extract(context.Background(), "some document text", 0)
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.Equal(t, 1, monitor.Malformed)
}

func TestGenerativeMalformedJSONRepaired(t *testing.T) {
	// Missing key quote and trailing comma, plus prose around the array.
	gen := mock.NewMockGenerator()
	gen.QueueResponse(`Here you go: [{"name":"entropy", type":"theory","description":"d","relevance":0.8},] done`)
	gen.QueueResponse(`[]`)
	s := newGenerative(t, gen)

	concepts, _, err := s.Extract(context.Background(), "entropy text", 0)
	require.NoError(t, err)
	require.Len(t, concepts, 1)
	assert.Equal(t, "entropy", concepts[0].Name)
	assert.Equal(t, "theory", concepts[0].Type)
}

func TestGenerativeCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := newGenerative(t, mock.NewMockGenerator())

	_, _, err := s.Extract(ctx, "some document text", 0)
	assert.Error(t, err)
}

func TestGenerativeRequiresGenerator(t *testing.T) {
	_, err := NewGenerativeStrategy(nil, nil, nil, nil)
	assert.ErrorIs(t, err, ErrGeneratorUnavailable)
}

func TestGenerativeEmptyText(t *testing.T) {
	s := newGenerative(t, mock.NewMockGenerator())
	_, _, err := s.Extract(context.Background(), "  ", 0)
	assert.ErrorIs(t, err, ErrEmptyText)
}
