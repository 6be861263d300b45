package ingestion

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calyptra/loom/ai/mock"
	"github.com/calyptra/loom/core"
	"github.com/calyptra/loom/extract"
	"github.com/calyptra/loom/fingerprint"
	"github.com/calyptra/loom/storage"
	"github.com/calyptra/loom/storage/badger"
)

const ruleDocument = "Machine Learning uses Neural Networks to fit models. " +
	"Machine Learning and Neural Networks are discussed throughout."

const (
	pipelinePassOne = `[
		{"name": "Machine Learning", "type": "field", "description": "Study of learning algorithms", "relevance": 0.9, "related_concepts": []},
		{"name": "Neural Networks", "type": "method", "description": "Layered differentiable models", "relevance": 0.8, "related_concepts": []}
	]`
	pipelinePassTwo = `[
		{"source": "Machine Learning", "target": "Neural Networks", "type": "uses", "strength": 0.7, "description": ""}
	]`
)

type testEnv struct {
	pipeline  *Pipeline
	documents storage.DocumentStore
	graph     storage.GraphStore
}

func newTestEnv(t *testing.T, extractorOpts []extract.Option, pipelineOpts ...Option) *testEnv {
	t.Helper()

	documents, graph, backend, err := badger.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	extractor, err := extract.NewExtractor(extractorOpts...)
	require.NoError(t, err)
	t.Cleanup(extractor.Release)

	pipeline, err := NewPipeline(documents, graph, extractor, pipelineOpts...)
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	return &testEnv{pipeline: pipeline, documents: documents, graph: graph}
}

func TestNewPipelineRequiresStores(t *testing.T) {
	extractor, err := extract.NewExtractor()
	require.NoError(t, err)
	defer extractor.Release()

	documents, graph, backend, err := badger.NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	_, err = NewPipeline(nil, graph, extractor)
	assert.ErrorIs(t, err, ErrDocumentStoreRequired)

	_, err = NewPipeline(documents, nil, extractor)
	assert.ErrorIs(t, err, ErrGraphStoreRequired)

	_, err = NewPipeline(documents, graph, nil)
	assert.ErrorIs(t, err, ErrExtractorRequired)
}

func TestIngestEmptyDocument(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.pipeline.Ingest(context.Background(), "   \n\t ", nil)
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestIngestRulePath(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	result, err := env.pipeline.Ingest(ctx, ruleDocument, map[string]string{core.MetaTitle: "ML Notes"})
	require.NoError(t, err)

	assert.False(t, result.Duplicate)
	assert.Equal(t, extract.MethodRule, result.Method)
	assert.NotZero(t, result.DocumentId)
	assert.NotEmpty(t, result.Fingerprint.ContentHash)

	names := make([]string, 0, len(result.Concepts))
	for _, c := range result.Concepts {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, "Machine Learning")
	assert.Contains(t, names, "Neural Networks")

	// "Machine Learning uses Neural Networks" triggers the uses connector.
	var found bool
	for _, entity := range result.Entities {
		if entity.Name == "Machine Learning" {
			found = true
		}
	}
	assert.True(t, found)
	require.NotEmpty(t, result.Relationships)

	doc, err := env.documents.GetDocument(ctx, result.DocumentId)
	require.NoError(t, err)
	assert.Equal(t, ruleDocument, doc.Text)
	assert.Equal(t, "ML Notes", doc.Title())

	chunks, err := env.documents.GetChunks(ctx, result.DocumentId)
	require.NoError(t, err)
	require.Len(t, chunks, result.Chunks)
	for _, chunk := range chunks {
		assert.Equal(t, result.DocumentId, chunk.DocumentId)
		assert.NotEmpty(t, chunk.Hash)
		assert.Empty(t, chunk.Vector)
	}
}

func TestIngestGenerativePath(t *testing.T) {
	generator := mock.NewMockGenerator()
	generator.QueueResponse(pipelinePassOne)
	generator.QueueResponse(pipelinePassTwo)

	env := newTestEnv(t, []extract.Option{extract.WithGenerator(generator)})
	ctx := context.Background()

	result, err := env.pipeline.Ingest(ctx, ruleDocument, nil)
	require.NoError(t, err)

	assert.Equal(t, extract.MethodGenerative, result.Method)
	assert.Equal(t, 2, generator.CallCount())
	require.Len(t, result.Concepts, 2)
	// Ranked by relevance.
	assert.Equal(t, "Machine Learning", result.Concepts[0].Name)
	assert.Equal(t, extract.SourceGenerative, result.Concepts[0].Source)

	require.Len(t, result.Entities, 2)
	// Pass 2 covered the only concept pair, so connector inference adds
	// nothing and the single generative edge survives.
	require.Len(t, result.Relationships, 1)
	assert.Equal(t, "uses", result.Relationships[0].Type)
	assert.InDelta(t, 0.7, result.Relationships[0].Strength, 1e-9)

	entity, err := env.graph.FindEntityByName(ctx, "machine learning")
	require.NoError(t, err)
	assert.Equal(t, "field", entity.Type)

	rels, err := env.graph.RelationshipsFor(ctx, entity.Id)
	require.NoError(t, err)
	assert.Len(t, rels, 1)
}

func TestIngestDuplicateShortCircuits(t *testing.T) {
	documents, graph, backend, err := badger.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	extractor, err := extract.NewExtractor()
	require.NoError(t, err)
	t.Cleanup(extractor.Release)

	detector, err := fingerprint.NewDetector(documents)
	require.NoError(t, err)

	pipeline, err := NewPipeline(documents, graph, extractor, WithDetector(detector))
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	ctx := context.Background()
	first, err := pipeline.Ingest(ctx, ruleDocument, nil)
	require.NoError(t, err)
	require.False(t, first.Duplicate)

	second, err := pipeline.Ingest(ctx, ruleDocument, nil)
	require.NoError(t, err)
	assert.True(t, second.Duplicate)
	require.NotNil(t, second.Match)
	assert.Equal(t, fingerprint.MethodContentHash, second.Match.Method)
	assert.Equal(t, first.DocumentId, second.DocumentId)

	// Nothing new was written.
	ids, err := documents.ListDocumentIDs(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}

func TestIngestWithEmbedder(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	env := newTestEnv(t, nil, WithEmbedder(embedder))
	ctx := context.Background()

	result, err := env.pipeline.Ingest(ctx, ruleDocument, nil)
	require.NoError(t, err)

	chunks, err := env.documents.GetChunks(ctx, result.DocumentId)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.NotEmpty(t, chunk.Vector)
	}
	assert.Positive(t, embedder.CallCount())
}

func TestIngestEmbeddingFailureDegrades(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, assert.AnError
	}
	env := newTestEnv(t, nil, WithEmbedder(embedder))
	ctx := context.Background()

	result, err := env.pipeline.Ingest(ctx, ruleDocument, nil)
	require.NoError(t, err)

	chunks, err := env.documents.GetChunks(ctx, result.DocumentId)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.Empty(t, chunk.Vector)
	}
}

func TestIngestManyOrderPreserved(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	texts := []string{
		"Machine Learning is the first document.",
		"",
		"Neural Networks are the third document.",
	}
	results, errs := env.pipeline.IngestMany(ctx, texts, nil)
	require.Len(t, results, 3)
	require.Len(t, errs, 3)

	require.NoError(t, errs[0])
	assert.ErrorIs(t, errs[1], ErrEmptyDocument)
	require.NoError(t, errs[2])
	assert.NotEqual(t, results[0].DocumentId, results[2].DocumentId)
}

func TestCombineRelationshipsGenerativeWins(t *testing.T) {
	concepts := []*core.Concept{
		concept("Machine Learning", 0.9),
		concept("Neural Networks", 0.8),
	}
	generated := []*core.Relationship{
		{Source: "Neural Networks", Target: "Machine Learning", Type: "part_of", Strength: 0.6},
	}

	combined := combineRelationships(ruleDocument, concepts, generated)
	require.Len(t, combined, 1)
	assert.Equal(t, "part_of", combined[0].Type)
	assert.Equal(t, 0.6, combined[0].Strength)
}

func TestMaxConceptsOption(t *testing.T) {
	env := newTestEnv(t, nil, WithMaxConcepts(1))

	result, err := env.pipeline.Ingest(context.Background(), ruleDocument, nil)
	require.NoError(t, err)
	assert.Len(t, result.Concepts, 1)
	assert.Len(t, result.Entities, 1)
	assert.Empty(t, result.Relationships)
}

// truncatingEmbedder returns fewer vectors than requested texts.
type truncatingEmbedder struct{}

func (truncatingEmbedder) EmbedText(context.Context, string) ([]float32, error) {
	return []float32{1}, nil
}

func (truncatingEmbedder) EmbedTexts(context.Context, []string) ([][]float32, error) {
	return [][]float32{{1}}, nil
}

func TestIngestShortEmbeddingBatchDegrades(t *testing.T) {
	env := newTestEnv(t, nil, WithEmbedder(truncatingEmbedder{}))
	ctx := context.Background()

	// Long enough to split into several chunks, so the single returned
	// vector cannot cover them all.
	text := strings.Repeat("Machine Learning uses Neural Networks to fit models. ", 200)
	result, err := env.pipeline.Ingest(ctx, text, nil)
	require.NoError(t, err)

	chunks, err := env.documents.GetChunks(ctx, result.DocumentId)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.Empty(t, chunk.Vector)
	}
}

func TestBuildChunksCopiesMetadata(t *testing.T) {
	env := newTestEnv(t, nil)
	metadata := map[string]string{core.MetaTitle: "Original"}

	chunks, err := env.pipeline.buildChunks(context.Background(), ruleDocument, metadata)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	metadata[core.MetaTitle] = "Mutated"
	for _, chunk := range chunks {
		assert.Equal(t, "Original", chunk.Metadata[core.MetaTitle])
	}
}
