package ai

import "context"

// TextGenerator produces free-form text from a prompt.
// Implementations must be thread-safe for concurrent use.
type TextGenerator interface {
	// Generate issues a blocking, timeout-bound request for generated text.
	// systemPrompt may be empty. maxTokens bounds the response length.
	//
	// A nil error does not guarantee usable output: providers may return an
	// error-sentinel string (see IsSentinel) that callers must treat as a
	// soft failure rather than a hard error.
	Generate(ctx context.Context, prompt, systemPrompt string, maxTokens int) (string, error)
}

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// batch, returned in input order. Batch processing is more efficient
	// than calling EmbedText multiple times.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// PhraseTagger is the optional statistical NLP capability: noun-phrase and
// named-entity span extraction without a generation model. Callers must
// tolerate its absence (a nil PhraseTagger) and fall back to weaker
// extraction strategies.
type PhraseTagger interface {
	// NounPhrases returns candidate noun-phrase spans found in the text.
	NounPhrases(text string) ([]string, error)

	// Entities returns named-entity spans found in the text.
	Entities(text string) ([]string, error)
}

// AIProvider aggregates AI services for convenient initialization and
// lifecycle management.
type AIProvider interface {
	// Generator returns the text generation service.
	Generator() TextGenerator

	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Close releases resources held by the provider and its services.
	Close() error
}
