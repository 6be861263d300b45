package ingestion

import "errors"

var (
	// ErrDocumentStoreRequired is returned when NewPipeline is called
	// without a document store.
	ErrDocumentStoreRequired = errors.New("document store required")

	// ErrGraphStoreRequired is returned when NewPipeline is called without
	// a graph store.
	ErrGraphStoreRequired = errors.New("graph store required")

	// ErrExtractorRequired is returned when NewPipeline is called without
	// an extractor.
	ErrExtractorRequired = errors.New("extractor required")

	// ErrEmptyDocument is returned when Ingest is called with empty or
	// whitespace-only text.
	ErrEmptyDocument = errors.New("document text must not be empty")
)
