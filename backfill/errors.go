package backfill

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrEmbedderRequired is returned when a reembed run has no embedder
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrExtractorRequired is returned when a re-extraction run has no extractor
	ErrExtractorRequired = errors.New("extractor is required")
)
