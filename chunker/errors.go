package chunker

import "errors"

// Configuration errors. These indicate caller programming errors, not data
// errors, and are returned rather than silently corrected.
var (
	// ErrChunkConfig is the base error for invalid chunking parameters.
	ErrChunkConfig = errors.New("invalid chunking configuration")

	// ErrInvalidSize indicates a chunk size <= 0.
	ErrInvalidSize = errors.New("chunk size must be greater than 0")

	// ErrInvalidOverlap indicates a negative overlap.
	ErrInvalidOverlap = errors.New("overlap cannot be negative")

	// ErrOverlapTooLarge indicates overlap >= size.
	ErrOverlapTooLarge = errors.New("overlap must be smaller than chunk size")
)
