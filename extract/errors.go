package extract

import "errors"

var (
	// ErrEmptyText is returned when extraction is requested on empty or
	// whitespace-only text.
	ErrEmptyText = errors.New("text must not be empty")

	// ErrUnknownMethod is returned when an unrecognized extraction method is
	// requested.
	ErrUnknownMethod = errors.New("unknown extraction method")

	// ErrGeneratorUnavailable is returned when the generative strategy is
	// requested explicitly but no text generator is configured.
	ErrGeneratorUnavailable = errors.New("text generator not configured")

	// ErrGenerationFailed is returned by the generative strategy when every
	// chunk request failed and no concepts could be recovered.
	ErrGenerationFailed = errors.New("all generation requests failed")
)
