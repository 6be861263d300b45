package fingerprint

import "errors"

var (
	// ErrIndexRequired is returned when a document index is not provided.
	ErrIndexRequired = errors.New("document index required")
)
