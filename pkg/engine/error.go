package engine

import "errors"

var (
	// ErrInvalidRequest is returned for missing or malformed caller input.
	// It is detected at the engine boundary and never reaches the ranker
	// or the store.
	ErrInvalidRequest = errors.New("invalid generation request")

	// ErrGenerationTimeout is returned when the external generation or
	// embedding call exceeds the configured bound. The engine never
	// retries; the caller decides.
	ErrGenerationTimeout = errors.New("generation timed out")
)
