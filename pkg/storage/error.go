package storage

import "errors"

// ErrUnavailable is returned when the persistence backend is unreachable.
// Callers surface it rather than returning partial, silently-truncated
// results.
var ErrUnavailable = errors.New("artifact store unavailable")

// NotFoundError is returned when an artifact doesn't exist in the store.
type NotFoundError struct {
	ID string
}

func (e NotFoundError) Error() string {
	if e.ID == "" {
		return "artifact not found"
	}

	return "artifact not found: " + e.ID
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}
