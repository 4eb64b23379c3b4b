// Package storage
package storage

import (
	"context"

	"github.com/creatorcore/contextcore/pkg/artifact"
)

// Driver defines the interface for persisting and retrieving artifacts in a
// storage backend. The ranking engine depends on Scan's exact read semantics:
// results come back in insertion order so equal-score candidates keep a
// deterministic ordering.
type Driver interface {
	// Insert stores a new artifact. The artifact's ID must be set by the
	// caller and must not already exist in the store.
	Insert(ctx context.Context, a *artifact.Artifact) error

	// Get retrieves an artifact by its ID. Returns NotFoundError for
	// unknown IDs.
	Get(ctx context.Context, id string) (*artifact.Artifact, error)

	// Scan returns artifacts matching the query in insertion order.
	Scan(ctx context.Context, q Query) ([]*artifact.Artifact, error)

	// History returns artifacts ordered most-recent-first by creation time,
	// optionally restricted to a topic.
	History(ctx context.Context, topic string) ([]*artifact.Artifact, error)

	// AdjustScore atomically applies an additive delta to an artifact's
	// score and records the raw feedback text (last write wins on the text).
	// Returns the new score. Concurrent adjustments to the same artifact
	// must never lose a delta.
	AdjustScore(ctx context.Context, id string, delta float64, feedbackText string) (float64, error)

	// SetEmbedding attaches an embedding to an existing artifact. Used by
	// the backfill path for artifacts stored before an embedder was
	// configured.
	SetEmbedding(ctx context.Context, id string, embedding []float32) error

	// Close closes the store and releases any resources.
	Close() error
}

// Query defines filter parameters for Scan.
type Query struct {
	// Topic restricts results to artifacts with this exact topic when
	// non-empty.
	Topic string

	// Embedded filters on embedding presence: true for artifacts with an
	// embedding, false for artifacts without one, nil for all.
	Embedded *bool
}

// WithEmbedding is a Query that matches only artifacts carrying an embedding,
// the candidate set the ranker operates on.
func WithEmbedding(topic string) Query {
	embedded := true
	return Query{Topic: topic, Embedded: &embedded}
}

// MissingEmbedding is a Query that matches artifacts awaiting backfill.
func MissingEmbedding() Query {
	embedded := false
	return Query{Embedded: &embedded}
}
