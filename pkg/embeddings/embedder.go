// Package embeddings
package embeddings

import "context"

// Embedder provides text embedding capabilities.
//
// Implementations are deterministic: the same text always yields the same
// vector. Empty or whitespace-only input embeds to the zero vector of the
// embedder's dimension rather than erroring; a zero vector has cosine
// similarity 0.0 against everything, so degenerate inputs never rank.
type Embedder interface {
	// Embed converts text into a vector embedding of exactly Dimensions()
	// elements.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the fixed output dimension of this embedder.
	Dimensions() int

	// Close releases any resources held by the embedder.
	Close() error
}
