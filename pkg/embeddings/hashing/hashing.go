// Package hashing implements a local, deterministic embedder.
//
// Text is lowercased and split into alphanumeric tokens; each token is
// FNV-1a hashed into one of D buckets with a hash-derived sign, and the
// resulting term-frequency vector is L2-normalized. The projection is crude
// compared to a learned model, but it is fast, dependency-free, and fully
// deterministic, which makes it the default for local development and tests:
// texts sharing tokens land near each other, and repeated calls are
// bit-identical.
package hashing

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// DefaultDimensions is the vector dimension used when none is configured.
const DefaultDimensions = 256

// Embedder implements embeddings.Embedder with a feature-hash projection.
type Embedder struct {
	dimensions int
}

// Config holds configuration for the hashing embedder.
type Config struct {
	// Dimensions is the output vector dimension.
	// Defaults to DefaultDimensions if zero.
	Dimensions uint
}

// NewEmbedder creates a new hashing embedder.
func NewEmbedder(cfg Config) *Embedder {
	dimensions := int(cfg.Dimensions)
	if dimensions == 0 {
		dimensions = DefaultDimensions
	}

	return &Embedder{dimensions: dimensions}
}

// Embed converts text into a deterministic fixed-dimension vector.
// Empty or whitespace-only text yields the zero vector.
func (e *Embedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dimensions)

	for _, token := range tokenize(text) {
		h := fnv.New64a()
		h.Write([]byte(token))
		sum := h.Sum64()

		idx := int(sum % uint64(e.dimensions))
		if sum&(1<<63) != 0 {
			vec[idx]--
		} else {
			vec[idx]++
		}
	}

	normalize(vec)

	return vec, nil
}

// Dimensions returns the fixed output dimension.
func (e *Embedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op for the hashing embedder.
func (e *Embedder) Close() error {
	return nil
}

// tokenize lowercases text and splits it on non-alphanumeric runes.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// normalize scales vec to unit length in place. The zero vector stays zero.
func normalize(vec []float32) {
	var sumSquares float64
	for _, v := range vec {
		sumSquares += float64(v) * float64(v)
	}

	if sumSquares == 0 {
		return
	}

	norm := math.Sqrt(sumSquares)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
}
