// Package generate defines the text-generation capability the engine
// consumes.
package generate

import (
	"context"
	"errors"
)

// Canonical generation types. Every backend supports at least these; TypeStory
// is the default when a request leaves the type unset.
const (
	TypeStory   = "story"
	TypeAd      = "ad"
	TypePodcast = "podcast"
)

// ErrUnknownType is returned when a backend has no template or strategy for
// the requested generation type.
var ErrUnknownType = errors.New("unknown generation type")

// Generation is the result of one text-generation call.
type Generation struct {
	// Text is the generated content.
	Text string

	// TokensUsed is the backend-reported token count.
	TokensUsed int
}

// Generator produces text for a (type, topic, goal) request. Backends may be
// deterministic template fills or real model calls; callers bound latency via
// the context deadline.
type Generator interface {
	// GenerateText produces content of the given type for topic and goal.
	GenerateText(ctx context.Context, typ, topic, goal string) (*Generation, error)

	// Close releases any resources held by the generator.
	Close() error
}
