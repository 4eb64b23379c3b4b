// Package artifact defines the stored unit of generated content.
package artifact

import (
	"time"

	"github.com/google/uuid"
)

// Artifact is one generated-text record with its embedding and feedback score.
// ID, Topic, Goal, Text, and CreatedAt are set once at creation and never
// change. Embedding is set at creation or backfilled later and has the
// embedder's fixed dimension when present. Score and Feedback are the only
// fields the feedback path mutates.
type Artifact struct {
	// ID is a unique identifier for the artifact, assigned at creation.
	ID string `json:"id"`

	// Topic is an optional grouping key.
	Topic string `json:"topic,omitempty"`

	// Goal is the caller-supplied intent the text was generated for.
	Goal string `json:"goal,omitempty"`

	// Text is the generated content.
	Text string `json:"text"`

	// Embedding is the vector representation of Text. Nil when not yet
	// embedded; artifacts without an embedding are excluded from ranking.
	Embedding []float32 `json:"embedding,omitempty"`

	// Score is the accumulated feedback score. Starts at 0.0 and only ever
	// moves by additive deltas.
	Score float64 `json:"score"`

	// Feedback is the raw text of the most recent feedback event.
	Feedback string `json:"feedback,omitempty"`

	// TokensUsed is the token count reported by the generator.
	TokensUsed int `json:"tokens_used,omitempty"`

	// CreatedAt orders history views (most recent first).
	CreatedAt time.Time `json:"created_at"`
}

// New creates an artifact with a fresh ID and creation timestamp.
func New(topic, goal, text string) *Artifact {
	return &Artifact{
		ID:        uuid.NewString(),
		Topic:     topic,
		Goal:      goal,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
}

// Embedded reports whether the artifact carries an embedding.
func (a *Artifact) Embedded() bool {
	return len(a.Embedding) > 0
}
