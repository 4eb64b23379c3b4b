// Package engine composes generation, embedding, storage, ranking, and
// feedback into the three operations the API exposes.
//
// The generation flow is: validate -> generate text (bounded by the
// configured timeout) -> embed -> insert -> rank against the existing corpus
// -> respond with the text and its related context. The artifact just
// inserted is excluded from its own ranking pass.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/creatorcore/contextcore/pkg/artifact"
	"github.com/creatorcore/contextcore/pkg/embeddings"
	"github.com/creatorcore/contextcore/pkg/feedback"
	"github.com/creatorcore/contextcore/pkg/generate"
	"github.com/creatorcore/contextcore/pkg/ranking"
	"github.com/creatorcore/contextcore/pkg/storage"
)

const (
	// DefaultTopK is the related-context list size when unconfigured.
	DefaultTopK = 3

	// DefaultTimeout bounds generation and embedding when unconfigured.
	DefaultTimeout = 15 * time.Second
)

// Config holds engine configuration.
type Config struct {
	// TopK is the maximum size of the related-context list.
	// Defaults to DefaultTopK if zero.
	TopK int

	// Timeout bounds the external generation and embedding calls per
	// request. Defaults to DefaultTimeout if zero.
	Timeout time.Duration

	// TopicScoped restricts ranking candidates to the request's topic.
	TopicScoped bool

	// FeedbackMode selects the default feedback scorer
	// (feedback.ModeDelta or feedback.ModeKeyword).
	// Defaults to feedback.ModeKeyword if empty.
	FeedbackMode string
}

// Engine orchestrates the generation, feedback, and history operations.
type Engine struct {
	config    Config
	store     storage.Driver
	embedder  embeddings.Embedder
	generator generate.Generator
	ranker    *ranking.Ranker
	logger    *zap.Logger
}

// New creates an Engine. The collaborators are injected so tests can swap in
// mocks and deployments can pick backends at startup.
func New(cfg Config, store storage.Driver, embedder embeddings.Embedder, generator generate.Generator, ranker *ranking.Ranker, logger *zap.Logger) (*Engine, error) {
	if cfg.TopK == 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.TopK < 0 {
		return nil, fmt.Errorf("topK must be positive, got %d", cfg.TopK)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.FeedbackMode == "" {
		cfg.FeedbackMode = feedback.ModeKeyword
	}
	if _, err := feedback.NewScorer(cfg.FeedbackMode); err != nil {
		return nil, err
	}

	return &Engine{
		config:    cfg,
		store:     store,
		embedder:  embedder,
		generator: generator,
		ranker:    ranker,
		logger:    logger,
	}, nil
}

// GenerateRequest is the caller input for one generation.
type GenerateRequest struct {
	// Topic is the subject to generate for. Required.
	Topic string `json:"topic"`

	// Goal is the intent of the generation. Required.
	Goal string `json:"goal"`

	// Type selects the generation template (story, ad, podcast).
	// Defaults to story.
	Type string `json:"type,omitempty"`
}

// RelatedContext is one entry of the ranked related-artifact list.
// Similarity and CombinedScore are rounded to three decimals for stable
// comparison.
type RelatedContext struct {
	ID            string  `json:"id"`
	Topic         string  `json:"topic,omitempty"`
	Text          string  `json:"text"`
	Similarity    float64 `json:"similarity"`
	FeedbackScore float64 `json:"feedback_score"`
	CombinedScore float64 `json:"combined_score"`
}

// GenerateResult is the response to a generation request.
type GenerateResult struct {
	ID         string           `json:"id"`
	Topic      string           `json:"topic"`
	Text       string           `json:"text"`
	TokensUsed int              `json:"tokens_used"`
	Related    []RelatedContext `json:"related_context"`
}

// FeedbackResult is the response to a feedback event.
type FeedbackResult struct {
	ID       string  `json:"id"`
	NewScore float64 `json:"new_score"`
}

// Generate runs the full generation flow for one request.
func (e *Engine) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	topic := strings.TrimSpace(req.Topic)
	goal := strings.TrimSpace(req.Goal)
	if topic == "" || goal == "" {
		return nil, fmt.Errorf("%w: topic and goal are required", ErrInvalidRequest)
	}

	typ := req.Type
	if typ == "" {
		typ = generate.TypeStory
	}

	genCtx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	generation, err := e.generator.GenerateText(genCtx, typ, topic, goal)
	if errors.Is(err, generate.ErrUnknownType) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if err != nil {
		return nil, e.timeoutOr(genCtx, fmt.Errorf("generating text: %w", err))
	}

	embedding, err := e.embedder.Embed(genCtx, generation.Text)
	if err != nil {
		return nil, e.timeoutOr(genCtx, fmt.Errorf("embedding generated text: %w", err))
	}

	a := artifact.New(topic, goal, generation.Text)
	a.Embedding = embedding
	a.TokensUsed = generation.TokensUsed

	if err := e.store.Insert(ctx, a); err != nil {
		return nil, storeFailure("storing artifact", err)
	}

	related, err := e.relatedContext(ctx, a)
	if err != nil {
		return nil, err
	}

	e.logger.Info("generated artifact",
		zap.String("id", a.ID),
		zap.String("topic", topic),
		zap.String("type", typ),
		zap.Int("related", len(related)),
	)

	return &GenerateResult{
		ID:         a.ID,
		Topic:      topic,
		Text:       generation.Text,
		TokensUsed: generation.TokensUsed,
		Related:    related,
	}, nil
}

// relatedContext ranks the stored corpus against the new artifact and
// hydrates the top entries. The new artifact itself is excluded: it would
// trivially rank first at similarity 1.0.
func (e *Engine) relatedContext(ctx context.Context, a *artifact.Artifact) ([]RelatedContext, error) {
	topic := ""
	if e.config.TopicScoped {
		topic = a.Topic
	}

	corpus, err := e.store.Scan(ctx, storage.WithEmbedding(topic))
	if err != nil {
		return nil, storeFailure("scanning ranking candidates", err)
	}

	byID := make(map[string]*artifact.Artifact, len(corpus))
	candidates := make([]ranking.Candidate, 0, len(corpus))
	for _, c := range corpus {
		if c.ID == a.ID {
			continue
		}

		byID[c.ID] = c
		candidates = append(candidates, ranking.Candidate{
			ID:        c.ID,
			Embedding: c.Embedding,
			Score:     c.Score,
		})
	}

	ranked, err := e.ranker.Rank(a.Embedding, candidates, e.config.TopK)
	if err != nil {
		return nil, fmt.Errorf("ranking candidates: %w", err)
	}

	related := make([]RelatedContext, 0, len(ranked))
	for _, r := range ranked {
		c := byID[r.ID]
		related = append(related, RelatedContext{
			ID:            r.ID,
			Topic:         c.Topic,
			Text:          c.Text,
			Similarity:    round3(r.Similarity),
			FeedbackScore: r.Score,
			CombinedScore: round3(r.Combined),
		})
	}

	return related, nil
}

// Feedback applies one feedback event to a stored artifact. Parse errors
// mutate nothing; the delta and the raw feedback text land in one atomic
// store update.
func (e *Engine) Feedback(ctx context.Context, id, feedbackText, modeOverride string) (*FeedbackResult, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: artifact id is required", ErrInvalidRequest)
	}

	mode := e.config.FeedbackMode
	if modeOverride != "" {
		mode = modeOverride
	}

	scorer, err := feedback.NewScorer(mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	delta, err := scorer.Delta(feedbackText)
	if err != nil {
		return nil, err
	}

	newScore, err := e.store.AdjustScore(ctx, id, delta, feedbackText)
	if err != nil {
		return nil, storeFailure("adjusting score", err)
	}

	e.logger.Info("feedback applied",
		zap.String("id", id),
		zap.String("mode", mode),
		zap.Float64("delta", delta),
		zap.Float64("new_score", newScore),
	)

	return &FeedbackResult{ID: id, NewScore: newScore}, nil
}

// History lists stored artifacts most-recent-first, optionally restricted to
// a topic.
func (e *Engine) History(ctx context.Context, topic string) ([]*artifact.Artifact, error) {
	artifacts, err := e.store.History(ctx, topic)
	if err != nil {
		return nil, storeFailure("listing history", err)
	}

	return artifacts, nil
}

// timeoutOr maps a deadline-exceeded context onto ErrGenerationTimeout,
// otherwise passes the original error through.
func (e *Engine) timeoutOr(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s", ErrGenerationTimeout, e.config.Timeout)
	}
	return err
}

// storeFailure tags a backend error with storage.ErrUnavailable so callers
// can tell an unreachable store apart from a bad request. Not-found and
// already-tagged errors pass through unchanged.
func storeFailure(op string, err error) error {
	if storage.IsNotFound(err) || errors.Is(err, storage.ErrUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %v", op, storage.ErrUnavailable, err)
}

// round3 rounds to three decimal places for stable response comparison.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
