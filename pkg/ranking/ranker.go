// Package ranking implements the context-relevance ranking engine.
//
// A query embedding is compared against every candidate in the corpus by
// cosine similarity, the similarity is blended with the candidate's
// accumulated feedback score under a configured strategy, and the top-K
// candidates come back in a deterministic order. The corpus is scanned in
// full per request; candidates are expected to fit in memory.
package ranking

import (
	"fmt"
	"math"
	"sort"
)

// Strategy names a blend formula for combining similarity with feedback score.
type Strategy string

const (
	// StrategyWeighted blends the raw feedback score with a per-request
	// weight: combined = similarity + scoreWeight*score. A weight of 0
	// gives pure-similarity ranking.
	StrategyWeighted Strategy = "weighted"

	// StrategyNormalized min-max normalizes all candidate scores into
	// [0,1] and blends with fixed weights:
	// combined = 0.7*similarity + 0.3*normalized.
	StrategyNormalized Strategy = "normalized"
)

// Fixed blend weights for StrategyNormalized.
const (
	normalizedSimilarityWeight = 0.7
	normalizedScoreWeight      = 0.3
)

// Candidate is one corpus entry considered for ranking.
type Candidate struct {
	// ID identifies the underlying artifact.
	ID string

	// Embedding is the candidate's vector. Candidates without an
	// embedding are excluded from ranking.
	Embedding []float32

	// Score is the candidate's accumulated feedback score.
	Score float64
}

// Ranked is one ranking result.
type Ranked struct {
	// ID identifies the underlying artifact.
	ID string

	// Similarity is the raw cosine similarity against the query.
	Similarity float64

	// Score is the candidate's feedback score as seen at ranking time.
	Score float64

	// Combined is the blended relevance value the ordering is based on.
	Combined float64
}

// Ranker computes blended relevance orderings under one strategy.
type Ranker struct {
	strategy    Strategy
	scoreWeight float64
}

// Config holds configuration for a Ranker.
type Config struct {
	// Strategy selects the blend formula. Defaults to StrategyWeighted.
	Strategy Strategy

	// ScoreWeight is the feedback-score weight for StrategyWeighted.
	// Ignored by StrategyNormalized. Defaults to 0 (pure similarity).
	ScoreWeight float64
}

// NewRanker creates a Ranker. Unknown strategies are rejected so a
// misconfigured deployment fails at startup, not at request time.
func NewRanker(cfg Config) (*Ranker, error) {
	strategy := cfg.Strategy
	if strategy == "" {
		strategy = StrategyWeighted
	}

	switch strategy {
	case StrategyWeighted, StrategyNormalized:
	default:
		return nil, fmt.Errorf("unsupported ranking strategy: %s", strategy)
	}

	return &Ranker{
		strategy:    strategy,
		scoreWeight: cfg.ScoreWeight,
	}, nil
}

// Strategy returns the active blend strategy.
func (r *Ranker) Strategy() Strategy {
	return r.strategy
}

// Rank orders candidates by blended relevance against the query vector and
// returns at most topK entries. Candidates without an embedding are skipped.
// The sort is stable: equal combined scores preserve candidate order, which
// keeps rankings deterministic for a given scan order. An empty candidate
// set yields an empty (non-nil) result.
func (r *Ranker) Rank(query []float32, candidates []Candidate, topK int) ([]Ranked, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("topK must be positive, got %d", topK)
	}

	ranked := make([]Ranked, 0, len(candidates))
	for _, c := range candidates {
		if len(c.Embedding) == 0 {
			continue
		}

		ranked = append(ranked, Ranked{
			ID:         c.ID,
			Similarity: Cosine(query, c.Embedding),
			Score:      c.Score,
		})
	}

	r.combine(ranked)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Combined > ranked[j].Combined
	})

	if len(ranked) > topK {
		ranked = ranked[:topK]
	}

	return ranked, nil
}

// combine fills in the Combined field for every entry under the active
// strategy.
func (r *Ranker) combine(ranked []Ranked) {
	switch r.strategy {
	case StrategyNormalized:
		norms := normalizeScores(ranked)
		for i := range ranked {
			ranked[i].Combined = normalizedSimilarityWeight*ranked[i].Similarity +
				normalizedScoreWeight*norms[i]
		}
	default:
		for i := range ranked {
			ranked[i].Combined = ranked[i].Similarity + r.scoreWeight*ranked[i].Score
		}
	}
}

// normalizeScores min-max scales feedback scores into [0,1]. When every
// candidate has the same score there is no spread to normalize over, so each
// one maps to 0.5.
func normalizeScores(ranked []Ranked) []float64 {
	norms := make([]float64, len(ranked))
	if len(ranked) == 0 {
		return norms
	}

	minScore, maxScore := ranked[0].Score, ranked[0].Score
	for _, e := range ranked[1:] {
		minScore = math.Min(minScore, e.Score)
		maxScore = math.Max(maxScore, e.Score)
	}

	if maxScore == minScore {
		for i := range norms {
			norms[i] = 0.5
		}
		return norms
	}

	for i, e := range ranked {
		norms[i] = (e.Score - minScore) / (maxScore - minScore)
	}

	return norms
}

// Cosine computes cosine similarity between two vectors. A zero-norm vector
// (or mismatched/empty input) yields 0.0 rather than an error or NaN.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
