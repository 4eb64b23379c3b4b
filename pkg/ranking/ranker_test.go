package ranking_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/creatorcore/contextcore/pkg/ranking"
)

var _ = Describe("Cosine", func() {
	It("returns 1.0 for a vector against itself", func() {
		v := []float32{0.3, 0.5, 0.2}
		Expect(ranking.Cosine(v, v)).To(BeNumerically("~", 1.0, 1e-9))
	})

	It("is symmetric", func() {
		a := []float32{1, 2, 3}
		b := []float32{4, 0, 1}
		Expect(ranking.Cosine(a, b)).To(Equal(ranking.Cosine(b, a)))
	})

	It("returns 0.0 for orthogonal vectors", func() {
		a := []float32{1, 0}
		b := []float32{0, 1}
		Expect(ranking.Cosine(a, b)).To(BeZero())
	})

	It("returns -1.0 for opposite vectors", func() {
		a := []float32{1, 1}
		b := []float32{-1, -1}
		Expect(ranking.Cosine(a, b)).To(BeNumerically("~", -1.0, 1e-9))
	})

	It("returns 0.0 for a zero-norm vector", func() {
		a := []float32{0, 0, 0}
		b := []float32{1, 2, 3}
		Expect(ranking.Cosine(a, b)).To(BeZero())
	})

	It("returns 0.0 for mismatched lengths", func() {
		a := []float32{1, 2}
		b := []float32{1, 2, 3}
		Expect(ranking.Cosine(a, b)).To(BeZero())
	})

	It("returns 0.0 for empty input", func() {
		Expect(ranking.Cosine(nil, []float32{1})).To(BeZero())
	})
})

var _ = Describe("Ranker", func() {
	var query []float32

	BeforeEach(func() {
		query = []float32{1, 0, 0}
	})

	newRanker := func(cfg ranking.Config) *ranking.Ranker {
		r, err := ranking.NewRanker(cfg)
		Expect(err).NotTo(HaveOccurred())
		return r
	}

	Describe("NewRanker", func() {
		It("defaults to the weighted strategy", func() {
			r := newRanker(ranking.Config{})
			Expect(r.Strategy()).To(Equal(ranking.StrategyWeighted))
		})

		It("rejects unknown strategies", func() {
			_, err := ranking.NewRanker(ranking.Config{Strategy: "bogus"})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Rank with the weighted strategy", func() {
		It("orders by similarity when the score weight is zero", func() {
			r := newRanker(ranking.Config{Strategy: ranking.StrategyWeighted})

			ranked, err := r.Rank(query, []ranking.Candidate{
				{ID: "far", Embedding: []float32{0, 1, 0}},
				{ID: "near", Embedding: []float32{1, 0.1, 0}},
			}, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(ranked).To(HaveLen(2))
			Expect(ranked[0].ID).To(Equal("near"))
			Expect(ranked[1].ID).To(Equal("far"))
		})

		It("lets a high feedback score outrank a closer candidate", func() {
			r := newRanker(ranking.Config{
				Strategy:    ranking.StrategyWeighted,
				ScoreWeight: 0.1,
			})

			ranked, err := r.Rank(query, []ranking.Candidate{
				{ID: "near", Embedding: []float32{1, 0.1, 0}, Score: 0},
				{ID: "boosted", Embedding: []float32{0, 1, 0}, Score: 50},
			}, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(ranked[0].ID).To(Equal("boosted"))
			Expect(ranked[0].Combined).To(BeNumerically("~", 5.0, 1e-9))
		})

		It("returns at most topK entries", func() {
			r := newRanker(ranking.Config{})

			candidates := []ranking.Candidate{
				{ID: "a", Embedding: []float32{1, 0, 0}},
				{ID: "b", Embedding: []float32{0.9, 0.1, 0}},
				{ID: "c", Embedding: []float32{0.8, 0.2, 0}},
			}

			ranked, err := r.Rank(query, candidates, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(ranked).To(HaveLen(2))
		})

		It("rejects a non-positive topK", func() {
			r := newRanker(ranking.Config{})
			_, err := r.Rank(query, nil, 0)
			Expect(err).To(HaveOccurred())
		})

		It("returns an empty non-nil slice for an empty corpus", func() {
			r := newRanker(ranking.Config{})
			ranked, err := r.Rank(query, nil, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(ranked).NotTo(BeNil())
			Expect(ranked).To(BeEmpty())
		})

		It("skips candidates without embeddings", func() {
			r := newRanker(ranking.Config{})
			ranked, err := r.Rank(query, []ranking.Candidate{
				{ID: "no-embedding"},
				{ID: "embedded", Embedding: []float32{1, 0, 0}},
			}, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(ranked).To(HaveLen(1))
			Expect(ranked[0].ID).To(Equal("embedded"))
		})

		It("preserves candidate order for equal combined scores", func() {
			r := newRanker(ranking.Config{})

			tie := []float32{1, 0, 0}
			ranked, err := r.Rank(query, []ranking.Candidate{
				{ID: "first", Embedding: tie},
				{ID: "second", Embedding: tie},
				{ID: "third", Embedding: tie},
			}, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(ranked[0].ID).To(Equal("first"))
			Expect(ranked[1].ID).To(Equal("second"))
			Expect(ranked[2].ID).To(Equal("third"))
		})
	})

	Describe("Rank with the normalized strategy", func() {
		It("blends similarity and min-max normalized scores with 0.7/0.3 weights", func() {
			r := newRanker(ranking.Config{Strategy: ranking.StrategyNormalized})

			ranked, err := r.Rank(query, []ranking.Candidate{
				{ID: "low", Embedding: []float32{1, 0, 0}, Score: 0},
				{ID: "high", Embedding: []float32{1, 0, 0}, Score: 10},
			}, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(ranked[0].ID).To(Equal("high"))
			// high: 0.7*1.0 + 0.3*1.0, low: 0.7*1.0 + 0.3*0.0
			Expect(ranked[0].Combined).To(BeNumerically("~", 1.0, 1e-9))
			Expect(ranked[1].Combined).To(BeNumerically("~", 0.7, 1e-9))
		})

		It("maps equal scores to 0.5 so ordering falls back to similarity", func() {
			r := newRanker(ranking.Config{Strategy: ranking.StrategyNormalized})

			ranked, err := r.Rank(query, []ranking.Candidate{
				{ID: "far", Embedding: []float32{0, 1, 0}, Score: 3},
				{ID: "near", Embedding: []float32{1, 0, 0}, Score: 3},
			}, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(ranked[0].ID).To(Equal("near"))
			Expect(ranked[0].Combined).To(BeNumerically("~", 0.7*1.0+0.3*0.5, 1e-9))
			Expect(ranked[1].Combined).To(BeNumerically("~", 0.3*0.5, 1e-9))
		})
	})
})
