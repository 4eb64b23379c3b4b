package feedback_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/creatorcore/contextcore/pkg/feedback"
)

var _ = Describe("DeltaScorer", func() {
	var scorer feedback.DeltaScorer

	It("parses positive commands", func() {
		delta, err := scorer.Delta("+2")
		Expect(err).NotTo(HaveOccurred())
		Expect(delta).To(Equal(2.0))
	})

	It("parses negative fractional commands", func() {
		delta, err := scorer.Delta("-1.5")
		Expect(err).NotTo(HaveOccurred())
		Expect(delta).To(Equal(-1.5))
	})

	It("trims surrounding whitespace", func() {
		delta, err := scorer.Delta("  +3  ")
		Expect(err).NotTo(HaveOccurred())
		Expect(delta).To(Equal(3.0))
	})

	It("rejects commands without a sign", func() {
		_, err := scorer.Delta("5")
		Expect(errors.Is(err, feedback.ErrInvalidCommand)).To(BeTrue())
	})

	It("rejects non-numeric magnitudes", func() {
		_, err := scorer.Delta("+lots")
		Expect(errors.Is(err, feedback.ErrInvalidCommand)).To(BeTrue())
	})

	It("rejects empty input", func() {
		_, err := scorer.Delta("   ")
		Expect(errors.Is(err, feedback.ErrInvalidCommand)).To(BeTrue())
	})
})

var _ = Describe("KeywordScorer", func() {
	var scorer feedback.KeywordScorer

	It("scores mixed positive feedback by matched keywords", func() {
		// "great" and "love" match: +0.5 each.
		delta, err := scorer.Delta("This is great work, I love it!")
		Expect(err).NotTo(HaveOccurred())
		Expect(delta).To(Equal(1.0))
	})

	It("scores negative feedback", func() {
		// "terrible" and "hate" match: -0.5 each.
		delta, err := scorer.Delta("Terrible output, I hate it")
		Expect(err).NotTo(HaveOccurred())
		Expect(delta).To(Equal(-1.0))
	})

	It("nets positive and negative matches against each other", func() {
		delta, err := scorer.Delta("good idea but poor execution")
		Expect(err).NotTo(HaveOccurred())
		Expect(delta).To(BeZero())
	})

	It("matches case-insensitively", func() {
		delta, err := scorer.Delta("EXCELLENT")
		Expect(err).NotTo(HaveOccurred())
		Expect(delta).To(Equal(0.5))
	})

	It("matches substrings inside longer words", func() {
		// "dislike" contains "like", so both keywords fire.
		delta, err := scorer.Delta("dislike")
		Expect(err).NotTo(HaveOccurred())
		Expect(delta).To(BeZero())
	})

	It("returns zero for neutral text", func() {
		delta, err := scorer.Delta("the output exists")
		Expect(err).NotTo(HaveOccurred())
		Expect(delta).To(BeZero())
	})
})

var _ = Describe("NewScorer", func() {
	It("returns the delta scorer for delta mode", func() {
		scorer, err := feedback.NewScorer(feedback.ModeDelta)
		Expect(err).NotTo(HaveOccurred())
		Expect(scorer).To(BeAssignableToTypeOf(feedback.DeltaScorer{}))
	})

	It("returns the keyword scorer for keyword mode", func() {
		scorer, err := feedback.NewScorer(feedback.ModeKeyword)
		Expect(err).NotTo(HaveOccurred())
		Expect(scorer).To(BeAssignableToTypeOf(feedback.KeywordScorer{}))
	})

	It("rejects unknown modes", func() {
		_, err := feedback.NewScorer("sentiment-llm")
		Expect(err).To(HaveOccurred())
	})
})
