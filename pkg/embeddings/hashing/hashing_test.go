package hashing_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/creatorcore/contextcore/pkg/embeddings/hashing"
	"github.com/creatorcore/contextcore/pkg/ranking"
)

var _ = Describe("Hashing Embedder", func() {
	var (
		embedder *hashing.Embedder
		ctx      context.Context
	)

	BeforeEach(func() {
		embedder = hashing.NewEmbedder(hashing.Config{})
		ctx = context.Background()
	})

	It("defaults to 256 dimensions", func() {
		Expect(embedder.Dimensions()).To(Equal(hashing.DefaultDimensions))
	})

	It("honors a configured dimension", func() {
		e := hashing.NewEmbedder(hashing.Config{Dimensions: 64})
		Expect(e.Dimensions()).To(Equal(64))

		vec, err := e.Embed(ctx, "hello world")
		Expect(err).NotTo(HaveOccurred())
		Expect(vec).To(HaveLen(64))
	})

	It("is deterministic across calls", func() {
		a, err := embedder.Embed(ctx, "the quick brown fox")
		Expect(err).NotTo(HaveOccurred())

		b, err := embedder.Embed(ctx, "the quick brown fox")
		Expect(err).NotTo(HaveOccurred())

		Expect(a).To(Equal(b))
	})

	It("produces unit-length vectors for non-empty text", func() {
		vec, err := embedder.Embed(ctx, "normalize me please")
		Expect(err).NotTo(HaveOccurred())

		var sumSquares float64
		for _, v := range vec {
			sumSquares += float64(v) * float64(v)
		}
		Expect(math.Sqrt(sumSquares)).To(BeNumerically("~", 1.0, 1e-6))
	})

	It("yields the zero vector for empty text", func() {
		vec, err := embedder.Embed(ctx, "   ")
		Expect(err).NotTo(HaveOccurred())
		Expect(vec).To(HaveLen(embedder.Dimensions()))
		for _, v := range vec {
			Expect(v).To(BeZero())
		}
	})

	It("ignores case and punctuation in tokenization", func() {
		a, err := embedder.Embed(ctx, "Hello, World!")
		Expect(err).NotTo(HaveOccurred())

		b, err := embedder.Embed(ctx, "hello world")
		Expect(err).NotTo(HaveOccurred())

		Expect(a).To(Equal(b))
	})

	It("places texts sharing tokens closer than unrelated texts", func() {
		base, err := embedder.Embed(ctx, "a story about deep space exploration")
		Expect(err).NotTo(HaveOccurred())

		near, err := embedder.Embed(ctx, "another story about space travel")
		Expect(err).NotTo(HaveOccurred())

		far, err := embedder.Embed(ctx, "quarterly accounting compliance report")
		Expect(err).NotTo(HaveOccurred())

		Expect(ranking.Cosine(base, near)).To(BeNumerically(">", ranking.Cosine(base, far)))
	})
})
