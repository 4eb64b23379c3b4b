package inmemory_test

import (
	"context"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/creatorcore/contextcore/pkg/artifact"
	"github.com/creatorcore/contextcore/pkg/storage"
	"github.com/creatorcore/contextcore/pkg/storage/inmemory"
)

var _ = Describe("InMemory Driver", func() {
	var (
		driver *inmemory.Driver
		ctx    context.Context
	)

	BeforeEach(func() {
		driver = inmemory.NewDriver()
		ctx = context.Background()
	})

	newArtifact := func(id, topic string) *artifact.Artifact {
		a := artifact.New(topic, "test goal", "text about "+topic)
		a.ID = id
		return a
	}

	Describe("Insert and Get", func() {
		It("round-trips an artifact", func() {
			a := newArtifact("a1", "space")
			a.Embedding = []float32{0.1, 0.2}
			a.TokensUsed = 12

			Expect(driver.Insert(ctx, a)).To(Succeed())

			got, err := driver.Get(ctx, "a1")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Topic).To(Equal("space"))
			Expect(got.Text).To(Equal("text about space"))
			Expect(got.Embedding).To(Equal([]float32{0.1, 0.2}))
			Expect(got.TokensUsed).To(Equal(12))
		})

		It("rejects duplicate IDs", func() {
			Expect(driver.Insert(ctx, newArtifact("a1", "space"))).To(Succeed())
			Expect(driver.Insert(ctx, newArtifact("a1", "space"))).NotTo(Succeed())
		})

		It("returns NotFoundError for unknown IDs", func() {
			_, err := driver.Get(ctx, "missing")
			Expect(storage.IsNotFound(err)).To(BeTrue())
		})

		It("copies records so callers cannot mutate stored state", func() {
			a := newArtifact("a1", "space")
			Expect(driver.Insert(ctx, a)).To(Succeed())
			a.Topic = "mutated"

			got, err := driver.Get(ctx, "a1")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Topic).To(Equal("space"))

			got.Topic = "also mutated"
			again, err := driver.Get(ctx, "a1")
			Expect(err).NotTo(HaveOccurred())
			Expect(again.Topic).To(Equal("space"))
		})
	})

	Describe("Scan", func() {
		BeforeEach(func() {
			withEmb := newArtifact("a1", "space")
			withEmb.Embedding = []float32{1}
			Expect(driver.Insert(ctx, withEmb)).To(Succeed())
			Expect(driver.Insert(ctx, newArtifact("a2", "ocean"))).To(Succeed())

			withEmb2 := newArtifact("a3", "space")
			withEmb2.Embedding = []float32{1}
			Expect(driver.Insert(ctx, withEmb2)).To(Succeed())
		})

		It("returns all artifacts in insertion order", func() {
			results, err := driver.Scan(ctx, storage.Query{})
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(3))
			Expect(results[0].ID).To(Equal("a1"))
			Expect(results[1].ID).To(Equal("a2"))
			Expect(results[2].ID).To(Equal("a3"))
		})

		It("filters by topic", func() {
			results, err := driver.Scan(ctx, storage.Query{Topic: "ocean"})
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(results[0].ID).To(Equal("a2"))
		})

		It("filters to embedded artifacts", func() {
			results, err := driver.Scan(ctx, storage.WithEmbedding(""))
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
			Expect(results[0].ID).To(Equal("a1"))
			Expect(results[1].ID).To(Equal("a3"))
		})

		It("filters to artifacts missing embeddings", func() {
			results, err := driver.Scan(ctx, storage.MissingEmbedding())
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(results[0].ID).To(Equal("a2"))
		})

		It("combines topic and embedding filters", func() {
			results, err := driver.Scan(ctx, storage.WithEmbedding("space"))
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
		})
	})

	Describe("History", func() {
		It("returns artifacts most-recent-first", func() {
			old := newArtifact("old", "space")
			old.CreatedAt = time.Now().UTC().Add(-time.Hour)
			newer := newArtifact("newer", "space")
			newer.CreatedAt = time.Now().UTC()

			Expect(driver.Insert(ctx, old)).To(Succeed())
			Expect(driver.Insert(ctx, newer)).To(Succeed())

			results, err := driver.History(ctx, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
			Expect(results[0].ID).To(Equal("newer"))
			Expect(results[1].ID).To(Equal("old"))
		})

		It("restricts to a topic", func() {
			Expect(driver.Insert(ctx, newArtifact("a1", "space"))).To(Succeed())
			Expect(driver.Insert(ctx, newArtifact("a2", "ocean"))).To(Succeed())

			results, err := driver.History(ctx, "ocean")
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(results[0].ID).To(Equal("a2"))
		})
	})

	Describe("AdjustScore", func() {
		BeforeEach(func() {
			Expect(driver.Insert(ctx, newArtifact("a1", "space"))).To(Succeed())
		})

		It("accumulates deltas", func() {
			score, err := driver.AdjustScore(ctx, "a1", 2, "+2")
			Expect(err).NotTo(HaveOccurred())
			Expect(score).To(Equal(2.0))

			score, err = driver.AdjustScore(ctx, "a1", 3, "+3")
			Expect(err).NotTo(HaveOccurred())
			Expect(score).To(Equal(5.0))
		})

		It("records the latest feedback text", func() {
			_, err := driver.AdjustScore(ctx, "a1", 0.5, "great stuff")
			Expect(err).NotTo(HaveOccurred())

			got, err := driver.Get(ctx, "a1")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Feedback).To(Equal("great stuff"))
		})

		It("returns NotFoundError and leaves the store unchanged for unknown IDs", func() {
			before := driver.Count()

			_, err := driver.AdjustScore(ctx, "missing", 1, "+1")
			Expect(storage.IsNotFound(err)).To(BeTrue())
			Expect(driver.Count()).To(Equal(before))

			got, err := driver.Get(ctx, "a1")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Score).To(BeZero())
		})

		It("never loses a delta under concurrent feedback", func() {
			var wg sync.WaitGroup
			for range 50 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := driver.AdjustScore(ctx, "a1", 1, "+1")
					Expect(err).NotTo(HaveOccurred())
				}()
			}
			wg.Wait()

			got, err := driver.Get(ctx, "a1")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Score).To(Equal(50.0))
		})
	})

	Describe("SetEmbedding", func() {
		It("attaches an embedding to a stored artifact", func() {
			Expect(driver.Insert(ctx, newArtifact("a1", "space"))).To(Succeed())

			Expect(driver.SetEmbedding(ctx, "a1", []float32{0.5, 0.5})).To(Succeed())

			got, err := driver.Get(ctx, "a1")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Embedded()).To(BeTrue())
			Expect(got.Embedding).To(Equal([]float32{0.5, 0.5}))
		})

		It("returns NotFoundError for unknown IDs", func() {
			err := driver.SetEmbedding(ctx, "missing", []float32{1})
			Expect(storage.IsNotFound(err)).To(BeTrue())
		})
	})
})
