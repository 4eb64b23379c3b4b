package storage_test

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/creatorcore/contextcore/pkg/storage"
)

var _ = Describe("Embedding codec", func() {
	It("round-trips a vector", func() {
		v := []float32{0.25, -1.5, 3.0, 0.0}

		decoded, err := storage.DecodeEmbedding(storage.EncodeEmbedding(v))
		Expect(err).NotTo(HaveOccurred())
		Expect(decoded).To(Equal(v))
	})

	It("encodes nil to nil so the column stays NULL", func() {
		Expect(storage.EncodeEmbedding(nil)).To(BeNil())
	})

	It("decodes empty input to nil", func() {
		decoded, err := storage.DecodeEmbedding(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(decoded).To(BeNil())
	})

	It("rejects blobs with truncated floats", func() {
		_, err := storage.DecodeEmbedding([]byte{1, 2, 3})
		Expect(err).To(HaveOccurred())
	})

	It("uses four bytes per dimension", func() {
		v := []float32{1, 2, 3}
		Expect(storage.EncodeEmbedding(v)).To(HaveLen(12))
	})
})

var _ = Describe("NotFoundError", func() {
	It("includes the ID in the message", func() {
		err := storage.NotFoundError{ID: "abc"}
		Expect(err.Error()).To(ContainSubstring("abc"))
	})

	It("is detected through wrapping", func() {
		err := fmt.Errorf("adjusting score: %w", storage.NotFoundError{ID: "abc"})
		Expect(storage.IsNotFound(err)).To(BeTrue())
	})

	It("does not match unrelated errors", func() {
		Expect(storage.IsNotFound(storage.ErrUnavailable)).To(BeFalse())
	})
})
