// Package inmemory provides an in-memory implementation of storage.Driver.
package inmemory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/creatorcore/contextcore/pkg/artifact"
	"github.com/creatorcore/contextcore/pkg/storage"
)

// Driver implements storage.Driver using in-process data structures.
type Driver struct {
	// mu guards both maps; score adjustments are read-modify-write under
	// the write lock so concurrent feedback events never lose a delta.
	mu sync.RWMutex

	// artifacts maps artifact ID to its record.
	artifacts map[string]*artifact.Artifact

	// order records insertion order for deterministic scans.
	order []string
}

// NewDriver creates a new in-memory artifact store.
func NewDriver() *Driver {
	return &Driver{
		artifacts: make(map[string]*artifact.Artifact),
	}
}

// Insert stores a new artifact.
func (s *Driver) Insert(_ context.Context, a *artifact.Artifact) error {
	if a == nil {
		return errors.New("cannot store nil artifact")
	}
	if a.ID == "" {
		return errors.New("cannot store artifact without an ID")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.artifacts[a.ID]; ok {
		return errors.New("artifact already exists: " + a.ID)
	}

	stored := *a
	s.artifacts[a.ID] = &stored
	s.order = append(s.order, a.ID)

	return nil
}

// Get retrieves an artifact by its ID.
func (s *Driver) Get(_ context.Context, id string) (*artifact.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.artifacts[id]
	if !ok {
		return nil, storage.NotFoundError{ID: id}
	}

	result := *a
	return &result, nil
}

// Scan returns matching artifacts in insertion order.
func (s *Driver) Scan(_ context.Context, q storage.Query) ([]*artifact.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*artifact.Artifact, 0, len(s.order))
	for _, id := range s.order {
		a := s.artifacts[id]
		if !matches(a, q) {
			continue
		}

		result := *a
		results = append(results, &result)
	}

	return results, nil
}

// History returns artifacts most-recent-first by creation time.
func (s *Driver) History(ctx context.Context, topic string) ([]*artifact.Artifact, error) {
	results, err := s.Scan(ctx, storage.Query{Topic: topic})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})

	return results, nil
}

// AdjustScore applies an additive delta under the store lock and records the
// feedback text.
func (s *Driver) AdjustScore(_ context.Context, id string, delta float64, feedbackText string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.artifacts[id]
	if !ok {
		return 0, storage.NotFoundError{ID: id}
	}

	a.Score += delta
	a.Feedback = feedbackText

	return a.Score, nil
}

// SetEmbedding attaches an embedding to a stored artifact.
func (s *Driver) SetEmbedding(_ context.Context, id string, embedding []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.artifacts[id]
	if !ok {
		return storage.NotFoundError{ID: id}
	}

	a.Embedding = append([]float32(nil), embedding...)

	return nil
}

// Count returns the number of artifacts in the store.
func (s *Driver) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.artifacts)
}

// Close is a no-op for the in-memory store.
func (s *Driver) Close() error {
	return nil
}

func matches(a *artifact.Artifact, q storage.Query) bool {
	if q.Topic != "" && a.Topic != q.Topic {
		return false
	}
	if q.Embedded != nil && a.Embedded() != *q.Embedded {
		return false
	}
	return true
}
