// Package unavailable provides an explicit degraded-mode storage driver.
//
// When the configured backend cannot be reached at startup, the serve command
// injects this driver instead of crashing. Writes are accepted and dropped,
// reads return deterministic placeholders, so upstream smoke tests stay
// meaningful without a live backend. The condition is logged once at
// construction and again per dropped write at debug level.
package unavailable

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/creatorcore/contextcore/pkg/artifact"
	"github.com/creatorcore/contextcore/pkg/storage"
)

// Driver implements storage.Driver as a documented no-op.
type Driver struct {
	logger *zap.Logger
}

// NewDriver creates a degraded-mode driver.
func NewDriver(logger *zap.Logger) *Driver {
	logger.Warn("artifact store unavailable, running in degraded no-op mode")
	return &Driver{logger: logger}
}

// Insert accepts and drops the artifact.
func (d *Driver) Insert(_ context.Context, a *artifact.Artifact) error {
	d.logger.Debug("degraded mode: dropping insert", zap.String("id", a.ID))
	return nil
}

// Get returns a fixed placeholder for the requested ID.
func (d *Driver) Get(_ context.Context, id string) (*artifact.Artifact, error) {
	return &artifact.Artifact{
		ID:        id,
		Topic:     "placeholder",
		Text:      "placeholder artifact: store unavailable",
		CreatedAt: time.Unix(0, 0).UTC(),
	}, nil
}

// Scan returns an empty candidate set, so rankings are empty and deterministic.
func (d *Driver) Scan(_ context.Context, _ storage.Query) ([]*artifact.Artifact, error) {
	return nil, nil
}

// History returns an empty listing.
func (d *Driver) History(_ context.Context, _ string) ([]*artifact.Artifact, error) {
	return nil, nil
}

// AdjustScore echoes the delta as the new score.
func (d *Driver) AdjustScore(_ context.Context, id string, delta float64, _ string) (float64, error) {
	d.logger.Debug("degraded mode: dropping score adjustment", zap.String("id", id))
	return delta, nil
}

// SetEmbedding accepts and drops the embedding.
func (d *Driver) SetEmbedding(_ context.Context, id string, _ []float32) error {
	d.logger.Debug("degraded mode: dropping embedding", zap.String("id", id))
	return nil
}

// Close is a no-op.
func (d *Driver) Close() error {
	return nil
}

var _ storage.Driver = (*Driver)(nil)
