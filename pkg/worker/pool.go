// Package worker provides an asynchronous worker pool for backfilling
// embeddings onto stored artifacts using the provided storage.Driver and
// embeddings.Embedder.
//
// The pool decouples embedding computation from the caller's hot path:
// artifacts stored without an embedding are invisible to ranking until a
// worker fills them in.
package worker

import (
	"context"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/creatorcore/contextcore/pkg/embeddings"
	"github.com/creatorcore/contextcore/pkg/storage"
)

var (
	defaultNumWorkers   uint = 3
	defaultJobQueueSize uint = 256
)

// Job is a unit of work for the worker pool to execute against.
type Job struct {
	// ArtifactID identifies the stored artifact to backfill.
	ArtifactID string

	// Text is the artifact text to embed.
	Text string
}

// Config is the configuration options for the worker pool.
type Config struct {
	// Driver is the storage backend holding the artifacts.
	Driver storage.Driver

	// Embedder generates the text embeddings.
	Embedder embeddings.Embedder

	// NumWorkers is the number of background workers in the pool.
	NumWorkers uint

	// QueueSize is the capacity of the buffered job channel (defaults to 256).
	QueueSize uint

	// Logger is the provided zap logger
	Logger *zap.Logger
}

// Pool processes embedding backfill jobs asynchronously via a worker pool.
type Pool struct {
	config *Config
	queue  chan Job
	wg     sync.WaitGroup
	logger *zap.Logger
}

// NewPool creates a new Pool and starts its worker goroutines.
func NewPool(c *Config) (*Pool, error) {
	if c.NumWorkers == 0 {
		c.NumWorkers = defaultNumWorkers
	}

	if c.QueueSize == 0 {
		c.QueueSize = defaultJobQueueSize
	}

	if c.NumWorkers > uint(math.MaxInt) {
		return nil, fmt.Errorf("NumWorkers %d exceeds max int", c.NumWorkers)
	}

	wp := &Pool{
		config: c,
		queue:  make(chan Job, c.QueueSize),
		logger: c.Logger,
	}

	wp.wg.Add(int(c.NumWorkers))
	for i := range c.NumWorkers {
		go wp.worker(i)
	}

	return wp, nil
}

// Enqueue submits a job for processing by the worker pool.
// Returns true if enqueued, false if the queue is full, resulting in the job being dropped
func (p *Pool) Enqueue(job Job) bool {
	select {
	case p.queue <- job:
		p.logger.Debug("job queued",
			zap.String("artifact_id", job.ArtifactID),
		)
		return true
	default:
		p.logger.Error("job not queued, queue full, job dropped",
			zap.String("artifact_id", job.ArtifactID),
		)
		return false
	}
}

// Close signals workers to stop and waits for in-flight jobs to drain.
// Call this during graceful shutdown after the API server has stopped.
func (p *Pool) Close() {
	close(p.queue)
	p.wg.Wait()
}

// worker is the inner worker thread that continuously pulls jobs off the jobs queue
func (p *Pool) worker(id uint) {
	defer p.wg.Done()
	p.logger.Debug("worker started", zap.Uint("worker_id", id))

	for job := range p.queue {
		p.processJob(job)
	}

	p.logger.Debug("backfill worker stopped", zap.Uint("worker_id", id))
}

// processJob embeds the job text and writes the embedding back onto the
// stored artifact. A missing artifact is not an error worth retrying; it is
// logged and dropped.
func (p *Pool) processJob(job Job) {
	ctx := context.Background()

	embedding, err := p.config.Embedder.Embed(ctx, job.Text)
	if err != nil {
		p.logger.Error("async embedding failed",
			zap.String("artifact_id", job.ArtifactID),
			zap.Error(err),
		)
		return
	}

	if err := p.config.Driver.SetEmbedding(ctx, job.ArtifactID, embedding); err != nil {
		p.logger.Error("storing embedding failed",
			zap.String("artifact_id", job.ArtifactID),
			zap.Error(err),
		)
		return
	}

	p.logger.Info("embedding backfilled",
		zap.String("artifact_id", job.ArtifactID),
		zap.Int("dimensions", len(embedding)),
	)
}

// Backfill scans the store for artifacts missing embeddings and enqueues a
// job for each. Returns the number of jobs enqueued.
func (p *Pool) Backfill(ctx context.Context) (int, error) {
	missing, err := p.config.Driver.Scan(ctx, storage.MissingEmbedding())
	if err != nil {
		return 0, fmt.Errorf("scanning for missing embeddings: %w", err)
	}

	enqueued := 0
	for _, a := range missing {
		if p.Enqueue(Job{ArtifactID: a.ID, Text: a.Text}) {
			enqueued++
		}
	}

	return enqueued, nil
}
