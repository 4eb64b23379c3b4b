// Package sqlite provides a SQLite-backed storage driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/creatorcore/contextcore/pkg/artifact"
	"github.com/creatorcore/contextcore/pkg/storage"
)

// Driver implements storage.Driver using SQLite via database/sql.
type Driver struct {
	db     *sql.DB
	logger *zap.Logger
}

// Config holds configuration for the SQLite driver.
type Config struct {
	// DBPath is the path to the SQLite database file.
	// Use ":memory:" for an in-memory database.
	DBPath string
}

// NewDriver creates a new SQLite-backed artifact store.
func NewDriver(c Config, logger *zap.Logger) (*Driver, error) {
	if c.DBPath == "" {
		return nil, fmt.Errorf("database path is required")
	}

	db, err := sql.Open("sqlite3", c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite-specific pragmas
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS artifacts (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			topic TEXT NOT NULL DEFAULT '',
			goal TEXT NOT NULL DEFAULT '',
			text TEXT NOT NULL,
			embedding BLOB,
			score REAL NOT NULL DEFAULT 0,
			feedback TEXT NOT NULL DEFAULT '',
			tokens_used INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating artifacts table: %w", err)
	}

	logger.Info("sqlite artifact store initialized",
		zap.String("db_path", c.DBPath),
	)

	return &Driver{
		db:     db,
		logger: logger,
	}, nil
}

// Insert stores a new artifact.
func (d *Driver) Insert(ctx context.Context, a *artifact.Artifact) error {
	if a == nil {
		return errors.New("cannot store nil artifact")
	}
	if a.ID == "" {
		return errors.New("cannot store artifact without an ID")
	}

	_, err := d.db.ExecContext(ctx, `
		INSERT INTO artifacts (id, topic, goal, text, embedding, score, feedback, tokens_used, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.Topic, a.Goal, a.Text, storage.EncodeEmbedding(a.Embedding), a.Score, a.Feedback, a.TokensUsed, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting artifact %s: %w", a.ID, err)
	}

	d.logger.Debug("inserted artifact",
		zap.String("id", a.ID),
		zap.String("topic", a.Topic),
		zap.Bool("embedded", a.Embedded()),
	)

	return nil
}

// Get retrieves an artifact by its ID.
func (d *Driver) Get(ctx context.Context, id string) (*artifact.Artifact, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT id, topic, goal, text, embedding, score, feedback, tokens_used, created_at
		FROM artifacts WHERE id = ?
	`, id)

	a, err := scanArtifact(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("getting artifact %s: %w", id, err)
	}

	return a, nil
}

// Scan returns matching artifacts in insertion order (rowid order).
func (d *Driver) Scan(ctx context.Context, q storage.Query) ([]*artifact.Artifact, error) {
	query := `
		SELECT id, topic, goal, text, embedding, score, feedback, tokens_used, created_at
		FROM artifacts
	`
	where, args := buildFilter(q)
	query += where + " ORDER BY rowid"

	return d.query(ctx, query, args)
}

// History returns artifacts most-recent-first by creation time.
func (d *Driver) History(ctx context.Context, topic string) ([]*artifact.Artifact, error) {
	query := `
		SELECT id, topic, goal, text, embedding, score, feedback, tokens_used, created_at
		FROM artifacts
	`
	where, args := buildFilter(storage.Query{Topic: topic})
	query += where + " ORDER BY created_at DESC, rowid DESC"

	return d.query(ctx, query, args)
}

// AdjustScore applies an additive delta inside a transaction so concurrent
// feedback events serialize per record.
func (d *Driver) AdjustScore(ctx context.Context, id string, delta float64, feedbackText string) (float64, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE artifacts SET score = score + ?, feedback = ? WHERE id = ?`,
		delta, feedbackText, id,
	)
	if err != nil {
		return 0, fmt.Errorf("adjusting score for %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking update for %s: %w", id, err)
	}
	if affected == 0 {
		return 0, storage.NotFoundError{ID: id}
	}

	var newScore float64
	if err := tx.QueryRowContext(ctx,
		`SELECT score FROM artifacts WHERE id = ?`, id,
	).Scan(&newScore); err != nil {
		return 0, fmt.Errorf("reading new score for %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}

	d.logger.Debug("adjusted score",
		zap.String("id", id),
		zap.Float64("delta", delta),
		zap.Float64("new_score", newScore),
	)

	return newScore, nil
}

// SetEmbedding attaches an embedding to a stored artifact.
func (d *Driver) SetEmbedding(ctx context.Context, id string, embedding []float32) error {
	res, err := d.db.ExecContext(ctx,
		`UPDATE artifacts SET embedding = ? WHERE id = ?`,
		storage.EncodeEmbedding(embedding), id,
	)
	if err != nil {
		return fmt.Errorf("setting embedding for %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update for %s: %w", id, err)
	}
	if affected == 0 {
		return storage.NotFoundError{ID: id}
	}

	return nil
}

// Close releases resources held by the driver.
func (d *Driver) Close() error {
	return d.db.Close()
}

func (d *Driver) query(ctx context.Context, query string, args []any) ([]*artifact.Artifact, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying artifacts: %w", err)
	}
	defer rows.Close()

	var results []*artifact.Artifact
	for rows.Next() {
		a, err := scanArtifact(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning artifact row: %w", err)
		}
		results = append(results, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating artifacts: %w", err)
	}

	return results, nil
}

func buildFilter(q storage.Query) (string, []any) {
	where := ""
	var args []any

	and := func(clause string) {
		if where == "" {
			where = " WHERE " + clause
		} else {
			where += " AND " + clause
		}
	}

	if q.Topic != "" {
		and("topic = ?")
		args = append(args, q.Topic)
	}
	if q.Embedded != nil {
		if *q.Embedded {
			and("embedding IS NOT NULL")
		} else {
			and("embedding IS NULL")
		}
	}

	return where, args
}

func scanArtifact(scan func(dest ...any) error) (*artifact.Artifact, error) {
	var a artifact.Artifact
	var embBlob []byte
	var createdAt time.Time

	if err := scan(&a.ID, &a.Topic, &a.Goal, &a.Text, &embBlob, &a.Score, &a.Feedback, &a.TokensUsed, &createdAt); err != nil {
		return nil, err
	}

	embedding, err := storage.DecodeEmbedding(embBlob)
	if err != nil {
		return nil, err
	}

	a.Embedding = embedding
	a.CreatedAt = createdAt

	return &a, nil
}
