// Package backfillcmder provides the `contextcore backfill` CLI command.
package backfillcmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/creatorcore/contextcore/pkg/cliui"
	"github.com/creatorcore/contextcore/pkg/config"
	embeddingutils "github.com/creatorcore/contextcore/pkg/embeddings/utils"
	"github.com/creatorcore/contextcore/pkg/logger"
	"github.com/creatorcore/contextcore/pkg/storage"
	storageutils "github.com/creatorcore/contextcore/pkg/storage/utils"
	"github.com/creatorcore/contextcore/pkg/worker"
)

const backfillLongDesc string = `Backfill embeddings for stored artifacts.

Scans the artifact store for records missing embeddings, computes embeddings
with the configured provider, and writes them back. Artifacts without
embeddings are invisible to related-context ranking until backfilled.

Examples:
  contextcore backfill
  contextcore backfill --sqlite ./contextcore.db
  contextcore backfill --embedding-provider ollama --embedding-model nomic-embed-text`

const backfillShortDesc string = "Backfill embeddings for stored artifacts"

// backfillFlags is the flag registry for the backfill command.
var backfillFlags = config.FlagSet{
	config.FlagStorageProvider: {
		Name:        "storage-provider",
		ViperKey:    "storage.provider",
		Description: "Storage provider (inmemory, sqlite, postgres)",
	},
	config.FlagSQLite: {
		Name:        "sqlite",
		Shorthand:   "s",
		ViperKey:    "storage.sqlite_path",
		Description: "Path to SQLite database",
	},
	config.FlagPostgres: {
		Name:        "postgres",
		ViperKey:    "storage.postgres_url",
		Description: "Postgres connection URL",
	},
	config.FlagEmbeddingProv: {
		Name:        "embedding-provider",
		ViperKey:    "embedding.provider",
		Description: "Embedding provider (hashing, ollama)",
	},
	config.FlagEmbeddingTgt: {
		Name:        "embedding-target",
		ViperKey:    "embedding.target",
		Description: "Embedding provider URL",
	},
	config.FlagEmbeddingModel: {
		Name:        "embedding-model",
		ViperKey:    "embedding.model",
		Description: "Embedding model name",
	},
	config.FlagEmbeddingDims: {
		Name:        "embedding-dimensions",
		ViperKey:    "embedding.dimensions",
		Description: "Embedding vector dimensions",
	},
}

var backfillFlagKeys = []string{
	config.FlagStorageProvider,
	config.FlagSQLite,
	config.FlagPostgres,
	config.FlagEmbeddingProv,
	config.FlagEmbeddingTgt,
	config.FlagEmbeddingModel,
	config.FlagEmbeddingDims,
}

type backfillCommander struct {
	storageProvider string
	sqlitePath      string
	postgresURL     string
	embeddingProv   string
	embeddingTgt    string
	embeddingModel  string
	embeddingDims   uint
	workers         uint
	dryRun          bool

	viper *viper.Viper
}

// NewBackfillCmd creates the backfill cobra command.
func NewBackfillCmd() *cobra.Command {
	cmder := &backfillCommander{}

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: backfillShortDesc,
		Long:  backfillLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(configDir)
			if err != nil {
				return err
			}

			config.BindRegisteredFlags(v, cmd, backfillFlags, backfillFlagKeys)
			cmder.viper = v

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			debug, err := cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			return cmder.run(cmd.Context(), cmd, debug)
		},
	}

	config.AddStringFlag(cmd, backfillFlags, config.FlagStorageProvider, &cmder.storageProvider)
	config.AddStringFlag(cmd, backfillFlags, config.FlagSQLite, &cmder.sqlitePath)
	config.AddStringFlag(cmd, backfillFlags, config.FlagPostgres, &cmder.postgresURL)
	config.AddStringFlag(cmd, backfillFlags, config.FlagEmbeddingProv, &cmder.embeddingProv)
	config.AddStringFlag(cmd, backfillFlags, config.FlagEmbeddingTgt, &cmder.embeddingTgt)
	config.AddStringFlag(cmd, backfillFlags, config.FlagEmbeddingModel, &cmder.embeddingModel)
	config.AddUintFlag(cmd, backfillFlags, config.FlagEmbeddingDims, &cmder.embeddingDims)
	cmd.Flags().UintVarP(&cmder.workers, "workers", "w", 0, "Number of embedding workers")
	cmd.Flags().BoolVar(&cmder.dryRun, "dry-run", false, "Report how many artifacts need backfilling without embedding them")

	return cmd
}

func (c *backfillCommander) run(ctx context.Context, cmd *cobra.Command, debug bool) error {
	log := logger.NewLogger(debug)
	defer log.Sync()

	v := c.viper
	out := cmd.OutOrStdout()

	store, err := storageutils.NewDriver(ctx, &storageutils.NewDriverOpts{
		ProviderType: v.GetString("storage.provider"),
		SQLitePath:   v.GetString("storage.sqlite_path"),
		PostgresURL:  v.GetString("storage.postgres_url"),
	}, log)
	if err != nil {
		return fmt.Errorf("creating storage driver: %w", err)
	}
	defer store.Close()

	if c.dryRun {
		missing, err := store.Scan(ctx, storage.MissingEmbedding())
		if err != nil {
			return fmt.Errorf("scanning for missing embeddings: %w", err)
		}
		fmt.Fprintf(out, "  %d artifact(s) need backfilling\n", len(missing))
		return nil
	}

	embedder, err := embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType: v.GetString("embedding.provider"),
		TargetURL:    v.GetString("embedding.target"),
		Model:        v.GetString("embedding.model"),
		Dimensions:   v.GetUint("embedding.dimensions"),
	})
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}
	defer embedder.Close()

	pool, err := worker.NewPool(&worker.Config{
		Driver:     store,
		Embedder:   embedder,
		NumWorkers: c.workers,
		Logger:     log,
	})
	if err != nil {
		return fmt.Errorf("creating worker pool: %w", err)
	}

	var enqueued int
	err = cliui.Step(out, "Backfilling embeddings", func() error {
		var err error
		enqueued, err = pool.Backfill(ctx)
		if err != nil {
			return err
		}

		// Drain: Close waits for in-flight jobs to finish.
		pool.Close()
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "  Backfilled %d artifact(s)\n", enqueued)
	return nil
}
