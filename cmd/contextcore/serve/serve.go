// Package servecmder provides the serve command for running the API server.
package servecmder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/creatorcore/contextcore/api"
	"github.com/creatorcore/contextcore/pkg/config"
	embeddingutils "github.com/creatorcore/contextcore/pkg/embeddings/utils"
	"github.com/creatorcore/contextcore/pkg/engine"
	"github.com/creatorcore/contextcore/pkg/generate/template"
	"github.com/creatorcore/contextcore/pkg/logger"
	"github.com/creatorcore/contextcore/pkg/ranking"
	"github.com/creatorcore/contextcore/pkg/storage"
	storageutils "github.com/creatorcore/contextcore/pkg/storage/utils"
	"github.com/creatorcore/contextcore/pkg/storage/unavailable"
)

// serveFlags is the flag registry for the serve command. Every flag maps to
// a dotted viper key so values resolve through the full precedence chain
// (flag > env > config file > default).
var serveFlags = config.FlagSet{
	config.FlagListen: {
		Name:        "listen",
		Shorthand:   "l",
		ViperKey:    "api.listen",
		Description: "Address for the API server to listen on",
	},
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
	config.FlagRankStrategy: {
		Name:        "rank-strategy",
		ViperKey:    "ranking.strategy",
		Description: "Ranking strategy (weighted, normalized)",
	},
	config.FlagRankTopK: {
		Name:        "rank-top-k",
		ViperKey:    "ranking.top_k",
		Description: "Maximum size of the related-context list",
	},
	config.FlagRankTopicScoped: {
		Name:        "rank-topic-scoped",
		ViperKey:    "ranking.topic_scoped",
		Description: "Restrict ranking candidates to the request topic",
	},
	config.FlagFeedbackMode: {
		Name:        "feedback-mode",
		ViperKey:    "feedback.mode",
		Description: "Default feedback interpretation (delta, keyword)",
	},
	config.FlagGenTimeout: {
		Name:        "generation-timeout",
		ViperKey:    "generation.timeout",
		Description: "Per-request generation and embedding bound (e.g. 15s)",
	},
}

// serveFlagKeys lists the registry keys bound on the serve command.
var serveFlagKeys = []string{
	config.FlagListen,
	config.FlagStorageProvider,
	config.FlagSQLite,
	config.FlagPostgres,
	config.FlagEmbeddingProv,
	config.FlagEmbeddingTgt,
	config.FlagEmbeddingModel,
	config.FlagEmbeddingDims,
	config.FlagRankStrategy,
	config.FlagRankTopK,
	config.FlagRankTopicScoped,
	config.FlagFeedbackMode,
	config.FlagGenTimeout,
}

type ServeCommander struct {
	listen          string
	storageProvider string
	sqlitePath      string
	postgresURL     string
	embeddingProv   string
	embeddingTgt    string
	embeddingModel  string
	embeddingDims   uint
	rankStrategy    string
	rankTopK        uint
	rankTopicScoped bool
	feedbackMode    string
	genTimeout      string

	debug  bool
	viper  *viper.Viper
	logger *zap.Logger
}

const serveLongDesc string = `Run the contextcore API server.

The server exposes generation, feedback, and history endpoints:
  POST /v1/generate    Generate content and return related context
  POST /v1/feedback    Apply feedback to a stored artifact
  GET  /v1/history     List stored artifacts, most recent first

Values resolve as flag > environment (CONTEXTCORE_*) > config.toml > default.`

const serveShortDesc string = "Run the contextcore API server"

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(configDir)
			if err != nil {
				return err
			}

			config.BindRegisteredFlags(v, cmd, serveFlags, serveFlagKeys)
			cmder.viper = v

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}

			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, serveFlags, config.FlagListen, &cmder.listen)
	config.AddStringFlag(cmd, serveFlags, config.FlagStorageProvider, &cmder.storageProvider)
	config.AddStringFlag(cmd, serveFlags, config.FlagSQLite, &cmder.sqlitePath)
	config.AddStringFlag(cmd, serveFlags, config.FlagPostgres, &cmder.postgresURL)
	config.AddStringFlag(cmd, serveFlags, config.FlagEmbeddingProv, &cmder.embeddingProv)
	config.AddStringFlag(cmd, serveFlags, config.FlagEmbeddingTgt, &cmder.embeddingTgt)
	config.AddStringFlag(cmd, serveFlags, config.FlagEmbeddingModel, &cmder.embeddingModel)
	config.AddUintFlag(cmd, serveFlags, config.FlagEmbeddingDims, &cmder.embeddingDims)
	config.AddStringFlag(cmd, serveFlags, config.FlagRankStrategy, &cmder.rankStrategy)
	config.AddUintFlag(cmd, serveFlags, config.FlagRankTopK, &cmder.rankTopK)
	config.AddBoolFlag(cmd, serveFlags, config.FlagRankTopicScoped, &cmder.rankTopicScoped)
	config.AddStringFlag(cmd, serveFlags, config.FlagFeedbackMode, &cmder.feedbackMode)
	config.AddStringFlag(cmd, serveFlags, config.FlagGenTimeout, &cmder.genTimeout)

	return cmd
}

func (c *ServeCommander) run(ctx context.Context) error {
	c.logger = logger.NewLogger(c.debug)
	defer c.logger.Sync()

	v := c.viper

	store := c.newStorageDriver(ctx, v)
	defer store.Close()

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

	generator := template.NewGenerator()
	defer generator.Close()

	ranker, err := ranking.NewRanker(ranking.Config{
		Strategy:    ranking.Strategy(v.GetString("ranking.strategy")),
		ScoreWeight: v.GetFloat64("ranking.score_weight"),
	})
	if err != nil {
		return fmt.Errorf("creating ranker: %w", err)
	}

	timeout, err := time.ParseDuration(v.GetString("generation.timeout"))
	if err != nil {
		return fmt.Errorf("parsing generation.timeout: %w", err)
	}

	eng, err := engine.New(engine.Config{
		TopK:         int(v.GetUint("ranking.top_k")),
		Timeout:      timeout,
		TopicScoped:  v.GetBool("ranking.topic_scoped"),
		FeedbackMode: v.GetString("feedback.mode"),
	}, store, embedder, generator, ranker, c.logger)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}

	server := api.NewServer(api.Config{
		ListenAddr: v.GetString("api.listen"),
	}, eng, c.logger)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	// Wait for interrupt signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		return server.Shutdown()
	}
}

// newStorageDriver builds the configured store. An unreachable backend
// degrades to the no-op unavailable driver instead of refusing to start,
// matching the availability-over-persistence posture of the service.
func (c *ServeCommander) newStorageDriver(ctx context.Context, v *viper.Viper) storage.Driver {
	store, err := storageutils.NewDriver(ctx, &storageutils.NewDriverOpts{
		ProviderType: v.GetString("storage.provider"),
		SQLitePath:   v.GetString("storage.sqlite_path"),
		PostgresURL:  v.GetString("storage.postgres_url"),
	}, c.logger)
	if err == nil {
		c.logger.Info("using storage provider",
			zap.String("provider", v.GetString("storage.provider")),
		)
		return store
	}

	if errors.Is(err, storage.ErrUnavailable) {
		c.logger.Warn("storage backend unreachable, running degraded",
			zap.String("provider", v.GetString("storage.provider")),
			zap.Error(err),
		)
		return unavailable.NewDriver(c.logger)
	}

	c.logger.Warn("storage misconfigured, running degraded", zap.Error(err))
	return unavailable.NewDriver(c.logger)
}
