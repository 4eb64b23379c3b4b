package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent contextcore configuration stored as
// config.toml in the .contextcore/ directory. The TOML layout uses sections
// for logical grouping.
type Config struct {
	Version    int              `toml:"version"`
	Storage    StorageConfig    `toml:"storage"`
	API        APIConfig        `toml:"api"`
	Embedding  EmbeddingConfig  `toml:"embedding"`
	Ranking    RankingConfig    `toml:"ranking"`
	Generation GenerationConfig `toml:"generation"`
	Feedback   FeedbackConfig   `toml:"feedback"`
}

// StorageConfig holds artifact store settings.
type StorageConfig struct {
	Provider    string `toml:"provider,omitempty"`
	SQLitePath  string `toml:"sqlite_path,omitempty"`
	PostgresURL string `toml:"postgres_url,omitempty"`
}

// APIConfig holds API server settings.
type APIConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider   string `toml:"provider,omitempty"`
	Target     string `toml:"target,omitempty"`
	Model      string `toml:"model,omitempty"`
	Dimensions uint   `toml:"dimensions,omitempty"`
}

// RankingConfig holds related-context ranking settings.
type RankingConfig struct {
	Strategy    string  `toml:"strategy,omitempty"`
	ScoreWeight float64 `toml:"score_weight,omitempty"`
	TopK        uint    `toml:"top_k,omitempty"`
	TopicScoped bool    `toml:"topic_scoped,omitempty"`
}

// GenerationConfig holds text-generation settings. Timeout is a Go duration
// string such as "15s".
type GenerationConfig struct {
	Timeout string `toml:"timeout,omitempty"`
}

// FeedbackConfig holds feedback interpretation settings.
type FeedbackConfig struct {
	Mode string `toml:"mode,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"storage.provider": {
		get: func(c *Config) string { return c.Storage.Provider },
		set: func(c *Config, v string) error { c.Storage.Provider = v; return nil },
	},
	"storage.sqlite_path": {
		get: func(c *Config) string { return c.Storage.SQLitePath },
		set: func(c *Config, v string) error { c.Storage.SQLitePath = v; return nil },
	},
	"storage.postgres_url": {
		get: func(c *Config) string { return c.Storage.PostgresURL },
		set: func(c *Config, v string) error { c.Storage.PostgresURL = v; return nil },
	},
	"api.listen": {
		get: func(c *Config) string { return c.API.Listen },
		set: func(c *Config, v string) error { c.API.Listen = v; return nil },
	},
	"embedding.provider": {
		get: func(c *Config) string { return c.Embedding.Provider },
		set: func(c *Config, v string) error { c.Embedding.Provider = v; return nil },
	},
	"embedding.target": {
		get: func(c *Config) string { return c.Embedding.Target },
		set: func(c *Config, v string) error { c.Embedding.Target = v; return nil },
	},
	"embedding.model": {
		get: func(c *Config) string { return c.Embedding.Model },
		set: func(c *Config, v string) error { c.Embedding.Model = v; return nil },
	},
	"embedding.dimensions": {
		get: func(c *Config) string {
			if c.Embedding.Dimensions == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Embedding.Dimensions), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for embedding.dimensions: %w", err)
			}
			c.Embedding.Dimensions = uint(n)
			return nil
		},
	},
	"ranking.strategy": {
		get: func(c *Config) string { return c.Ranking.Strategy },
		set: func(c *Config, v string) error { c.Ranking.Strategy = v; return nil },
	},
	"ranking.score_weight": {
		get: func(c *Config) string {
			if c.Ranking.ScoreWeight == 0 {
				return ""
			}
			return strconv.FormatFloat(c.Ranking.ScoreWeight, 'f', -1, 64)
		},
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid value for ranking.score_weight: %w", err)
			}
			c.Ranking.ScoreWeight = f
			return nil
		},
	},
	"ranking.top_k": {
		get: func(c *Config) string {
			if c.Ranking.TopK == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Ranking.TopK), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for ranking.top_k: %w", err)
			}
			c.Ranking.TopK = uint(n)
			return nil
		},
	},
	"ranking.topic_scoped": {
		get: func(c *Config) string { return strconv.FormatBool(c.Ranking.TopicScoped) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for ranking.topic_scoped: %w", err)
			}
			c.Ranking.TopicScoped = b
			return nil
		},
	},
	"generation.timeout": {
		get: func(c *Config) string { return c.Generation.Timeout },
		set: func(c *Config, v string) error { c.Generation.Timeout = v; return nil },
	},
	"feedback.mode": {
		get: func(c *Config) string { return c.Feedback.Mode },
		set: func(c *Config, v string) error { c.Feedback.Mode = v; return nil },
	},
}
