package config

const (
	defaultStorageProvider = "sqlite"
	defaultAPIListen       = ":8080"

	defaultEmbeddingProvider   = "hashing"
	defaultEmbeddingTarget     = "http://localhost:11434"
	defaultEmbeddingModel      = "embeddinggemma"
	defaultEmbeddingDimensions = 256

	defaultRankingStrategy    = "weighted"
	defaultRankingScoreWeight = 0.1
	defaultRankingTopK        = 3

	defaultGenerationTimeout = "15s"

	defaultFeedbackMode = "keyword"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Storage: StorageConfig{
			Provider: defaultStorageProvider,
		},
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		Embedding: EmbeddingConfig{
			Provider:   defaultEmbeddingProvider,
			Target:     defaultEmbeddingTarget,
			Model:      defaultEmbeddingModel,
			Dimensions: defaultEmbeddingDimensions,
		},
		Ranking: RankingConfig{
			Strategy:    defaultRankingStrategy,
			ScoreWeight: defaultRankingScoreWeight,
			TopK:        defaultRankingTopK,
		},
		Generation: GenerationConfig{
			Timeout: defaultGenerationTimeout,
		},
		Feedback: FeedbackConfig{
			Mode: defaultFeedbackMode,
		},
	}
}
