// Package embeddingutils is the embeddings utility package
package embeddingutils

import (
	"fmt"

	"github.com/creatorcore/contextcore/pkg/embeddings"
	"github.com/creatorcore/contextcore/pkg/embeddings/hashing"
	"github.com/creatorcore/contextcore/pkg/embeddings/ollama"
)

type NewEmbedderOpts struct {
	ProviderType string
	TargetURL    string
	Model        string
	Dimensions   uint
}

func NewEmbedder(o *NewEmbedderOpts) (embeddings.Embedder, error) {
	switch o.ProviderType {
	case "hashing":
		return hashing.NewEmbedder(hashing.Config{
			Dimensions: o.Dimensions,
		}), nil
	case "ollama":
		return ollama.NewEmbedder(ollama.EmbedderConfig{
			BaseURL:    o.TargetURL,
			Model:      o.Model,
			Dimensions: o.Dimensions,
		})
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", o.ProviderType)
	}
}
