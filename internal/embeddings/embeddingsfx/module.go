package embeddingsfx

import (
	"github.com/0x5457/vecquery/internal/embeddings"
	"github.com/0x5457/vecquery/internal/index"
	"go.uber.org/fx"
)

// Params represents dependencies for embeddings components
type Params struct {
	fx.In

	Index index.Index
}

// NewEmbedder creates a query vectorizer sized to the loaded index
func NewEmbedder(params Params) embeddings.Embedder {
	return embeddings.NewLocal(params.Index.Dimension())
}

// Module provides embeddings components
var Module = fx.Module("embeddings",
	fx.Provide(NewEmbedder),
)
