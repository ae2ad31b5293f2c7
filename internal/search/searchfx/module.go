package searchfx

import (
	"log/slog"

	"github.com/0x5457/vecquery/internal/embeddings"
	"github.com/0x5457/vecquery/internal/index"
	"github.com/0x5457/vecquery/internal/search"
	"go.uber.org/fx"
)

// Params represents dependencies for search service
type Params struct {
	fx.In

	Index    index.Index
	Embedder embeddings.Embedder
	Logger   *slog.Logger `optional:"true"`
}

// NewSearchService creates a new search service instance
func NewSearchService(params Params) *search.Service {
	return &search.Service{
		Index:    params.Index,
		Embedder: params.Embedder,
		Logger:   params.Logger,
	}
}

// Module provides search components
var Module = fx.Module("search",
	fx.Provide(NewSearchService),
)
