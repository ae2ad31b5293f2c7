package indexfx

import (
	"context"
	"log/slog"

	"github.com/0x5457/vecquery/internal/config/configfx"
	"github.com/0x5457/vecquery/internal/index"
	"go.uber.org/fx"
)

// Params represents dependencies for the index
type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *configfx.Config
	Logger    *slog.Logger `optional:"true"`
}

// NewIndex opens the configured index file and closes it when the app stops.
func NewIndex(params Params) (index.Index, error) {
	idx, err := index.Open(context.Background(), params.Config.IndexPath, params.Logger)
	if err != nil {
		return nil, err
	}
	params.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return idx.Close()
		},
	})
	return idx, nil
}

// Module provides the vector index
var Module = fx.Module("index",
	fx.Provide(NewIndex),
)
