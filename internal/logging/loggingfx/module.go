package loggingfx

import (
	"io"
	"log/slog"

	"github.com/0x5457/vecquery/internal/config/configfx"
	"github.com/0x5457/vecquery/internal/logging"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

// Params represents dependencies for the logger
type Params struct {
	fx.In

	Config *configfx.Config
	Writer io.Writer `name:"logWriter" optional:"true"`
}

// NewLogger creates the process logger
func NewLogger(params Params) (*slog.Logger, error) {
	return logging.New(params.Writer, params.Config.LogLevel)
}

// EventLogger routes fx's own events through the process logger.
func EventLogger(logger *slog.Logger) fxevent.Logger {
	return &fxevent.SlogLogger{Logger: logger}
}

// Module provides logging components
var Module = fx.Module("logging",
	fx.Provide(NewLogger),
)
