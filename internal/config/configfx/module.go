package configfx

import (
	"errors"
	"os"

	"go.uber.org/fx"
)

const (
	// DefaultK is the number of neighbors returned when --k is not given.
	DefaultK = 5
	// LogLevelEnv selects the stderr log level.
	LogLevelEnv     = "VECQUERY_LOG_LEVEL"
	DefaultLogLevel = "warn"
)

// Config holds everything one query invocation needs.
type Config struct {
	Query     string
	K         int
	IndexPath string
	MetaPath  string
	LogLevel  string
}

// Params represents the parameters needed to create configuration
type Params struct {
	fx.In

	Config Config `name:"config" optional:"true"`
}

// NewConfig fills defaults into the supplied configuration.
func NewConfig(params Params) *Config {
	config := params.Config

	// Set defaults
	if config.LogLevel == "" {
		config.LogLevel = os.Getenv(LogLevelEnv)
	}
	if config.LogLevel == "" {
		config.LogLevel = DefaultLogLevel
	}

	return &config
}

// Validate reports missing required fields. K is checked by the index at
// search time, after the metadata has been read.
func (c *Config) Validate() error {
	var errs []error
	if c.IndexPath == "" {
		errs = append(errs, errors.New("index path is required"))
	}
	if c.MetaPath == "" {
		errs = append(errs, errors.New("metadata path is required"))
	}
	return errors.Join(errs...)
}

// Supply annotates cfg so NewConfig picks it up.
func Supply(cfg Config) fx.Option {
	return fx.Supply(fx.Annotate(cfg, fx.ResultTags(`name:"config"`)))
}

// Module provides configuration for the application
var Module = fx.Module("config",
	fx.Provide(NewConfig),
)
