package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/zoobzio/udf"
)

// ErrNoFile is returned by Validate when no file is configured.
var ErrNoFile = errors.New("no file to watch: set --file or UDFWATCH_FILE")

// Config is the udfwatch configuration, loaded from the environment and then
// overridden by flags.
type Config struct {
	File     string        `env:"UDFWATCH_FILE"`
	Format   string        `env:"UDFWATCH_FORMAT" envDefault:"json"`
	Debounce time.Duration `env:"UDFWATCH_DEBOUNCE" envDefault:"100ms"`
}

// LoadConfig reads Config from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration can be run.
func (c Config) Validate() error {
	if c.File == "" {
		return ErrNoFile
	}
	if _, err := c.Codec(); err != nil {
		return err
	}
	if c.Debounce < 0 {
		return fmt.Errorf("debounce must not be negative, got %v", c.Debounce)
	}
	return nil
}

// Codec returns the codec for the configured format.
func (c Config) Codec() (udf.Codec, error) {
	switch c.Format {
	case "", "json":
		return udf.JSONCodec{}, nil
	case "yaml", "yml":
		return udf.YAMLCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q: want json or yaml", c.Format)
	}
}
