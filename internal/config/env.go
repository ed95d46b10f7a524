package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvFile is loaded into the process environment when it exists.
const EnvFile = ".env"

// Env holds the settings taken from environment variables.
type Env struct {
	Token           string        `env:"TOKEN,notEmpty"`
	ConfigPath      string        `env:"CONFIG_PATH"      envDefault:"config.toml"`
	LogLevel        slog.Level    `env:"LOG_LEVEL"        envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	HandlerTimeout  time.Duration `env:"HANDLER_TIMEOUT"  envDefault:"30s"`
}

// LoadEnv loads EnvFile if present and parses the environment.
// Returns an error if required variables are missing.
func LoadEnv() (*Env, error) {
	if _, err := os.Stat(EnvFile); err == nil {
		if err := godotenv.Load(EnvFile); err != nil {
			return nil, fmt.Errorf("loading %s: %w", EnvFile, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("checking %s: %w", EnvFile, err)
	}

	cfg := &Env{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
