package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// config is the server configuration, read from the environment after an
// optional .env file has been loaded into it.
type config struct {
	DBURL          string   `env:"DB_URL,required,notEmpty"`
	Host           string   `env:"HOST"               envDefault:"localhost"`
	Port           string   `env:"PORT"               envDefault:"3000"`
	LogLevel       string   `env:"LOG_LEVEL"          envDefault:"info"`
	SettingsPath   string   `env:"NUTRITION_SETTINGS"`
	TrustedProxies []string `env:"TRUSTED_PROXIES"    envSeparator:","`
}

func (c config) addr() string { return c.Host + ":" + c.Port }

// loadConfig loads .env if present, then parses the environment. A missing
// .env is fine in deployed environments where variables are set directly.
func loadConfig() (config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config{}, fmt.Errorf("load .env: %w", err)
	}
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// newLogger builds a production zap logger at the given level.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}
