package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// Config holds the tunables of a checking session.
// It is read from tycore.yaml when present.
type Config struct {
	LogLevel string `yaml:"log_level"`
	// SimilarNameMaxDistance bounds the edit distance of "did you mean" suggestions.
	SimilarNameMaxDistance int  `yaml:"similar_name_max_distance"`
	Debug                  bool `yaml:"debug"`
	CacheCapacity          int  `yaml:"cache_capacity"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		LogLevel:               "warn",
		SimilarNameMaxDistance: SimilarNameDistance,
		CacheCapacity:          16,
	}
}

// Parse decodes YAML and fills every unset field from DefaultConfig.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := mergo.Merge(&cfg, DefaultConfig()); err != nil {
		return Config{}, fmt.Errorf("merging config defaults: %w", err)
	}
	return cfg, nil
}

// Load reads a config file from disk. An empty path yields DefaultConfig.
func Load(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data)
}

// Level maps LogLevel to a slog level. Unknown names mean warn.
func (c Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// NewLogger builds the text logger every package writes to.
func (c Config) NewLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.Level()}))
}
