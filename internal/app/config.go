package app

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Commands understood by App.Run.
const (
	CommandBuild     = "build"
	CommandMaterials = "materials"
)

// Config holds all the necessary configuration for an App instance to run.
// Fields with an env tag take their defaults from DETGEO_* variables.
type Config struct {
	Command     string
	ConfigPaths []string `env:"CONFIG" envSeparator:","` // hcl files or directories

	// Overrides are raw "key=value" parameter assignments.
	Overrides     []string
	WorldMaterial string
	WorldSize     string // unit expression, e.g. "25*m"

	Format          string `env:"FORMAT" envDefault:"text"`
	PrintMaterials  bool   `env:"PRINT_MATERIALS"`
	HealthcheckPort int    `env:"HEALTHCHECK_PORT" envDefault:"0"`
	LogFormat       string `env:"LOG_FORMAT" envDefault:"text"`
	LogLevel        string `env:"LOG_LEVEL" envDefault:"info"`
}

// DefaultConfig reads the environment defaults.
func DefaultConfig() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "DETGEO_"}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Command = CommandBuild
	return cfg, nil
}

// NewConfig validates cfg and returns a normalised copy.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Command == "" {
		cfg.Command = CommandBuild
	}
	if cfg.Command != CommandBuild && cfg.Command != CommandMaterials {
		return nil, fmt.Errorf("unknown command %q", cfg.Command)
	}

	cfg.Format = strings.ToLower(cfg.Format)
	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Format != "text" && cfg.Format != "yaml" {
		return nil, fmt.Errorf("invalid format %q: must be 'text' or 'yaml'", cfg.Format)
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	switch cfg.LogLevel {
	case "":
		cfg.LogLevel = "info"
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("invalid healthcheck port %d", cfg.HealthcheckPort)
	}
	if _, err := ParseOverrides(cfg.Overrides); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseOverrides turns "key=value" assignments into a parameter map. Values
// stay strings; unit expressions are evaluated when applied.
func ParseOverrides(raw []string) (map[string]any, error) {
	out := make(map[string]any, len(raw))
	for _, kv := range raw {
		key, value, ok := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid override %q: expected key=value", kv)
		}
		out[key] = strings.TrimSpace(value)
	}
	return out, nil
}
