package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/alnah/go-mdpreview/internal/config"
)

// envPrefix namespaces every environment variable read by the CLI.
const envPrefix = "MDPREVIEW_"

// ErrInvalidEnv wraps MDPREVIEW_* values that cannot be parsed.
var ErrInvalidEnv = errors.New("invalid environment variable")

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath   string        `env:"CONFIG"`
	MaxInputSize int           `env:"MAX_INPUT_SIZE"`
	LightTheme   string        `env:"LIGHT_THEME"`
	DarkTheme    string        `env:"DARK_THEME"`
	Timeout      time.Duration `env:"TIMEOUT"`
	Concurrency  int           `env:"CONCURRENCY"`
	NoHighlight  bool          `env:"NO_HIGHLIGHT"`
	OutputDir    string        `env:"OUTPUT_DIR"`
	Standalone   bool          `env:"STANDALONE"`
	Style        string        `env:"STYLE"`
	Addr         string        `env:"ADDR"`
}

// loadEnvConfig reads MDPREVIEW_* variables from environ (KEY=value pairs).
func loadEnvConfig(environ []string) (*envConfig, error) {
	cfg, err := env.ParseAsWithOptions[envConfig](env.Options{
		Prefix:      envPrefix,
		Environment: environMap(environ),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEnv, err)
	}
	return &cfg, nil
}

// environMap converts KEY=value pairs into a map. The result is never nil so
// that the parser does not fall back to the process environment.
func environMap(environ []string) map[string]string {
	m := make(map[string]string, len(environ))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			m[k] = v
		}
	}
	return m
}

// knownEnvVars lists the variables declared by envConfig.
func knownEnvVars() map[string]bool {
	params, err := env.GetFieldParamsWithOptions(&envConfig{}, env.Options{Prefix: envPrefix})
	if err != nil {
		return nil
	}
	known := make(map[string]bool, len(params))
	for _, p := range params {
		known[p.Key] = true
	}
	return known
}

// warnUnknownEnvVars logs warnings for unrecognized MDPREVIEW_* variables.
// Helps catch typos like MDPREVIEW_THEME instead of MDPREVIEW_LIGHT_THEME.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	known := knownEnvVars()
	for _, kv := range environ {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, envPrefix) && !known[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig applies set environment values over the config file values.
// CLI flags are merged afterwards, giving: flags > env > config file > defaults.
func applyEnvConfig(e *envConfig, cfg *config.Config) {
	if e.MaxInputSize != 0 {
		cfg.Preview.MaxInputSize = e.MaxInputSize
	}
	if e.LightTheme != "" {
		cfg.Highlight.LightTheme = e.LightTheme
	}
	if e.DarkTheme != "" {
		cfg.Highlight.DarkTheme = e.DarkTheme
	}
	if e.Timeout != 0 {
		cfg.Highlight.Timeout = e.Timeout
	}
	if e.Concurrency != 0 {
		cfg.Highlight.Concurrency = e.Concurrency
	}
	if e.NoHighlight {
		cfg.Highlight.Disabled = true
	}
	if e.OutputDir != "" {
		cfg.Output.DefaultDir = e.OutputDir
	}
	if e.Standalone {
		cfg.Output.Standalone = true
	}
	if e.Style != "" {
		cfg.Output.Style = e.Style
	}
	if e.Addr != "" {
		cfg.Server.Addr = e.Addr
	}
}
