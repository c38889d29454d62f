package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mdpreview/internal/fileutil"
	"github.com/alnah/go-mdpreview/internal/hints"
	"github.com/alnah/go-mdpreview/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidConfig   = errors.New("invalid config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
)

// Limits on configured values.
const (
	MaxThemeNameLength = 50       // chroma style names are short
	MaxPathLength      = 4096     // PATH_MAX on Linux
	MaxAddrLength      = 255      // host:port
	MaxInputSizeLimit  = 10 << 20 // 10 MiB, well above any preview
	MaxConcurrency     = 256
	MaxTimeout         = time.Minute
)

// Config holds all configuration for previews, the CLI and the server.
// Zero values mean "use the library default".
type Config struct {
	Preview   PreviewConfig   `yaml:"preview"`
	Highlight HighlightConfig `yaml:"highlight"`
	Output    OutputConfig    `yaml:"output"`
	Server    ServerConfig    `yaml:"server"`
}

// PreviewConfig defines input limits.
type PreviewConfig struct {
	MaxInputSize int `yaml:"maxInputSize"` // bytes (default: 51200)
}

// HighlightConfig defines code block highlighting options.
type HighlightConfig struct {
	Disabled    bool          `yaml:"disabled"`
	LightTheme  string        `yaml:"lightTheme"`  // chroma style (default: "github")
	DarkTheme   string        `yaml:"darkTheme"`   // chroma style (default: "github-dark")
	Timeout     time.Duration `yaml:"timeout"`     // per block, e.g. "2s"
	Concurrency int           `yaml:"concurrency"` // blocks at once (default: GOMAXPROCS)
}

// OutputConfig defines CLI output options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
	Standalone bool   `yaml:"standalone"` // Wrap fragments in a full HTML document
	Style      string `yaml:"style"`      // Standalone base style: name, .css path, or "none"
}

// ServerConfig defines HTTP server options.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`            // default ":8080"
	RequestTimeout  time.Duration `yaml:"requestTimeout"`  // default "10s"
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"` // default "5s"
}

// Validate checks value ranges and field lengths.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if c.Preview.MaxInputSize < 0 || c.Preview.MaxInputSize > MaxInputSizeLimit {
		return fmt.Errorf("%w: preview.maxInputSize: must be between 0 and %d, got %d",
			ErrInvalidConfig, MaxInputSizeLimit, c.Preview.MaxInputSize)
	}

	if err := validateFieldLength("highlight.lightTheme", c.Highlight.LightTheme, MaxThemeNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("highlight.darkTheme", c.Highlight.DarkTheme, MaxThemeNameLength); err != nil {
		return err
	}
	if err := validateDuration("highlight.timeout", c.Highlight.Timeout); err != nil {
		return err
	}
	if c.Highlight.Concurrency < 0 || c.Highlight.Concurrency > MaxConcurrency {
		return fmt.Errorf("%w: highlight.concurrency: must be between 0 and %d, got %d",
			ErrInvalidConfig, MaxConcurrency, c.Highlight.Concurrency)
	}

	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}

	if err := validateFieldLength("output.style", c.Output.Style, MaxPathLength); err != nil {
		return err
	}

	if err := validateFieldLength("server.addr", c.Server.Addr, MaxAddrLength); err != nil {
		return err
	}
	if err := validateDuration("server.requestTimeout", c.Server.RequestTimeout); err != nil {
		return err
	}
	if err := validateDuration("server.shutdownTimeout", c.Server.ShutdownTimeout); err != nil {
		return err
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// validateDuration accepts zero (default) up to MaxTimeout.
func validateDuration(fieldName string, d time.Duration) error {
	if d < 0 || d > MaxTimeout {
		return fmt.Errorf("%w: %s: must be between 0 and %v, got %v", ErrInvalidConfig, fieldName, MaxTimeout, d)
	}
	return nil
}

// DefaultConfig returns a configuration where every field uses the default.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	f, err := os.Open(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	defer f.Close()

	var cfg Config
	if err := yamlutil.Decode(f, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-mdpreview/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-mdpreview", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s%s", ErrConfigNotFound, strings.Join(triedPaths, ", "), hints.ForConfigNotFound(triedPaths))
}
