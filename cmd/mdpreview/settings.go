package main

import (
	"fmt"
	"io"
	"log/slog"

	mdpreview "github.com/alnah/go-mdpreview"
	"github.com/alnah/go-mdpreview/internal/assets"
	"github.com/alnah/go-mdpreview/internal/config"
)

// noStyle disables the base stylesheet.
const noStyle = "none"

// resolveConfig loads the config file named by the flag or MDPREVIEW_CONFIG
// and applies environment overrides. Flags are merged by the caller.
func resolveConfig(configFlag string, env *Environment) (*config.Config, error) {
	environ := env.Environ()
	warnUnknownEnvVars(env.Stderr, environ)

	envCfg, err := loadEnvConfig(environ)
	if err != nil {
		return nil, err
	}

	name := configFlag
	if name == "" {
		name = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		cfg, err = config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(envCfg, cfg)
	return cfg, nil
}

// mergePreviewFlags merges pipeline flags into config. CLI values override config values.
func mergePreviewFlags(f *previewFlags, cfg *config.Config) {
	if f.maxSize != 0 {
		cfg.Preview.MaxInputSize = f.maxSize
	}
	if f.lightTheme != "" {
		cfg.Highlight.LightTheme = f.lightTheme
	}
	if f.darkTheme != "" {
		cfg.Highlight.DarkTheme = f.darkTheme
	}
	if f.timeout != 0 {
		cfg.Highlight.Timeout = f.timeout
	}
	if f.concurrency != 0 {
		cfg.Highlight.Concurrency = f.concurrency
	}
	if f.noHighlight {
		cfg.Highlight.Disabled = true
	}
}

// previewerOptions translates config into Previewer options.
// Zero values keep the library defaults.
func previewerOptions(cfg *config.Config, logger *slog.Logger) []mdpreview.Option {
	opts := []mdpreview.Option{mdpreview.WithLogger(logger)}

	if cfg.Preview.MaxInputSize > 0 {
		opts = append(opts, mdpreview.WithMaxInputSize(cfg.Preview.MaxInputSize))
	}

	if cfg.Highlight.Disabled {
		return append(opts, mdpreview.WithoutHighlighting())
	}

	light, dark := cfg.Highlight.LightTheme, cfg.Highlight.DarkTheme
	if light != "" || dark != "" {
		if light == "" {
			light = mdpreview.DefaultLightTheme
		}
		if dark == "" {
			dark = mdpreview.DefaultDarkTheme
		}
		opts = append(opts, mdpreview.WithThemes(light, dark))
	}
	if cfg.Highlight.Timeout > 0 {
		opts = append(opts, mdpreview.WithHighlightTimeout(cfg.Highlight.Timeout))
	}
	if cfg.Highlight.Concurrency > 0 {
		opts = append(opts, mdpreview.WithHighlightConcurrency(cfg.Highlight.Concurrency))
	}
	return opts
}

// newPreviewer validates cfg and builds a Previewer from it.
func newPreviewer(cfg *config.Config, logger *slog.Logger) (*mdpreview.Previewer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return mdpreview.NewPreviewer(previewerOptions(cfg, logger)...)
}

// newLogger returns a text logger on w. Verbose lowers the level to debug,
// which surfaces highlighting fallbacks.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// resolveStyleCSS loads the base stylesheet named by style: an embedded style
// name, a .css path, "none" for no stylesheet, or empty for the default.
func resolveStyleCSS(style string) (string, error) {
	switch style {
	case noStyle:
		return "", nil
	case "":
		style = assets.DefaultStyle
	}

	css, err := assets.ResolveStyle(style)
	if err != nil {
		return "", fmt.Errorf("loading style: %w", err)
	}
	return css, nil
}
