package mdpreview

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/alnah/go-mdpreview/internal/highlight"
)

// Defaults.
const (
	// DefaultMaxInputSize is the largest accepted input, in UTF-8 bytes.
	DefaultMaxInputSize = 50 * 1024

	// DefaultHighlightTimeout bounds highlighting of a single code block.
	DefaultHighlightTimeout = 2 * time.Second

	DefaultLightTheme = highlight.DefaultLightTheme
	DefaultDarkTheme  = highlight.DefaultDarkTheme
)

// Highlighter renders a code block to HTML.
// lang is already sanitized and aliased (js -> javascript). Returning an error
// makes the block fall back to escaped <pre><code class="language-X"> markup.
// Implementations must be safe for concurrent use.
type Highlighter interface {
	Highlight(ctx context.Context, code, lang string) (string, error)
}

// Option configures a Previewer.
type Option func(*Previewer)

// previewerConfig holds the resolved configuration of a Previewer.
type previewerConfig struct {
	maxInputSize         int
	lightTheme           string
	darkTheme            string
	highlighter          Highlighter
	customHighlighter    bool
	noHighlight          bool
	highlightTimeout     time.Duration
	highlightConcurrency int
	logger               *slog.Logger
}

func defaultConfig() previewerConfig {
	return previewerConfig{
		maxInputSize:         DefaultMaxInputSize,
		lightTheme:           DefaultLightTheme,
		darkTheme:            DefaultDarkTheme,
		highlightTimeout:     DefaultHighlightTimeout,
		highlightConcurrency: runtime.GOMAXPROCS(0),
	}
}

// WithMaxInputSize sets the input size limit in bytes. Must be positive.
func WithMaxInputSize(n int) Option {
	return func(p *Previewer) {
		p.cfg.maxInputSize = n
	}
}

// WithThemes sets the chroma styles of the light and dark code block variants.
// Names are checked when the Previewer is built (see AvailableThemes).
func WithThemes(light, dark string) Option {
	return func(p *Previewer) {
		p.cfg.lightTheme = light
		p.cfg.darkTheme = dark
	}
}

// WithHighlighter replaces the chroma highlighter. Themes are ignored.
func WithHighlighter(h Highlighter) Option {
	return func(p *Previewer) {
		p.cfg.highlighter = h
		p.cfg.customHighlighter = true
	}
}

// WithoutHighlighting renders every code block as escaped plain markup.
func WithoutHighlighting() Option {
	return func(p *Previewer) {
		p.cfg.noHighlight = true
	}
}

// WithHighlightTimeout bounds the highlighting of each code block.
// Zero disables the limit; a block that times out falls back to plain markup.
func WithHighlightTimeout(d time.Duration) Option {
	return func(p *Previewer) {
		p.cfg.highlightTimeout = d
	}
}

// WithHighlightConcurrency sets how many code blocks of one document are
// highlighted at once. Defaults to GOMAXPROCS.
func WithHighlightConcurrency(n int) Option {
	return func(p *Previewer) {
		p.cfg.highlightConcurrency = n
	}
}

// WithLogger sets the logger receiving debug messages about highlighting
// fallbacks. Nothing is logged by default.
func WithLogger(l *slog.Logger) Option {
	return func(p *Previewer) {
		p.cfg.logger = l
	}
}
