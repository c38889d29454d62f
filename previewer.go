package mdpreview

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/alnah/go-mdpreview/internal/highlight"
	"github.com/alnah/go-mdpreview/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.HTMLConverter = (*pipeline.MarkdownRenderer)(nil)
	_ Highlighter            = (*highlight.Chroma)(nil)
	_ pipeline.Highlighter   = (*highlight.Chroma)(nil)
)

// bytesPerWord is the rough average used to express the size limit in words.
const bytesPerWord = 4

// Previewer renders Markdown to sanitized HTML.
// Create with NewPreviewer. A Previewer is immutable and safe for concurrent use.
type Previewer struct {
	cfg       previewerConfig
	renderer  *pipeline.MarkdownRenderer
	sanitizer *pipeline.Sanitizer
}

// NewPreviewer creates a Previewer with default configuration.
// Use options to customize behavior (e.g., WithMaxInputSize, WithThemes).
// Returns ErrInvalidOption or ErrUnknownTheme for bad options.
func NewPreviewer(opts ...Option) (*Previewer, error) {
	p := &Previewer{cfg: defaultConfig()}

	for _, opt := range opts {
		opt(p)
	}

	if err := p.cfg.validate(); err != nil {
		return nil, err
	}

	if p.cfg.logger == nil {
		p.cfg.logger = slog.New(slog.DiscardHandler)
	}

	var h pipeline.Highlighter
	switch {
	case p.cfg.noHighlight:
	case p.cfg.customHighlighter:
		h = p.cfg.highlighter
	default:
		chroma, err := highlight.NewChroma(highlight.Themes{
			Light: p.cfg.lightTheme,
			Dark:  p.cfg.darkTheme,
		})
		if err != nil {
			return nil, err
		}
		h = chroma
	}

	p.renderer = pipeline.NewMarkdownRenderer(pipeline.RendererOptions{
		Highlighter:          h,
		HighlightTimeout:     p.cfg.highlightTimeout,
		HighlightConcurrency: p.cfg.highlightConcurrency,
		Logger:               p.cfg.logger,
	})
	p.sanitizer = pipeline.NewSanitizer()

	return p, nil
}

func (c previewerConfig) validate() error {
	if c.maxInputSize <= 0 {
		return fmt.Errorf("%w: max input size must be positive, got %d", ErrInvalidOption, c.maxInputSize)
	}
	if c.highlightTimeout < 0 {
		return fmt.Errorf("%w: highlight timeout cannot be negative, got %v", ErrInvalidOption, c.highlightTimeout)
	}
	if c.highlightConcurrency < 1 {
		return fmt.Errorf("%w: highlight concurrency must be at least 1, got %d", ErrInvalidOption, c.highlightConcurrency)
	}
	if c.customHighlighter && c.highlighter == nil {
		return fmt.Errorf("%w: highlighter cannot be nil", ErrInvalidOption)
	}
	return nil
}

// MaxInputSize returns the input size limit in bytes.
func (p *Previewer) MaxInputSize() int {
	return p.cfg.maxInputSize
}

// Preview renders markdown to sanitized HTML.
// Input larger than the size limit fails with ErrInputTooLarge before any
// parsing. Any other failure, including a recovered panic or the cancellation
// of ctx, is returned as ErrPreviewFailed wrapping the cause.
// Empty input yields an empty string.
func (p *Previewer) Preview(ctx context.Context, markdown string) (out string, err error) {
	if n := len(markdown); n > p.cfg.maxInputSize {
		return "", InputTooLargeError(n, p.cfg.maxInputSize)
	}

	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("%w: internal error: %v", ErrPreviewFailed, r)
		}
	}()

	if markdown == "" {
		return "", nil
	}

	rendered, err := p.renderer.ToHTML(ctx, markdown)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrPreviewFailed, err)
	}

	out, err = p.sanitizer.Sanitize(rendered)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrPreviewFailed, err)
	}
	return out, nil
}

// Sanitize reduces arbitrary HTML to the preview allow-lists.
// Sanitizing the output of Preview or Sanitize again changes nothing.
func (p *Previewer) Sanitize(html string) (string, error) {
	out, err := p.sanitizer.Sanitize(html)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrPreviewFailed, err)
	}
	return out, nil
}

// InputTooLargeError builds the ErrInputTooLarge error Preview returns for
// size bytes of markdown against a limit. Callers that stop reading early
// use it to report the real size.
func InputTooLargeError(size, limit int) error {
	return fmt.Errorf("%w: %s KB exceeds the %s KB limit (about %d words)",
		ErrInputTooLarge, formatKB(size), formatKB(limit), limit/bytesPerWord)
}

// formatKB formats a byte count in KiB with at most one decimal.
func formatKB(n int) string {
	if n%1024 == 0 {
		return strconv.Itoa(n / 1024)
	}
	return strconv.FormatFloat(float64(n)/1024, 'f', 1, 64)
}

// defaultPreviewer is built on first use by PreviewMarkdown.
var defaultPreviewer = sync.OnceValues(func() (*Previewer, error) {
	return NewPreviewer()
})

// PreviewMarkdown renders markdown with the default configuration.
// See Previewer.Preview.
func PreviewMarkdown(ctx context.Context, markdown string) (string, error) {
	p, err := defaultPreviewer()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrPreviewFailed, err)
	}
	return p.Preview(ctx, markdown)
}

// ThemeCSS returns the stylesheet showing the light or dark variant of
// highlighted code blocks according to prefers-color-scheme.
func ThemeCSS() string {
	return highlight.ThemeCSS()
}

// StandaloneHTML wraps a preview fragment in a complete HTML5 document that
// embeds ThemeCSS followed by the given stylesheets. An empty title uses a default.
func StandaloneHTML(fragment, title string, stylesheets ...string) string {
	css := ThemeCSS()
	for _, s := range stylesheets {
		if s != "" {
			css += "\n" + s
		}
	}
	return pipeline.WrapDocument(fragment, css, title)
}

// AvailableThemes lists the theme names accepted by WithThemes, sorted.
func AvailableThemes() []string {
	return highlight.AvailableThemes()
}
