package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// HTMLConverter abstracts Markdown to HTML conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// RendererOptions configures a MarkdownRenderer.
type RendererOptions struct {
	Highlighter          Highlighter   // nil disables highlighting
	HighlightTimeout     time.Duration // per block, 0 = no limit
	HighlightConcurrency int           // 0 = unlimited
	Logger               *slog.Logger  // nil = discard
}

// MarkdownRenderer converts Markdown to an HTML fragment with goldmark,
// highlighting code blocks between parsing and rendering.
// Raw HTML is passed through: the output must be sanitized before use.
type MarkdownRenderer struct {
	md    goldmark.Markdown
	hooks *codeBlockHighlighter
}

// Compile-time interface implementation check.
var _ HTMLConverter = (*MarkdownRenderer)(nil)

// NewMarkdownRenderer creates a MarkdownRenderer with GFM extensions.
func NewMarkdownRenderer(opts RendererOptions) *MarkdownRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM, // Tables, strikethrough, autolinks, task lists
			codeBlockExtension{},
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(), // Treat newlines as <br>
			html.WithUnsafe(),    // Raw HTML reaches the sanitizer, which is the trust boundary
		),
	)

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &MarkdownRenderer{
		md: md,
		hooks: &codeBlockHighlighter{
			highlighter: opts.Highlighter,
			timeout:     opts.HighlightTimeout,
			concurrency: opts.HighlightConcurrency,
			logger:      logger,
		},
	}
}

// ToHTML converts Markdown content to an HTML fragment.
// Parsing and rendering are synchronous; only highlighting observes ctx.
func (r *MarkdownRenderer) ToHTML(ctx context.Context, content string) (string, error) {
	// Fast path: check context before starting
	if err := ctx.Err(); err != nil {
		return "", err
	}

	source := []byte(content)
	doc := r.md.Parser().Parse(text.NewReader(source))

	if err := r.hooks.highlightCodeBlocks(ctx, doc, source); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, source, doc); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}
	return buf.String(), nil
}
