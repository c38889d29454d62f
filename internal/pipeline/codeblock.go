package pipeline

import (
	"bytes"
	"context"
	"log/slog"
	"regexp"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
	"golang.org/x/sync/errgroup"
)

// plainLanguage is used for code blocks without a usable language tag.
const plainLanguage = "text"

// languagePattern restricts language tags before they reach class attributes.
var languagePattern = regexp.MustCompile(`(?i)^[a-z0-9-]+$`)

// languageAliases maps short fence tags to highlighter language names.
var languageAliases = map[string]string{
	"js":  "javascript",
	"ts":  "typescript",
	"sh":  "bash",
	"yml": "yaml",
}

// SanitizeLanguage returns lang if it is a plain identifier, "text" otherwise.
func SanitizeLanguage(lang string) string {
	if !languagePattern.MatchString(lang) {
		return plainLanguage
	}
	return lang
}

// ResolveAlias expands a short language tag to its highlighter name.
func ResolveAlias(lang string) string {
	if alias, ok := languageAliases[lang]; ok {
		return alias
	}
	return lang
}

// Highlighter renders code to HTML. Implementations must be safe for
// concurrent use; an error means the block falls back to plain markup.
type Highlighter interface {
	Highlight(ctx context.Context, code, lang string) (string, error)
}

// KindHighlightedCodeBlock is the node kind of a pre-rendered code block.
var KindHighlightedCodeBlock = ast.NewNodeKind("HighlightedCodeBlock")

// HighlightedCodeBlock replaces a code block whose highlighted markup is
// already known. The renderer writes HTML verbatim.
type HighlightedCodeBlock struct {
	ast.BaseBlock
	Language string
	HTML     []byte
}

// Kind implements ast.Node.
func (n *HighlightedCodeBlock) Kind() ast.NodeKind {
	return KindHighlightedCodeBlock
}

// Dump implements ast.Node.
func (n *HighlightedCodeBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Language": n.Language}, nil)
}

// codeBlock is a code block found in the document.
type codeBlock struct {
	node ast.Node
	code string
	lang string // sanitized, before aliasing
}

// codeBlockHighlighter runs the highlighter over every code block of a parsed
// document and swaps successful results into the tree.
type codeBlockHighlighter struct {
	highlighter Highlighter
	timeout     time.Duration
	concurrency int
	logger      *slog.Logger
}

// highlightCodeBlocks highlights all code blocks of doc.
// Highlight calls run concurrently and write into separate slots; the tree is
// only modified afterwards, from this goroutine. A failed block is left as is.
// The only error returned is the cancellation of ctx.
func (h *codeBlockHighlighter) highlightCodeBlocks(ctx context.Context, doc ast.Node, source []byte) error {
	if h.highlighter == nil {
		return nil
	}

	blocks := collectCodeBlocks(doc, source)
	if len(blocks) == 0 {
		return nil
	}

	results := make([]string, len(blocks))
	g, gctx := errgroup.WithContext(ctx)
	if h.concurrency > 0 {
		g.SetLimit(h.concurrency)
	}
	for i, b := range blocks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = h.highlight(gctx, b)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for i, b := range blocks {
		if results[i] == "" {
			continue
		}
		parent := b.node.Parent()
		if parent == nil {
			continue
		}
		parent.ReplaceChild(parent, b.node, &HighlightedCodeBlock{
			Language: b.lang,
			HTML:     []byte(results[i]),
		})
	}
	return nil
}

// highlight returns the highlighted markup for b, or "" on failure.
// A panicking highlighter counts as a failure.
func (h *codeBlockHighlighter) highlight(ctx context.Context, b codeBlock) (out string) {
	lang := ResolveAlias(b.lang)
	defer func() {
		if r := recover(); r != nil {
			h.logger.Debug("code block highlighter panicked", "lang", lang, "panic", r)
			out = ""
		}
	}()

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	html, err := h.highlighter.Highlight(ctx, b.code, lang)
	if err != nil {
		h.logger.Debug("code block highlighting skipped", "lang", lang, "error", err)
		return ""
	}
	return html
}

// collectCodeBlocks walks doc and returns fenced and indented code blocks in
// document order.
func collectCodeBlocks(doc ast.Node, source []byte) []codeBlock {
	var blocks []codeBlock
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.FencedCodeBlock:
			blocks = append(blocks, codeBlock{
				node: node,
				code: codeText(node, source),
				lang: fencedLanguage(node, source),
			})
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock:
			blocks = append(blocks, codeBlock{
				node: node,
				code: codeText(node, source),
				lang: plainLanguage,
			})
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return blocks
}

// fencedLanguage returns the sanitized language tag of a fenced block.
// The whole info string is the tag, so "js title=x" is not a language.
func fencedLanguage(n *ast.FencedCodeBlock, source []byte) string {
	if n.Info == nil {
		return plainLanguage
	}
	info := bytes.TrimSpace(n.Info.Segment.Value(source))
	if len(info) == 0 {
		return plainLanguage
	}
	return SanitizeLanguage(string(info))
}

func codeText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(source))
	}
	return buf.String()
}

// codeBlockExtension installs the code block renderer.
type codeBlockExtension struct{}

func (codeBlockExtension) Extend(m goldmark.Markdown) {
	// Priority 100 overrides the default HTML renderer (1000).
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&codeBlockRenderer{}, 100),
	))
}

// codeBlockRenderer writes highlighted blocks verbatim and every other code
// block as an escaped <pre><code class="language-X"> block.
type codeBlockRenderer struct{}

func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindHighlightedCodeBlock, r.renderHighlighted)
	reg.Register(ast.KindFencedCodeBlock, r.renderPlain)
	reg.Register(ast.KindCodeBlock, r.renderPlain)
}

func (r *codeBlockRenderer) renderHighlighted(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*HighlightedCodeBlock)
	_, _ = w.Write(n.HTML)
	_ = w.WriteByte('\n')
	return ast.WalkSkipChildren, nil
}

func (r *codeBlockRenderer) renderPlain(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	lang := plainLanguage
	if fenced, ok := node.(*ast.FencedCodeBlock); ok {
		lang = fencedLanguage(fenced, source)
	}

	_, _ = w.WriteString(`<pre><code class="language-`)
	_, _ = w.WriteString(lang)
	_, _ = w.WriteString(`">`)
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		_, _ = w.Write(util.EscapeHTML(line.Value(source)))
	}
	_, _ = w.WriteString("</code></pre>\n")
	return ast.WalkSkipChildren, nil
}
