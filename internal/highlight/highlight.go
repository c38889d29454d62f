// Package highlight renders source code to syntax-highlighted HTML using chroma.
//
// Every highlighted block carries two variants, one per theme, so the page can
// switch between light and dark without re-rendering:
//
//	<div class="code-block" data-language="go">
//	<pre class="code-light" style="..."><code data-language="go" data-theme="github">...</code></pre>
//	<pre class="code-dark" style="..."><code data-language="go" data-theme="github-dark">...</code></pre>
//	</div>
//
// Colours are emitted as inline styles so the markup survives sanitizers that
// only keep colour and font declarations.
package highlight

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"slices"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Sentinel errors for highlighting.
var (
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrUnknownTheme        = errors.New("unknown theme")
	ErrHighlight           = errors.New("highlighting failed")
)

// Default themes.
const (
	DefaultLightTheme = "github"
	DefaultDarkTheme  = "github-dark"
)

// CSS classes on the generated markup.
const (
	WrapperClass = "code-block"
	LightClass   = "code-light"
	DarkClass    = "code-dark"
)

// plainLanguages have nothing to highlight; callers render them as escaped text.
var plainLanguages = []string{"text", "plaintext", "plain", "txt", "no-highlight"}

// Themes names the chroma styles used for the light and dark variants.
type Themes struct {
	Light string
	Dark  string
}

// DefaultThemes returns the GitHub light/dark pair.
func DefaultThemes() Themes {
	return Themes{Light: DefaultLightTheme, Dark: DefaultDarkTheme}
}

// Validate checks both themes exist in the chroma style registry.
func (t Themes) Validate() error {
	for _, name := range []string{t.Light, t.Dark} {
		if _, ok := styles.Registry[name]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownTheme, name)
		}
	}
	return nil
}

// AvailableThemes lists registered chroma style names, sorted.
func AvailableThemes() []string {
	names := make([]string, 0, len(styles.Registry))
	for name := range styles.Registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Chroma highlights code with chroma lexers and inline-styled HTML.
// It is safe for concurrent use.
type Chroma struct {
	themes Themes
	light  *chroma.Style
	dark   *chroma.Style
}

// NewChroma creates a Chroma highlighter for the given theme pair.
func NewChroma(themes Themes) (*Chroma, error) {
	if err := themes.Validate(); err != nil {
		return nil, err
	}
	return &Chroma{
		themes: themes,
		light:  styles.Registry[themes.Light],
		dark:   styles.Registry[themes.Dark],
	}, nil
}

// Themes returns the configured theme pair.
func (c *Chroma) Themes() Themes {
	return c.themes
}

// Highlight renders code in lang with both theme variants.
// Returns ErrUnsupportedLanguage when no lexer matches lang or lang is plain text.
// Chroma is not context-aware, so rendering runs in a goroutine and the call
// returns early when ctx is done.
func (c *Chroma) Highlight(ctx context.Context, code, lang string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	lexer := resolveLexer(lang)
	if lexer == nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		out, err := c.render(lexer, code, lang)
		done <- result{html: out, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// resolveLexer returns nil for plain text and unknown languages.
func resolveLexer(lang string) chroma.Lexer {
	if lang == "" || slices.Contains(plainLanguages, strings.ToLower(lang)) {
		return nil
	}
	lexer := lexers.Get(lang)
	if lexer == nil {
		return nil
	}
	return chroma.Coalesce(lexer)
}

func (c *Chroma) render(lexer chroma.Lexer, code, lang string) (string, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<div class="%s" data-language="%s">`, WrapperClass, html.EscapeString(lang))
	buf.WriteByte('\n')

	variants := []struct {
		class string
		theme string
		style *chroma.Style
	}{
		{LightClass, c.themes.Light, c.light},
		{DarkClass, c.themes.Dark, c.dark},
	}
	for _, v := range variants {
		// Tokenise per variant: the iterator is consumed by Format.
		iterator, err := lexer.Tokenise(nil, code)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrHighlight, err)
		}
		formatter := chromahtml.New(
			chromahtml.WithClasses(false),
			chromahtml.WithPreWrapper(themedPreWrapper{class: v.class, lang: lang, theme: v.theme}),
		)
		if err := formatter.Format(&buf, v.style, iterator); err != nil {
			return "", fmt.Errorf("%w: %v", ErrHighlight, err)
		}
		buf.WriteByte('\n')
	}

	buf.WriteString("</div>")
	return buf.String(), nil
}

// themedPreWrapper tags the <pre>/<code> pair with its theme variant.
type themedPreWrapper struct {
	class string
	lang  string
	theme string
}

func (w themedPreWrapper) Start(code bool, styleAttr string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<pre class="%s"%s>`, w.class, styleAttr)
	if code {
		fmt.Fprintf(&sb, `<code data-language="%s" data-theme="%s">`,
			html.EscapeString(w.lang), html.EscapeString(w.theme))
	}
	return sb.String()
}

func (w themedPreWrapper) End(code bool) string {
	if code {
		return "</code></pre>"
	}
	return "</pre>"
}

// ThemeCSS returns the stylesheet that shows the light variant by default and
// the dark variant when the user prefers a dark colour scheme.
func ThemeCSS() string {
	return fmt.Sprintf(`.%[1]s .%[3]s { display: none; }
@media (prefers-color-scheme: dark) {
  .%[1]s .%[2]s { display: none; }
  .%[1]s .%[3]s { display: block; }
}
`, WrapperClass, LightClass, DarkClass)
}
