package pipeline

import (
	"bytes"
	"errors"
	"io"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/alnah/go-mdpreview/internal/style"
)

// Allow-lists for preview HTML.
var (
	allowedElements = []string{
		"h1", "h2", "h3", "h4", "h5", "h6",
		"p", "br", "hr", "strong", "em", "del",
		"ul", "ol", "li", "a", "blockquote", "code", "pre",
		"table", "thead", "tbody", "tr", "th", "td",
		"div", "span", "img", "input",
	}

	allowedURLSchemes = []string{"http", "https", "mailto"}

	// codeStyles are the inline style properties kept on <pre> and <code>.
	codeStyles = []string{"color", "background-color"}

	// spanStyles are the inline style properties kept on <span>: every
	// property the validator knows.
	spanStyles = style.SupportedProperties()

	// styledElements get their style attribute filtered before the policy runs.
	styledElements = map[string]bool{"pre": true, "code": true, "span": true}

	checkboxType = regexp.MustCompile(`^checkbox$`)
)

// Sanitizer strips HTML down to the preview allow-lists.
// It is safe for concurrent use.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer builds the preview sanitization policy.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: newPreviewPolicy()}
}

func newPreviewPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements(allowedElements...)

	// Links and images
	p.AllowAttrs("href", "title").OnElements("a")
	p.AllowAttrs("src", "alt", "title").OnElements("img")
	p.RequireParseableURLs(true)
	p.AllowURLSchemes(allowedURLSchemes...)
	p.AllowRelativeURLs(true) // includes protocol-relative //host/path

	// Checkboxes (task lists)
	p.AllowAttrs("type").Matching(checkboxType).OnElements("input")
	p.AllowAttrs("checked", "disabled").OnElements("input")

	// Code blocks
	p.AllowAttrs("class", "style").OnElements("pre", "span")
	p.AllowAttrs("class", "style", "data-language", "data-theme").OnElements("code")
	for _, prop := range codeStyles {
		p.AllowStyles(prop).MatchingHandler(valueHandler(prop)).OnElements("pre", "code")
	}
	for _, prop := range spanStyles {
		p.AllowStyles(prop).MatchingHandler(valueHandler(prop)).OnElements("span")
	}

	// Global attributes
	p.AllowAttrs("class", "id").Globally()
	p.AllowDataAttributes()

	return p
}

// valueHandler adapts the style validator to a bluemonday style handler.
func valueHandler(property string) func(string) bool {
	return func(value string) bool {
		return style.IsSafeValue(property, strings.TrimSpace(value))
	}
}

// Sanitize returns html reduced to the allowed tags, attributes, URL schemes
// and style declarations. Sanitizing its own output is a no-op.
func (s *Sanitizer) Sanitize(content string) (string, error) {
	if content == "" {
		return "", nil
	}
	transformed, err := transformStyles(content)
	if err != nil {
		return "", err
	}
	return s.policy.Sanitize(transformed), nil
}

// transformStyles rewrites the style attribute of <pre>, <code> and <span>
// through the style filter. Other tokens are copied byte for byte.
func transformStyles(content string) (string, error) {
	var out bytes.Buffer
	out.Grow(len(content))

	z := html.NewTokenizer(strings.NewReader(content))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return "", err
			}
			return out.String(), nil
		case html.StartTagToken, html.SelfClosingTagToken:
			// Raw stays valid until the next call to Next.
			raw := z.Raw()
			tok := z.Token()
			if !styledElements[tok.Data] || !hasStyle(tok.Attr) {
				out.Write(raw)
				continue
			}
			tok.Attr = style.TransformAttrs(tok.Data, tok.Attr)
			out.WriteString(tok.String())
		default:
			out.Write(z.Raw())
		}
	}
}

func hasStyle(attrs []html.Attribute) bool {
	for _, a := range attrs {
		if a.Key == "style" {
			return true
		}
	}
	return false
}
