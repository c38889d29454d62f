package pipeline

import (
	"html"
	"strings"
)

// DefaultTitle is the <title> of standalone documents without one.
const DefaultTitle = "Preview"

// documentHead precedes the style block of a standalone document.
const documentHead = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta name="color-scheme" content="light dark">
<title>`

// WrapDocument wraps a sanitized HTML fragment in a complete HTML5 document,
// with css in a <style> block of the head.
func WrapDocument(fragment, css, title string) string {
	if title == "" {
		title = DefaultTitle
	}

	var sb strings.Builder
	sb.Grow(len(documentHead) + len(fragment) + len(css) + 128)
	sb.WriteString(documentHead)
	sb.WriteString(html.EscapeString(title))
	sb.WriteString("</title>\n")
	if css != "" {
		sb.WriteString("<style>\n")
		sb.WriteString(sanitizeCSS(css))
		sb.WriteString("</style>\n")
	}
	sb.WriteString("</head>\n<body>\n")
	sb.WriteString(fragment)
	if !strings.HasSuffix(fragment, "\n") {
		sb.WriteByte('\n')
	}
	sb.WriteString("</body>\n</html>\n")
	return sb.String()
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
