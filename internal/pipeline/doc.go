// Package pipeline implements the Markdown-to-safe-HTML preview pipeline.
//
// The stages run in order:
//   - Markdown parsing via Goldmark (GFM, hard wraps, raw HTML kept)
//   - Code block highlighting between parsing and rendering, with an
//     escaped <pre><code class="language-X"> fallback per block
//   - Rendering of the AST to an HTML fragment
//   - Sanitization against tag, attribute, URL scheme and inline style
//     allow-lists via bluemonday
//
// Size limits, error classification and panic recovery are handled by the
// root mdpreview package. The output of MarkdownRenderer is not safe to
// display until it has gone through Sanitizer.
package pipeline
