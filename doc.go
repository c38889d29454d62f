// Package mdpreview renders untrusted Markdown to sanitized, syntax-highlighted
// HTML that is safe to inject into a page.
//
// # Quick Start
//
// Use the package-level function with the default configuration:
//
//	html, err := mdpreview.PreviewMarkdown(ctx, "# Hello\n\n**World**")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Or build a Previewer once and reuse it. Previewers are immutable and safe
// for concurrent use:
//
//	p, err := mdpreview.NewPreviewer(
//	    mdpreview.WithMaxInputSize(100*1024),
//	    mdpreview.WithThemes("monokailight", "monokai"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	html, err := p.Preview(ctx, content)
//
// # Preview Pipeline
//
// Each call goes through these stages:
//
//  1. Size guard (50 KiB by default, counted in UTF-8 bytes)
//  2. Markdown parsing via Goldmark (GFM, hard line breaks)
//  3. Code block highlighting via chroma, one light and one dark variant per
//     block; blocks that cannot be highlighted keep escaped plain markup
//  4. Sanitization via bluemonday against tag, attribute, URL scheme and
//     inline style allow-lists
//
// # Errors
//
// Input over the size limit fails with ErrInputTooLarge before anything is
// parsed. Every later failure, panics included, is reported as
// ErrPreviewFailed wrapping the cause. Highlighting failures are never
// errors: the block falls back to plain markup.
//
// # Themes
//
// Highlighted blocks carry both theme variants. Include ThemeCSS in the page
// to show the one matching the user's colour scheme, or use StandaloneHTML
// to get a complete document.
package mdpreview
