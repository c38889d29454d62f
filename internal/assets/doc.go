// Package assets provides the base stylesheets of standalone preview documents.
//
// Styles are embedded at compile time under styles/{name}.css and selected by
// name, or read from a .css file on disk:
//
//	css, err := assets.ResolveStyle("default")      // embedded
//	css, err := assets.ResolveStyle("./brand.css")  // file
//
// # Security
//
// Style names are validated to prevent path traversal. Files must carry a
// .css extension and are size-limited.
package assets
