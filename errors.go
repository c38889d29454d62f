package mdpreview

import (
	"errors"

	"github.com/alnah/go-mdpreview/internal/highlight"
)

// Sentinel errors for library operations.
var (
	ErrInputTooLarge = errors.New("markdown input too large")
	ErrPreviewFailed = errors.New("failed to preview markdown")

	// Construction errors.
	ErrInvalidOption = errors.New("invalid option")
	ErrUnknownTheme  = highlight.ErrUnknownTheme
)
