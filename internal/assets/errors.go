package assets

import "errors"

// Sentinel errors for asset operations.
var (
	// ErrStyleNotFound indicates the requested style does not exist.
	ErrStyleNotFound = errors.New("style not found")

	// ErrInvalidAssetName indicates the asset name contains invalid characters
	// such as path separators or traversal sequences.
	ErrInvalidAssetName = errors.New("invalid asset name")

	// ErrAssetRead indicates an I/O error occurred while reading a style file.
	ErrAssetRead = errors.New("failed to read asset")

	// ErrStyleTooLarge indicates a style file over MaxStyleSize.
	ErrStyleTooLarge = errors.New("style file too large")
)
