package main

import (
	"errors"
	"os"

	mdpreview "github.com/alnah/go-mdpreview"
	"github.com/alnah/go-mdpreview/internal/assets"
	"github.com/alnah/go-mdpreview/internal/config"
	"github.com/alnah/go-mdpreview/internal/fileutil"
)

// Exit codes for the mdpreview CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // Everything rendered
	ExitGeneral  = 1 // General/unexpected error
	ExitUsage    = 2 // Invalid flags, config, environment or options
	ExitIO       = 3 // File not found, permission denied, write failure
	ExitTooLarge = 4 // Markdown input over the size limit
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, mdpreview.ErrInputTooLarge) {
		return ExitTooLarge
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrWriteHTML) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, assets.ErrAssetRead) {
		return ExitIO
	}

	if errors.Is(err, ErrInvalidFlags) ||
		errors.Is(err, ErrInvalidEnv) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrInvalidConfig) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, fileutil.ErrExtensionEmpty) ||
		errors.Is(err, fileutil.ErrExtensionPathTraversal) ||
		errors.Is(err, mdpreview.ErrInvalidOption) ||
		errors.Is(err, mdpreview.ErrUnknownTheme) ||
		errors.Is(err, assets.ErrStyleNotFound) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, assets.ErrStyleTooLarge) {
		return ExitUsage
	}

	return ExitGeneral
}
