package assets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// MaxStyleSize limits style files read from disk.
const MaxStyleSize = 1 << 20

// ResolveStyle returns the CSS for nameOrPath. Values with a path separator or
// a .css extension are read from disk; anything else names an embedded style.
func ResolveStyle(nameOrPath string) (string, error) {
	if isStylePath(nameOrPath) {
		return LoadStyleFile(nameOrPath)
	}
	return LoadStyle(nameOrPath)
}

// LoadStyleFile reads a .css file of at most MaxStyleSize bytes.
func LoadStyleFile(path string) (string, error) {
	if !strings.EqualFold(filepath.Ext(path), ".css") {
		return "", fmt.Errorf("%w: %q must have a .css extension", ErrInvalidAssetName, path)
	}

	f, err := os.Open(path) // #nosec G304 -- user-provided style path
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrStyleNotFound, path)
		}
		return "", fmt.Errorf("%w: %w", ErrAssetRead, err)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, MaxStyleSize+1))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAssetRead, err)
	}
	if len(content) > MaxStyleSize {
		return "", fmt.Errorf("%w: %s (max %d bytes)", ErrStyleTooLarge, path, MaxStyleSize)
	}

	return string(content), nil
}

// isStylePath returns true if the value looks like a file path.
func isStylePath(s string) bool {
	return strings.ContainsAny(s, "/\\") || strings.EqualFold(filepath.Ext(s), ".css")
}
