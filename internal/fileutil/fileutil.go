// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
)

// markdownExtensions are the file extensions treated as Markdown input.
var markdownExtensions = []string{".md", ".markdown"}

// WriteFileAtomic writes data to path through a temporary file in the same
// directory, renamed into place once complete. Readers never see a partial file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmpFile, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	tmpPath := tmpFile.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, writeErr := tmpFile.Write(data); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return fmt.Errorf("writing temp file: %w", writeErr)
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if chmodErr := os.Chmod(tmpPath, perm); chmodErr != nil {
		cleanup()
		return fmt.Errorf("setting permissions: %w", chmodErr)
	}

	if renameErr := os.Rename(tmpPath, path); renameErr != nil {
		cleanup()
		return fmt.Errorf("renaming temp file: %w", renameErr)
	}

	return nil
}

// ValidateExtension checks that the extension is safe for use in output file names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsMarkdownFile returns true if path has a Markdown extension (.md, .markdown),
// compared case-insensitively.
func IsMarkdownFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, md := range markdownExtensions {
		if ext == md {
			return true
		}
	}
	return false
}

// ReplaceExtension returns path with its extension replaced by ext (without dot).
func ReplaceExtension(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + ext
}
