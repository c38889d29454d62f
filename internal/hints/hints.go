// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"fmt"
	"strings"
)

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-mdpreview/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Find a user config path (contains .config/go-mdpreview) to suggest
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-mdpreview") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForThemeNotFound lists the available highlighting themes.
func ForThemeNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForStyleNotFound lists the embedded base styles.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return format("pass a .css file path")
	}
	return format("available: " + strings.Join(available, ", ") + ", or a .css file path")
}

// ForInputTooLarge suggests raising the size limit.
func ForInputTooLarge(limit int) string {
	return format(fmt.Sprintf("split the document or raise the limit with --max-size (current: %d bytes)", limit))
}

// ForAddressInUse suggests another listen address.
func ForAddressInUse(addr string) string {
	return format(fmt.Sprintf("%s is already in use; pick another with --addr", addr))
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
