package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
)

//go:embed styles/*.css
var styles embed.FS

// DefaultStyle is the style used when none is configured.
const DefaultStyle = "default"

// LoadStyle loads an embedded CSS style by name, without the .css extension.
// Returns ErrInvalidAssetName for unsafe names and ErrStyleNotFound for unknown ones.
func LoadStyle(name string) (string, error) {
	if err := validateStyleName(name); err != nil {
		return "", err
	}

	content, err := styles.ReadFile("styles/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}

	return string(content), nil
}

// AvailableStyles lists the embedded style names, sorted.
func AvailableStyles() []string {
	entries, err := fs.ReadDir(styles, "styles")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	slices.Sort(names)
	return names
}

// validateStyleName rejects empty names and names with separators or dots,
// which could escape the styles directory or change the extension.
func validateStyleName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
