// Package style filters inline CSS declarations down to a small set of
// presentation properties whose values cannot load resources or escape
// their element.
package style

import (
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/microcosm-cc/bluemonday/css"
)

// importantMarker is rejected anywhere in a value so user CSS can never
// outrank the page stylesheet.
const importantMarker = "!important"

var fontWeightPattern = regexp.MustCompile(`^[1-9]00$`)

// validators maps each supported property to its value predicate.
// Properties missing from the table are rejected.
var validators = map[string]func(value string) bool{
	"color":                isColor,
	"background-color":     isColor,
	"font-style":           isFontStyle,
	"font-weight":          isFontWeight,
	"text-decoration":      isTextDecoration,
	"text-decoration-line": isTextDecoration,
}

// IsSafeValue reports whether value may be kept for property.
// The property is expected in lowercase and the value already trimmed.
func IsSafeValue(property, value string) bool {
	if strings.TrimSpace(value) == "" {
		return false
	}
	if strings.Contains(strings.ToLower(value), importantMarker) {
		return false
	}
	validate, ok := validators[property]
	if !ok {
		return false
	}
	return validate(strings.ToLower(value))
}

// SupportedProperties returns the properties IsSafeValue can accept, sorted.
func SupportedProperties() []string {
	return slices.Sorted(maps.Keys(validators))
}

func isColor(value string) bool {
	switch value {
	case "inherit", "currentcolor", "transparent":
		return true
	}
	// ColorHandler covers named colours, hex, rgb(a) and hsl(a).
	return css.ColorHandler(value)
}

func isFontStyle(value string) bool {
	return value == "normal" || value == "italic"
}

func isFontWeight(value string) bool {
	return value == "normal" || value == "bold" || fontWeightPattern.MatchString(value)
}

func isTextDecoration(value string) bool {
	switch value {
	case "none", "underline", "line-through":
		return true
	}
	return false
}
