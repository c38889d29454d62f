package style

import (
	"strings"

	"golang.org/x/net/html"
)

// Declaration is a single CSS property/value pair from a style attribute.
type Declaration struct {
	Property string
	Value    string
}

// String formats the declaration the way FilterStyle emits it.
func (d Declaration) String() string {
	return d.Property + ": " + d.Value
}

// ParseDeclarations splits a style attribute into declarations.
// Empty and malformed entries (no colon, empty property or value) are skipped.
// Property names are lowercased; values are kept as written, minus surrounding space.
func ParseDeclarations(style string) []Declaration {
	var decls []Declaration
	for _, part := range strings.Split(style, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		prop, value, found := strings.Cut(part, ":")
		if !found {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		value = strings.TrimSpace(value)
		if prop == "" || value == "" {
			continue
		}
		decls = append(decls, Declaration{Property: prop, Value: value})
	}
	return decls
}

// FilterStyle keeps only the declarations accepted by IsSafeValue and
// joins them with "; ". It returns "" when nothing survives.
func FilterStyle(style string) string {
	var kept []string
	for _, d := range ParseDeclarations(style) {
		if IsSafeValue(d.Property, d.Value) {
			kept = append(kept, d.String())
		}
	}
	return strings.Join(kept, "; ")
}

// TransformAttrs rewrites the style attribute of a tag through FilterStyle.
// Attributes without a style are returned unchanged. When every declaration
// is rejected the style attribute is removed rather than left empty.
// The tag name is not used for filtering; callers decide which tags to pass.
func TransformAttrs(tag string, attrs []html.Attribute) []html.Attribute {
	idx := -1
	for i, a := range attrs {
		if a.Namespace == "" && a.Key == "style" {
			idx = i
			break
		}
	}
	if idx < 0 {
		return attrs
	}

	out := make([]html.Attribute, 0, len(attrs))
	for i, a := range attrs {
		if i == idx {
			if filtered := FilterStyle(a.Val); filtered != "" {
				a.Val = filtered
				out = append(out, a)
			}
			continue
		}
		// Duplicate style attributes are dropped; browsers honour the first.
		if a.Namespace == "" && a.Key == "style" {
			continue
		}
		out = append(out, a)
	}
	return out
}
