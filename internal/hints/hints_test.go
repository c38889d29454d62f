package hints

import (
	"strings"
	"testing"
)

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		paths    []string
		contains string
		wantNot  string
	}{
		{
			name:     "empty paths",
			paths:    []string{},
			contains: "--config",
			wantNot:  "create",
		},
		{
			name:     "with user config path",
			paths:    []string{"./foo.yaml", "/home/u/.config/go-mdpreview/foo.yaml"},
			contains: "or create /home/u/.config/go-mdpreview/foo.yaml",
		},
		{
			name:     "only local paths",
			paths:    []string{"./foo.yaml", "./foo.yml"},
			contains: "--config",
			wantNot:  "create",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hint := ForConfigNotFound(tt.paths)

			if !strings.Contains(hint, "hint:") {
				t.Error("expected hint prefix")
			}
			if !strings.Contains(hint, tt.contains) {
				t.Errorf("expected hint to contain %q, got %q", tt.contains, hint)
			}
			if tt.wantNot != "" && strings.Contains(hint, tt.wantNot) {
				t.Errorf("hint should not contain %q, got %q", tt.wantNot, hint)
			}
		})
	}
}

func TestForOutputDirectory(t *testing.T) {
	t.Parallel()

	hint := ForOutputDirectory()

	if !strings.Contains(hint, "parent directory") {
		t.Error("expected parent directory mention")
	}
}

func TestForThemeNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		available []string
		wantEmpty bool
		contains  string
	}{
		{
			name:      "empty available",
			available: []string{},
			wantEmpty: true,
		},
		{
			name:      "with themes",
			available: []string{"github", "monokai"},
			contains:  "available: github, monokai",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hint := ForThemeNotFound(tt.available)

			if tt.wantEmpty && hint != "" {
				t.Errorf("expected empty hint, got %q", hint)
			}
			if !tt.wantEmpty && !strings.Contains(hint, tt.contains) {
				t.Errorf("expected hint to contain %q, got %q", tt.contains, hint)
			}
		})
	}
}

func TestForStyleNotFound(t *testing.T) {
	t.Parallel()

	if hint := ForStyleNotFound([]string{"default", "minimal"}); !strings.Contains(hint, "available: default, minimal, or a .css file path") {
		t.Errorf("unexpected hint %q", hint)
	}
	if hint := ForStyleNotFound(nil); !strings.Contains(hint, ".css file path") {
		t.Errorf("unexpected hint %q", hint)
	}
}

func TestForInputTooLarge(t *testing.T) {
	t.Parallel()

	hint := ForInputTooLarge(51200)

	for _, want := range []string{"--max-size", "51200 bytes"} {
		if !strings.Contains(hint, want) {
			t.Errorf("expected hint to contain %q, got %q", want, hint)
		}
	}
}

func TestForAddressInUse(t *testing.T) {
	t.Parallel()

	hint := ForAddressInUse(":8080")

	if !strings.Contains(hint, ":8080 is already in use") || !strings.Contains(hint, "--addr") {
		t.Errorf("unexpected hint %q", hint)
	}
}

func TestFormat_Consistency(t *testing.T) {
	t.Parallel()

	// All hints should start with newline, spaces, and "hint:"
	hints := []string{
		ForOutputDirectory(),
		ForConfigNotFound(nil),
		ForThemeNotFound([]string{"github"}),
		ForStyleNotFound([]string{"default"}),
		ForInputTooLarge(1),
		ForAddressInUse(":1"),
	}

	for _, h := range hints {
		if !strings.HasPrefix(h, "\n  hint: ") {
			t.Errorf("hint format inconsistent: %q", h)
		}
	}

	if format("") != "" {
		t.Error("format(\"\") should be empty")
	}
}
