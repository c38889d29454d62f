package style

import (
	"reflect"
	"testing"

	"golang.org/x/net/html"
)

func TestParseDeclarations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []Declaration
	}{
		{
			name:  "single declaration",
			input: "color: red",
			want:  []Declaration{{"color", "red"}},
		},
		{
			name:  "property lowercased, value kept",
			input: "COLOR: Red",
			want:  []Declaration{{"color", "Red"}},
		},
		{
			name:  "empty entries skipped",
			input: ";; color:red ;  ;font-weight:bold;",
			want:  []Declaration{{"color", "red"}, {"font-weight", "bold"}},
		},
		{
			name:  "split on first colon only",
			input: "background-color: rgb(0,0,0); content: a:b",
			want:  []Declaration{{"background-color", "rgb(0,0,0)"}, {"content", "a:b"}},
		},
		{
			name:  "malformed declarations skipped",
			input: "color; : red; font-weight: ; display:block",
			want:  []Declaration{{"display", "block"}},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ParseDeclarations(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseDeclarations(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFilterStyle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "keeps only safe declarations",
			input: "color: red; position: absolute; font-weight: 999",
			want:  "color: red",
		},
		{
			name:  "normalizes spacing",
			input: "color:#d73a49;font-weight:bold",
			want:  "color: #d73a49; font-weight: bold",
		},
		{
			name:  "important dropped regardless of property",
			input: "color: red !important; font-style: italic",
			want:  "font-style: italic",
		},
		{
			name:  "nothing survives",
			input: "display:flex; position:fixed",
			want:  "",
		},
		{
			name:  "url in background rejected",
			input: "background-color: url(javascript:alert(1))",
			want:  "",
		},
		{
			name:  "already filtered input is stable",
			input: "color: #24292e; background-color: #fff",
			want:  "color: #24292e; background-color: #fff",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FilterStyle(tt.input); got != tt.want {
				t.Errorf("FilterStyle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTransformAttrs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		attrs []html.Attribute
		want  []html.Attribute
	}{
		{
			name:  "no style attribute unchanged",
			attrs: []html.Attribute{{Key: "class", Val: "k"}},
			want:  []html.Attribute{{Key: "class", Val: "k"}},
		},
		{
			name:  "nil attributes",
			attrs: nil,
			want:  nil,
		},
		{
			name: "style filtered in place",
			attrs: []html.Attribute{
				{Key: "class", Val: "line"},
				{Key: "style", Val: "display:flex;color:red"},
				{Key: "id", Val: "x"},
			},
			want: []html.Attribute{
				{Key: "class", Val: "line"},
				{Key: "style", Val: "color: red"},
				{Key: "id", Val: "x"},
			},
		},
		{
			name: "empty result removes style",
			attrs: []html.Attribute{
				{Key: "style", Val: "position:absolute"},
				{Key: "class", Val: "k"},
			},
			want: []html.Attribute{{Key: "class", Val: "k"}},
		},
		{
			name: "duplicate style attributes collapse to the first",
			attrs: []html.Attribute{
				{Key: "style", Val: "color:blue"},
				{Key: "style", Val: "color:red"},
			},
			want: []html.Attribute{{Key: "style", Val: "color: blue"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := TransformAttrs("span", tt.attrs)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TransformAttrs() = %#v, want %#v", got, tt.want)
			}
		})
	}
}
