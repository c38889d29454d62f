package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	mdpreview "github.com/alnah/go-mdpreview"
)

func TestResolveOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		outputDir string
		baseDir   string
		ext       string
		want      string
	}{
		{"next to source", "docs/a.md", "", "", "html", "docs/a.html"},
		{"custom extension", "docs/a.markdown", "", "", "htm", "docs/a.htm"},
		{"output directory", "docs/a.md", "out", "", "html", filepath.Join("out", "a.html")},
		{"explicit output file", "docs/a.md", "out/page.html", "", "html", "out/page.html"},
		{"mirrors subdirectories", "docs/guide/b.md", "out", "docs", "html", filepath.Join("out", "guide", "b.html")},
		{"file-like output in batch is a directory", "docs/b.md", "site.html", "docs", "html", filepath.Join("site.html", "b.html")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := resolveOutputPath(tt.input, tt.outputDir, tt.baseDir, tt.ext)
			if got != tt.want {
				t.Errorf("resolveOutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDiscoverFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.md", "# A")
	writeFile(t, dir, "sub/b.markdown", "# B")
	writeFile(t, dir, "notes.txt", "skip")

	files, err := discoverFiles(dir, "", "html")
	if err != nil {
		t.Fatalf("discoverFiles() error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("discoverFiles() found %d files, want 2: %+v", len(files), files)
	}
	if got, want := files[0].OutputPath, filepath.Join(dir, "a.html"); got != want {
		t.Errorf("files[0].OutputPath = %q, want %q", got, want)
	}
	if got, want := files[1].OutputPath, filepath.Join(dir, "sub", "b.html"); got != want {
		t.Errorf("files[1].OutputPath = %q, want %q", got, want)
	}
}

func TestDiscoverFiles_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	txt := writeFile(t, dir, "notes.txt", "x")

	if _, err := discoverFiles(txt, "", "html"); !errors.Is(err, ErrInvalidExtension) {
		t.Errorf("non-markdown file: error = %v, want ErrInvalidExtension", err)
	}
	if _, err := discoverFiles(filepath.Join(dir, "missing.md"), "", "html"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: error = %v, want os.ErrNotExist", err)
	}
}

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, maxWorkers} {
		if err := validateWorkers(n); err != nil {
			t.Errorf("validateWorkers(%d) error: %v", n, err)
		}
	}
	for _, n := range []int{-1, maxWorkers + 1} {
		if err := validateWorkers(n); !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("validateWorkers(%d) error = %v, want ErrInvalidWorkerCount", n, err)
		}
	}
}

func TestResolveWorkers(t *testing.T) {
	t.Parallel()

	if got := resolveWorkers(5); got != 5 {
		t.Errorf("resolveWorkers(5) = %d, want 5", got)
	}
	if got := resolveWorkers(0); got < 1 || got > maxAutoWorkers {
		t.Errorf("resolveWorkers(0) = %d, want 1..%d", got, maxAutoWorkers)
	}
}

func TestRenderBatch_KeepsOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var files []FileToRender
	for i := range 12 {
		in := writeFile(t, dir, fmt.Sprintf("f%02d.md", i), fmt.Sprintf("doc %d", i))
		files = append(files, FileToRender{InputPath: in, OutputPath: strings.TrimSuffix(in, ".md") + ".html"})
	}

	params := &renderParams{now: time.Now}
	results := renderBatch(context.Background(), &fakeRenderer{}, files, params, 4)

	if len(results) != len(files) {
		t.Fatalf("got %d results, want %d", len(results), len(files))
	}
	for i, r := range results {
		if r.Err != nil {
			t.Errorf("results[%d].Err = %v", i, r.Err)
			continue
		}
		if r.InputPath != files[i].InputPath {
			t.Errorf("results[%d].InputPath = %q, want %q", i, r.InputPath, files[i].InputPath)
		}
		if got, want := readFile(t, r.OutputPath), fmt.Sprintf("<p>doc %d</p>", i); got != want {
			t.Errorf("%s = %q, want %q", r.OutputPath, got, want)
		}
	}
}

func TestRenderBatch_CanceledContext(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeFile(t, dir, "a.md", "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := renderBatch(ctx, &fakeRenderer{}, []FileToRender{{InputPath: in, OutputPath: in + ".html"}}, &renderParams{now: time.Now}, 1)
	if !errors.Is(results[0].Err, context.Canceled) {
		t.Errorf("Err = %v, want context.Canceled", results[0].Err)
	}
	if _, err := os.Stat(in + ".html"); !os.IsNotExist(err) {
		t.Error("output written despite canceled context")
	}
}

func TestRenderFile_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	big := writeFile(t, dir, "big.md", strings.Repeat("x", 11))
	params := &renderParams{now: time.Now}

	tests := []struct {
		name     string
		renderer Renderer
		file     FileToRender
		wantErr  error
		wantText string
	}{
		{
			name:     "missing input",
			renderer: &fakeRenderer{},
			file:     FileToRender{InputPath: filepath.Join(dir, "missing.md"), OutputPath: filepath.Join(dir, "missing.html")},
			wantErr:  ErrReadMarkdown,
		},
		{
			name:     "too large carries hint",
			renderer: &fakeRenderer{limit: 10},
			file:     FileToRender{InputPath: big, OutputPath: filepath.Join(dir, "big.html")},
			wantErr:  mdpreview.ErrInputTooLarge,
			wantText: "--max-size (current: 10 bytes)",
		},
		{
			name:     "render failure",
			renderer: &fakeRenderer{err: mdpreview.ErrPreviewFailed},
			file:     FileToRender{InputPath: big, OutputPath: filepath.Join(dir, "big.html")},
			wantErr:  mdpreview.ErrPreviewFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := renderFile(context.Background(), tt.renderer, tt.file, params)
			if !errors.Is(res.Err, tt.wantErr) {
				t.Fatalf("Err = %v, want %v", res.Err, tt.wantErr)
			}
			if tt.wantText != "" && !strings.Contains(res.Err.Error(), tt.wantText) {
				t.Errorf("Err = %q, want it to contain %q", res.Err, tt.wantText)
			}
		})
	}
}

func TestRenderFile_OutputDirectoryBlocked(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeFile(t, dir, "a.md", "a")
	blocker := writeFile(t, dir, "blocker", "not a directory")

	res := renderFile(context.Background(), &fakeRenderer{}, FileToRender{
		InputPath:  in,
		OutputPath: filepath.Join(blocker, "a.html"),
	}, &renderParams{now: time.Now})

	if !errors.Is(res.Err, ErrWriteHTML) {
		t.Fatalf("Err = %v, want ErrWriteHTML", res.Err)
	}
	if !strings.Contains(res.Err.Error(), "parent directory") {
		t.Errorf("Err = %q, want output directory hint", res.Err)
	}
}

func TestDocumentTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		title, path, want string
	}{
		{"Explicit", "docs/a.md", "Explicit"},
		{"", "docs/getting-started.md", "getting-started"},
		{"", "notes.v2.markdown", "notes.v2"},
	}

	for _, tt := range tests {
		if got := documentTitle(tt.title, tt.path); got != tt.want {
			t.Errorf("documentTitle(%q, %q) = %q, want %q", tt.title, tt.path, got, tt.want)
		}
	}
}

func TestPrintResults(t *testing.T) {
	t.Parallel()

	results := []RenderResult{
		{InputPath: "a.md", OutputPath: "a.html", Duration: 1500 * time.Microsecond},
		{InputPath: "b.md", Err: errors.New("boom")},
	}

	t.Run("normal", func(t *testing.T) {
		t.Parallel()

		env, stdout, stderr := testEnv()
		if failed := printResults(results, false, false, env); failed != 1 {
			t.Errorf("failed = %d, want 1", failed)
		}
		if !strings.Contains(stdout.String(), "Created a.html") {
			t.Errorf("stdout = %q", stdout.String())
		}
		if !strings.Contains(stdout.String(), "1 succeeded, 1 failed") {
			t.Errorf("stdout = %q, want summary", stdout.String())
		}
		if !strings.Contains(stderr.String(), "FAILED b.md: boom") {
			t.Errorf("stderr = %q", stderr.String())
		}
	})

	t.Run("verbose", func(t *testing.T) {
		t.Parallel()

		env, stdout, _ := testEnv()
		printResults(results[:1], false, true, env)
		if got := stdout.String(); got != "a.md -> a.html (2ms)\n" {
			t.Errorf("stdout = %q", got)
		}
	})

	t.Run("quiet", func(t *testing.T) {
		t.Parallel()

		env, stdout, stderr := testEnv()
		printResults(results, true, false, env)
		if stdout.Len() != 0 {
			t.Errorf("stdout = %q, want empty", stdout.String())
		}
		if !strings.Contains(stderr.String(), "FAILED") {
			t.Error("failures must be reported in quiet mode")
		}
	})
}
