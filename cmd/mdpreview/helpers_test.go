package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	mdpreview "github.com/alnah/go-mdpreview"
)

// testEnv returns an Environment with captured output and the given
// KEY=value environment, isolated from the process environment.
func testEnv(environ ...string) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:     func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
		Stdin:   strings.NewReader(""),
		Stdout:  &stdout,
		Stderr:  &stderr,
		Environ: func() []string { return environ },
	}
	return env, &stdout, &stderr
}

// writeFile creates dir/name with content, creating parent directories.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll() error: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

// readFile returns the content of path or fails the test.
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error: %v", path, err)
	}
	return string(data)
}

// fakeRenderer wraps markdown in a paragraph, failing with err when set.
type fakeRenderer struct {
	limit int
	err   error
	panic bool
	block bool // wait for ctx to end, then fail
}

func (f *fakeRenderer) Preview(ctx context.Context, markdown string) (string, error) {
	if f.panic {
		panic("renderer exploded")
	}
	if f.block {
		<-ctx.Done()
		return "", fmt.Errorf("%w: %w", mdpreview.ErrPreviewFailed, ctx.Err())
	}
	if len(markdown) > f.MaxInputSize() {
		return "", mdpreview.ErrInputTooLarge
	}
	if f.err != nil {
		return "", f.err
	}
	return "<p>" + markdown + "</p>", nil
}

func (f *fakeRenderer) MaxInputSize() int {
	if f.limit == 0 {
		return mdpreview.DefaultMaxInputSize
	}
	return f.limit
}
