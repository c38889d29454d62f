package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	mdpreview "github.com/alnah/go-mdpreview"
	"github.com/alnah/go-mdpreview/internal/config"
	"github.com/alnah/go-mdpreview/internal/fileutil"
	"github.com/alnah/go-mdpreview/internal/hints"
)

// Sentinel errors for the render command.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrReadMarkdown       = errors.New("failed to read markdown file")
	ErrWriteHTML          = errors.New("failed to write HTML file")
	ErrInvalidExtension   = errors.New("file must have .md or .markdown extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

const (
	defaultExtension = "html"
	stdinArg         = "-"
	maxWorkers       = 32
	maxAutoWorkers   = 8
)

// Renderer turns markdown into sanitized HTML.
type Renderer interface {
	Preview(ctx context.Context, markdown string) (string, error)
	MaxInputSize() int
}

// Compile-time interface implementation check.
var _ Renderer = (*mdpreview.Previewer)(nil)

// FileToRender pairs a markdown source with its HTML destination.
type FileToRender struct {
	InputPath  string
	OutputPath string
}

// RenderResult holds the outcome of a single file.
type RenderResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// renderParams groups parameters shared across the batch.
type renderParams struct {
	standalone bool
	title      string // empty = derived from the file name
	css        string // base stylesheet of standalone documents
	now        func() time.Time
}

// runRender orchestrates the render command.
func runRender(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRenderFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	if err := validateWorkers(flags.workers); err != nil {
		return err
	}
	if err := fileutil.ValidateExtension(flags.ext); err != nil {
		return fmt.Errorf("--ext: %w", err)
	}

	cfg, err := resolveConfig(flags.common.config, env)
	if err != nil {
		return err
	}
	mergePreviewFlags(&flags.preview, cfg)
	mergeRenderFlags(flags, cfg)

	previewer, err := newPreviewer(cfg, newLogger(env.Stderr, flags.common.verbose))
	if err != nil {
		return err
	}

	params := &renderParams{
		standalone: cfg.Output.Standalone,
		title:      flags.title,
		now:        env.Now,
	}
	if params.standalone {
		if params.css, err = resolveStyleCSS(cfg.Output.Style); err != nil {
			return err
		}
	}

	inputPath, err := resolveInputPath(positional)
	if err != nil {
		return err
	}

	outputDir := resolveOutputDir(flags.output, cfg)

	if inputPath == stdinArg {
		return renderStdin(ctx, previewer, flags.output, params, env)
	}

	files, err := discoverFiles(inputPath, outputDir, flags.ext)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no markdown files found in %s", ErrNoInput, inputPath)
	}

	workers := resolveWorkers(flags.workers)
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Rendering %d file(s) with %d worker(s)\n", len(files), workers)
	}

	results := renderBatch(ctx, previewer, files, params, workers)

	failed := printResults(results, flags.common.quiet, flags.common.verbose, env)
	if failed > 0 {
		return newBatchError(results, failed)
	}
	return nil
}

// mergeRenderFlags merges output flags into config. CLI values override config values.
func mergeRenderFlags(f *renderFlags, cfg *config.Config) {
	if f.standalone {
		cfg.Output.Standalone = true
	}
	if f.style != "" {
		cfg.Output.Style = f.style
	}
	if f.noStyle {
		cfg.Output.Style = noStyle
	}
}

// resolveInputPath returns the single positional input.
func resolveInputPath(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", ErrNoInput
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("%w: expected one input, got %d", ErrInvalidFlags, len(args))
	}
}

// resolveOutputDir determines the output directory from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > maxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, maxWorkers)
	}
	return nil
}

// resolveWorkers determines the worker count.
// Priority: explicit flag > GOMAXPROCS (adjusted by automaxprocs for containers).
func resolveWorkers(flagWorkers int) int {
	if flagWorkers > 0 {
		return flagWorkers
	}
	return min(max(runtime.GOMAXPROCS(0), 1), maxAutoWorkers)
}

// discoverFiles finds all markdown files to render.
func discoverFiles(inputPath, outputDir, ext string) ([]FileToRender, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if !fileutil.IsMarkdownFile(inputPath) {
			return nil, fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(inputPath))
		}
		outPath := resolveOutputPath(inputPath, outputDir, "", ext)
		return []FileToRender{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []FileToRender
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !fileutil.IsMarkdownFile(path) {
			return nil
		}
		outPath := resolveOutputPath(path, outputDir, inputPath, ext)
		files = append(files, FileToRender{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// resolveOutputPath determines the HTML output path for a markdown file.
// Files found under baseInputDir keep their relative directory in outputDir.
// An outputDir ending in the output extension names the file itself.
func resolveOutputPath(inputPath, outputDir, baseInputDir, ext string) string {
	if outputDir == "" {
		return fileutil.ReplaceExtension(inputPath, ext)
	}

	if baseInputDir == "" && strings.HasSuffix(outputDir, "."+ext) {
		return outputDir
	}

	name := fileutil.ReplaceExtension(filepath.Base(inputPath), ext)
	if baseInputDir != "" {
		if relPath, err := filepath.Rel(baseInputDir, inputPath); err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath), name)
		}
	}
	return filepath.Join(outputDir, name)
}

// renderBatch processes files concurrently. Results keep the order of files.
func renderBatch(ctx context.Context, r Renderer, files []FileToRender, params *renderParams, workers int) []RenderResult {
	if len(files) == 0 {
		return nil
	}

	workers = min(max(workers, 1), len(files))

	results := make([]RenderResult, len(files))
	jobs := make(chan int, len(files))
	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					results[idx] = RenderResult{InputPath: files[idx].InputPath, Err: err}
					continue
				}
				results[idx] = renderFile(ctx, r, files[idx], params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// renderFile processes a single file and returns the result.
func renderFile(ctx context.Context, r Renderer, f FileToRender, params *renderParams) RenderResult {
	start := params.now()
	result := RenderResult{InputPath: f.InputPath, OutputPath: f.OutputPath}
	finish := func(err error) RenderResult {
		result.Err = err
		result.Duration = params.now().Sub(start)
		return result
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return finish(fmt.Errorf("%w: %w", ErrReadMarkdown, err))
	}

	out, err := renderDocument(ctx, r, string(content), params, documentTitle(params.title, f.InputPath))
	if err != nil {
		return finish(err)
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		return finish(fmt.Errorf("%w: creating output directory: %w%s", ErrWriteHTML, err, hints.ForOutputDirectory()))
	}

	if err := fileutil.WriteFileAtomic(f.OutputPath, []byte(out), filePermissions); err != nil {
		return finish(fmt.Errorf("%w: %w", ErrWriteHTML, err))
	}

	return finish(nil)
}

// renderStdin renders standard input to outputPath, or to standard output
// when outputPath is empty.
func renderStdin(ctx context.Context, r Renderer, outputPath string, params *renderParams, env *Environment) error {
	limit := r.MaxInputSize()
	content, err := io.ReadAll(io.LimitReader(env.Stdin, int64(limit)+1))
	if err != nil {
		return fmt.Errorf("%w: stdin: %w", ErrReadMarkdown, err)
	}
	if len(content) > limit {
		// Drain the rest without buffering it to report the real size.
		rest, err := io.Copy(io.Discard, env.Stdin)
		if err != nil {
			return fmt.Errorf("%w: stdin: %w", ErrReadMarkdown, err)
		}
		tooLarge := mdpreview.InputTooLargeError(len(content)+int(rest), limit)
		return fmt.Errorf("stdin: %w%s", tooLarge, hints.ForInputTooLarge(limit))
	}

	out, err := renderDocument(ctx, r, string(content), params, params.title)
	if err != nil {
		return err
	}

	if outputPath == "" {
		_, err := io.WriteString(env.Stdout, out)
		return err
	}
	if err := fileutil.WriteFileAtomic(outputPath, []byte(out), filePermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteHTML, err)
	}
	return nil
}

// renderDocument previews markdown and optionally wraps it in a document.
func renderDocument(ctx context.Context, r Renderer, markdown string, params *renderParams, title string) (string, error) {
	fragment, err := r.Preview(ctx, markdown)
	if err != nil {
		if errors.Is(err, mdpreview.ErrInputTooLarge) {
			return "", fmt.Errorf("%w%s", err, hints.ForInputTooLarge(r.MaxInputSize()))
		}
		return "", err
	}
	if params.standalone {
		return mdpreview.StandaloneHTML(fragment, title, params.css), nil
	}
	return fragment, nil
}

// documentTitle prefers an explicit title, then the file name without extension.
func documentTitle(title, inputPath string) string {
	if title != "" {
		return title
	}
	base := filepath.Base(inputPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// printResults reports each result and returns the number of failures.
func printResults(results []RenderResult, quiet, verbose bool, env *Environment) int {
	var succeeded, failed int

	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		succeeded++
		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", succeeded, failed)
	}

	return failed
}

// batchError summarizes failed files. It unwraps to every per-file error so
// that the exit code reflects the causes.
type batchError struct {
	failed int
	total  int
	errs   []error
}

func newBatchError(results []RenderResult, failed int) *batchError {
	e := &batchError{failed: failed, total: len(results)}
	for _, r := range results {
		if r.Err != nil {
			e.errs = append(e.errs, r.Err)
		}
	}
	return e
}

func (e *batchError) Error() string {
	return fmt.Sprintf("%d of %d file(s) failed", e.failed, e.total)
}

func (e *batchError) Unwrap() []error {
	return e.errs
}
