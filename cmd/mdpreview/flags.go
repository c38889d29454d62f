package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// ErrInvalidFlags wraps command line parse failures.
var ErrInvalidFlags = errors.New("invalid flags")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// previewFlags holds flags that tune the preview pipeline.
type previewFlags struct {
	maxSize     int
	lightTheme  string
	darkTheme   string
	timeout     time.Duration
	concurrency int
	noHighlight bool
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common     commonFlags
	preview    previewFlags
	output     string
	ext        string
	workers    int
	standalone bool
	title      string
	style      string
	noStyle    bool
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	common          commonFlags
	preview         previewFlags
	addr            string
	style           string
	requestTimeout  time.Duration
	shutdownTimeout time.Duration
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing and highlight fallbacks")
}

// addPreviewFlags adds pipeline flags to a FlagSet.
func addPreviewFlags(fs *flag.FlagSet, f *previewFlags) {
	fs.IntVar(&f.maxSize, "max-size", 0, "input size limit in bytes (default 51200)")
	fs.StringVar(&f.lightTheme, "light-theme", "", "chroma style for light code blocks")
	fs.StringVar(&f.darkTheme, "dark-theme", "", "chroma style for dark code blocks")
	fs.DurationVarP(&f.timeout, "timeout", "t", 0, "highlight timeout per code block (e.g., 500ms, 2s)")
	fs.IntVar(&f.concurrency, "concurrency", 0, "code blocks highlighted at once (0 = auto)")
	fs.BoolVar(&f.noHighlight, "no-highlight", false, "render code blocks as plain escaped text")
}

// newFlagSet creates a FlagSet that reports errors instead of exiting.
func newFlagSet(name string, out io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() { usage(out) }
	return fs
}

// parseFlagSet parses args, wrapping failures with ErrInvalidFlags.
// flag.ErrHelp is returned unwrapped.
func parseFlagSet(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrInvalidFlags, err)
	}
	return nil
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string, stderr io.Writer) (*renderFlags, []string, error) {
	f := &renderFlags{}
	fs := newFlagSet("render", stderr, printRenderUsage)

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.StringVar(&f.ext, "ext", defaultExtension, "output file extension")
	fs.IntVarP(&f.workers, "workers", "w", 0, "files rendered in parallel (0 = auto)")
	fs.BoolVarP(&f.standalone, "standalone", "s", false, "wrap output in a full HTML document")
	fs.StringVar(&f.title, "title", "", "document title for --standalone")
	fs.StringVar(&f.style, "style", "", "base style for --standalone: name or .css path")
	fs.BoolVar(&f.noStyle, "no-style", false, "omit the base style from --standalone documents")

	addCommonFlags(fs, &f.common)
	addPreviewFlags(fs, &f.preview)

	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseServeFlags parses serve command flags.
func parseServeFlags(args []string, stderr io.Writer) (*serveFlags, error) {
	f := &serveFlags{}
	fs := newFlagSet("serve", stderr, printServeUsage)

	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (default \":8080\")")
	fs.StringVar(&f.style, "style", "", "base style served at /api/style.css: name or .css path")
	fs.DurationVar(&f.requestTimeout, "request-timeout", 0, "per request timeout (default 10s)")
	fs.DurationVar(&f.shutdownTimeout, "shutdown-timeout", 0, "graceful shutdown timeout (default 5s)")

	addCommonFlags(fs, &f.common)
	addPreviewFlags(fs, &f.preview)

	if err := parseFlagSet(fs, args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected argument %q", ErrInvalidFlags, fs.Arg(0))
	}
	return f, nil
}

// parseConfigFlags parses flags of the config command.
func parseConfigFlags(args []string, stderr io.Writer) (*commonFlags, error) {
	f := &commonFlags{}
	fs := newFlagSet("config", stderr, printConfigUsage)
	addCommonFlags(fs, f)

	if err := parseFlagSet(fs, args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected argument %q", ErrInvalidFlags, fs.Arg(0))
	}
	return f, nil
}
