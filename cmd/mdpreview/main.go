package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	mdpreview "github.com/alnah/go-mdpreview"
	"github.com/alnah/go-mdpreview/internal/assets"
	"github.com/alnah/go-mdpreview/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	verbose := slices.Contains(os.Args, "-v") || slices.Contains(os.Args, "--verbose")

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	ctx, stop := notifyContext(context.Background())
	code := runMain(ctx, os.Args, DefaultEnv())
	stop()
	os.Exit(code)
}

// runMain dispatches to the command named by args[1] and returns the exit code.
func runMain(ctx context.Context, args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]

	var err error
	switch cmd {
	case "render":
		err = runRender(ctx, rest, env)
	case "serve":
		err = runServe(ctx, rest, env)
	case "css":
		err = runCSS(rest, env)
	case "config":
		err = runShowConfig(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "mdpreview %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		if !runHelp(rest, env) {
			return ExitUsage
		}
		return ExitSuccess
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		printError(env.Stderr, err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// printError writes err to w followed by a hint when one applies.
func printError(w io.Writer, err error) {
	hint := ""
	switch {
	case errors.Is(err, mdpreview.ErrUnknownTheme):
		hint = hints.ForThemeNotFound(mdpreview.AvailableThemes())
	case errors.Is(err, assets.ErrStyleNotFound):
		hint = hints.ForStyleNotFound(assets.AvailableStyles())
	}
	fmt.Fprintf(w, "error: %v%s\n", err, hint)
}
