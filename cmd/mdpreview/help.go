package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpreview <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Render markdown files to sanitized HTML")
	fmt.Fprintln(w, "  serve      Serve the preview HTTP API")
	fmt.Fprintln(w, "  css        Print the code block theme stylesheet")
	fmt.Fprintln(w, "  config     Print the effective configuration")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mdpreview help <command>' for details on a specific command.")
}

// printPreviewFlags prints the pipeline flags shared by render and serve.
func printPreviewFlags(w io.Writer) {
	fmt.Fprintln(w, "Preview:")
	fmt.Fprintln(w, "      --max-size <n>        Input size limit in bytes (default 51200)")
	fmt.Fprintln(w, "      --light-theme <s>     Chroma style for light code blocks (default github)")
	fmt.Fprintln(w, "      --dark-theme <s>      Chroma style for dark code blocks (default github-dark)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Highlight timeout per code block (default 2s)")
	fmt.Fprintln(w, "      --concurrency <n>     Code blocks highlighted at once (0 = auto)")
	fmt.Fprintln(w, "      --no-highlight        Render code blocks as plain escaped text")
	fmt.Fprintln(w)
}

// printCommonFlags prints flags shared by every configurable command.
func printCommonFlags(w io.Writer) {
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing and highlight fallbacks")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpreview render <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render markdown files to sanitized HTML.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file, directory, or - for standard input")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory (stdin: default stdout)")
	fmt.Fprintln(w, "      --ext <s>             Output file extension (default html)")
	fmt.Fprintln(w, "  -w, --workers <n>         Files rendered in parallel (0 = auto)")
	fmt.Fprintln(w, "  -s, --standalone          Wrap output in a full HTML document")
	fmt.Fprintln(w, "      --title <s>           Document title (default: file name)")
	fmt.Fprintln(w, "      --style <s>           Base style for --standalone: name or .css path (default default)")
	fmt.Fprintln(w, "      --no-style            Omit the base style")
	fmt.Fprintln(w)
	printPreviewFlags(w)
	printCommonFlags(w)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpreview serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve the preview HTTP API:")
	fmt.Fprintln(w, "  POST /api/preview    {\"markdown\": \"...\"} -> {\"html\": \"...\"}")
	fmt.Fprintln(w, "  GET  /api/theme.css  Code block theme stylesheet")
	fmt.Fprintln(w, "  GET  /api/style.css  Base document stylesheet")
	fmt.Fprintln(w, "  GET  /healthz        Liveness probe")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "  -a, --addr <addr>         Listen address (default :8080)")
	fmt.Fprintln(w, "      --style <s>           Base style name or .css path (default default)")
	fmt.Fprintln(w, "      --request-timeout <d> Per request timeout (default 10s)")
	fmt.Fprintln(w, "      --shutdown-timeout <d> Graceful shutdown timeout (default 5s)")
	fmt.Fprintln(w)
	printPreviewFlags(w)
	printCommonFlags(w)
}

// printCSSUsage prints usage for the css command.
func printCSSUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpreview css")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the stylesheet that shows light or dark code blocks")
	fmt.Fprintln(w, "according to prefers-color-scheme.")
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpreview config [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the configuration from the config file and MDPREVIEW_* variables as YAML.")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// runHelp prints help for a specific command. Returns false for an unknown command.
func runHelp(args []string, env *Environment) bool {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return true
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "css":
		printCSSUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mdpreview version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mdpreview help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return false
	}
	return true
}
