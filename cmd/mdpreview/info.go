package main

import (
	"fmt"
	"io"

	mdpreview "github.com/alnah/go-mdpreview"
	"github.com/alnah/go-mdpreview/internal/yamlutil"
)

// runCSS prints the stylesheet that switches code block themes.
func runCSS(args []string, env *Environment) error {
	fs := newFlagSet("css", env.Stderr, printCSSUsage)
	if err := parseFlagSet(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected argument %q", ErrInvalidFlags, fs.Arg(0))
	}
	_, err := io.WriteString(env.Stdout, mdpreview.ThemeCSS())
	return err
}

// runShowConfig prints the effective configuration (file, then environment) as YAML.
func runShowConfig(args []string, env *Environment) error {
	flags, err := parseConfigFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, err := resolveConfig(flags.config, env)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := yamlutil.Encode(env.Stdout, cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}
