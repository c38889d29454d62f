package main

import (
	"io"
	"os"
	"time"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now     func() time.Time
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Environ func() []string // process environment, KEY=value
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:     time.Now,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Environ: os.Environ,
	}
}
