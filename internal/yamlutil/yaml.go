// Package yamlutil reads and writes the YAML configuration format behind a
// small API, keeping the YAML library out of callers.
package yamlutil

import (
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

// MaxInputSize limits how much YAML Decode reads (1 MiB).
const MaxInputSize = 1 << 20

// indentSpaces is the indentation of encoded mappings.
const indentSpaces = 2

var (
	ErrEmptyInput     = errors.New("yamlutil: empty input")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

// Decode reads at most MaxInputSize bytes of YAML from r into v.
// Fields missing from v's type are rejected.
func Decode(r io.Reader, v any) error {
	if v == nil {
		return ErrNilDestination
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxInputSize+1))
	if err != nil {
		return fmt.Errorf("yamlutil: reading input: %w", err)
	}
	switch {
	case len(data) == 0:
		return ErrEmptyInput
	case len(data) > MaxInputSize:
		return fmt.Errorf("%w: more than %d bytes", ErrInputTooLarge, MaxInputSize)
	}

	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// Encode writes v to w as a single YAML document.
func Encode(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w, yaml.Indent(indentSpaces))
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}
