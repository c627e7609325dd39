// Package presenter provides consistent user-facing CLI output: errors,
// warnings and informational messages with color support, NO_COLOR handling
// and a quiet mode. Log output is separate (pkg/logger); the presenter is
// for the messages a user is meant to read.
package presenter

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// ColorMode controls whether output is colorized.
type ColorMode int

const (
	// ColorAuto lets the color package detect terminal capabilities.
	ColorAuto ColorMode = iota
	// ColorAlways forces color.
	ColorAlways
	// ColorNever disables color.
	ColorNever
)

// Presenter writes user-facing messages to an output and error stream.
type Presenter struct {
	output      io.Writer
	errorOutput io.Writer
	quiet       bool
}

// New returns a Presenter on stdout/stderr with color mode detected from
// the environment (NO_COLOR and STORESEARCH_COLOR).
func New() *Presenter {
	return NewWithOptions(os.Stdout, os.Stderr, detectColorMode())
}

// NewWithOptions returns a Presenter with explicit streams and color mode.
func NewWithOptions(output, errorOutput io.Writer, mode ColorMode) *Presenter {
	switch mode {
	case ColorAlways:
		color.NoColor = false
	case ColorNever:
		color.NoColor = true
	}
	return &Presenter{output: output, errorOutput: errorOutput}
}

func detectColorMode() ColorMode {
	if os.Getenv("NO_COLOR") != "" {
		return ColorNever
	}
	switch os.Getenv("STORESEARCH_COLOR") {
	case "always", "force":
		return ColorAlways
	case "never", "off":
		return ColorNever
	}
	return ColorAuto
}

// SetQuiet suppresses Info and Success output. Errors and warnings are
// always shown.
func (p *Presenter) SetQuiet(quiet bool) {
	p.quiet = quiet
}

// Error writes an error with optional context to the error stream.
func (p *Presenter) Error(err error, context string) {
	if err == nil {
		return
	}
	c := color.New(color.FgRed, color.Bold)
	if context != "" {
		c.Fprintf(p.errorOutput, "Error: %s: %v\n", context, err)
		return
	}
	c.Fprintf(p.errorOutput, "Error: %v\n", err)
}

// Warning writes a warning to the error stream.
func (p *Presenter) Warning(message string) {
	color.New(color.FgYellow).Fprintf(p.errorOutput, "Warning: %s\n", message)
}

// Success writes a success message to the output stream.
func (p *Presenter) Success(message string) {
	if p.quiet {
		return
	}
	color.New(color.FgGreen).Fprintf(p.output, "%s\n", message)
}

// Info writes a plain message to the output stream.
func (p *Presenter) Info(message string) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.output, message)
}

// Default is the process-wide presenter used by package-level helpers.
var Default = New()

// Error writes an error via the default presenter.
func Error(err error, context string) {
	Default.Error(err, context)
}

// Warning writes a warning via the default presenter.
func Warning(message string) {
	Default.Warning(message)
}

// Info writes a message via the default presenter.
func Info(message string) {
	Default.Info(message)
}
