// Package colorize wraps fatih/color for the CLI's output formatters,
// honoring NO_COLOR (spec §6) ahead of color's own terminal detection.
package colorize

import (
	"os"

	"github.com/fatih/color"
)

// Enabled reports whether ANSI colorization should be applied: false
// whenever NO_COLOR is set to any non-empty value.
func Enabled() bool {
	return os.Getenv("NO_COLOR") == ""
}

// Apply renders s with c's Sprint, unless colorization is
// disabled, in which case s passes through unchanged.
func Apply(c *color.Color, s string) string {
	if !Enabled() {
		return s
	}
	return c.Sprint(s)
}

var (
	// Status* colorize HTTP-style status fields for the pretty formatter.
	StatusOK    = color.New(color.FgGreen)
	StatusWarn  = color.New(color.FgYellow)
	StatusError = color.New(color.FgRed)
)

// Status picks a color for an HTTP-style status code and renders s with it.
func Status(code int64, s string) string {
	switch {
	case code >= 500:
		return Apply(StatusError, s)
	case code >= 400:
		return Apply(StatusWarn, s)
	default:
		return Apply(StatusOK, s)
	}
}
