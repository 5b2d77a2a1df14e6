// Package logging sets up pwm's structured logger and a handful of helpers
// for keeping secret material out of log output.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// New returns a logger that writes human-readable colored output to a
// terminal and newline-delimited JSON otherwise (when piped or redirected),
// writing to w.
func New(w io.Writer) zerolog.Logger {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	return zerolog.New(w).With().Timestamp().Logger()
}

// Redacted returns a placeholder for a sensitive value of length n,
// preserving the length without revealing the content, for use in log
// fields that would otherwise carry secret material.
func Redacted(label string, n int) string {
	return fmt.Sprintf("%s: ***redacted*** (%d bytes)", label, n)
}
