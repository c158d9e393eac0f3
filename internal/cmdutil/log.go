// Package cmdutil holds small helpers shared by the command layer.
package cmdutil

import (
	"fmt"
	"io"
	"log/slog"
)

// Warnf prints a one-line warning unless quiet.
func Warnf(dst io.Writer, quiet bool, format string, a ...any) {
	if quiet {
		return
	}
	_, _ = fmt.Fprintf(dst, "WARN: "+format+"\n", a...)
}

// NewLogger returns a text logger on dst. quiet keeps errors only; verbose
// enables debug records.
func NewLogger(dst io.Writer, quiet, verbose bool) *slog.Logger {
	lvl := slog.LevelInfo
	switch {
	case quiet:
		lvl = slog.LevelError
	case verbose:
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(dst, &slog.HandlerOptions{Level: lvl}))
}
