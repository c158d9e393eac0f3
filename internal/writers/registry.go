// internal/writers/registry.go
package writers

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"syscall"

	"golang.org/x/exp/maps"

	"ispcr/internal/report"
)

// Options tune presentation; each writer reads what it needs.
type Options struct {
	Header     bool
	AlignWidth int
}

// Func writes a whole report in one format.
type Func func(w io.Writer, rep report.Report, o Options) error

// Writer registry (format → handler). Register in init() blocks.
var registry = map[string]Func{}

// Register adds or replaces the writer for format (last wins).
func Register(format string, fn Func) { registry[format] = fn }

// Formats lists registered format names, sorted.
func Formats() []string {
	names := maps.Keys(registry)
	sort.Strings(names)
	return names
}

// ErrClosed marks a write that failed because the reader went away
// (`ispcr ... | head`).
var ErrClosed = errors.New("output closed by reader")

// Write dispatches to the writer registered for format. Broken pipes come
// back wrapped in ErrClosed.
func Write(format string, w io.Writer, rep report.Report, o Options) error {
	fn, ok := registry[format]
	if !ok {
		return fmt.Errorf("unknown output format %q (no writer registered)", format)
	}
	err := fn(w, rep, o)
	if brokenPipe(err) {
		return fmt.Errorf("%w: %w", ErrClosed, err)
	}
	return err
}

func brokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}
