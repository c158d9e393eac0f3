// Package runutil holds small helpers shared by the run orchestration:
// collaborator error classification and worker sizing.
package runutil

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrCollaborator marks a failure of an external tool (search, mapper) or of
// its output. errors.Is(err, ErrCollaborator) holds for every *CollaboratorError.
var ErrCollaborator = errors.New("collaborator failed")

// CollaboratorError names the tool and the unit (assembly or read set) it
// was working on when it failed.
type CollaboratorError struct {
	Tool string
	Unit string
	Err  error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s failed on %s: %v", e.Tool, e.Unit, e.Err)
}

func (e *CollaboratorError) Unwrap() []error { return []error{ErrCollaborator, e.Err} }

// Collaborator wraps err for tool/unit, or returns nil for a nil err.
func Collaborator(tool, unit string, err error) error {
	if err == nil {
		return nil
	}
	return &CollaboratorError{Tool: tool, Unit: unit, Err: err}
}

// Threads resolves a requested worker count; n <= 0 means every CPU.
func Threads(n int) int {
	if n <= 0 {
		return runtime.NumCPU()
	}
	return n
}
