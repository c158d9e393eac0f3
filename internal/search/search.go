// Package search runs a primer search over one assembly and returns the
// tabular hit report that core/hit parses.
package search

import (
	"context"
	"fmt"

	"ispcr/core/primer"
	"ispcr/core/seq"
)

// Searcher finds primer binding sites on one assembly. The returned bytes use
// BLAST "6 std qlen" columns.
type Searcher interface {
	Name() string
	Search(ctx context.Context, primers []primer.Primer, assembly seq.Sequence) ([]byte, error)
}

// Backend names accepted by New.
const (
	BackendBlastn = "blastn"
	BackendScan   = "scan"
)

// Options configure either backend. Unused fields are ignored.
type Options struct {
	BlastnPath     string
	WordSize       int
	TempDir        string
	MaxMismatches  int
	TerminalWindow int
	HitCap         int
}

func New(backend string, o Options) (Searcher, error) {
	switch backend {
	case BackendBlastn, "":
		return &Blastn{Path: o.BlastnPath, WordSize: o.WordSize, TempDir: o.TempDir}, nil
	case BackendScan:
		return &Scan{MaxMismatches: o.MaxMismatches, TerminalWindow: o.TerminalWindow, HitCap: o.HitCap}, nil
	default:
		return nil, fmt.Errorf("unknown search backend %q (want %s or %s)", backend, BackendBlastn, BackendScan)
	}
}
