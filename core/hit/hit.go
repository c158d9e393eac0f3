// Package hit normalizes primer binding sites reported by a search tool.
//
// Coordinates are 0-based, half-open, and always on the assembly's forward
// strand; Strand tells which strand the primer itself anneals along.
package hit

import (
	"fmt"
	"sort"
)

type Strand string

const (
	Plus  Strand = "+"
	Minus Strand = "-"
)

// UnknownQuality marks a hit whose source did not report identity.
const UnknownQuality = -1.0

// PrimerHit says primer PrimerID binds AssemblyID over [Start, End) on Strand.
type PrimerHit struct {
	PrimerID   string
	AssemblyID string
	Start      int
	End        int
	Strand     Strand
	Quality    float64 // percent identity, or UnknownQuality
	Mismatches int
	BitScore   float64
}

func (h PrimerHit) Len() int { return h.End - h.Start }

func (h PrimerHit) HasQuality() bool { return h.Quality >= 0 }

// Score is Quality with unknown counted as zero; used when combining hits.
func (h PrimerHit) Score() float64 {
	if !h.HasQuality() {
		return 0
	}
	return h.Quality
}

// Check enforces start < end <= assemblyLen. assemblyLen <= 0 skips the upper bound.
func (h PrimerHit) Check(assemblyLen int) error {
	if h.Start < 0 || h.Start >= h.End {
		return fmt.Errorf("%w: %s on %s has empty span [%d,%d)", ErrMalformedHit, h.PrimerID, h.AssemblyID, h.Start, h.End)
	}
	if assemblyLen > 0 && h.End > assemblyLen {
		return fmt.Errorf("%w: %s on %s ends at %d past assembly length %d", ErrMalformedHit, h.PrimerID, h.AssemblyID, h.End, assemblyLen)
	}
	if h.Strand != Plus && h.Strand != Minus {
		return fmt.Errorf("%w: %s on %s has strand %q", ErrMalformedHit, h.PrimerID, h.AssemblyID, h.Strand)
	}
	return nil
}

// Less orders hits by assembly, start, end, strand, then primer id. The
// remaining fields break any leftover tie so the order is total.
func Less(a, b PrimerHit) bool {
	if a.AssemblyID != b.AssemblyID {
		return a.AssemblyID < b.AssemblyID
	}
	if a.Start != b.Start {
		return a.Start < b.Start
	}
	if a.End != b.End {
		return a.End < b.End
	}
	if a.Strand != b.Strand {
		return a.Strand < b.Strand
	}
	if a.PrimerID != b.PrimerID {
		return a.PrimerID < b.PrimerID
	}
	if a.Quality != b.Quality {
		return a.Quality > b.Quality
	}
	if a.Mismatches != b.Mismatches {
		return a.Mismatches < b.Mismatches
	}
	return a.BitScore > b.BitScore
}

func Sort(hs []PrimerHit) {
	sort.SliceStable(hs, func(i, j int) bool { return Less(hs[i], hs[j]) })
}
