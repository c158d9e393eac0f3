// Package amplicon turns primer binding sites on one assembly into sized,
// oriented amplicon predictions.
package amplicon

import (
	"errors"
	"fmt"
	"sort"

	"ispcr/core/hit"
)

// ErrInvalidConfig marks a size window that can never hold a product.
var ErrInvalidConfig = errors.New("invalid configuration")

// SizeWindow bounds the amplicon length, both ends inclusive.
type SizeWindow struct {
	Min int
	Max int
}

func (w SizeWindow) Validate() error {
	if w.Min <= 0 || w.Max <= 0 {
		return fmt.Errorf("%w: amplicon sizes must be positive (min=%d max=%d)", ErrInvalidConfig, w.Min, w.Max)
	}
	if w.Min > w.Max {
		return fmt.Errorf("%w: min amplicon size (%d) exceeds max (%d)", ErrInvalidConfig, w.Min, w.Max)
	}
	return nil
}

func (w SizeWindow) Contains(n int) bool { return n >= w.Min && n <= w.Max }

// Candidate is one predicted product. Forward is the plus-strand hit and
// Reverse the minus-strand hit; the product spans [Forward.Start, Reverse.End).
type Candidate struct {
	AssemblyID string
	PairID     string
	Forward    hit.PrimerHit
	Reverse    hit.PrimerHit
	Sequence   string
	Length     int
	// OrientationValid is false when a primer binds in the direction
	// opposite to its declared role (e.g. a reverse primer on the plus strand).
	OrientationValid bool
}

func (c Candidate) Start() int { return c.Forward.Start }
func (c Candidate) End() int   { return c.Reverse.End }

// Quality combines both hits; unknown quality counts as zero.
func (c Candidate) Quality() float64 { return c.Forward.Score() + c.Reverse.Score() }

// Key identifies a product location for deduplication.
type Key struct {
	AssemblyID string
	Start, End int
}

func (c Candidate) Key() Key { return Key{AssemblyID: c.AssemblyID, Start: c.Start(), End: c.End()} }

// Less is the reporting order: start, end, primer ids, pair id.
func Less(a, b Candidate) bool {
	if a.AssemblyID != b.AssemblyID {
		return a.AssemblyID < b.AssemblyID
	}
	if a.Start() != b.Start() {
		return a.Start() < b.Start()
	}
	if a.End() != b.End() {
		return a.End() < b.End()
	}
	if a.Forward.PrimerID != b.Forward.PrimerID {
		return a.Forward.PrimerID < b.Forward.PrimerID
	}
	if a.Reverse.PrimerID != b.Reverse.PrimerID {
		return a.Reverse.PrimerID < b.Reverse.PrimerID
	}
	return a.PairID < b.PairID
}

func Sort(cs []Candidate) {
	sort.SliceStable(cs, func(i, j int) bool { return Less(cs[i], cs[j]) })
}

// preferred reports whether a should survive over b at the same Key:
// higher combined quality, then lexical primer ids, then pair id.
func preferred(a, b Candidate) bool {
	if qa, qb := a.Quality(), b.Quality(); qa != qb {
		return qa > qb
	}
	if a.Forward.PrimerID != b.Forward.PrimerID {
		return a.Forward.PrimerID < b.Forward.PrimerID
	}
	if a.Reverse.PrimerID != b.Reverse.PrimerID {
		return a.Reverse.PrimerID < b.Reverse.PrimerID
	}
	if a.PairID != b.PairID {
		return a.PairID < b.PairID
	}
	if a.OrientationValid != b.OrientationValid {
		return a.OrientationValid
	}
	if a.Forward != b.Forward {
		return hit.Less(a.Forward, b.Forward)
	}
	return hit.Less(a.Reverse, b.Reverse)
}

// Dedup keeps one candidate per (assembly, start, end) and returns them in
// Less order. Dedup(Dedup(x)) equals Dedup(x).
func Dedup(cs []Candidate) []Candidate {
	best := make(map[Key]int, len(cs))
	out := make([]Candidate, 0, len(cs))
	for _, c := range cs {
		k := c.Key()
		if i, ok := best[k]; ok {
			if preferred(c, out[i]) {
				out[i] = c
			}
			continue
		}
		best[k] = len(out)
		out = append(out, c)
	}
	Sort(out)
	return out
}
