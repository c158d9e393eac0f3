package consensus

import (
	"errors"
	"fmt"
	"sort"

	"golang.org/x/exp/maps"

	"ispcr/core/seq"
)

// NoCoverage is written where no read votes; Support is 0 there and the
// position is listed in Consensus.Gaps.
const NoCoverage = 'N'

// ErrInvalidRegion marks an empty region or an expected sequence of the wrong length.
var ErrInvalidRegion = errors.New("invalid consensus region")

// Region is the reference window [Start, End) to call. Expected, when set,
// is the predicted amplicon over the same window and settles ties.
type Region struct {
	RefID    string
	Start    int
	End      int
	Expected string
}

func (r Region) Len() int { return r.End - r.Start }

func (r Region) Validate() error {
	if r.RefID == "" || r.Start < 0 || r.End <= r.Start {
		return fmt.Errorf("%w: %s:[%d,%d)", ErrInvalidRegion, r.RefID, r.Start, r.End)
	}
	if r.Expected != "" && len(r.Expected) != r.Len() {
		return fmt.Errorf("%w: expected sequence has %d bases for a %d-base region", ErrInvalidRegion, len(r.Expected), r.Len())
	}
	return nil
}

// Span is a half-open reference interval.
type Span struct{ Start, End int }

// Consensus is the called sequence over a Region plus read accounting.
type Consensus struct {
	RefID   string
	Start   int
	End     int
	Seq     string
	Support []int // votes for the called base
	Depth   []int // A/C/G/T votes at the position
	Gaps    []Span

	Reads            int // reads that voted
	ExcludedImproper int
	Skipped          int // unmapped, secondary, supplementary or malformed
	// Orphans names paired reads whose mate is absent from the input.
	Orphans []string
}

// Covered is the fraction of positions with at least one vote.
func (c Consensus) Covered() float64 {
	if len(c.Depth) == 0 {
		return 0
	}
	n := 0
	for _, d := range c.Depth {
		if d > 0 {
			n++
		}
	}
	return float64(n) / float64(len(c.Depth))
}

// Sequence wraps the called bases for alignment.
func (c Consensus) Sequence(id string) seq.Sequence {
	return seq.Sequence{ID: id, Residues: c.Seq}
}

var baseIndex = [256]int8{}

func init() {
	for i := range baseIndex {
		baseIndex[i] = -1
	}
	for i, b := range []byte("ACGT") {
		baseIndex[b] = int8(i)
		baseIndex[b+'a'-'A'] = int8(i)
	}
}

// Build tallies every usable read overlapping region with equal weight and
// calls the majority base per position. Ties go to the expected base when it
// is among the leaders, otherwise to the first of A, C, G, T.
func Build(reads []Read, region Region) (Consensus, error) {
	if err := region.Validate(); err != nil {
		return Consensus{}, err
	}
	n := region.Len()
	counts := make([][4]int, n)
	out := Consensus{RefID: region.RefID, Start: region.Start, End: region.End}

	for _, r := range reads {
		if r.RefID != region.RefID {
			continue
		}
		if !r.Usable() || r.Check() != nil {
			out.Skipped++
			continue
		}
		if r.Pos >= region.End || r.Pos+r.RefSpan() <= region.Start {
			continue
		}
		if r.Improper() {
			out.ExcludedImproper++
			continue
		}
		voted := false
		r.walk(func(pos int, base byte) {
			if pos < region.Start || pos >= region.End {
				return
			}
			if bi := baseIndex[base]; bi >= 0 {
				counts[pos-region.Start][bi]++
				voted = true
			}
		})
		if voted {
			out.Reads++
		}
	}

	called := make([]byte, n)
	out.Support = make([]int, n)
	out.Depth = make([]int, n)
	for i := range counts {
		var expected byte
		if region.Expected != "" {
			expected = region.Expected[i]
		}
		called[i], out.Support[i], out.Depth[i] = call(counts[i], expected)
		if out.Depth[i] == 0 {
			if k := len(out.Gaps) - 1; k >= 0 && out.Gaps[k].End == region.Start+i {
				out.Gaps[k].End++
			} else {
				out.Gaps = append(out.Gaps, Span{Start: region.Start + i, End: region.Start + i + 1})
			}
		}
	}
	out.Seq = string(called)
	out.Orphans = orphans(reads, region.RefID)
	return out, nil
}

func call(c [4]int, expected byte) (base byte, support, depth int) {
	const order = "ACGT"
	best := -1
	for i, v := range c {
		depth += v
		if v > support {
			support, best = v, i
		}
	}
	if depth == 0 {
		return NoCoverage, 0, 0
	}
	if ei := baseIndex[expected]; ei >= 0 && c[ei] == support {
		return order[ei], support, depth
	}
	return order[best], support, depth
}

// orphans lists paired reads on refID whose mate never appears in reads.
func orphans(reads []Read, refID string) []string {
	mates := make(map[string]Flag)
	onRef := make(map[string]bool)
	for _, r := range reads {
		if !r.Flags.Has(Paired) || r.Flags&(Secondary|Supplementary) != 0 {
			continue
		}
		side := r.Flags & (Read1 | Read2)
		switch {
		case r.Flags.Has(MateUnmapped):
			// the mate is in the input but carries no placement
			side = Read1 | Read2
		case side == 0:
			// mate identity unknown; treat repeated names as the pair
			if _, ok := mates[r.Name]; ok {
				side = Read1 | Read2
			} else {
				side = Read1
			}
		}
		mates[r.Name] |= side
		if r.RefID == refID {
			onRef[r.Name] = true
		}
	}
	for name, f := range mates {
		if f == Read1|Read2 || !onRef[name] {
			delete(mates, name)
		}
	}
	names := maps.Keys(mates)
	sort.Strings(names)
	return names
}
