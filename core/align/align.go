// Package align implements Needleman-Wunsch global alignment of two
// nucleotide sequences under caller-supplied additive scoring.
package align

import (
	"errors"
	"fmt"

	"ispcr/core/seq"
)

// GapSymbol fills the aligned strings where one side has no residue.
const GapSymbol = '-'

// ErrInvalidScoring is returned for a non-positive match score.
var ErrInvalidScoring = errors.New("invalid scoring")

// Scoring holds the additive scores. There are no defaults here; every call
// carries its own value.
type Scoring struct {
	Match    int // > 0
	Mismatch int
	Gap      int
}

func (s Scoring) Validate() error {
	if s.Match <= 0 {
		return fmt.Errorf("%w: match score must be > 0 (got %d)", ErrInvalidScoring, s.Match)
	}
	return nil
}

func (s Scoring) pair(a, b byte) int {
	if a == b {
		return s.Match
	}
	return s.Mismatch
}

// Orientation records which form of the second sequence produced a Result.
type Orientation string

const (
	Forward           Orientation = "forward"
	ReverseComplement Orientation = "reverse_complement"
)

// Result is an optimal global alignment. A and B have equal length.
type Result struct {
	Score       int
	A, B        string
	Orientation Orientation
}

// Align returns the optimal global alignment of a against b. With tryRC set
// it also aligns a against the reverse complement of b and keeps that
// attempt only when it scores strictly higher.
func Align(a, b seq.Sequence, sc Scoring, tryRC bool) (Result, error) {
	if err := a.Validate(); err != nil {
		return Result{}, err
	}
	if err := b.Validate(); err != nil {
		return Result{}, err
	}
	if err := sc.Validate(); err != nil {
		return Result{}, err
	}

	res := globalAlign(a.Residues, b.Residues, sc)
	res.Orientation = Forward
	if !tryRC {
		return res, nil
	}
	rc := globalAlign(a.Residues, seq.RevCompString(b.Residues), sc)
	if rc.Score > res.Score {
		rc.Orientation = ReverseComplement
		return rc, nil
	}
	return res, nil
}

type step uint8

const (
	stepDiag step = iota
	stepUp        // consume a, gap in b
	stepLeft      // consume b, gap in a
)

// globalAlign fills the full (|a|+1)x(|b|+1) grid and traces back from the
// bottom-right corner. Ties prefer diagonal, then up, then left.
func globalAlign(a, b string, sc Scoring) Result {
	n, m := len(a), len(b)
	w := m + 1
	h := make([]int, (n+1)*w)
	for i := 1; i <= n; i++ {
		h[i*w] = i * sc.Gap
	}
	for j := 1; j <= m; j++ {
		h[j] = j * sc.Gap
	}
	for i := 1; i <= n; i++ {
		row, prev := i*w, (i-1)*w
		for j := 1; j <= m; j++ {
			best := h[prev+j-1] + sc.pair(a[i-1], b[j-1])
			if up := h[prev+j] + sc.Gap; up > best {
				best = up
			}
			if left := h[row+j-1] + sc.Gap; left > best {
				best = left
			}
			h[row+j] = best
		}
	}

	outA := make([]byte, 0, n+m)
	outB := make([]byte, 0, n+m)
	i, j := n, m
	for i > 0 || j > 0 {
		switch traceStep(h, w, a, b, i, j, sc) {
		case stepDiag:
			outA = append(outA, a[i-1])
			outB = append(outB, b[j-1])
			i--
			j--
		case stepUp:
			outA = append(outA, a[i-1])
			outB = append(outB, GapSymbol)
			i--
		default:
			outA = append(outA, GapSymbol)
			outB = append(outB, b[j-1])
			j--
		}
	}
	reverse(outA)
	reverse(outB)
	return Result{Score: h[n*w+m], A: string(outA), B: string(outB)}
}

func traceStep(h []int, w int, a, b string, i, j int, sc Scoring) step {
	if i == 0 {
		return stepLeft
	}
	if j == 0 {
		return stepUp
	}
	cur := h[i*w+j]
	if cur == h[(i-1)*w+j-1]+sc.pair(a[i-1], b[j-1]) {
		return stepDiag
	}
	if cur == h[(i-1)*w+j]+sc.Gap {
		return stepUp
	}
	return stepLeft
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
