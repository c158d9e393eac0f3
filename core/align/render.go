package align

import (
	"fmt"
	"strings"
)

// Identity is the fraction of alignment columns holding the same residue.
func (r Result) Identity() float64 {
	if len(r.A) == 0 {
		return 0
	}
	same := 0
	for i := 0; i < len(r.A); i++ {
		if r.A[i] == r.B[i] && r.A[i] != GapSymbol {
			same++
		}
	}
	return float64(same) / float64(len(r.A))
}

// Gaps counts gap columns on each side.
func (r Result) Gaps() (inA, inB int) {
	return strings.Count(r.A, string(GapSymbol)), strings.Count(r.B, string(GapSymbol))
}

// TwoRow renders the alignment as labelled row pairs wrapped at width
// columns (width <= 0 keeps one block). Blocks are separated by a blank line.
func (r Result) TwoRow(labelA, labelB string, width int) string {
	if width <= 0 || width > len(r.A) {
		width = len(r.A)
	}
	pad := len(labelA)
	if len(labelB) > pad {
		pad = len(labelB)
	}
	var b strings.Builder
	for off := 0; off < len(r.A); off += width {
		end := off + width
		if end > len(r.A) {
			end = len(r.A)
		}
		if off > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%-*s  %s\n", pad, labelA, r.A[off:end])
		fmt.Fprintf(&b, "%-*s  %s\n", pad, labelB, r.B[off:end])
	}
	return b.String()
}
