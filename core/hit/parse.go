package hit

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrMalformedHit marks a search-output line or hit that cannot be used.
var ErrMalformedHit = errors.New("malformed hit")

// Options filter hits while parsing.
type Options struct {
	// MinQuality drops hits whose known percent identity is below it.
	// Hits without a quality column are kept.
	MinQuality float64
	// FullLengthOnly drops hits whose aligned length differs from the query
	// length, when the output carries a qlen column.
	FullLengthOnly bool
}

// Source is a finite, restartable sequence of hits over captured search
// output. Each Iter call starts a fresh pass; no cursor is shared.
type Source struct {
	raw  []byte
	opts Options
}

// NewSource wraps tabular search output. Two layouts are accepted:
//
//	BLAST "6 std [qlen]": qseqid sseqid pident length mismatch gapopen
//	                      qstart qend sstart send evalue bitscore [qlen]
//	compact:              qseqid sseqid sstart send [strand] [pident]
//
// sstart/send are 1-based inclusive; sstart > send means the minus strand.
// Blank lines and lines starting with '#' are skipped.
func NewSource(raw []byte, opts Options) *Source {
	return &Source{raw: raw, opts: opts}
}

func (s *Source) Iter() *Iterator {
	sc := bufio.NewScanner(bytes.NewReader(s.raw))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return &Iterator{sc: sc, opts: s.opts}
}

// Collect drains a fresh pass into a slice.
func (s *Source) Collect() ([]PrimerHit, error) {
	var out []PrimerHit
	it := s.Iter()
	for it.Next() {
		out = append(out, it.Hit())
	}
	return out, it.Err()
}

// Iterator walks one pass over a Source, in the style of bufio.Scanner.
type Iterator struct {
	sc       *bufio.Scanner
	opts     Options
	line     int
	cur      PrimerHit
	err      error
	filtered int
}

// Next advances to the next kept hit. It returns false at the end of input
// or on the first malformed line; Err distinguishes the two.
func (it *Iterator) Next() bool {
	if it.err != nil {
		return false
	}
	for it.sc.Scan() {
		it.line++
		text := strings.TrimSpace(it.sc.Text())
		if text == "" || text[0] == '#' {
			continue
		}
		h, keep, err := parseLine(strings.Fields(text), it.opts)
		if err != nil {
			it.err = fmt.Errorf("line %d: %w", it.line, err)
			return false
		}
		if !keep {
			it.filtered++
			continue
		}
		it.cur = h
		return true
	}
	if err := it.sc.Err(); err != nil {
		it.err = err
	}
	return false
}

func (it *Iterator) Hit() PrimerHit { return it.cur }

func (it *Iterator) Err() error { return it.err }

// Filtered counts well-formed lines dropped by Options so far.
func (it *Iterator) Filtered() int { return it.filtered }

func parseLine(f []string, opts Options) (PrimerHit, bool, error) {
	switch {
	case len(f) >= 12:
		return parseStd(f, opts)
	case len(f) >= 4 && len(f) <= 6:
		return parseCompact(f, opts)
	default:
		return PrimerHit{}, false, fmt.Errorf("%w: %d columns", ErrMalformedHit, len(f))
	}
}

func parseStd(f []string, opts Options) (PrimerHit, bool, error) {
	h := PrimerHit{PrimerID: f[0], AssemblyID: f[1], Quality: parseQuality(f[2])}
	length, err := strconv.Atoi(f[3])
	if err != nil {
		return h, false, fmt.Errorf("%w: bad length %q", ErrMalformedHit, f[3])
	}
	if h.Mismatches, err = strconv.Atoi(f[4]); err != nil {
		return h, false, fmt.Errorf("%w: bad mismatch %q", ErrMalformedHit, f[4])
	}
	if err := setCoords(&h, f[8], f[9]); err != nil {
		return h, false, err
	}
	if bs, err := strconv.ParseFloat(f[11], 64); err == nil {
		h.BitScore = bs
	}
	if opts.FullLengthOnly && len(f) >= 13 {
		qlen, err := strconv.Atoi(f[12])
		if err != nil {
			return h, false, fmt.Errorf("%w: bad qlen %q", ErrMalformedHit, f[12])
		}
		if length != qlen {
			return h, false, nil
		}
	}
	return h, passes(h, opts), nil
}

func parseCompact(f []string, opts Options) (PrimerHit, bool, error) {
	h := PrimerHit{PrimerID: f[0], AssemblyID: f[1], Quality: UnknownQuality}
	if err := setCoords(&h, f[2], f[3]); err != nil {
		return h, false, err
	}
	// descending coordinates already say minus; a strand column may restate
	// it or mark ascending coordinates as minus, never flip it back
	reversed := h.Strand == Minus
	for _, extra := range f[4:] {
		switch strings.ToLower(extra) {
		case "+", "plus":
			if reversed {
				return h, false, fmt.Errorf("%w: strand %q contradicts coordinates %s..%s", ErrMalformedHit, extra, f[2], f[3])
			}
			h.Strand = Plus
		case "-", "minus":
			h.Strand = Minus
		default:
			q := parseQuality(extra)
			if q == UnknownQuality && extra != "NA" && extra != "*" {
				return h, false, fmt.Errorf("%w: bad column %q", ErrMalformedHit, extra)
			}
			h.Quality = q
		}
	}
	return h, passes(h, opts), nil
}

// setCoords converts 1-based inclusive subject coordinates to a forward
// half-open span and infers the strand from their order.
func setCoords(h *PrimerHit, start, end string) error {
	s, err := strconv.Atoi(start)
	if err != nil {
		return fmt.Errorf("%w: bad start %q", ErrMalformedHit, start)
	}
	e, err := strconv.Atoi(end)
	if err != nil {
		return fmt.Errorf("%w: bad end %q", ErrMalformedHit, end)
	}
	h.Strand = Plus
	if s > e {
		s, e = e, s
		h.Strand = Minus
	}
	if s < 1 {
		return fmt.Errorf("%w: coordinate %d is not 1-based", ErrMalformedHit, s)
	}
	h.Start, h.End = s-1, e
	return nil
}

func parseQuality(s string) float64 {
	q, err := strconv.ParseFloat(s, 64)
	if err != nil || q < 0 || math.IsNaN(q) {
		return UnknownQuality
	}
	return q
}

func passes(h PrimerHit, opts Options) bool {
	return !(opts.MinQuality > 0 && h.HasQuality() && h.Quality < opts.MinQuality)
}
