// Package seq holds the nucleotide sequence value shared by every stage.
package seq

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrInvalidSequence marks empty input or residues outside Allowed.
var ErrInvalidSequence = errors.New("invalid sequence input")

// Sequence is an identified nucleotide string. Residues are uppercase and
// never modified after New returns; copies share the underlying string.
type Sequence struct {
	ID       string
	Residues string
}

// New normalizes raw (drops whitespace and quotes, uppercases) and validates it.
func New(id, raw string) (Sequence, error) {
	s := Sequence{ID: id, Residues: Normalize(raw)}
	if err := s.Validate(); err != nil {
		return Sequence{}, err
	}
	return s, nil
}

// MustNew is New for literals known to be valid.
func MustNew(id, raw string) Sequence {
	s, err := New(id, raw)
	if err != nil {
		panic(err)
	}
	return s
}

// Normalize removes spaces/quotes and uppercases bases.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsSpace(r) || r == '\'' || r == '"' {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// Validate checks that s is non-empty and uses only the supported alphabet.
func (s Sequence) Validate() error {
	if s.Residues == "" {
		return fmt.Errorf("%w: %q is empty", ErrInvalidSequence, s.ID)
	}
	for i := 0; i < len(s.Residues); i++ {
		if !IsValid(s.Residues[i]) {
			return fmt.Errorf("%w: %q has invalid base %q at %d; allowed: %s",
				ErrInvalidSequence, s.ID, s.Residues[i], i+1, Allowed)
		}
	}
	return nil
}

func (s Sequence) Len() int { return len(s.Residues) }

// Slice returns the forward-strand substring [start, end).
func (s Sequence) Slice(start, end int) string { return s.Residues[start:end] }

// RevComp returns the reverse complement as a new Sequence with the same ID.
func (s Sequence) RevComp() Sequence {
	return Sequence{ID: s.ID, Residues: RevCompString(s.Residues)}
}

// RevComp reverse-complements b. Unknown bytes become 'N'; empty input yields nil.
func RevComp(b []byte) []byte {
	n := len(b)
	if n == 0 {
		return nil
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = Complement(b[n-1-i])
	}
	return out
}

func RevCompString(s string) string {
	if s == "" {
		return ""
	}
	return string(RevComp([]byte(s)))
}
