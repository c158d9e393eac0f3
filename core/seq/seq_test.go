package seq

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"github.com/bebop/poly/transform"
)

func TestRevCompSimple(t *testing.T) {
	got := RevComp([]byte("AGTC"))
	if want := []byte("GACT"); !bytes.Equal(got, want) {
		t.Errorf("RevComp(AGTC) = %s, want %s", got, want)
	}
}

// Snapshot of the complement table over the full ambiguity alphabet.
func TestComplementTable_Snapshot(t *testing.T) {
	in := []byte("RYSWKMBDHVNACGT")
	want := []byte("ACGTNBDHVKMWSRY")
	if got := RevComp(in); string(got) != string(want) {
		t.Fatalf("complement table changed:\n got  %s\n want %s", got, want)
	}
}

func TestRevCompEmptyAndUnknown(t *testing.T) {
	if RevComp(nil) != nil {
		t.Errorf("RevComp(nil) should return nil")
	}
	if got := RevCompString("A*C"); got != "GNT" {
		t.Errorf("unknown byte should map to N, got %s", got)
	}
}

func TestRevCompInvolution(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		n := 1 + rng.Intn(60)
		b := make([]byte, n)
		for j := range b {
			b[j] = Allowed[rng.Intn(len(Allowed))]
		}
		if got := RevCompString(RevCompString(string(b))); got != string(b) {
			t.Fatalf("revcomp(revcomp(%s)) = %s", b, got)
		}
	}
}

func TestRevCompMatchesPoly(t *testing.T) {
	for _, s := range []string{"ACGT", "GATTACA", "AAAACCCGGT", "TTGGCCAA"} {
		if got, want := RevCompString(s), transform.ReverseComplement(s); got != want {
			t.Errorf("RevCompString(%s) = %s, poly says %s", s, got, want)
		}
	}
}

func TestNewValidates(t *testing.T) {
	s, err := New("p1", " acg t\n")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.Residues != "ACGT" || s.ID != "p1" {
		t.Fatalf("unexpected normalized sequence %+v", s)
	}

	for _, raw := range []string{"", "   ", "ACGU", "AC-GT"} {
		if _, err := New("bad", raw); !errors.Is(err, ErrInvalidSequence) {
			t.Errorf("New(%q) err = %v, want ErrInvalidSequence", raw, err)
		}
	}
}

func TestBaseMatch(t *testing.T) {
	cases := []struct {
		g, p byte
		want bool
	}{
		{'A', 'A', true},
		{'A', 'R', true},
		{'C', 'R', false},
		{'T', 'N', true},
		{'N', 'N', false},
		{'N', 'A', false},
	}
	for _, c := range cases {
		if got := BaseMatch(c.g, c.p); got != c.want {
			t.Errorf("BaseMatch(%c,%c) = %v, want %v", c.g, c.p, got, c.want)
		}
	}
}
