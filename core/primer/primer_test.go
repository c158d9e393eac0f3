package primer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ispcr/core/seq"
)

func mkPrimer(id, s string, r Role) Primer {
	return Primer{Sequence: seq.MustNew(id, s), Role: r}
}

func TestRoleFromID(t *testing.T) {
	cases := map[string]Role{
		"16S_F":     Forward,
		"16S-fwd":   Forward,
		"amp.R":     Reverse,
		"gyrB_rev":  Reverse,
		"probe1":    Unspecified,
		"FORWARD":   Unspecified,
		"x_forward": Forward,
	}
	for id, want := range cases {
		assert.Equal(t, want, RoleFromID(id), id)
	}
}

func TestNewPanel(t *testing.T) {
	f := mkPrimer("f", "ACGTACGT", Forward)
	r := mkPrimer("r", "TTGGCCAA", Reverse)

	p, err := NewPanel([]Primer{r, f}, []Pair{{ID: "amp", ForwardID: "f", ReverseID: "r"}})
	require.NoError(t, err)
	assert.True(t, p.Explicit())
	assert.Equal(t, []string{"f", "r"}, p.IDs())
	assert.Equal(t, "r", p.Primers()[0].ID)
	got, ok := p.Primer("f")
	require.True(t, ok)
	assert.Equal(t, Forward, got.Role)

	_, err = NewPanel([]Primer{f, f}, nil)
	assert.ErrorContains(t, err, "duplicate primer id")

	_, err = NewPanel([]Primer{f}, []Pair{{ID: "amp", ForwardID: "f", ReverseID: "nope"}})
	assert.ErrorContains(t, err, "unknown primer")

	_, err = NewPanel([]Primer{f, r}, []Pair{{ID: "amp", ForwardID: "f", ReverseID: "r", MinProduct: 50, MaxProduct: 10}})
	assert.ErrorContains(t, err, "bad product bounds")

	_, err = NewPanel([]Primer{{Sequence: seq.Sequence{ID: "bad", Residues: "AC!"}}}, nil)
	assert.ErrorIs(t, err, seq.ErrInvalidSequence)
}

func TestWithSelfPairs(t *testing.T) {
	a := mkPrimer("a", "ACGT", Unspecified)
	b := mkPrimer("b", "TTTT", Unspecified)
	pairs := WithSelfPairs([]Pair{{ID: "a+self", ForwardID: "a", ReverseID: "a"}}, []Primer{a, b})
	require.Len(t, pairs, 2)
	assert.Equal(t, Pair{ID: "b+self", ForwardID: "b", ReverseID: "b"}, pairs[1])
}
