package hit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const blastOut = `# BLASTN 2.14.0+
FWD	asm1	100.000	8	0	0	1	8	11	18	0.50	16.4	8
REV	asm1	100.000	8	0	0	1	8	220	213	0.50	16.4	8
REV	asm1	87.500	7	1	0	2	8	40	34	3.1	12.0	8

FWD	asm2	75.000	8	2	0	1	8	5	12	9.9	8.1	8
`

func TestParseStd(t *testing.T) {
	hits, err := NewSource([]byte(blastOut), Options{}).Collect()
	require.NoError(t, err)
	require.Len(t, hits, 4)

	assert.Equal(t, PrimerHit{
		PrimerID: "FWD", AssemblyID: "asm1", Start: 10, End: 18,
		Strand: Plus, Quality: 100, BitScore: 16.4,
	}, hits[0])

	rev := hits[1]
	assert.Equal(t, Minus, rev.Strand)
	assert.Equal(t, 212, rev.Start)
	assert.Equal(t, 220, rev.End)
	assert.Equal(t, 8, rev.Len())
}

func TestParseFilters(t *testing.T) {
	src := NewSource([]byte(blastOut), Options{FullLengthOnly: true, MinQuality: 80})
	it := src.Iter()
	var ids []string
	for it.Next() {
		h := it.Hit()
		ids = append(ids, h.PrimerID+"@"+h.AssemblyID)
	}
	require.NoError(t, it.Err())
	// partial REV hit (7 of 8) and the 75% hit are dropped
	assert.Equal(t, []string{"FWD@asm1", "REV@asm1"}, ids)
	assert.Equal(t, 2, it.Filtered())
}

func TestSourceRestartable(t *testing.T) {
	src := NewSource([]byte(blastOut), Options{})
	first, err := src.Collect()
	require.NoError(t, err)

	// a half-consumed pass must not disturb a new one
	it := src.Iter()
	require.True(t, it.Next())

	second, err := src.Collect()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParseCompact(t *testing.T) {
	raw := "p1 chr 5 12\np2 chr 30 23 97.5\np3 chr 40 47 - NA\n"
	hits, err := NewSource([]byte(raw), Options{MinQuality: 99}).Collect()
	require.NoError(t, err)
	require.Len(t, hits, 2, "p2 falls below min quality")

	assert.Equal(t, Plus, hits[0].Strand)
	assert.False(t, hits[0].HasQuality())
	assert.Equal(t, 0.0, hits[0].Score())

	assert.Equal(t, "p3", hits[1].PrimerID)
	assert.Equal(t, Minus, hits[1].Strand)
	assert.Equal(t, 39, hits[1].Start)
	assert.Equal(t, 47, hits[1].End)
}

func TestParseCompactStrandAgreesWithCoordinates(t *testing.T) {
	hits, err := NewSource([]byte("p1 chr 12 5 -\np2 chr 5 12 +\n"), Options{}).Collect()
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, Minus, hits[0].Strand)
	assert.Equal(t, 4, hits[0].Start)
	assert.Equal(t, Plus, hits[1].Strand)
}

func TestParseMalformed(t *testing.T) {
	cases := []string{
		"p1 chr 5\n",
		"p1 chr x 12\n",
		"p1 chr 0 12\n",
		"p1 chr 5 12 sideways\n",
		"p1 chr 12 5 +\n",
		"p1 chr 12 5 plus 99\n",
		"FWD asm 100 eight 0 0 1 8 11 18 0.5 16.4 8\n",
	}
	for _, raw := range cases {
		_, err := NewSource([]byte(raw), Options{}).Collect()
		assert.ErrorIs(t, err, ErrMalformedHit, raw)
	}
}

func TestCheckAndSort(t *testing.T) {
	ok := PrimerHit{PrimerID: "a", AssemblyID: "x", Start: 3, End: 9, Strand: Plus}
	require.NoError(t, ok.Check(9))
	assert.ErrorIs(t, ok.Check(8), ErrMalformedHit)

	empty := ok
	empty.End = 3
	assert.ErrorIs(t, empty.Check(0), ErrMalformedHit)

	hs := []PrimerHit{
		{PrimerID: "b", AssemblyID: "y", Start: 1, End: 5, Strand: Plus},
		{PrimerID: "b", AssemblyID: "x", Start: 7, End: 9, Strand: Minus},
		{PrimerID: "a", AssemblyID: "x", Start: 7, End: 9, Strand: Minus},
		{PrimerID: "c", AssemblyID: "x", Start: 2, End: 9, Strand: Plus},
	}
	Sort(hs)
	got := make([]string, len(hs))
	for i, h := range hs {
		got[i] = h.AssemblyID + h.PrimerID
	}
	assert.Equal(t, []string{"xc", "xa", "xb", "yb"}, got)
}
