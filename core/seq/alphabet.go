// core/seq/alphabet.go
package seq

// Allowed lists every residue a Sequence may contain.
const Allowed = "ACGTRYSWKMBDHVN"

var (
	complement [256]byte
	baseMask   [256]byte // bit0=A bit1=C bit2=G bit3=T
)

func init() {
	pairs := [...][2]byte{
		{'A', 'T'}, {'C', 'G'}, {'R', 'Y'}, {'K', 'M'},
		{'B', 'V'}, {'D', 'H'},
	}
	for _, p := range pairs {
		complement[p[0]], complement[p[1]] = p[1], p[0]
	}
	complement['S'] = 'S'
	complement['W'] = 'W'
	complement['N'] = 'N'

	set := func(c byte, bits byte) { baseMask[c] = bits }
	set('A', 1)
	set('C', 2)
	set('G', 4)
	set('T', 8)
	set('R', 1|4)     // A/G
	set('Y', 2|8)     // C/T
	set('S', 2|4)     // C/G
	set('W', 1|8)     // A/T
	set('K', 4|8)     // G/T
	set('M', 1|2)     // A/C
	set('B', 2|4|8)   // not A
	set('D', 1|4|8)   // not C
	set('H', 1|2|8)   // not G
	set('V', 1|2|4)   // not T
	set('N', 1|2|4|8) // any
}

// IsValid reports whether b is an uppercase residue of the supported alphabet.
func IsValid(b byte) bool { return baseMask[b] != 0 }

// Complement returns the pairing partner of b, or 'N' for bytes outside the alphabet.
func Complement(b byte) byte {
	if c := complement[b]; c != 0 {
		return c
	}
	return 'N'
}

// BaseMatch reports whether primer base p can pair with template base g.
// Template bases other than A/C/G/T never match; long N runs in an
// assembly must not turn into spurious binding sites.
func BaseMatch(g, p byte) bool {
	if g != 'A' && g != 'C' && g != 'G' && g != 'T' {
		return false
	}
	return baseMask[p]&baseMask[g] != 0
}
