// Package consensus calls a per-position majority sequence over mapped reads.
package consensus

import "fmt"

// Flag mirrors the SAM FLAG bits.
type Flag uint16

const (
	Paired        Flag = 0x1
	ProperPair    Flag = 0x2
	Unmapped      Flag = 0x4
	MateUnmapped  Flag = 0x8
	Reverse       Flag = 0x10
	MateReverse   Flag = 0x20
	Read1         Flag = 0x40
	Read2         Flag = 0x80
	Secondary     Flag = 0x100
	QCFail        Flag = 0x200
	Duplicate     Flag = 0x400
	Supplementary Flag = 0x800
)

func (f Flag) Has(bits Flag) bool { return f&bits == bits }

// CigarOp is one CIGAR element, e.g. {'M', 50}.
type CigarOp struct {
	Op  byte
	Len int
}

// consumes reports whether op advances the read and the reference.
func consumes(op byte) (query, ref bool, err error) {
	switch op {
	case 'M', '=', 'X':
		return true, true, nil
	case 'I', 'S':
		return true, false, nil
	case 'D', 'N':
		return false, true, nil
	case 'H', 'P':
		return false, false, nil
	}
	return false, false, fmt.Errorf("unknown CIGAR op %q", op)
}

// Read is one mapped record. Pos is the 0-based leftmost reference position
// of the first aligned base; Seq is stored in reference orientation as in SAM.
type Read struct {
	Name  string
	RefID string
	Pos   int
	Cigar []CigarOp
	Seq   string
	Flags Flag
}

// Improper reports a paired read the mapper did not place as a proper pair.
// A read whose mate is unmapped is kept as a single-end placement.
func (r Read) Improper() bool {
	return r.Flags.Has(Paired) && !r.Flags.Has(ProperPair) && !r.Flags.Has(MateUnmapped)
}

// Usable filters records that carry no primary placement.
func (r Read) Usable() bool {
	return r.Flags&(Unmapped|Secondary|Supplementary|QCFail) == 0 && r.RefID != ""
}

// RefSpan is the number of reference bases the alignment covers.
func (r Read) RefSpan() int {
	n := 0
	for _, c := range r.Cigar {
		if _, ref, err := consumes(c.Op); err == nil && ref {
			n += c.Len
		}
	}
	return n
}

// Check verifies the CIGAR ops and that they consume exactly len(Seq) read bases.
func (r Read) Check() error {
	if r.Seq == "" || r.Seq == "*" {
		return fmt.Errorf("read %s: no sequence", r.Name)
	}
	q := 0
	for _, c := range r.Cigar {
		cq, _, err := consumes(c.Op)
		if err != nil {
			return fmt.Errorf("read %s: %w", r.Name, err)
		}
		if c.Len < 0 {
			return fmt.Errorf("read %s: negative CIGAR length", r.Name)
		}
		if cq {
			q += c.Len
		}
	}
	if q != len(r.Seq) {
		return fmt.Errorf("read %s: CIGAR covers %d bases, sequence has %d", r.Name, q, len(r.Seq))
	}
	return nil
}

// walk calls visit(refPos, base) for every aligned (M/=/X) base. r must pass Check.
func (r Read) walk(visit func(refPos int, base byte)) {
	q, ref := 0, r.Pos
	for _, c := range r.Cigar {
		cq, cr, _ := consumes(c.Op)
		if cq && cr {
			for k := 0; k < c.Len && q+k < len(r.Seq); k++ {
				visit(ref+k, r.Seq[q+k])
			}
		}
		if cq {
			q += c.Len
		}
		if cr {
			ref += c.Len
		}
	}
}

// ParseCigar parses a SAM CIGAR string such as "5S20M1I30M".
func ParseCigar(s string) ([]CigarOp, error) {
	var ops []CigarOp
	n := 0
	digits := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= '0' && c <= '9' {
			n = n*10 + int(c-'0')
			digits = true
			continue
		}
		if !digits {
			return nil, fmt.Errorf("bad CIGAR %q: op %q without length", s, c)
		}
		if _, _, err := consumes(c); err != nil {
			return nil, fmt.Errorf("bad CIGAR %q: %w", s, err)
		}
		ops = append(ops, CigarOp{Op: c, Len: n})
		n, digits = 0, false
	}
	if digits {
		return nil, fmt.Errorf("bad CIGAR %q: trailing length", s)
	}
	return ops, nil
}
