// Package thermo estimates primer melting temperatures with the
// nearest-neighbor model (SantaLucia & Hicks 2004 unified set).
// Units: ΔH in kcal/mol, ΔS in cal/(K·mol), Tm in °C.
//
// Tm = ΔH·1000 / (ΔS[Na+] + R ln(CT/x)) − 273.15, with the monovalent salt
// correction ΔS[Na+] = ΔS(1 M) + 0.368·(N/2)·ln[Na+].
package thermo

import (
	"errors"
	"fmt"
	"math"

	"ispcr/core/seq"
)

// Rcal is the gas constant in cal/(K·mol).
const Rcal = 1.9872

// ErrUnsupported is returned for sequences the model has no parameters for
// (degenerate bases, or fewer than two residues).
var ErrUnsupported = errors.New("thermo: unsupported sequence")

type nn struct{ dh, ds float64 }

// Watson-Crick stacks at 1 M Na+, keyed by the top strand 5'→3'. A stack and
// its reverse complement share parameters.
var stacks = map[string]nn{
	"AA": {-7.6, -21.3}, "TT": {-7.6, -21.3},
	"AT": {-7.2, -20.4},
	"TA": {-7.2, -21.3},
	"CA": {-8.5, -22.7}, "TG": {-8.5, -22.7},
	"GT": {-8.4, -22.4}, "AC": {-8.4, -22.4},
	"CT": {-7.8, -21.0}, "AG": {-7.8, -21.0},
	"GA": {-8.2, -22.2}, "TC": {-8.2, -22.2},
	"CG": {-10.6, -27.2},
	"GC": {-9.8, -24.4},
	"GG": {-8.0, -19.9}, "CC": {-8.0, -19.9},
}

var (
	initiation = nn{0.2, -5.7}
	terminalAT = nn{2.2, 6.9}
	symmetry   = nn{0, -1.4}
)

// Conditions describe the reaction.
type Conditions struct {
	CT float64 // total strand concentration, mol/L
	Na float64 // monovalent cations, mol/L
}

// Standard is 0.5 µM primer in 50 mM Na+.
var Standard = Conditions{CT: 5e-7, Na: 0.05}

// Result holds the duplex thermodynamics behind a Tm.
type Result struct {
	DH   float64 // kcal/mol
	DS   float64 // cal/(K·mol) at 1 M Na+
	DSNa float64 // salt-corrected
	TmC  float64
}

// Duplex computes the perfect-match duplex of s with its complement.
func Duplex(s seq.Sequence, c Conditions) (Result, error) {
	p := s.Residues
	n := len(p)
	if n < 2 {
		return Result{}, fmt.Errorf("%w: %s shorter than 2", ErrUnsupported, s.ID)
	}
	if c.CT <= 0 || c.Na <= 0 {
		return Result{}, fmt.Errorf("thermo: concentrations must be > 0 (CT=%g Na=%g)", c.CT, c.Na)
	}
	dh, ds := initiation.dh, initiation.ds
	for i := 0; i < n-1; i++ {
		st, ok := stacks[p[i:i+2]]
		if !ok {
			return Result{}, fmt.Errorf("%w: %s has no parameters for %q", ErrUnsupported, s.ID, p[i:i+2])
		}
		dh += st.dh
		ds += st.ds
	}
	for _, end := range []byte{p[0], p[n-1]} {
		if end == 'A' || end == 'T' {
			dh += terminalAT.dh
			ds += terminalAT.ds
		}
	}
	x := 4.0
	if seq.RevCompString(p) == p {
		dh += symmetry.dh
		ds += symmetry.ds
		x = 1
	}

	phosphates := float64(2*n - 2)
	dsNa := ds + 0.368*(phosphates/2)*math.Log(c.Na)
	tmK := dh * 1000 / (dsNa + Rcal*math.Log(c.CT/x))
	return Result{DH: dh, DS: ds, DSNa: dsNa, TmC: tmK - 273.15}, nil
}

// PrimerTm is Duplex(s, c).TmC.
func PrimerTm(s seq.Sequence, c Conditions) (float64, error) {
	r, err := Duplex(s, c)
	return r.TmC, err
}
