package primer

import (
	"strings"

	"ispcr/core/seq"
)

// SiteOptions bounds a binding-site search.
type SiteOptions struct {
	MaxMismatches  int
	TerminalWindow int // 3' primer bases that must match; 0 allows mismatches anywhere
	Cap            int // per strand; 0 is unlimited
}

// Site is one place a primer binds a template. Start and End are 0-based,
// half-open and on the template's forward strand.
type Site struct {
	Start, End  int
	Minus       bool
	Mismatches  int
	MismatchIdx []int // primer positions, 5'->3', ascending
}

func (s Site) Len() int { return s.End - s.Start }

// Sites lists where p binds tmpl. Plus-strand sites come first; each strand
// is in template order.
func (p Primer) Sites(tmpl seq.Sequence, o SiteOptions) []Site {
	n := p.Len()
	if n == 0 || tmpl.Len() < n {
		return nil
	}
	out := strandSites(tmpl.Residues, p.Residues, false, o)
	return append(out, strandSites(tmpl.Residues, seq.RevCompString(p.Residues), true, o)...)
}

// strandSites slides pat along tmpl. On the minus strand pat is the reverse
// complement, so pattern index j is primer index n-1-j.
func strandSites(tmpl, pat string, minus bool, o SiteOptions) []Site {
	n := len(pat)
	if o.MaxMismatches <= 0 && plain(pat) {
		var out []Site
		for i := 0; ; {
			j := strings.Index(tmpl[i:], pat)
			if j < 0 {
				return out
			}
			out = append(out, Site{Start: i + j, End: i + j + n, Minus: minus})
			if o.Cap > 0 && len(out) >= o.Cap {
				return out
			}
			i += j + 1
		}
	}

	locked := n // primer positions >= locked must match
	if o.TerminalWindow > 0 {
		locked = max(n-o.TerminalWindow, 0)
	}
	var out []Site
window:
	for pos := 0; pos+n <= len(tmpl); pos++ {
		var idx []int
		for j := 0; j < n; j++ {
			if seq.BaseMatch(tmpl[pos+j], pat[j]) {
				continue
			}
			k := j
			if minus {
				k = n - 1 - j
			}
			if k >= locked || len(idx) >= o.MaxMismatches {
				continue window
			}
			idx = append(idx, k)
		}
		if minus {
			for a, b := 0, len(idx)-1; a < b; a, b = a+1, b-1 {
				idx[a], idx[b] = idx[b], idx[a]
			}
		}
		out = append(out, Site{Start: pos, End: pos + n, Minus: minus, Mismatches: len(idx), MismatchIdx: idx})
		if o.Cap > 0 && len(out) >= o.Cap {
			break
		}
	}
	return out
}

func plain(p string) bool {
	for i := 0; i < len(p); i++ {
		switch p[i] {
		case 'A', 'C', 'G', 'T':
		default:
			return false
		}
	}
	return true
}
