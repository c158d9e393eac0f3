package amplicon

import (
	"sort"

	"ispcr/core/hit"
	"ispcr/core/primer"
	"ispcr/core/seq"
)

// Options control one resolution pass.
type Options struct {
	Window SizeWindow
	// SelfPriming lets a primer pair with its own minus-strand sites.
	// A panel holding a single primer always allows it.
	SelfPriming bool
}

// Ambiguity flags a primer combination that produced several products on
// one assembly. All of them are still reported.
type Ambiguity struct {
	AssemblyID    string
	ForwardPrimer string
	ReversePrimer string
	Candidates    int
}

// Result is the outcome for one assembly.
type Result struct {
	AssemblyID  string
	Candidates  []Candidate
	Ambiguities []Ambiguity
	// Unmatched lists panel primers with no hit on this assembly.
	Unmatched []string
	// Ignored counts hits for another assembly or for primers not in the panel.
	Ignored int
}

type rule struct {
	pairID string
	window SizeWindow
	valid  bool
}

// Resolve pairs plus-strand with minus-strand hits on assembly. A nil panel
// pools every primer seen in hits with an unspecified role.
//
// A pair qualifies when the plus hit starts before the minus hit, its end
// does not pass the minus hit's end, and the outer-edge span lies inside the
// applicable size window. Zero qualifying pairs is an empty Result, not an error.
func Resolve(hits []hit.PrimerHit, assembly seq.Sequence, panel *primer.Panel, opts Options) (Result, error) {
	if err := opts.Window.Validate(); err != nil {
		return Result{}, err
	}
	if err := assembly.Validate(); err != nil {
		return Result{}, err
	}

	res := Result{AssemblyID: assembly.ID}
	seen := make(map[string]struct{})
	var plus, minus []hit.PrimerHit
	for _, h := range hits {
		if h.AssemblyID != assembly.ID {
			res.Ignored++
			continue
		}
		if panel != nil {
			if _, ok := panel.Primer(h.PrimerID); !ok {
				res.Ignored++
				continue
			}
		}
		if err := h.Check(assembly.Len()); err != nil {
			return Result{}, err
		}
		seen[h.PrimerID] = struct{}{}
		if h.Strand == hit.Plus {
			plus = append(plus, h)
		} else {
			minus = append(minus, h)
		}
	}
	if panel != nil {
		for _, id := range panel.IDs() {
			if _, ok := seen[id]; !ok {
				res.Unmatched = append(res.Unmatched, id)
			}
		}
	}

	rules, span := pairingRules(panel, seen, opts)
	hit.Sort(plus)

	// Minus hits sorted by end so each plus hit can binary-search its window.
	sort.SliceStable(minus, func(i, j int) bool {
		if minus[i].End != minus[j].End {
			return minus[i].End < minus[j].End
		}
		return hit.Less(minus[i], minus[j])
	})
	ends := make([]int, len(minus))
	for i, m := range minus {
		ends[i] = m.End
	}

	var found []Candidate
	for _, f := range plus {
		lo := f.Start + span.Min
		hi := f.Start + span.Max
		iMin := sort.SearchInts(ends, lo)
		iMax := sort.Search(len(ends), func(i int) bool { return ends[i] > hi })
		for j := iMin; j < iMax; j++ {
			r := minus[j]
			if r.Start <= f.Start || r.End < f.End {
				continue
			}
			length := r.End - f.Start
			for _, ru := range rules(f.PrimerID, r.PrimerID) {
				if !ru.window.Contains(length) {
					continue
				}
				found = append(found, Candidate{
					AssemblyID:       assembly.ID,
					PairID:           ru.pairID,
					Forward:          f,
					Reverse:          r,
					Sequence:         assembly.Slice(f.Start, r.End),
					Length:           length,
					OrientationValid: ru.valid,
				})
			}
		}
	}

	res.Candidates = Dedup(found)
	res.Ambiguities = ambiguities(res.Candidates)
	return res, nil
}

// pairingRules returns the lookup from (plus primer, minus primer) to the
// pairings that may join them, plus the union of their size windows.
func pairingRules(panel *primer.Panel, seen map[string]struct{}, opts Options) (func(a, b string) []rule, SizeWindow) {
	global := opts.Window
	if panel != nil && panel.Explicit() {
		pairs := panel.Pairs
		if opts.SelfPriming {
			pairs = primer.WithSelfPairs(pairs, panel.Primers())
		}
		table := make(map[[2]string][]rule, 2*len(pairs))
		span := global
		for _, p := range pairs {
			w := global
			if p.MinProduct > 0 {
				w.Min = p.MinProduct
			}
			if p.MaxProduct > 0 {
				w.Max = p.MaxProduct
			}
			span.Min = min(span.Min, w.Min)
			span.Max = max(span.Max, w.Max)
			table[[2]string{p.ForwardID, p.ReverseID}] = append(table[[2]string{p.ForwardID, p.ReverseID}], rule{pairID: p.ID, window: w, valid: true})
			if p.ForwardID != p.ReverseID {
				k := [2]string{p.ReverseID, p.ForwardID}
				table[k] = append(table[k], rule{pairID: p.ID, window: w, valid: false})
			}
		}
		return func(a, b string) []rule { return table[[2]string{a, b}] }, span
	}

	selfOK := opts.SelfPriming || len(seen) == 1 || (panel != nil && panel.Len() == 1)
	role := func(id string) primer.Role {
		if panel == nil {
			return primer.Unspecified
		}
		p, _ := panel.Primer(id)
		return p.Role
	}
	return func(a, b string) []rule {
		if a == b {
			if !selfOK {
				return nil
			}
			return []rule{{pairID: a + "+self", window: global, valid: true}}
		}
		valid := role(a) != primer.Reverse && role(b) != primer.Forward
		return []rule{{pairID: a + "/" + b, window: global, valid: valid}}
	}, global
}

func ambiguities(cs []Candidate) []Ambiguity {
	type combo struct{ asm, f, r string }
	counts := make(map[combo]int)
	for _, c := range cs {
		if !c.OrientationValid {
			continue
		}
		counts[combo{c.AssemblyID, c.Forward.PrimerID, c.Reverse.PrimerID}]++
	}
	var out []Ambiguity
	for k, n := range counts {
		if n > 1 {
			out = append(out, Ambiguity{AssemblyID: k.asm, ForwardPrimer: k.f, ReversePrimer: k.r, Candidates: n})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ForwardPrimer != out[j].ForwardPrimer {
			return out[i].ForwardPrimer < out[j].ForwardPrimer
		}
		return out[i].ReversePrimer < out[j].ReversePrimer
	})
	return out
}
