// core/primer/self.go
package primer

// SelfPairs returns one pair per primer with both ends set to that primer,
// so a single oligo can be tested for priming off its own reverse-complement
// binding sites. Bounds are unset so the run-wide window applies.
func SelfPairs(primers []Primer) []Pair {
	out := make([]Pair, 0, len(primers))
	for _, p := range primers {
		out = append(out, Pair{
			ID:        p.ID + "+self",
			ForwardID: p.ID,
			ReverseID: p.ID,
		})
	}
	return out
}

// WithSelfPairs appends self pairs for every primer not already paired with
// itself, keeping the existing pairs first.
func WithSelfPairs(pairs []Pair, primers []Primer) []Pair {
	have := make(map[string]struct{}, len(pairs))
	for _, p := range pairs {
		if p.ForwardID == p.ReverseID {
			have[p.ForwardID] = struct{}{}
		}
	}
	out := append([]Pair(nil), pairs...)
	for _, sp := range SelfPairs(primers) {
		if _, ok := have[sp.ForwardID]; ok {
			continue
		}
		out = append(out, sp)
	}
	return out
}
