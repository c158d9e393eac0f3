// Package primer models oligos, their roles, and how they are grouped into
// pairs for amplicon resolution.
package primer

import (
	"fmt"
	"sort"
	"strings"

	"ispcr/core/seq"
)

// Role says which strand a primer is designed to extend along.
type Role int

const (
	Unspecified Role = iota
	Forward
	Reverse
)

func (r Role) String() string {
	switch r {
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	default:
		return "unspecified"
	}
}

// RoleFromID infers a role from common id suffixes (_F, -fwd, .R, _rev ...).
func RoleFromID(id string) Role {
	low := strings.ToLower(id)
	for _, sep := range []string{"_", "-", "."} {
		i := strings.LastIndex(low, sep)
		if i < 0 {
			continue
		}
		switch low[i+1:] {
		case "f", "fw", "fwd", "forward":
			return Forward
		case "r", "rv", "rev", "reverse":
			return Reverse
		}
	}
	return Unspecified
}

// Primer is an oligo with an identity and a role. Tm and DeclaredSize are
// caller metadata; nothing here checks them.
type Primer struct {
	seq.Sequence
	Role         Role
	Tm           float64
	DeclaredSize int
}

// Pair is an explicit forward/reverse grouping by primer id. Zero bounds
// fall back to the run-wide size window.
type Pair struct {
	ID         string
	ForwardID  string
	ReverseID  string
	MinProduct int
	MaxProduct int
}

// Panel is the primer set of one run. With no Pairs every forward-capable
// primer may pair with every reverse-capable one.
type Panel struct {
	primers map[string]Primer
	order   []string
	Pairs   []Pair
}

// NewPanel indexes primers by id. Duplicate ids are rejected.
func NewPanel(primers []Primer, pairs []Pair) (*Panel, error) {
	p := &Panel{primers: make(map[string]Primer, len(primers))}
	for _, pr := range primers {
		if err := pr.Validate(); err != nil {
			return nil, err
		}
		if _, dup := p.primers[pr.ID]; dup {
			return nil, fmt.Errorf("duplicate primer id %q", pr.ID)
		}
		p.primers[pr.ID] = pr
		p.order = append(p.order, pr.ID)
	}
	for _, pair := range pairs {
		for _, id := range []string{pair.ForwardID, pair.ReverseID} {
			if _, ok := p.primers[id]; !ok {
				return nil, fmt.Errorf("pair %q references unknown primer %q", pair.ID, id)
			}
		}
		if pair.MinProduct < 0 || pair.MaxProduct < 0 || (pair.MaxProduct > 0 && pair.MinProduct > pair.MaxProduct) {
			return nil, fmt.Errorf("pair %q has bad product bounds %d..%d", pair.ID, pair.MinProduct, pair.MaxProduct)
		}
	}
	p.Pairs = append(p.Pairs, pairs...)
	return p, nil
}

// Primer looks up a primer by id.
func (p *Panel) Primer(id string) (Primer, bool) {
	pr, ok := p.primers[id]
	return pr, ok
}

// Primers returns the primers in insertion order.
func (p *Panel) Primers() []Primer {
	out := make([]Primer, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.primers[id])
	}
	return out
}

// IDs returns the primer ids sorted lexically.
func (p *Panel) IDs() []string {
	ids := append([]string(nil), p.order...)
	sort.Strings(ids)
	return ids
}

func (p *Panel) Len() int { return len(p.order) }

// Explicit reports whether pairing is restricted to Pairs.
func (p *Panel) Explicit() bool { return len(p.Pairs) > 0 }
