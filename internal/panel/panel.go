// Package panel loads primer panels from disk.
//
// Two layouts are accepted and sniffed from content:
//
//	TSV:   id fwd rev [min] [max]   (one explicit pair per row, '#' comments)
//	FASTA: one primer per record; roles come from id suffixes (_F, _R, ...)
package panel

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"ispcr/core/primer"
	"ispcr/core/seq"
	"ispcr/core/thermo"
	"ispcr/internal/fasta"
)

// Load reads path and builds a panel. selfPriming adds a self pair per
// primer when the panel has explicit pairs.
func Load(ctx context.Context, path string, selfPriming bool) (*primer.Panel, error) {
	rc, err := fasta.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}

	var (
		primers []primer.Primer
		pairs   []primer.Pair
	)
	if looksLikeFASTA(raw) {
		primers, pairs, err = parseFASTA(ctx, raw)
	} else {
		primers, pairs, err = parseTSV(raw)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(primers) == 0 {
		return nil, fmt.Errorf("%s: no primers", path)
	}
	if selfPriming && len(pairs) > 0 {
		pairs = primer.WithSelfPairs(pairs, primers)
	}
	return primer.NewPanel(withTm(primers), pairs)
}

// FromSequences builds a one-pair panel from literal sequences, as given on
// the command line. An empty rev makes a single-primer panel.
func FromSequences(fwd, rev string, minLen, maxLen int) (*primer.Panel, error) {
	f, err := seq.New("fwd", fwd)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(rev) == "" {
		return primer.NewPanel(withTm([]primer.Primer{{Sequence: f}}), nil)
	}
	r, err := seq.New("rev", rev)
	if err != nil {
		return nil, err
	}
	return primer.NewPanel(
		withTm([]primer.Primer{{Sequence: f, Role: primer.Forward}, {Sequence: r, Role: primer.Reverse}}),
		[]primer.Pair{{ID: "manual", ForwardID: "fwd", ReverseID: "rev", MinProduct: minLen, MaxProduct: maxLen}},
	)
}

// withTm fills in nearest-neighbor Tm at standard conditions. Degenerate
// primers keep 0 (unknown).
func withTm(ps []primer.Primer) []primer.Primer {
	for i := range ps {
		if ps[i].Tm != 0 {
			continue
		}
		if tm, err := thermo.PrimerTm(ps[i].Sequence, thermo.Standard); err == nil {
			ps[i].Tm = tm
		}
	}
	return ps
}

func looksLikeFASTA(raw []byte) bool {
	sc := bufio.NewScanner(bytes.NewReader(raw))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		return line[0] == '>'
	}
	return false
}

func parseTSV(raw []byte) ([]primer.Primer, []primer.Pair, error) {
	var (
		primers []primer.Primer
		pairs   []primer.Pair
	)
	sc := bufio.NewScanner(bytes.NewReader(raw))
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		f := strings.Fields(line)
		if len(f) < 3 || len(f) > 5 {
			return nil, nil, fmt.Errorf("line %d: bad field count %d (want id fwd rev [min] [max])", ln, len(f))
		}
		p := primer.Pair{ID: f[0], ForwardID: f[0] + "_F", ReverseID: f[0] + "_R"}
		fw, err := seq.New(p.ForwardID, f[1])
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", ln, err)
		}
		rv, err := seq.New(p.ReverseID, f[2])
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", ln, err)
		}
		if len(f) >= 4 {
			if _, err := fmt.Sscan(f[3], &p.MinProduct); err != nil {
				return nil, nil, fmt.Errorf("line %d: bad min: %v", ln, err)
			}
		}
		if len(f) == 5 {
			if _, err := fmt.Sscan(f[4], &p.MaxProduct); err != nil {
				return nil, nil, fmt.Errorf("line %d: bad max: %v", ln, err)
			}
		}
		primers = append(primers,
			primer.Primer{Sequence: fw, Role: primer.Forward, DeclaredSize: p.MaxProduct},
			primer.Primer{Sequence: rv, Role: primer.Reverse, DeclaredSize: p.MaxProduct},
		)
		pairs = append(pairs, p)
	}
	return primers, pairs, sc.Err()
}

// parseFASTA reads primer records. When every primer carries a role and
// each id stem has exactly one forward and one reverse, stems become
// explicit pairs; otherwise the panel pools all primers.
func parseFASTA(ctx context.Context, raw []byte) ([]primer.Primer, []primer.Pair, error) {
	var primers []primer.Primer
	err := fasta.StreamCtx(ctx, bytes.NewReader(raw), func(r fasta.Record) error {
		s, err := r.Sequence()
		if err != nil {
			return err
		}
		primers = append(primers, primer.Primer{Sequence: s, Role: primer.RoleFromID(r.ID)})
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	type ends struct{ f, r []string }
	stems := make(map[string]*ends)
	for _, p := range primers {
		if p.Role == primer.Unspecified {
			return primers, nil, nil
		}
		st := stem(p.ID)
		e := stems[st]
		if e == nil {
			e = &ends{}
			stems[st] = e
		}
		if p.Role == primer.Forward {
			e.f = append(e.f, p.ID)
		} else {
			e.r = append(e.r, p.ID)
		}
	}
	names := make([]string, 0, len(stems))
	for st, e := range stems {
		if len(e.f) != 1 || len(e.r) != 1 {
			return primers, nil, nil
		}
		names = append(names, st)
	}
	sort.Strings(names)
	pairs := make([]primer.Pair, 0, len(names))
	for _, st := range names {
		pairs = append(pairs, primer.Pair{ID: st, ForwardID: stems[st].f[0], ReverseID: stems[st].r[0]})
	}
	return primers, pairs, nil
}

func stem(id string) string {
	if i := strings.LastIndexAny(id, "_-."); i > 0 {
		return id[:i]
	}
	return id
}
