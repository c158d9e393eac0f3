package pipeline

import (
	"context"
	"errors"
	"fmt"

	"ispcr/core/align"
	"ispcr/core/amplicon"
	"ispcr/core/hit"
	"ispcr/core/primer"
	"ispcr/core/seq"
	"ispcr/internal/fasta"
	"ispcr/internal/runutil"
	"ispcr/internal/search"
)

// Config holds the run-wide settings every unit shares.
type Config struct {
	Threads     int
	Window      amplicon.SizeWindow
	SelfPriming bool
	Hits        hit.Options
	Scoring     align.Scoring // region consensus vs expected amplicon
}

// Outcome is the result for one assembly. Index is the assembly's position
// in input order across all files, so callers can restore that order.
type Outcome struct {
	Index    int
	Source   string
	Assembly string
	Length   int
	Result   amplicon.Result
	Filtered int
	Err      error
}

type assemblyJob struct {
	index  int
	source string
	rec    fasta.Record
	err    error
}

// ForEachAssembly streams every record of files through search and
// resolution and calls visit once per record. A file that cannot be read
// becomes one failed Outcome.
func ForEachAssembly(
	ctx context.Context,
	cfg Config,
	files []string,
	panel *primer.Panel,
	s search.Searcher,
	visit func(Outcome) error,
) error {
	feed := func(ctx context.Context, send func(assemblyJob) bool) error {
		idx := 0
		for _, fa := range files {
			err := fasta.StreamPathCtx(ctx, fa, func(rec fasta.Record) error {
				if !send(assemblyJob{index: idx, source: fa, rec: rec}) {
					return ctx.Err()
				}
				idx++
				return nil
			})
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if !send(assemblyJob{index: idx, source: fa, err: err}) {
					return ctx.Err()
				}
				idx++
			}
		}
		return nil
	}
	work := func(ctx context.Context, j assemblyJob) Outcome {
		o := Outcome{Index: j.index, Source: j.source, Assembly: j.rec.ID, Length: len(j.rec.Seq), Err: j.err}
		if o.Err != nil {
			return o
		}
		asm, err := j.rec.Sequence()
		if err != nil {
			o.Err = fmt.Errorf("assembly %s: %w", j.rec.ID, err)
			return o
		}
		o.Result, o.Filtered, o.Err = Resolve(ctx, cfg, panel, s, asm)
		return o
	}
	return forEach(ctx, cfg.Threads, feed, work, visit)
}

// Resolve runs one assembly through search, hit parsing and resolution.
func Resolve(ctx context.Context, cfg Config, panel *primer.Panel, s search.Searcher, asm seq.Sequence) (amplicon.Result, int, error) {
	raw, err := s.Search(ctx, panel.Primers(), asm)
	if err != nil {
		return amplicon.Result{AssemblyID: asm.ID}, 0, err
	}
	it := hit.NewSource(raw, cfg.Hits).Iter()
	var hits []hit.PrimerHit
	for it.Next() {
		hits = append(hits, it.Hit())
	}
	if err := it.Err(); err != nil {
		return amplicon.Result{AssemblyID: asm.ID}, it.Filtered(), runutil.Collaborator(s.Name(), asm.ID, err)
	}
	hit.Sort(hits)

	res, err := amplicon.Resolve(hits, asm, panel, amplicon.Options{Window: cfg.Window, SelfPriming: cfg.SelfPriming})
	if errors.Is(err, hit.ErrMalformedHit) {
		err = runutil.Collaborator(s.Name(), asm.ID, err)
	}
	return res, it.Filtered(), err
}
