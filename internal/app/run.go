package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"ispcr/core/amplicon"
	"ispcr/core/hit"
	"ispcr/core/primer"
	"ispcr/internal/cliutil"
	"ispcr/internal/cmdutil"
	"ispcr/internal/config"
	"ispcr/internal/fasta"
	"ispcr/internal/mapper"
	"ispcr/internal/output"
	"ispcr/internal/panel"
	"ispcr/internal/pipeline"
	"ispcr/internal/report"
	"ispcr/internal/runutil"
	"ispcr/internal/search"
	"ispcr/internal/writers"
)

type runMode int

const (
	modeRun runMode = iota
	// modeConsensus needs read sets and skips plain assemblies.
	modeConsensus
)

// execute performs one run and writes its report. The returned code is the
// no-match code when nothing was found, else 0.
func execute(ctx context.Context, cfg config.Config, mode runMode, stdout, stderr io.Writer) (int, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	if mode == modeConsensus && len(cfg.Reads) == 0 && len(cfg.SAM) == 0 {
		return 0, fmt.Errorf("%w: consensus needs --reads or --sam", config.ErrInvalid)
	}
	if !slices.Contains(writers.Formats(), cfg.Output) {
		return 0, fmt.Errorf("%w: unknown --output %q (want one of %v)", config.ErrInvalid, cfg.Output, writers.Formats())
	}
	log := cmdutil.NewLogger(stderr, cfg.Quiet, cfg.Verbose)

	pnl, err := loadPanel(ctx, cfg)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", config.ErrInvalid, err)
	}
	searcher, err := search.New(cfg.Backend, search.Options{
		BlastnPath:     cfg.Blastn,
		WordSize:       cfg.WordSize,
		TempDir:        cfg.TempDir,
		MaxMismatches:  cfg.Mismatches,
		TerminalWindow: cfg.TerminalWindow,
		HitCap:         cfg.HitCap,
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", config.ErrInvalid, err)
	}
	assemblies, err := expand(cfg.Assemblies)
	if err != nil {
		return 0, err
	}
	reads, err := expand(cfg.Reads)
	if err != nil {
		return 0, err
	}
	sams, err := expand(cfg.SAM)
	if err != nil {
		return 0, err
	}

	pcfg := pipeline.Config{
		Threads:     runutil.Threads(cfg.Threads),
		Window:      cfg.Window(),
		SelfPriming: cfg.Self,
		Hits:        hit.Options{MinQuality: cfg.MinQuality, FullLengthOnly: cfg.FullLength},
		Scoring:     cfg.Scoring(),
	}
	for _, p := range pnl.Primers() {
		log.Debug("primer loaded", "id", p.ID, "role", p.Role, "length", p.Len(), "tm", fmt.Sprintf("%.1f", p.Tm))
	}
	log.Debug("run configured", "primers", pnl.Len(), "pairs", len(pnl.Pairs), "backend", searcher.Name(),
		"threads", pcfg.Threads, "min_size", pcfg.Window.Min, "max_size", pcfg.Window.Max)

	b := report.NewBuilder(pnl)
	if mode == modeRun && len(assemblies) > 0 {
		err := pipeline.ForEachAssembly(ctx, pcfg, assemblies, pnl, searcher, func(o pipeline.Outcome) error {
			logOutcome(log, o)
			b.AddAssembly(report.FromAssembly, o)
			return nil
		})
		if err != nil {
			return 0, err
		}
	}

	if cfg.Reference != "" {
		ref, err := searchReference(ctx, log, pcfg, cfg.Reference, pnl, searcher, b, mode == modeRun)
		if err != nil {
			return 0, err
		}
		if err := mapReadSets(ctx, log, pcfg, ref, reads, sams, cfg.Minimap2, pnl, searcher, b); err != nil {
			return 0, err
		}
	}

	rep, err := b.Build(report.Options{
		Anchor:         cfg.Scoring(),
		NoOrient:       cfg.NoOrient,
		IncludeInvalid: cfg.IncludeInvalid,
	})
	if err != nil {
		return 0, err
	}
	for _, is := range rep.Issues {
		log.Warn(is.Message, "kind", is.Kind, "unit", is.Unit)
	}

	if err := writers.Write(cfg.Output, stdout, rep, writers.Options{Header: cfg.Header, AlignWidth: cfg.AlignWidth}); err != nil {
		return 0, err
	}
	if !cfg.Quiet {
		if err := output.WriteSummary(stderr, rep); err != nil {
			return 0, err
		}
	}
	if len(rep.Amplicons) == 0 && len(rep.Regions) == 0 {
		return cfg.NoMatchExitCode, nil
	}
	return 0, nil
}

func loadPanel(ctx context.Context, cfg config.Config) (*primer.Panel, error) {
	if cfg.Primers != "" {
		return panel.Load(ctx, cfg.Primers, cfg.Self)
	}
	p, err := panel.FromSequences(cfg.Forward, cfg.Reverse, cfg.MinSize, cfg.MaxSize)
	if err != nil {
		return nil, err
	}
	if cfg.Self && len(p.Pairs) > 0 {
		return primer.NewPanel(p.Primers(), primer.WithSelfPairs(p.Pairs, p.Primers()))
	}
	return p, nil
}

func expand(paths []string) ([]string, error) {
	out, err := cliutil.ExpandPositionals(paths)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalid, err)
	}
	return cliutil.Dedup(out), nil
}

func logOutcome(log *slog.Logger, o pipeline.Outcome) {
	if o.Err != nil {
		return
	}
	log.Debug("assembly searched", "file", o.Source, "assembly", o.Assembly, "length", o.Length,
		"candidates", len(o.Result.Candidates), "filtered_hits", o.Filtered)
	if o.Result.Ignored > 0 {
		log.Warn("search hits ignored", "assembly", o.Assembly, "hits", o.Result.Ignored)
	}
}

// searchReference loads the reference records and resolves amplicons on
// them; valid ones become the expected regions for read consensus. With
// addToReport set, the reference amplicons are reported too.
func searchReference(
	ctx context.Context,
	log *slog.Logger,
	pcfg pipeline.Config,
	path string,
	pnl *primer.Panel,
	s search.Searcher,
	b *report.Builder,
	addToReport bool,
) (pipeline.Reference, error) {
	ref := pipeline.Reference{Path: path}
	recs, err := fasta.ReadAll(ctx, path)
	if err != nil {
		return ref, fmt.Errorf("%w: reference: %v", config.ErrInvalid, err)
	}
	for _, r := range recs {
		rec, err := r.Sequence()
		if err != nil {
			return ref, fmt.Errorf("%w: reference %s: %v", config.ErrInvalid, path, err)
		}
		ref.Records = append(ref.Records, rec)
	}
	if len(ref.Records) == 0 {
		return ref, fmt.Errorf("%w: reference %s has no records", config.ErrInvalid, path)
	}

	err = pipeline.ForEachAssembly(ctx, pcfg, []string{path}, pnl, s, func(o pipeline.Outcome) error {
		logOutcome(log, o)
		switch {
		case addToReport:
			b.AddAssembly(report.FromReference, o)
		case o.Err != nil:
			b.AddFailure(o)
		}
		for _, c := range o.Result.Candidates {
			if c.OrientationValid {
				ref.Expected = append(ref.Expected, c)
			}
		}
		return nil
	})
	amplicon.Sort(ref.Expected)
	return ref, err
}

func mapReadSets(
	ctx context.Context,
	log *slog.Logger,
	pcfg pipeline.Config,
	ref pipeline.Reference,
	reads, sams []string,
	minimap2 string,
	pnl *primer.Panel,
	s search.Searcher,
	b *report.Builder,
) error {
	visit := func(offset int) func(pipeline.ReadOutcome) error {
		return func(o pipeline.ReadOutcome) error {
			o.Index += offset
			if o.Err == nil {
				log.Debug("read set mapped", "sample", o.Sample, "reads", o.Best.Reads,
					"covered", o.Best.Covered(), "regions", len(o.Regions))
			}
			b.AddReadSet(o)
			return nil
		}
	}

	sets, incomplete := mapper.PairReads(reads)
	for _, in := range incomplete {
		b.AddIncomplete(in)
	}
	if len(sets) > 0 {
		m := &mapper.Minimap2{Path: minimap2}
		if err := pipeline.ForEachReadSet(ctx, pcfg, ref, sets, m, pnl, s, visit(0)); err != nil {
			return err
		}
	}
	if samSets := mapper.SAMSets(sams); len(samSets) > 0 {
		if err := pipeline.ForEachReadSet(ctx, pcfg, ref, samSets, mapper.SAMFile{}, pnl, s, visit(len(sets))); err != nil {
			return err
		}
	}
	return nil
}
