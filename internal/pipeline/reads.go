package pipeline

import (
	"context"
	"errors"
	"fmt"

	"ispcr/core/align"
	"ispcr/core/amplicon"
	"ispcr/core/consensus"
	"ispcr/core/primer"
	"ispcr/core/seq"
	"ispcr/internal/mapper"
	"ispcr/internal/search"
)

// ErrNoMappedReads marks a read set where nothing mapped to the reference.
var ErrNoMappedReads = errors.New("no mapped reads")

// Reference is the mapping target shared by every read set: the FASTA path
// handed to the mapper, its parsed records, and the amplicons predicted on
// those records.
type Reference struct {
	Path     string
	Records  []seq.Sequence
	Expected []amplicon.Candidate
}

// RegionCall is the read consensus over one expected amplicon, aligned to it.
type RegionCall struct {
	Expected  amplicon.Candidate
	Consensus consensus.Consensus
	Alignment align.Result
}

// ReadOutcome is the result for one read set.
type ReadOutcome struct {
	Index  int
	Sample string
	Stats  mapper.Stats
	// Best is the whole-record consensus with the highest coverage; its
	// sequence is searched like an assembly and Result holds what it yields.
	Best    consensus.Consensus
	Result  amplicon.Result
	Regions []RegionCall
	Err     error
}

// ForEachReadSet maps every read set to ref, calls consensus, and resolves
// amplicons on the best consensus.
func ForEachReadSet(
	ctx context.Context,
	cfg Config,
	ref Reference,
	sets []mapper.ReadSet,
	m mapper.Mapper,
	panel *primer.Panel,
	s search.Searcher,
	visit func(ReadOutcome) error,
) error {
	type job struct {
		index int
		rs    mapper.ReadSet
	}
	feed := func(ctx context.Context, send func(job) bool) error {
		for i, rs := range sets {
			if !send(job{index: i, rs: rs}) {
				return ctx.Err()
			}
		}
		return nil
	}
	work := func(ctx context.Context, j job) ReadOutcome {
		o := ReadOutcome{Index: j.index, Sample: j.rs.Sample}
		reads, st, err := m.Map(ctx, ref.Path, j.rs)
		o.Stats = st
		if err != nil {
			o.Err = err
			return o
		}
		if len(reads) == 0 {
			o.Err = fmt.Errorf("%s: %w", j.rs.Sample, ErrNoMappedReads)
			return o
		}
		if o.Regions, err = callRegions(reads, ref.Expected, cfg.Scoring); err != nil {
			o.Err = fmt.Errorf("%s: %w", j.rs.Sample, err)
			return o
		}
		if o.Best, err = bestConsensus(reads, ref.Records); err != nil {
			o.Err = fmt.Errorf("%s: %w", j.rs.Sample, err)
			return o
		}
		if o.Best.Reads == 0 {
			o.Err = fmt.Errorf("%s: %w", j.rs.Sample, ErrNoMappedReads)
			return o
		}
		o.Result, _, o.Err = Resolve(ctx, cfg, panel, s, o.Best.Sequence(j.rs.Sample))
		return o
	}
	return forEach(ctx, cfg.Threads, feed, work, visit)
}

// bestConsensus calls each reference record end to end and keeps the best
// covered one; the earlier record wins a tie.
func bestConsensus(reads []consensus.Read, records []seq.Sequence) (consensus.Consensus, error) {
	var (
		best  consensus.Consensus
		found bool
	)
	for _, r := range records {
		c, err := consensus.Build(reads, consensus.Region{RefID: r.ID, Start: 0, End: r.Len(), Expected: r.Residues})
		if err != nil {
			return consensus.Consensus{}, err
		}
		if !found || c.Covered() > best.Covered() {
			best, found = c, true
		}
	}
	return best, nil
}

func callRegions(reads []consensus.Read, expected []amplicon.Candidate, sc align.Scoring) ([]RegionCall, error) {
	var out []RegionCall
	for _, cand := range expected {
		if !cand.OrientationValid {
			continue
		}
		c, err := consensus.Build(reads, consensus.Region{
			RefID:    cand.AssemblyID,
			Start:    cand.Start(),
			End:      cand.End(),
			Expected: cand.Sequence,
		})
		if err != nil {
			return nil, err
		}
		if c.Reads == 0 {
			continue
		}
		aln, err := align.Align(seq.Sequence{ID: cand.PairID, Residues: cand.Sequence}, c.Sequence(cand.AssemblyID), sc, false)
		if err != nil {
			return nil, err
		}
		out = append(out, RegionCall{Expected: cand, Consensus: c, Alignment: aln})
	}
	return out, nil
}
