package report

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ispcr/core/align"
	"ispcr/core/amplicon"
	"ispcr/core/consensus"
	"ispcr/core/hit"
	"ispcr/core/primer"
	"ispcr/core/seq"
	"ispcr/internal/mapper"
	"ispcr/internal/pipeline"
	"ispcr/internal/runutil"
)

var scoring = align.Scoring{Match: 1, Mismatch: -1, Gap: -1}

func panel(t *testing.T) *primer.Panel {
	t.Helper()
	p, err := primer.NewPanel(
		[]primer.Primer{
			{Sequence: seq.MustNew("p_F", "AAACCCGT"), Role: primer.Forward},
			{Sequence: seq.MustNew("p_R", "GATTTCCA"), Role: primer.Reverse},
		},
		[]primer.Pair{{ID: "p", ForwardID: "p_F", ReverseID: "p_R"}},
	)
	require.NoError(t, err)
	return p
}

func cand(asm, s string, start int, valid bool) amplicon.Candidate {
	return amplicon.Candidate{
		AssemblyID:       asm,
		PairID:           "p",
		Forward:          hit.PrimerHit{PrimerID: "p_F", AssemblyID: asm, Start: start, End: start + 4, Strand: hit.Plus, Quality: 100},
		Reverse:          hit.PrimerHit{PrimerID: "p_R", AssemblyID: asm, Start: start + len(s) - 4, End: start + len(s), Strand: hit.Minus, Quality: 100},
		Sequence:         s,
		Length:           len(s),
		OrientationValid: valid,
	}
}

func outcome(idx int, asm string, cs ...amplicon.Candidate) pipeline.Outcome {
	return pipeline.Outcome{Index: idx, Source: "in.fa", Assembly: asm, Result: amplicon.Result{AssemblyID: asm, Candidates: cs}}
}

func TestBuildOrdersAndOrients(t *testing.T) {
	anchor := "AAACCCGTTTTTGGAAATC"
	b := NewBuilder(panel(t))
	b.AddAssembly(FromReference, outcome(0, "ref1", cand("ref1", anchor, 0, true)))
	b.AddAssembly(FromAssembly, outcome(1, "a2", cand("a2", seq.RevCompString(anchor), 3, true)))
	b.AddAssembly(FromAssembly, outcome(0, "a1", cand("a1", anchor, 7, true), cand("a1", "ACGTACGT", 40, false)))

	rep, err := b.Build(Options{Anchor: scoring})
	require.NoError(t, err)
	_, err = uuid.Parse(rep.RunID)
	require.NoError(t, err)

	require.Len(t, rep.Amplicons, 3)
	assert.Equal(t, []string{"a1", "a2", "ref1"}, []string{
		rep.Amplicons[0].Candidate.AssemblyID, rep.Amplicons[1].Candidate.AssemblyID, rep.Amplicons[2].Candidate.AssemblyID,
	})
	assert.Equal(t, align.Forward, rep.Amplicons[0].Orientation)
	assert.Equal(t, len(anchor), rep.Amplicons[0].AnchorScore)
	assert.Equal(t, align.ReverseComplement, rep.Amplicons[1].Orientation)
	assert.Equal(t, anchor, rep.Amplicons[1].Sequence)
	assert.Equal(t, seq.RevCompString(anchor), rep.Amplicons[1].Candidate.Sequence)

	assert.NotEmpty(t, rep.Amplicons[0].Hash)
	assert.Equal(t, rep.Amplicons[0].Hash, rep.Amplicons[1].Hash)
	assert.Equal(t, 1, rep.Summary.Distinct)
	assert.Equal(t, 3, rep.Summary.Assemblies)
	assert.Empty(t, rep.Issues)
}

func TestBuildKeepsInvalidWhenAsked(t *testing.T) {
	b := NewBuilder(panel(t))
	b.AddAssembly(FromAssembly, outcome(0, "a1", cand("a1", "ACGTACGT", 0, false)))
	rep, err := b.Build(Options{Anchor: scoring, IncludeInvalid: true, NoOrient: true})
	require.NoError(t, err)
	require.Len(t, rep.Amplicons, 1)
	assert.False(t, rep.Amplicons[0].Candidate.OrientationValid)
	// no valid product on a1 is still a finding
	require.Len(t, rep.Issues, 1)
	assert.Equal(t, NoHits, rep.Issues[0].Kind)
}

func TestBuildIssues(t *testing.T) {
	b := NewBuilder(panel(t))
	b.AddAssembly(FromAssembly, pipeline.Outcome{Index: 0, Assembly: "a1", Err: runutil.Collaborator("blastn", "a1", errors.New("exit status 2"))})
	b.AddAssembly(FromAssembly, pipeline.Outcome{Index: 1, Source: "bad.fa", Err: errors.New("bad.fa: no such file")})
	b.AddAssembly(FromAssembly, pipeline.Outcome{Index: 2, Assembly: "a3", Err: context.Canceled})
	b.AddAssembly(FromAssembly, pipeline.Outcome{Index: 3, Assembly: "a4", Result: amplicon.Result{
		AssemblyID:  "a4",
		Candidates:  []amplicon.Candidate{cand("a4", "AAAACCCCGGGG", 0, true), cand("a4", "AAAACCCCGGGGTTTT", 0, true)},
		Ambiguities: []amplicon.Ambiguity{{AssemblyID: "a4", ForwardPrimer: "p_F", ReversePrimer: "p_R", Candidates: 2}},
	}})
	b.AddAssembly(FromAssembly, pipeline.Outcome{Index: 4, Assembly: "a5", Result: amplicon.Result{AssemblyID: "a5", Unmatched: []string{"p_R"}}})
	b.AddIncomplete(mapper.Incomplete{Sample: "s9", Files: []string{"s9_1.fq"}, Reason: "expected 2 mate files"})
	b.AddReadSet(pipeline.ReadOutcome{Index: 0, Sample: "s1", Err: pipeline.ErrNoMappedReads})

	rep, err := b.Build(Options{Anchor: scoring})
	require.NoError(t, err)

	kinds := map[IssueKind][]string{}
	for _, is := range rep.Issues {
		kinds[is.Kind] = append(kinds[is.Kind], is.Unit)
	}
	assert.Equal(t, []string{"a4"}, kinds[AmbiguousPairing])
	assert.Equal(t, []string{"a1"}, kinds[CollaboratorError])
	assert.Equal(t, []string{"a5", "s1", "s9"}, kinds[IncompletePairedData])
	assert.Equal(t, []string{"bad.fa"}, kinds[InvalidInput])
	assert.Equal(t, []string{"a5"}, kinds[NoHits])
	assert.Equal(t, 2, rep.Summary.ReadSets)
	assert.Empty(t, rep.Summary.Unmatched)
	assert.Equal(t, 3, rep.Summary.Issues[IncompletePairedData])
}

func TestBuildUnmatchedPrimer(t *testing.T) {
	b := NewBuilder(panel(t))
	b.AddAssembly(FromAssembly, pipeline.Outcome{Assembly: "a1", Result: amplicon.Result{AssemblyID: "a1", Unmatched: []string{"p_F", "p_R"}}})
	rep, err := b.Build(Options{Anchor: scoring})
	require.NoError(t, err)
	assert.Equal(t, []string{"p_F", "p_R"}, rep.Summary.Unmatched)
	assert.Equal(t, 3, rep.Summary.Issues[NoHits])
}

func TestAddReadSet(t *testing.T) {
	ref := "AAACCCGTTTTTGGAAATC"
	c := consensus.Consensus{
		RefID: "ref1", Start: 0, End: len(ref), Seq: ref,
		Depth: make([]int, len(ref)), Reads: 4, ExcludedImproper: 1, Orphans: []string{"lone"},
	}
	b := NewBuilder(panel(t))
	b.AddReadSet(pipeline.ReadOutcome{
		Sample: "s1", Stats: mapper.Stats{Records: 6, Unmapped: 1}, Best: c,
		Result:  amplicon.Result{AssemblyID: "s1", Candidates: []amplicon.Candidate{cand("s1", ref, 0, true)}},
		Regions: []pipeline.RegionCall{{Expected: cand("ref1", ref, 0, true), Consensus: c}},
	})
	rep, err := b.Build(Options{Anchor: scoring})
	require.NoError(t, err)

	require.Len(t, rep.Consensus, 1)
	cs := rep.Consensus[0]
	assert.Equal(t, "s1", cs.Sample)
	assert.Equal(t, 1, cs.Unmapped)
	assert.Equal(t, 1, cs.ExcludedImproper)
	assert.Equal(t, 1, cs.Orphans)
	require.Len(t, rep.Amplicons, 1)
	assert.Equal(t, FromConsensus, rep.Amplicons[0].Origin)
	require.Len(t, rep.Regions, 1)
	require.Len(t, rep.Issues, 1)
	assert.Equal(t, IncompletePairedData, rep.Issues[0].Kind)
	assert.True(t, strings.Contains(rep.Issues[0].Message, "lone"))
}

func TestAddReadSetKeepsConsensusWhenSearchFails(t *testing.T) {
	ref := "AAACCCGTTTTTGGAAATC"
	c := consensus.Consensus{RefID: "ref1", Start: 0, End: len(ref), Seq: ref, Depth: make([]int, len(ref)), Reads: 2}
	b := NewBuilder(panel(t))
	b.AddReadSet(pipeline.ReadOutcome{
		Sample: "s1", Best: c,
		Regions: []pipeline.RegionCall{{Expected: cand("ref1", ref, 0, true), Consensus: c}},
		Err:     runutil.Collaborator("blastn", "s1", errors.New("exit status 2")),
	})
	rep, err := b.Build(Options{Anchor: scoring})
	require.NoError(t, err)

	require.Len(t, rep.Consensus, 1)
	assert.Equal(t, 2, rep.Consensus[0].Reads)
	require.Len(t, rep.Regions, 1)
	assert.Empty(t, rep.Amplicons)
	require.Len(t, rep.Issues, 1)
	assert.Equal(t, CollaboratorError, rep.Issues[0].Kind)
	assert.Equal(t, "s1", rep.Issues[0].Unit)
}

func TestAddFailure(t *testing.T) {
	b := NewBuilder(panel(t))
	b.AddFailure(pipeline.Outcome{Source: "ref.fa", Err: runutil.Collaborator("blastn", "ref.fa", errors.New("not found"))})
	b.AddFailure(outcome(1, "ref2", cand("ref2", "AAACCCGTTTTTGGAAATC", 0, true)))
	rep, err := b.Build(Options{Anchor: scoring})
	require.NoError(t, err)

	assert.Empty(t, rep.Amplicons)
	require.Len(t, rep.Issues, 1)
	assert.Equal(t, CollaboratorError, rep.Issues[0].Kind)
	assert.Equal(t, "ref.fa", rep.Issues[0].Unit)
}

func TestOrientEmpty(t *testing.T) {
	assert.NoError(t, Orient(nil, scoring))
}
