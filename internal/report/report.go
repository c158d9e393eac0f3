// Package report merges per-unit outcomes into one run report: amplicons in
// input order, oriented against the first one, plus consensus summaries and
// every non-fatal issue.
package report

import (
	"fmt"
	"sort"

	"github.com/bebop/poly/seqhash"
	"github.com/google/uuid"
	"golang.org/x/exp/maps"

	"ispcr/core/align"
	"ispcr/core/amplicon"
	"ispcr/core/consensus"
	"ispcr/core/primer"
	"ispcr/core/seq"
	"ispcr/internal/mapper"
	"ispcr/internal/pipeline"
)

// Origin says which input produced an amplicon.
type Origin string

const (
	FromAssembly  Origin = "assembly"
	FromConsensus Origin = "consensus"
	FromReference Origin = "reference"
)

// originRank fixes the report order: assemblies, read consensus, reference.
var originRank = map[Origin]int{FromAssembly: 0, FromConsensus: 1, FromReference: 2}

// Amplicon is one reported product. Sequence is in the orientation chosen
// against the anchor; Candidate keeps the resolver's view.
type Amplicon struct {
	Origin      Origin
	Source      string
	Candidate   amplicon.Candidate
	Sequence    string
	Orientation align.Orientation
	AnchorScore int
	Hash        string
}

// Region is a read-set consensus over one expected amplicon.
type Region struct {
	Sample string
	pipeline.RegionCall
}

// Consensus summarizes the best whole-record consensus of one read set.
type Consensus struct {
	Sample           string
	RefID            string
	Length           int
	Covered          float64
	Reads            int
	Unmapped         int
	ExcludedImproper int
	Skipped          int
	Orphans          int
	Gaps             []consensus.Span
}

// Summary counts the run at a glance.
type Summary struct {
	Assemblies int
	ReadSets   int
	Amplicons  int
	Distinct   int // by double-stranded seqhash
	Unmatched  []string
	Issues     map[IssueKind]int
}

type Report struct {
	RunID     string
	Amplicons []Amplicon
	Regions   []Region
	Consensus []Consensus
	Issues    []Issue
	Summary   Summary
}

// Options control how amplicons are merged.
type Options struct {
	// Anchor scores the orientation check against the first amplicon.
	Anchor align.Scoring
	// NoOrient reports every amplicon as found on its assembly.
	NoOrient bool
	// IncludeInvalid keeps candidates whose primers bind against their roles.
	IncludeInvalid bool
}

type unit struct {
	origin Origin
	index  int
	source string
	res    amplicon.Result
}

// Builder accumulates outcomes. It is not safe for concurrent use; feed it
// from the pipeline's visit callback, which runs on one goroutine.
type Builder struct {
	pairs     map[string][2]string
	primerIDs []string
	units     []unit
	regions   []Region
	consensus []Consensus
	issues    []Issue
	// hit tracks primers with at least one site anywhere in the run.
	hit      map[string]bool
	readSets int
}

func NewBuilder(panel *primer.Panel) *Builder {
	b := &Builder{pairs: make(map[string][2]string), hit: make(map[string]bool)}
	if panel == nil {
		return b
	}
	b.primerIDs = panel.IDs()
	for _, p := range panel.Pairs {
		if p.ForwardID != p.ReverseID {
			b.pairs[p.ID] = [2]string{p.ForwardID, p.ReverseID}
		}
	}
	return b
}

// AddAssembly records one searched assembly. Reference records use the same
// path with origin FromReference.
func (b *Builder) AddAssembly(origin Origin, o pipeline.Outcome) {
	if o.Err != nil {
		b.AddFailure(o)
		return
	}
	b.addResult(origin, o.Index, o.Source, o.Result)
}

// AddFailure records the issue of a failed assembly outcome without adding
// amplicons. Outcomes that succeeded are ignored.
func (b *Builder) AddFailure(o pipeline.Outcome) {
	if o.Err == nil {
		return
	}
	name := o.Assembly
	if name == "" {
		name = o.Source
	}
	b.addIssue(name, o.Err)
}

func (b *Builder) addIssue(unit string, err error) {
	if kind, ok := classify(err); ok {
		b.issues = append(b.issues, Issue{Kind: kind, Unit: unit, Message: err.Error()})
	}
}

// AddReadSet records one mapped read set. Whatever consensus was called
// before a failure is kept next to the failure's issue.
func (b *Builder) AddReadSet(o pipeline.ReadOutcome) {
	b.readSets++
	if o.Err != nil {
		b.addIssue(o.Sample, o.Err)
	}
	if best := o.Best; best.Reads > 0 {
		b.addConsensus(o.Sample, o.Stats, best)
	}
	for _, rc := range o.Regions {
		b.regions = append(b.regions, Region{Sample: o.Sample, RegionCall: rc})
	}
	if o.Err != nil {
		return
	}
	b.addResult(FromConsensus, o.Index, o.Sample, o.Result)
}

func (b *Builder) addConsensus(sample string, st mapper.Stats, best consensus.Consensus) {
	b.consensus = append(b.consensus, Consensus{
		Sample:           sample,
		RefID:            best.RefID,
		Length:           best.End - best.Start,
		Covered:          best.Covered(),
		Reads:            best.Reads,
		Unmapped:         st.Unmapped,
		ExcludedImproper: best.ExcludedImproper,
		Skipped:          best.Skipped,
		Orphans:          len(best.Orphans),
		Gaps:             best.Gaps,
	})
	if n := len(best.Orphans); n > 0 {
		b.issues = append(b.issues, Issue{
			Kind:    IncompletePairedData,
			Unit:    sample,
			Message: fmt.Sprintf("%d paired reads without their mate (first: %s)", n, best.Orphans[0]),
		})
	}
}

// AddIncomplete records a read set that could not be assembled into mates.
func (b *Builder) AddIncomplete(in mapper.Incomplete) {
	b.readSets++
	b.issues = append(b.issues, Issue{
		Kind:    IncompletePairedData,
		Unit:    in.Sample,
		Message: fmt.Sprintf("%s: %v", in.Reason, in.Files),
	})
}

func (b *Builder) addResult(origin Origin, index int, source string, res amplicon.Result) {
	unmatched := make(map[string]bool, len(res.Unmatched))
	for _, id := range res.Unmatched {
		unmatched[id] = true
	}
	for _, id := range b.primerIDs {
		if !unmatched[id] {
			b.hit[id] = true
		}
	}
	b.units = append(b.units, unit{origin: origin, index: index, source: source, res: res})
	b.issues = append(b.issues, resultIssues(res.AssemblyID, res, b.pairs)...)
}

// Build orders everything and orients each amplicon against the first.
func (b *Builder) Build(opts Options) (Report, error) {
	sort.SliceStable(b.units, func(i, j int) bool {
		ri, rj := originRank[b.units[i].origin], originRank[b.units[j].origin]
		if ri != rj {
			return ri < rj
		}
		return b.units[i].index < b.units[j].index
	})

	rep := Report{RunID: uuid.NewString()}
	for _, u := range b.units {
		for _, c := range u.res.Candidates {
			if !c.OrientationValid && !opts.IncludeInvalid {
				continue
			}
			rep.Amplicons = append(rep.Amplicons, Amplicon{
				Origin:      u.origin,
				Source:      u.source,
				Candidate:   c,
				Sequence:    c.Sequence,
				Orientation: align.Forward,
			})
		}
	}
	if !opts.NoOrient {
		if err := Orient(rep.Amplicons, opts.Anchor); err != nil {
			return Report{}, err
		}
	}

	distinct := make(map[string]struct{}, len(rep.Amplicons))
	for i := range rep.Amplicons {
		h, err := seqhash.Hash(rep.Amplicons[i].Sequence, seqhash.DNA, false, true)
		if err != nil {
			continue
		}
		rep.Amplicons[i].Hash = h
		distinct[h] = struct{}{}
	}

	rep.Regions = append(rep.Regions, b.regions...)
	sort.SliceStable(rep.Regions, func(i, j int) bool {
		if rep.Regions[i].Sample != rep.Regions[j].Sample {
			return rep.Regions[i].Sample < rep.Regions[j].Sample
		}
		return amplicon.Less(rep.Regions[i].Expected, rep.Regions[j].Expected)
	})
	rep.Consensus = append(rep.Consensus, b.consensus...)
	sort.SliceStable(rep.Consensus, func(i, j int) bool { return rep.Consensus[i].Sample < rep.Consensus[j].Sample })

	var unmatched []string
	for _, id := range b.primerIDs {
		if !b.hit[id] {
			unmatched = append(unmatched, id)
			b.issues = append(b.issues, Issue{Kind: NoHits, Unit: id, Message: "primer has no binding site in any input"})
		}
	}
	rep.Issues = append(rep.Issues, b.issues...)
	sort.SliceStable(rep.Issues, func(i, j int) bool {
		if rep.Issues[i].Kind != rep.Issues[j].Kind {
			return rep.Issues[i].Kind < rep.Issues[j].Kind
		}
		return rep.Issues[i].Unit < rep.Issues[j].Unit
	})

	rep.Summary = Summary{
		Assemblies: countOrigin(b.units, FromAssembly) + countOrigin(b.units, FromReference),
		ReadSets:   b.readSets,
		Amplicons:  len(rep.Amplicons),
		Distinct:   len(distinct),
		Unmatched:  unmatched,
		Issues:     make(map[IssueKind]int),
	}
	for _, is := range rep.Issues {
		rep.Summary.Issues[is.Kind]++
	}
	return rep, nil
}

// Orient aligns every amplicon to the first one and flips it to its reverse
// complement when that scores strictly higher.
func Orient(amps []Amplicon, sc align.Scoring) error {
	if len(amps) == 0 {
		return nil
	}
	anchor := seq.Sequence{ID: "anchor", Residues: amps[0].Sequence}
	for i := range amps {
		a := &amps[i]
		res, err := align.Align(anchor, seq.Sequence{ID: a.Candidate.PairID, Residues: a.Sequence}, sc, true)
		if err != nil {
			return fmt.Errorf("orienting %s on %s: %w", a.Candidate.PairID, a.Candidate.AssemblyID, err)
		}
		a.AnchorScore = res.Score
		a.Orientation = res.Orientation
		if res.Orientation == align.ReverseComplement {
			a.Sequence = seq.RevCompString(a.Sequence)
		}
	}
	return nil
}

func countOrigin(us []unit, o Origin) int {
	n := 0
	for _, u := range us {
		if u.origin == o {
			n++
		}
	}
	return n
}

func sortedKeys[V any](m map[string]V) []string {
	keys := maps.Keys(m)
	sort.Strings(keys)
	return keys
}
