// internal/output/api.go
package output

import (
	"ispcr/internal/report"
	"ispcr/pkg/api"
)

// ToAPIAmplicon converts a reported amplicon to the stable wire schema (v1).
func ToAPIAmplicon(a report.Amplicon) api.AmpliconV1 {
	c := a.Candidate
	return api.AmpliconV1{
		PairID:           c.PairID,
		AssemblyID:       c.AssemblyID,
		Origin:           string(a.Origin),
		Start:            c.Start(),
		End:              c.End(),
		Length:           c.Length,
		ForwardPrimer:    c.Forward.PrimerID,
		ReversePrimer:    c.Reverse.PrimerID,
		FwdQuality:       c.Forward.Quality,
		RevQuality:       c.Reverse.Quality,
		FwdMM:            c.Forward.Mismatches,
		RevMM:            c.Reverse.Mismatches,
		OrientationValid: c.OrientationValid,
		Orientation:      string(a.Orientation),
		AnchorScore:      a.AnchorScore,
		Seq:              a.Sequence,
		Seqhash:          a.Hash,
		SourceFile:       a.Source,
	}
}

func toAPIRegion(r report.Region) api.RegionV1 {
	aln := r.Alignment
	return api.RegionV1{
		Sample:     r.Sample,
		PairID:     r.Expected.PairID,
		AssemblyID: r.Expected.AssemblyID,
		Start:      r.Consensus.Start,
		End:        r.Consensus.End,
		Consensus:  r.Consensus.Seq,
		Support:    append([]int(nil), r.Consensus.Support...),
		Reads:      r.Consensus.Reads,
		Alignment: api.AlignmentV1{
			Score:       aln.Score,
			A:           aln.A,
			B:           aln.B,
			Orientation: string(aln.Orientation),
			Identity:    aln.Identity(),
		},
	}
}

func toAPIConsensus(c report.Consensus) api.ConsensusV1 {
	v := api.ConsensusV1{
		Sample:           c.Sample,
		RefID:            c.RefID,
		Length:           c.Length,
		Covered:          c.Covered,
		Reads:            c.Reads,
		Unmapped:         c.Unmapped,
		ExcludedImproper: c.ExcludedImproper,
		Skipped:          c.Skipped,
		Orphans:          c.Orphans,
	}
	for _, g := range c.Gaps {
		v.Gaps = append(v.Gaps, api.SpanV1{Start: g.Start, End: g.End})
	}
	return v
}

// ToAPIReport converts the whole run.
func ToAPIReport(rep report.Report) api.ReportV1 {
	v := api.ReportV1{
		RunID:     rep.RunID,
		Amplicons: make([]api.AmpliconV1, 0, len(rep.Amplicons)),
		Summary: api.SummaryV1{
			Assemblies: rep.Summary.Assemblies,
			ReadSets:   rep.Summary.ReadSets,
			Amplicons:  rep.Summary.Amplicons,
			Distinct:   rep.Summary.Distinct,
			Unmatched:  append([]string(nil), rep.Summary.Unmatched...),
		},
	}
	for _, a := range rep.Amplicons {
		v.Amplicons = append(v.Amplicons, ToAPIAmplicon(a))
	}
	for _, r := range rep.Regions {
		v.Regions = append(v.Regions, toAPIRegion(r))
	}
	for _, c := range rep.Consensus {
		v.Consensus = append(v.Consensus, toAPIConsensus(c))
	}
	for _, is := range rep.Issues {
		v.Issues = append(v.Issues, api.IssueV1{Kind: string(is.Kind), Unit: is.Unit, Message: is.Message})
	}
	if len(rep.Summary.Issues) > 0 {
		v.Summary.Issues = make(map[string]int, len(rep.Summary.Issues))
		for k, n := range rep.Summary.Issues {
			v.Summary.Issues[string(k)] = n
		}
	}
	return v
}
