package report

import (
	"context"
	"errors"
	"fmt"

	"ispcr/core/amplicon"
	"ispcr/internal/pipeline"
	"ispcr/internal/runutil"
)

// IssueKind classifies a per-unit problem. None of them stops a run.
type IssueKind string

const (
	NoHits               IssueKind = "no_hits"
	AmbiguousPairing     IssueKind = "ambiguous_pairing"
	IncompletePairedData IssueKind = "incomplete_paired_data"
	CollaboratorError    IssueKind = "collaborator_error"
	InvalidInput         IssueKind = "invalid_input"
)

// Issue is one reportable problem tied to the unit it concerns: an
// assembly, a read set, or a primer.
type Issue struct {
	Kind    IssueKind
	Unit    string
	Message string
}

// classify maps a unit error to its kind; bad files and records are
// invalid input. ok is false for cancellation, which is not a per-unit problem.
func classify(err error) (kind IssueKind, ok bool) {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "", false
	case errors.Is(err, runutil.ErrCollaborator):
		return CollaboratorError, true
	case errors.Is(err, pipeline.ErrNoMappedReads):
		return IncompletePairedData, true
	}
	return InvalidInput, true
}

// resultIssues derives the non-fatal findings of one resolved unit.
func resultIssues(unit string, res amplicon.Result, pairs map[string][2]string) []Issue {
	var out []Issue
	valid := 0
	for _, c := range res.Candidates {
		if c.OrientationValid {
			valid++
		}
	}
	if valid == 0 {
		out = append(out, Issue{Kind: NoHits, Unit: unit, Message: "no amplicon within the size window"})
	}
	for _, a := range res.Ambiguities {
		out = append(out, Issue{
			Kind:    AmbiguousPairing,
			Unit:    unit,
			Message: fmt.Sprintf("%s/%s produced %d products", a.ForwardPrimer, a.ReversePrimer, a.Candidates),
		})
	}
	if len(pairs) > 0 {
		missing := make(map[string]bool, len(res.Unmatched))
		for _, id := range res.Unmatched {
			missing[id] = true
		}
		for _, id := range sortedKeys(pairs) {
			ends := pairs[id]
			if missing[ends[0]] != missing[ends[1]] {
				lost := ends[0]
				if missing[ends[1]] {
					lost = ends[1]
				}
				out = append(out, Issue{Kind: IncompletePairedData, Unit: unit, Message: fmt.Sprintf("pair %s: %s has no binding site", id, lost)})
			}
		}
	}
	return out
}
