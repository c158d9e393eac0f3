package mapper

import (
	"context"
	"fmt"

	"ispcr/core/consensus"
	"ispcr/internal/fasta"
	"ispcr/internal/runutil"
)

// SAMFile reads alignments that were mapped beforehand. The read set's single
// file is the SAM (optionally gzipped); refPath is not used.
type SAMFile struct{}

func (SAMFile) Name() string { return "sam" }

func (s SAMFile) Map(ctx context.Context, _ string, rs ReadSet) ([]consensus.Read, Stats, error) {
	if len(rs.Files) != 1 {
		return nil, Stats{}, fmt.Errorf("read set %s: want 1 SAM file, have %d", rs.Sample, len(rs.Files))
	}
	rc, err := fasta.Open(rs.Files[0])
	if err != nil {
		return nil, Stats{}, err
	}
	defer rc.Close()
	reads, st, err := Decode(ctx, rc)
	if err != nil && ctx.Err() == nil {
		err = runutil.Collaborator(s.Name(), rs.Sample, err)
	}
	return reads, st, err
}
