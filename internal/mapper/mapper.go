// Package mapper produces core/consensus reads from paired short-read files,
// either by running minimap2 or by reading a precomputed SAM file.
package mapper

import (
	"context"
	"fmt"
	"io"

	"github.com/biogo/hts/sam"

	"ispcr/core/consensus"
)

// ReadSet is one sample's input: two FASTQ mates, or a single SAM file.
type ReadSet struct {
	Sample string
	Files  []string
}

// Stats counts SAM records dropped before they reach the consensus.
type Stats struct {
	Records  int
	Unmapped int
}

// Mapper aligns a read set to the reference FASTA at refPath.
type Mapper interface {
	Name() string
	Map(ctx context.Context, refPath string, rs ReadSet) ([]consensus.Read, Stats, error)
}

// Decode reads SAM text and converts every mapped record. Unmapped records
// (flag 0x4) are dropped and counted.
func Decode(ctx context.Context, r io.Reader) ([]consensus.Read, Stats, error) {
	var st Stats
	sr, err := sam.NewReader(r)
	if err != nil {
		return nil, st, fmt.Errorf("sam header: %w", err)
	}
	var out []consensus.Read
	for {
		if st.Records%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, st, err
			}
		}
		rec, err := sr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, st, fmt.Errorf("sam record %d: %w", st.Records+1, err)
		}
		st.Records++
		if rec.Flags&sam.Unmapped != 0 || rec.Ref == nil {
			st.Unmapped++
			continue
		}
		out = append(out, convert(rec))
	}
	return out, st, nil
}

func convert(rec *sam.Record) consensus.Read {
	ops := make([]consensus.CigarOp, 0, len(rec.Cigar))
	for _, co := range rec.Cigar {
		ops = append(ops, consensus.CigarOp{Op: co.Type().String()[0], Len: co.Len()})
	}
	return consensus.Read{
		Name:  rec.Name,
		RefID: rec.Ref.Name(),
		Pos:   rec.Pos,
		Cigar: ops,
		Seq:   string(rec.Seq.Expand()),
		Flags: consensus.Flag(rec.Flags),
	}
}
