package search

import (
	"bytes"
	"context"
	"fmt"

	"ispcr/core/primer"
	"ispcr/core/seq"
)

// Scan finds binding sites in process with a mismatch-tolerant sliding
// window over both strands. It is exhaustive, so keep MaxMismatches small.
type Scan struct {
	MaxMismatches  int
	TerminalWindow int // 3' bases that must match; 0 allows mismatches anywhere
	HitCap         int // per primer and strand; 0 is unlimited
}

func (s *Scan) Name() string { return BackendScan }

// Search emits one BLAST-style row per site. Minus-strand sites are written
// with sstart > send as blastn does.
func (s *Scan) Search(ctx context.Context, primers []primer.Primer, assembly seq.Sequence) ([]byte, error) {
	o := primer.SiteOptions{MaxMismatches: s.MaxMismatches, TerminalWindow: s.TerminalWindow, Cap: s.HitCap}
	var buf bytes.Buffer
	for _, p := range primers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, site := range p.Sites(assembly, o) {
			sstart, send := site.Start+1, site.End
			if site.Minus {
				sstart, send = send, sstart
			}
			row(&buf, p.ID, assembly.ID, site, sstart, send)
		}
	}
	return buf.Bytes(), nil
}

// qseqid sseqid pident length mismatch gapopen qstart qend sstart send evalue bitscore qlen
func row(buf *bytes.Buffer, qid, sid string, site primer.Site, sstart, send int) {
	n := site.Len()
	pident := 100 * float64(n-site.Mismatches) / float64(n)
	bits := float64(n - 2*site.Mismatches)
	fmt.Fprintf(buf, "%s\t%s\t%.3f\t%d\t%d\t0\t1\t%d\t%d\t%d\t0\t%.1f\t%d\n",
		qid, sid, pident, n, site.Mismatches, n, sstart, send, bits, n)
}
