// internal/output/fasta.go
package output

import (
	"fmt"
	"io"

	"ispcr/internal/report"
)

// WriteFASTA writes one record per amplicon, sequence on a single line.
func WriteFASTA(w io.Writer, list []report.Amplicon) error {
	for i, a := range list {
		if a.Sequence == "" {
			continue
		}
		c := a.Candidate
		if _, err := fmt.Fprintf(
			w,
			">%s_%d %s:%d-%d len=%d orientation=%s origin=%s source_file=%s\n%s\n",
			c.PairID, i+1, c.AssemblyID, c.Start()+1, c.End(), c.Length, a.Orientation, a.Origin, a.Source, a.Sequence,
		); err != nil {
			return err
		}
	}
	return nil
}
