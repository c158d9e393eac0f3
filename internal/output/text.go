// internal/output/text.go
package output

import (
	"fmt"
	"io"
	"strconv"

	"ispcr/internal/report"
)

func quality(q float64) string {
	if q < 0 {
		return "NA"
	}
	return strconv.FormatFloat(q, 'f', -1, 64)
}

// FormatRowTSV returns the TSVHeader columns for one amplicon (no newline).
func FormatRowTSV(a report.Amplicon) string {
	c := a.Candidate
	return fmt.Sprintf("%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\t%s\t%s\t%s\t%s\t%d\t%s",
		a.Source, a.Origin, c.AssemblyID, c.PairID,
		c.Start(), c.End(), c.Length,
		c.Forward.PrimerID, c.Reverse.PrimerID,
		quality(c.Forward.Quality), quality(c.Reverse.Quality),
		a.Orientation, a.AnchorScore, a.Sequence,
	)
}

// WriteTSV writes amplicons as a tab-delimited table.
func WriteTSV(w io.Writer, list []report.Amplicon, header bool) error {
	if header {
		if _, err := fmt.Fprintln(w, TSVHeader); err != nil {
			return err
		}
	}
	for _, a := range list {
		if _, err := fmt.Fprintln(w, FormatRowTSV(a)); err != nil {
			return err
		}
	}
	return nil
}

// WriteAlignments prints each region call as a titled two-row block.
func WriteAlignments(w io.Writer, regions []report.Region, width int) error {
	for i, r := range regions {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		aln := r.Alignment
		if _, err := fmt.Fprintf(w, "# %s %s %s:%d-%d score=%d identity=%.3f reads=%d\n",
			r.Sample, r.Expected.PairID, r.Expected.AssemblyID, r.Consensus.Start, r.Consensus.End,
			aln.Score, aln.Identity(), r.Consensus.Reads); err != nil {
			return err
		}
		if _, err := io.WriteString(w, aln.TwoRow("expected", r.Sample, width)); err != nil {
			return err
		}
	}
	return nil
}
