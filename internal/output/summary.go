package output

import (
	"fmt"
	"io"
	"strings"

	"ispcr/internal/report"
)

// WriteSummary prints the human-readable run summary (stderr in the CLI).
func WriteSummary(w io.Writer, rep report.Report) error {
	s := rep.Summary
	var b strings.Builder
	fmt.Fprintf(&b, "run %s: %d assemblies, %d read sets, %d amplicons (%d distinct)\n",
		rep.RunID, s.Assemblies, s.ReadSets, s.Amplicons, s.Distinct)
	for _, c := range rep.Consensus {
		fmt.Fprintf(&b, "consensus %s on %s: %.1f%% covered, %d reads, %d improper pairs excluded, %d skipped, %d unmapped\n",
			c.Sample, c.RefID, 100*c.Covered, c.Reads, c.ExcludedImproper, c.Skipped, c.Unmapped)
	}
	if len(s.Unmatched) > 0 {
		fmt.Fprintf(&b, "unmatched primers: %s\n", strings.Join(s.Unmatched, ", "))
	}
	for _, is := range rep.Issues {
		fmt.Fprintf(&b, "%s\t%s\t%s\n", is.Kind, is.Unit, is.Message)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
