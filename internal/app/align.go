package app

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"ispcr/core/align"
	"ispcr/core/seq"
	"ispcr/internal/config"
	"ispcr/internal/fasta"
)

func newAlignCmd(stdout io.Writer) *cobra.Command {
	var (
		sc    align.Scoring
		tryRC bool
		width int
	)
	cmd := &cobra.Command{
		Use:   "align A B",
		Short: "Globally align two sequences (literal or first FASTA record)",
		Example: `  ispcr align GATTACA GATACA --gap -2
  ispcr align expected.fa consensus.fa --try-rc`,
		Args: usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sc.Validate(); err != nil {
				return fmt.Errorf("%w: %v", config.ErrInvalid, err)
			}
			a, err := operand(cmd, "a", args[0])
			if err != nil {
				return err
			}
			b, err := operand(cmd, "b", args[1])
			if err != nil {
				return err
			}
			res, err := align.Align(a, b, sc, tryRC)
			if err != nil {
				return fmt.Errorf("%w: %v", config.ErrInvalid, err)
			}
			inA, inB := res.Gaps()
			if _, err := fmt.Fprintf(stdout, "# score=%d identity=%.3f gaps=%d/%d orientation=%s\n",
				res.Score, res.Identity(), inA, inB, res.Orientation); err != nil {
				return err
			}
			_, err = io.WriteString(stdout, res.TwoRow(a.ID, b.ID, width))
			return err
		},
	}
	f := cmd.Flags()
	f.IntVar(&sc.Match, "match", 1, "match score (> 0)")
	f.IntVar(&sc.Mismatch, "mismatch", -1, "mismatch score")
	f.IntVar(&sc.Gap, "gap", -1, "gap score")
	f.BoolVar(&tryRC, "try-rc", false, "also try B reverse-complemented and keep the strictly better score")
	f.IntVar(&width, "width", 60, "wrap width (0 = no wrap)")
	return cmd
}

// operand reads arg as a FASTA file when one exists at that path, else as a
// literal sequence named id.
func operand(cmd *cobra.Command, id, arg string) (seq.Sequence, error) {
	if fi, err := os.Stat(arg); err == nil && !fi.IsDir() {
		recs, err := fasta.ReadAll(cmd.Context(), arg)
		if err != nil {
			return seq.Sequence{}, fmt.Errorf("%w: %v", config.ErrInvalid, err)
		}
		if len(recs) == 0 {
			return seq.Sequence{}, fmt.Errorf("%w: %s has no records", config.ErrInvalid, arg)
		}
		s, err := recs[0].Sequence()
		if err != nil {
			return seq.Sequence{}, fmt.Errorf("%w: %v", config.ErrInvalid, err)
		}
		return s, nil
	}
	s, err := seq.New(id, arg)
	if err != nil {
		return seq.Sequence{}, fmt.Errorf("%w: %v", config.ErrInvalid, err)
	}
	return s, nil
}
