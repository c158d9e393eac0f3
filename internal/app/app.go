// Package app wires the ispcr command tree.
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"ispcr/internal/config"
	"ispcr/internal/version"
	"ispcr/internal/writers"
)

// Exit codes.
const (
	exitOK       = 0
	exitUsage    = 2
	exitRuntime  = 3
	exitCanceled = 130
)

// usageError marks a command line cobra could not parse.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

// status carries a non-error exit code (the no-match code) out of a command.
type status struct{ code int }

// RunContext executes argv and returns the process exit code. stdout only
// ever receives results; diagnostics go to stderr.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	st := &status{}
	root := newRootCmd(outw, stderr, st)
	root.SetArgs(argv)

	err := root.ExecuteContext(parent)
	if ferr := outw.Flush(); err == nil && ferr != nil {
		err = ferr
	}
	if parent.Err() != nil {
		return exitCanceled
	}
	code := exitCode(parent, err)
	if err != nil && code != exitOK && code != exitCanceled {
		_, _ = fmt.Fprintln(stderr, "ispcr:", err)
		if code == exitUsage {
			_, _ = fmt.Fprintln(stderr, "Run 'ispcr --help' for usage.")
		}
	}
	if code == exitOK {
		code = st.code
	}
	return code
}

// Run is RunContext without cancellation.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func exitCode(ctx context.Context, err error) int {
	var ue usageError
	switch {
	case err == nil:
		return exitOK
	case ctx.Err() != nil || errors.Is(err, context.Canceled):
		return exitCanceled
	case errors.Is(err, writers.ErrClosed):
		return exitOK
	case errors.As(err, &ue), errors.Is(err, config.ErrInvalid):
		return exitUsage
	default:
		return exitRuntime
	}
}

func newRootCmd(stdout, stderr io.Writer, st *status) *cobra.Command {
	var configFile, envFile string
	root := &cobra.Command{
		Use:   "ispcr [flags] [assembly.fa ...]",
		Short: "In-silico PCR over assemblies and mapped reads",
		Long: `Predict PCR products of a primer panel on genome assemblies.

Primer binding sites come from blastn (or the in-process scan backend),
and are paired into amplicons inside a size window. With --reference and
--reads or --sam, reads are mapped, a consensus is called, and that
consensus is searched too. Every amplicon is oriented against the first
one reported.`,
		Example: `  ispcr -p panel.tsv genomes/*.fa
  ispcr --forward AGAGTTTGATCMTGGCTCAG --reverse GGTTACCTTGTTACGACTT --backend scan asm.fa
  ispcr -p panel.tsv -r ref.fa --reads 'reads/*_[12].fastq.gz' -o json`,
		Version:       version.Version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError{err} })
	root.PersistentFlags().StringVar(&configFile, "config", "", "settings file (YAML, TOML or JSON)")
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file with ISPCR_* overrides")

	runE := func(mode runMode) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags(), configFile, envFile)
			if err != nil {
				return err
			}
			cfg.Assemblies = append(cfg.Assemblies, args...)
			code, err := execute(cmd.Context(), cfg, mode, stdout, stderr)
			st.code = code
			return err
		}
	}

	config.RegisterFlags(root.Flags())
	root.RunE = runE(modeRun)

	run := &cobra.Command{
		Use:   "run [flags] [assembly.fa ...]",
		Short: "Search assemblies, reference and read consensus (the default)",
		Args:  cobra.ArbitraryArgs,
		RunE:  runE(modeRun),
	}
	config.RegisterFlags(run.Flags())

	cons := &cobra.Command{
		Use:   "consensus -r ref.fa (--reads ... | --sam ...)",
		Short: "Map read sets and compare their consensus to the expected amplicons",
		Args:  usageArgs(cobra.NoArgs),
		RunE:  runE(modeConsensus),
	}
	config.RegisterFlags(cons.Flags())
	out := cons.Flags().Lookup("output")
	_ = out.Value.Set(writers.FormatAlign)
	out.DefValue = writers.FormatAlign

	root.AddCommand(run, cons, newAlignCmd(stdout), &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(stdout, "ispcr version %s\n", version.Version)
			return err
		},
	})
	return root
}
