package config

import "github.com/spf13/pflag"

// RegisterFlags declares every run setting on fs with its default. The
// defaults are the only place scoring and size defaults exist.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP("primers", "p", "", "primer panel: TSV (id fwd rev [min] [max]) or FASTA")
	fs.String("forward", "", "forward primer sequence (instead of --primers)")
	fs.String("reverse", "", "reverse primer sequence (with --forward; empty tests one primer)")
	fs.Bool("self", false, "also test each primer priming off its own reverse-complement sites")

	fs.StringSliceP("assemblies", "a", nil, "assembly FASTA files or globs (also taken from positionals)")
	fs.StringP("reference", "r", "", "reference FASTA; searched, and the mapping target for reads")
	fs.StringSlice("reads", nil, "paired FASTQ files named <sample>_<n>.fastq[.gz] (globs allowed)")
	fs.StringSlice("sam", nil, "pre-mapped SAM files, one read set each")

	fs.Int("min-size", 1, "minimum amplicon length")
	fs.Int("max-size", 2000, "maximum amplicon length")
	fs.Float64("min-quality", 0, "drop hits below this percent identity (0 keeps all)")
	fs.Bool("full-length", true, "keep only hits aligned over the whole primer")

	fs.Int("match", 1, "alignment match score (> 0)")
	fs.Int("mismatch", -1, "alignment mismatch score")
	fs.Int("gap", -1, "alignment gap score")

	fs.String("backend", "blastn", "primer search backend: blastn | scan")
	fs.String("blastn", "blastn", "blastn executable")
	fs.Int("word-size", 6, "blastn word size")
	fs.Int("mismatches", 0, "scan backend: mismatches allowed per primer")
	fs.Int("terminal-window", 0, "scan backend: 3' bases that must match (0 disables)")
	fs.Int("hit-cap", 0, "scan backend: max sites per primer and strand (0 = unlimited)")
	fs.String("minimap2", "minimap2", "minimap2 executable")
	fs.String("tmp-dir", "", "directory for collaborator scratch files")

	fs.IntP("threads", "t", 0, "worker goroutines (0 = all CPUs)")
	fs.StringP("output", "o", "text", "output format: text | json | jsonl | fasta | align")
	fs.Bool("header", true, "print a header row in text output")
	fs.Int("align-width", 60, "wrap width for align output (0 = no wrap)")
	fs.Bool("include-invalid", false, "report products whose primers bind against their roles")
	fs.Bool("no-orient", false, "skip orienting amplicons against the first one")
	fs.BoolP("quiet", "q", false, "suppress warnings and the summary")
	fs.BoolP("verbose", "v", false, "debug logging")
	fs.Int("no-match-exit-code", 1, "exit code when no amplicon is reported")
}
