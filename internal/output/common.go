package output

// TSVHeader is the canonical header row for text/TSV outputs.
// Keep this as the single source of truth; all writers should use it.
const TSVHeader = "source_file\torigin\tassembly_id\tpair_id\tstart\tend\tlength\tfwd_primer\trev_primer\tfwd_quality\trev_quality\torientation\tanchor_score\tseq"

const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
	FormatFASTA = "fasta"
)
