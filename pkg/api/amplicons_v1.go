// pkg/api/amplicons_v1.go
package api

// AmpliconV1 is the stable JSON/JSONL schema for one reported amplicon.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type AmpliconV1 struct {
	PairID           string  `json:"pair_id"`
	AssemblyID       string  `json:"assembly_id"`
	Origin           string  `json:"origin"` // "assembly" | "consensus" | "reference"
	Start            int     `json:"start"`
	End              int     `json:"end"`
	Length           int     `json:"length"`
	ForwardPrimer    string  `json:"fwd_primer"`
	ReversePrimer    string  `json:"rev_primer"`
	FwdQuality       float64 `json:"fwd_quality"` // -1 when unknown
	RevQuality       float64 `json:"rev_quality"`
	FwdMM            int     `json:"fwd_mm,omitempty"`
	RevMM            int     `json:"rev_mm,omitempty"`
	OrientationValid bool    `json:"orientation_valid"`
	Orientation      string  `json:"orientation"` // "forward" | "reverse_complement"
	AnchorScore      int     `json:"anchor_score"`
	Seq              string  `json:"seq,omitempty"`
	Seqhash          string  `json:"seqhash,omitempty"`
	SourceFile       string  `json:"source_file,omitempty"`
}
