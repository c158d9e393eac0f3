// pkg/api/report_v1.go
package api

// AlignmentV1 is a global alignment in two gapped rows.
type AlignmentV1 struct {
	Score       int     `json:"score"`
	A           string  `json:"a"`
	B           string  `json:"b"`
	Orientation string  `json:"orientation"`
	Identity    float64 `json:"identity"`
}

// RegionV1 is a read consensus over one expected amplicon.
type RegionV1 struct {
	Sample     string      `json:"sample"`
	PairID     string      `json:"pair_id"`
	AssemblyID string      `json:"assembly_id"`
	Start      int         `json:"start"`
	End        int         `json:"end"`
	Consensus  string      `json:"consensus"`
	Support    []int       `json:"support,omitempty"`
	Reads      int         `json:"reads"`
	Alignment  AlignmentV1 `json:"alignment"`
}

// SpanV1 is a half-open interval with no read coverage.
type SpanV1 struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// ConsensusV1 summarizes a read set's best whole-record consensus.
type ConsensusV1 struct {
	Sample           string   `json:"sample"`
	RefID            string   `json:"ref_id"`
	Length           int      `json:"length"`
	Covered          float64  `json:"covered"`
	Reads            int      `json:"reads"`
	Unmapped         int      `json:"unmapped"`
	ExcludedImproper int      `json:"excluded_improper"`
	Skipped          int      `json:"skipped"`
	Orphans          int      `json:"orphans"`
	Gaps             []SpanV1 `json:"gaps,omitempty"`
}

type IssueV1 struct {
	Kind    string `json:"kind"`
	Unit    string `json:"unit"`
	Message string `json:"message"`
}

type SummaryV1 struct {
	Assemblies int            `json:"assemblies"`
	ReadSets   int            `json:"read_sets"`
	Amplicons  int            `json:"amplicons"`
	Distinct   int            `json:"distinct"`
	Unmatched  []string       `json:"unmatched,omitempty"`
	Issues     map[string]int `json:"issues,omitempty"`
}

// ReportV1 is the whole-run document written by the json format.
type ReportV1 struct {
	RunID     string        `json:"run_id"`
	Amplicons []AmpliconV1  `json:"amplicons"`
	Regions   []RegionV1    `json:"regions,omitempty"`
	Consensus []ConsensusV1 `json:"consensus,omitempty"`
	Issues    []IssueV1     `json:"issues,omitempty"`
	Summary   SummaryV1     `json:"summary"`
}
