package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"ispcr/core/align"
	"ispcr/core/amplicon"
	"ispcr/core/consensus"
	"ispcr/core/hit"
	"ispcr/internal/pipeline"
	"ispcr/internal/report"
	"ispcr/pkg/api"
)

func sample() report.Report {
	c := amplicon.Candidate{
		AssemblyID:       "chr1",
		PairID:           "p",
		Forward:          hit.PrimerHit{PrimerID: "p_F", AssemblyID: "chr1", Start: 10, End: 14, Strand: hit.Plus, Quality: 100},
		Reverse:          hit.PrimerHit{PrimerID: "p_R", AssemblyID: "chr1", Start: 16, End: 20, Strand: hit.Minus, Quality: hit.UnknownQuality},
		Sequence:         "ACGTACGTAC",
		Length:           10,
		OrientationValid: true,
	}
	return report.Report{
		RunID: "run-1",
		Amplicons: []report.Amplicon{{
			Origin: report.FromAssembly, Source: "a.fa", Candidate: c,
			Sequence: "ACGTACGTAC", Orientation: align.Forward, AnchorScore: 10, Hash: "v1_DCD_x",
		}},
		Regions: []report.Region{{
			Sample: "s1",
			RegionCall: pipeline.RegionCall{
				Expected:  c,
				Consensus: consensus.Consensus{RefID: "chr1", Start: 10, End: 20, Seq: "ACGTNCGTAC", Reads: 3},
				Alignment: align.Result{Score: 8, A: "ACGTACGTAC", B: "ACGTNCGTAC", Orientation: align.Forward},
			},
		}},
		Issues:  []report.Issue{{Kind: report.NoHits, Unit: "chr2", Message: "no amplicon within the size window"}},
		Summary: report.Summary{Assemblies: 2, Amplicons: 1, Distinct: 1, Issues: map[report.IssueKind]int{report.NoHits: 1}},
	}
}

func TestTSVHeader_Stable(t *testing.T) {
	const want = "source_file\torigin\tassembly_id\tpair_id\tstart\tend\tlength\tfwd_primer\trev_primer\tfwd_quality\trev_quality\torientation\tanchor_score\tseq"
	if TSVHeader != want {
		t.Fatalf("TSVHeader changed:\n got:  %q\n want: %q", TSVHeader, want)
	}
}

func TestFormats_Stable(t *testing.T) {
	if FormatText != "text" || FormatJSON != "json" || FormatJSONL != "jsonl" || FormatFASTA != "fasta" {
		t.Fatalf("output format constants changed")
	}
}

func TestWriteTSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTSV(&buf, sample().Amplicons, true); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || lines[0] != TSVHeader {
		t.Fatalf("unexpected TSV:\n%s", buf.String())
	}
	want := "a.fa\tassembly\tchr1\tp\t10\t20\t10\tp_F\tp_R\t100\tNA\tforward\t10\tACGTACGTAC"
	if lines[1] != want {
		t.Fatalf("row:\n got  %q\n want %q", lines[1], want)
	}
}

func TestWriteFASTA(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFASTA(&buf, sample().Amplicons); err != nil {
		t.Fatal(err)
	}
	want := ">p_1 chr1:11-20 len=10 orientation=forward origin=assembly source_file=a.fa\nACGTACGTAC\n"
	if buf.String() != want {
		t.Fatalf("got %q", buf.String())
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sample()); err != nil {
		t.Fatal(err)
	}
	var got api.ReportV1
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.RunID != "run-1" || len(got.Amplicons) != 1 || got.Amplicons[0].RevQuality != -1 {
		t.Fatalf("unexpected report: %+v", got)
	}
	if got.Regions[0].Alignment.B != "ACGTNCGTAC" || got.Summary.Issues["no_hits"] != 1 {
		t.Fatalf("unexpected regions/summary: %+v", got)
	}
	if !strings.Contains(buf.String(), "\n  \"amplicons\"") {
		t.Fatalf("expected indented JSON")
	}

	rep := sample()
	rep.Amplicons[0].Candidate.AssemblyID = "F<1>&R"
	buf.Reset()
	if err := WriteJSON(&buf, rep); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"F<1>&R"`) {
		t.Fatalf("ids must not be HTML-escaped:\n%s", buf.String())
	}
}

func TestWriteAlignments(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteAlignments(&buf, sample().Regions, 0); err != nil {
		t.Fatal(err)
	}
	want := "# s1 p chr1:10-20 score=8 identity=0.900 reads=3\n" +
		"expected  ACGTACGTAC\n" +
		"s1        ACGTNCGTAC\n"
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummary(&buf, sample()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "run run-1: 2 assemblies, 0 read sets, 1 amplicons (1 distinct)\n") {
		t.Fatalf("summary head: %q", out)
	}
	if !strings.Contains(out, "no_hits\tchr2\t") {
		t.Fatalf("missing issue line: %q", out)
	}
}
