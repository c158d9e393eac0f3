package writers

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"syscall"
	"testing"

	"ispcr/core/align"
	"ispcr/core/amplicon"
	"ispcr/internal/report"
	"ispcr/pkg/api"
)

func rep(n int) report.Report {
	r := report.Report{RunID: "r"}
	for i := 0; i < n; i++ {
		r.Amplicons = append(r.Amplicons, report.Amplicon{
			Origin:      report.FromAssembly,
			Candidate:   amplicon.Candidate{AssemblyID: "chr1", PairID: "p", Length: 4, OrientationValid: true},
			Sequence:    "ACGT",
			Orientation: align.Forward,
		})
	}
	return r
}

func TestUnknownFormatError(t *testing.T) {
	err := Write("nope-format", io.Discard, rep(0), Options{})
	if err == nil || !strings.Contains(err.Error(), "unknown output format") {
		t.Fatalf("want 'unknown output format' error, got: %v", err)
	}
}

func TestFormatsRegistered(t *testing.T) {
	got := strings.Join(Formats(), ",")
	if got != "align,fasta,json,jsonl,text" {
		t.Fatalf("formats: %s", got)
	}
}

func TestWriteJSONL(t *testing.T) {
	var buf bytes.Buffer
	if err := Write("jsonl", &buf, rep(3), Options{}); err != nil {
		t.Fatal(err)
	}
	sc := bufio.NewScanner(&buf)
	n := 0
	for sc.Scan() {
		var a api.AmpliconV1
		if err := json.Unmarshal(sc.Bytes(), &a); err != nil {
			t.Fatalf("line %d: %v", n+1, err)
		}
		if a.AssemblyID != "chr1" || a.Seq != "ACGT" {
			t.Fatalf("unexpected amplicon %+v", a)
		}
		n++
	}
	if n != 3 {
		t.Fatalf("want 3 lines, got %d", n)
	}
}

type failWriter struct{ err error }

func (f failWriter) Write([]byte) (int, error) { return 0, f.err }

func TestWriteJSONLSurfacesErrors(t *testing.T) {
	boom := errors.New("disk full")
	// more than the pooled buffer holds, so the failure happens mid-stream
	big := rep(2000)
	if err := Write("jsonl", failWriter{boom}, big, Options{}); !errors.Is(err, boom) {
		t.Fatalf("want disk full, got %v", err)
	}
	if err := Write("jsonl", failWriter{syscall.EPIPE}, big, Options{}); err != nil {
		t.Fatalf("broken pipe should be quiet, got %v", err)
	}
}

func TestTextHeaderToggle(t *testing.T) {
	var with, without bytes.Buffer
	if err := Write("text", &with, rep(1), Options{Header: true}); err != nil {
		t.Fatal(err)
	}
	if err := Write("text", &without, rep(1), Options{}); err != nil {
		t.Fatal(err)
	}
	if strings.Count(with.String(), "\n") != 2 || strings.Count(without.String(), "\n") != 1 {
		t.Fatalf("header toggle broken:\n%s\n--\n%s", with.String(), without.String())
	}
}

func TestBrokenPipe(t *testing.T) {
	if !brokenPipe(syscall.EPIPE) || !brokenPipe(io.ErrClosedPipe) || brokenPipe(nil) || brokenPipe(errors.New("x")) {
		t.Fatal("brokenPipe misclassifies")
	}
}

type closedPipe struct{}

func (closedPipe) Write([]byte) (int, error) { return 0, syscall.EPIPE }

func TestWriteWrapsClosedReader(t *testing.T) {
	err := Write("fasta", closedPipe{}, rep(1), Options{})
	if !errors.Is(err, ErrClosed) || !errors.Is(err, syscall.EPIPE) {
		t.Fatalf("want ErrClosed wrapping EPIPE, got %v", err)
	}
}
