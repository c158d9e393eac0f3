package fasta

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ispcr/core/seq"
)

const plain = `>seq1 first record
ACGT
ac
>seq2
NNnn
`

func writeGz(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.fa.gz")
	fh, err := os.Create(path)
	if err != nil {
		t.Fatalf("tmp: %v", err)
	}
	gw := gzip.NewWriter(fh)
	if _, err := gw.Write([]byte(data)); err != nil {
		t.Fatalf("write gz: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}
	if err := fh.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}
	return path
}

func TestReadAllGzip(t *testing.T) {
	recs, err := ReadAll(context.Background(), writeGz(t, plain))
	if err != nil {
		t.Fatalf("read gz: %v", err)
	}
	if len(recs) != 2 || recs[0].ID != "seq1" || recs[1].ID != "seq2" {
		t.Fatalf("gzip parse failed: %+v", recs)
	}
	if recs[0].Description != "first record" || string(recs[0].Seq) != "ACGTac" {
		t.Fatalf("unexpected first record: %+v", recs[0])
	}
	s, err := recs[0].Sequence()
	if err != nil || s.Residues != "ACGTAC" {
		t.Fatalf("Sequence() = %+v, %v", s, err)
	}
}

func TestStreamStdin(t *testing.T) {
	orig := os.Stdin
	r, w, _ := os.Pipe()
	os.Stdin = r
	defer func() { os.Stdin = orig }()

	go func() {
		_, _ = io.WriteString(w, plain)
		_ = w.Close()
	}()

	recs, err := ReadAll(context.Background(), "-")
	if err != nil {
		t.Fatalf("stdin: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records from stdin, got %d", len(recs))
	}
}

func TestGzipDetectedByContent(t *testing.T) {
	gz := writeGz(t, plain)
	data, err := os.ReadFile(gz)
	if err != nil {
		t.Fatal(err)
	}
	bare := filepath.Join(t.TempDir(), "asm.fasta")
	if err := os.WriteFile(bare, data, 0o644); err != nil {
		t.Fatal(err)
	}
	recs, err := ReadAll(context.Background(), bare)
	if err != nil || len(recs) != 2 {
		t.Fatalf("unsuffixed gzip: %d records, %v", len(recs), err)
	}

	orig := os.Stdin
	r, w, _ := os.Pipe()
	os.Stdin = r
	defer func() { os.Stdin = orig }()
	go func() {
		_, _ = w.Write(data)
		_ = w.Close()
	}()
	recs, err = ReadAll(context.Background(), "-")
	if err != nil || len(recs) != 2 {
		t.Fatalf("gzip on stdin: %d records, %v", len(recs), err)
	}
}

func TestStreamCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n := 0
	err := StreamCtx(ctx, strings.NewReader(plain), func(Record) error { n++; return nil })
	if !errors.Is(err, context.Canceled) || n != 0 {
		t.Fatalf("want canceled with no records, got n=%d err=%v", n, err)
	}
}

func TestStreamRejectsHeaderless(t *testing.T) {
	err := StreamCtx(context.Background(), strings.NewReader("ACGT\n>x\nA\n"), func(Record) error { return nil })
	if err == nil {
		t.Fatal("expected error for data before header")
	}
}

func TestWriteRecordWraps(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRecord(&buf, "x desc", "ACGTACGTAC", 4); err != nil {
		t.Fatal(err)
	}
	if want := ">x desc\nACGT\nACGT\nAC\n"; buf.String() != want {
		t.Fatalf("got %q want %q", buf.String(), want)
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.fa")
	in := []seq.Sequence{seq.MustNew("a", strings.Repeat("ACGT", 40)), seq.MustNew("b", "GG")}
	if err := WriteFile(path, in...); err != nil {
		t.Fatal(err)
	}
	recs, err := ReadAll(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	for i, r := range recs {
		if r.ID != in[i].ID || string(r.Seq) != in[i].Residues {
			t.Fatalf("record %d mismatch: %+v", i, r)
		}
	}
}
