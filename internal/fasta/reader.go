// Package fasta reads and writes FASTA for the command layer. Records are
// converted to validated seq.Sequence values before they reach the core.
package fasta

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"ispcr/core/seq"
)

// Record is one parsed FASTA entry. ID is the header up to the first blank.
type Record struct {
	ID          string
	Description string
	Seq         []byte
}

// Sequence validates the record into a core sequence.
func (r Record) Sequence() (seq.Sequence, error) {
	return seq.New(r.ID, string(r.Seq))
}

// StreamCtx parses FASTA from r and calls emit once per record. It returns
// promptly with ctx.Err() when ctx is done, even mid-record.
func StreamCtx(ctx context.Context, r io.Reader, emit func(Record) error) error {
	sc := bufio.NewScanner(r)
	const maxLine = 64 * 1024 * 1024 // single-line chromosomes
	sc.Buffer(make([]byte, 64*1024), maxLine)

	var (
		rec  Record
		open bool
	)
	flush := func() error {
		if !open {
			return nil
		}
		out := rec
		out.Seq = append([]byte(nil), rec.Seq...)
		return emit(out)
	}

	for sc.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		switch line[0] {
		case '>':
			if err := flush(); err != nil {
				return err
			}
			rec.ID, rec.Description = parseHeader(line[1:])
			rec.Seq = rec.Seq[:0]
			open = true
		case ';':
		default:
			if !open {
				return fmt.Errorf("fasta: sequence data before first header")
			}
			rec.Seq = append(rec.Seq, bytes.TrimSpace(line)...)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("fasta scan: %w", err)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	return flush()
}

// StreamPathCtx opens path (gzip and "-" aware) and streams its records.
func StreamPathCtx(ctx context.Context, path string, emit func(Record) error) error {
	rc, err := Open(path)
	if err != nil {
		return err
	}
	defer rc.Close()
	if err := StreamCtx(ctx, rc, emit); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// ReadAll collects every record in path.
func ReadAll(ctx context.Context, path string) ([]Record, error) {
	var out []Record
	err := StreamPathCtx(ctx, path, func(r Record) error {
		out = append(out, r)
		return nil
	})
	return out, err
}

func parseHeader(hdr []byte) (id, desc string) {
	hdr = bytes.TrimSpace(hdr)
	if i := bytes.IndexAny(hdr, " \t"); i >= 0 {
		return string(hdr[:i]), string(bytes.TrimSpace(hdr[i+1:]))
	}
	return string(hdr), ""
}
