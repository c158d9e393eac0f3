package fasta

import (
	"bufio"
	"io"
	"os"

	"ispcr/core/seq"
)

// DefaultWidth is the wrap width for files handed to external tools.
const DefaultWidth = 60

// WriteRecord writes one entry, wrapping the sequence at width (<= 0: no wrap).
func WriteRecord(w io.Writer, header, residues string, width int) error {
	if _, err := io.WriteString(w, ">"+header+"\n"); err != nil {
		return err
	}
	if width <= 0 {
		width = len(residues)
	}
	for off := 0; off < len(residues); off += width {
		end := off + width
		if end > len(residues) {
			end = len(residues)
		}
		if _, err := io.WriteString(w, residues[off:end]+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile writes sequences to a new file at path, one record each.
func WriteFile(path string, seqs ...seq.Sequence) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(fh)
	for _, s := range seqs {
		if err := WriteRecord(bw, s.ID, s.Residues, DefaultWidth); err != nil {
			_ = fh.Close()
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		_ = fh.Close()
		return err
	}
	return fh.Close()
}
