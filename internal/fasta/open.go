package fasta

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
)

var gzipMagic = []byte{0x1f, 0x8b}

type readCloser struct {
	io.Reader
	close func() error
}

func (r readCloser) Close() error { return r.close() }

// Open returns a reader for path; "-" is stdin. Gzip is recognised by its
// magic bytes rather than the file name, so compressed stdin and pipes work.
func Open(path string) (io.ReadCloser, error) {
	src := io.ReadCloser(io.NopCloser(os.Stdin))
	if path != "-" {
		fh, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		src = fh
	}
	rc, err := decompress(src)
	if err != nil {
		_ = src.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rc, nil
}

func decompress(src io.ReadCloser) (io.ReadCloser, error) {
	br := bufio.NewReaderSize(src, 1<<16)
	if magic, _ := br.Peek(len(gzipMagic)); !bytes.Equal(magic, gzipMagic) {
		return readCloser{Reader: br, close: src.Close}, nil
	}
	gr, err := gzip.NewReader(br)
	if err != nil {
		return nil, err
	}
	return readCloser{Reader: gr, close: func() error { return errors.Join(gr.Close(), src.Close()) }}, nil
}
