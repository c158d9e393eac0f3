package search

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"ispcr/core/primer"
	"ispcr/core/seq"
	"ispcr/internal/fasta"
	"ispcr/internal/runutil"
)

// Blastn shells out to NCBI blastn in short-query mode.
type Blastn struct {
	Path     string // default "blastn"
	WordSize int    // default 6
	TempDir  string
}

func (b *Blastn) Name() string { return BackendBlastn }

// Args returns the blastn argument list for the given query and subject files.
func (b *Blastn) Args(query, subject string) []string {
	ws := b.WordSize
	if ws <= 0 {
		ws = 6
	}
	return []string{
		"-query", query,
		"-subject", subject,
		"-task", "blastn-short",
		"-word_size", strconv.Itoa(ws),
		"-penalty", "-2",
		"-outfmt", "6 std qlen",
	}
}

func (b *Blastn) Search(ctx context.Context, primers []primer.Primer, assembly seq.Sequence) ([]byte, error) {
	path := b.Path
	if path == "" {
		path = "blastn"
	}
	dir, err := os.MkdirTemp(b.TempDir, "ispcr-blastn-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	query := filepath.Join(dir, "primers.fa")
	subject := filepath.Join(dir, "assembly.fa")
	qs := make([]seq.Sequence, 0, len(primers))
	for _, p := range primers {
		qs = append(qs, p.Sequence)
	}
	if err := fasta.WriteFile(query, qs...); err != nil {
		return nil, err
	}
	if err := fasta.WriteFile(subject, assembly); err != nil {
		return nil, err
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, b.Args(query, subject)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return nil, runutil.Collaborator(BackendBlastn, assembly.ID, err)
	}
	return subjectAs(stdout.Bytes(), assembly.ID), nil
}

// subjectAs sets the subject column of every hit row to id. blastn may
// rewrite a defline (lcl| prefixes, truncation) and each call searches one
// subject, so the column carries no other information.
func subjectAs(raw []byte, id string) []byte {
	var out bytes.Buffer
	out.Grow(len(raw))
	for _, line := range bytes.SplitAfter(raw, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		if line[0] == '#' {
			out.Write(line)
			continue
		}
		first := bytes.IndexByte(line, '\t')
		if first < 0 {
			out.Write(line)
			continue
		}
		out.Write(line[:first+1])
		out.WriteString(id)
		if second := bytes.IndexByte(line[first+1:], '\t'); second >= 0 {
			out.Write(line[first+1+second:])
		} else if bytes.HasSuffix(line, []byte("\n")) {
			out.WriteByte('\n')
		}
	}
	return out.Bytes()
}
