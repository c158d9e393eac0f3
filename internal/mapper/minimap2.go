package mapper

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"ispcr/core/consensus"
	"ispcr/internal/runutil"
)

// Minimap2 runs minimap2 in short-read mode and decodes its SAM stream.
type Minimap2 struct {
	Path string // default "minimap2"
}

func (m *Minimap2) Name() string { return "minimap2" }

// Args returns the minimap2 argument list for one mate pair.
func (m *Minimap2) Args(refPath string, rs ReadSet) []string {
	return append([]string{"-ax", "sr", "-k", "10", "-B", "0", refPath}, rs.Files...)
}

func (m *Minimap2) Map(ctx context.Context, refPath string, rs ReadSet) ([]consensus.Read, Stats, error) {
	if len(rs.Files) != 2 {
		return nil, Stats{}, fmt.Errorf("read set %s: want 2 mate files, have %d", rs.Sample, len(rs.Files))
	}
	path := m.Path
	if path == "" {
		path = "minimap2"
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, m.Args(refPath, rs)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, Stats{}, ctx.Err()
		}
		if msg := lastLine(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return nil, Stats{}, runutil.Collaborator(m.Name(), rs.Sample, err)
	}
	reads, st, err := Decode(ctx, &stdout)
	if err != nil && ctx.Err() == nil {
		err = runutil.Collaborator(m.Name(), rs.Sample, err)
	}
	return reads, st, err
}

// minimap2 logs progress on stderr; the last line carries the failure.
func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
