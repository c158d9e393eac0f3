package arch

import (
	"bytes"
	"encoding/json"
	"io"
	"os/exec"
	"strings"
	"testing"
)

type pkg struct {
	ImportPath string
	Imports    []string
	Standard   bool
}

func TestImportBoundaries(t *testing.T) {
	cmd := exec.Command("go", "list", "-json", "ispcr/...")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		t.Fatalf("go list: %v", err)
	}
	dec := json.NewDecoder(&out)

	bans := map[string][]string{
		// core takes parsed values only: no files, no processes, no CLI.
		"ispcr/core/": {"ispcr/internal/", "ispcr/pkg/", "ispcr/cmd/"},
		"ispcr/internal/pipeline": {
			"ispcr/internal/report", "ispcr/internal/output", "ispcr/internal/writers",
			"ispcr/internal/app", "ispcr/internal/config", "ispcr/cmd/",
		},
		"ispcr/internal/report": {
			"ispcr/internal/output", "ispcr/internal/writers", "ispcr/internal/app", "ispcr/cmd/",
		},
		"ispcr/internal/writers": {"ispcr/internal/pipeline", "ispcr/internal/app", "ispcr/cmd/"},
		"ispcr/internal/output":  {"ispcr/internal/pipeline", "ispcr/internal/app", "ispcr/cmd/"},
		"ispcr/internal/search":  {"ispcr/internal/pipeline", "ispcr/internal/app", "ispcr/cmd/"},
		"ispcr/internal/mapper":  {"ispcr/internal/pipeline", "ispcr/internal/app", "ispcr/cmd/"},
		"ispcr/pkg/":             {"ispcr/internal/", "ispcr/core/", "ispcr/cmd/"},
	}

	var violations []string
	for {
		var p pkg
		if err := dec.Decode(&p); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("decode: %v", err)
		}
		imp := p.ImportPath
		for prefix, forbidden := range bans {
			if !strings.HasPrefix(imp, prefix) {
				continue
			}
			for _, dep := range p.Imports {
				for _, ban := range forbidden {
					if strings.HasPrefix(dep, ban) {
						violations = append(violations, imp+" → "+dep)
					}
				}
			}
		}
	}

	if len(violations) > 0 {
		t.Fatalf("import boundary violations:\n  %s", strings.Join(violations, "\n  "))
	}
}
