package mapper

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var mateName = regexp.MustCompile(`^(.+)_(\d)\.f(?:ast)?q(?:\.gz)?$`)

// Incomplete is a read set that cannot be mapped.
type Incomplete struct {
	Sample string
	Files  []string
	Reason string
}

// PairReads groups FASTQ paths named <sample>_<n>.fastq[.gz] into mate pairs.
// Names that do not parse and samples without exactly two mates are returned
// as incomplete; both lists are sorted by sample.
func PairReads(paths []string) ([]ReadSet, []Incomplete) {
	groups := make(map[string][]string)
	var bad []Incomplete
	for _, p := range paths {
		m := mateName.FindStringSubmatch(filepath.Base(p))
		if m == nil {
			bad = append(bad, Incomplete{Sample: filepath.Base(p), Files: []string{p}, Reason: "cannot parse read file name"})
			continue
		}
		sample := filepath.Join(filepath.Dir(p), m[1])
		groups[sample] = append(groups[sample], p)
	}

	var sets []ReadSet
	for sample, files := range groups {
		sort.Strings(files)
		name := filepath.Base(sample)
		if len(files) != 2 {
			bad = append(bad, Incomplete{Sample: name, Files: files, Reason: "expected 2 mate files"})
			continue
		}
		sets = append(sets, ReadSet{Sample: name, Files: files})
	}
	sort.Slice(sets, func(i, j int) bool { return sets[i].Sample < sets[j].Sample })
	sort.Slice(bad, func(i, j int) bool { return bad[i].Sample < bad[j].Sample })
	return sets, bad
}

// SAMSets makes one read set per SAM path, named after the file.
func SAMSets(paths []string) []ReadSet {
	out := make([]ReadSet, 0, len(paths))
	for _, p := range paths {
		name := filepath.Base(p)
		for _, ext := range []string{".gz", ".sam"} {
			name = strings.TrimSuffix(name, ext)
		}
		out = append(out, ReadSet{Sample: name, Files: []string{p}})
	}
	return out
}
