// Package writers turns a run report into serialized outputs.
//
// Design:
//   - Writers own all presentation knowledge (TSV, FASTA, JSON/JSONL, alignment text).
//   - Report stays domain-only; Pipeline stays orchestration-only.
//   - JSON/JSONL go through pkg/api (v1) for a stable wire format.
package writers
