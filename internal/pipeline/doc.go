// Package pipeline fans independent units out to a worker pool: assemblies
// (search, parse, resolve) and read sets (map, consensus, re-resolve).
//
// A failing unit is reported in its Outcome and never stops the others;
// only cancellation or a visit error ends a run early.
package pipeline
