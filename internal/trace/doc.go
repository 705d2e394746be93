// Package trace records what a run did, for when a run is slow or goes
// wrong.
//
//	rubric check --trace=- --trace-level=detail app/
//	rubric fix --trace=fix.ndjson --trace-mode=ring app/
//
// Spans nest through the context. The driver opens a span per command,
// per pass and per file; WithFile tags everything under a file with its
// path, even at levels that drop the file span itself:
//
//	ctx, span := trace.Start(trace.WithFile(ctx, path), trace.ScopeFile, "file")
//	defer span.End("")
//	...
//	trace.Fail(ctx, trace.ScopeNode, "rule-failed", msg)
//
// Ring mode keeps the last events in memory and writes them only if a
// failure was recorded, so it can stay on for every run.
package trace
