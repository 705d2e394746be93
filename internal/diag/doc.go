// Package diag defines the diagnostic model for findings about a run rather
// than about the inspected code.
//
// Style offenses are produced by rules (internal/lint) and carry their own
// corrections. Diagnostic records cover everything else: parser failures,
// rule handlers that panicked or returned an error, corrections dropped by the
// fix engine, files that timed out or could not be read.
//
// # Data model
//
//   - Severity: Info, Convention, Warning, Error.
//   - Code: compact numeric identifier with a stable string form (ENG1001,
//     FIX2001, ...). Ranges group codes by producer.
//   - Message: short human text.
//   - Primary: the source.Span the diagnostic is about. File-level problems
//     use an empty span at offset zero.
//   - Notes: optional secondary spans.
//
// # Emitting diagnostics
//
// Producers either add records to a Bag directly or hand them to a Reporter:
// the parser reports syntax errors through one, and the autocorrect loop
// routes every round through a DedupReporter so a problem that survives
// several rounds is reported once. A Bag holds at most --max-diagnostics
// records and counts the rest. Rendering lives in internal/diagfmt.
package diag
