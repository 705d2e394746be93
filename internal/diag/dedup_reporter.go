package diag

// DedupReporter forwards each diagnostic once. Autocorrect inspects a file
// again after every round and each round is a new version of the file, so
// the file ID is left out of the key.
type DedupReporter struct {
	next Reporter
	seen map[dedupKey]struct{}
}

type dedupKey struct {
	code       Code
	sev        Severity
	start, end uint32
	msg        string
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: make(map[dedupKey]struct{})}
}

func (r *DedupReporter) Report(d Diagnostic) {
	key := dedupKey{d.Code, d.Severity, d.Primary.Start, d.Primary.End, d.Message}
	if _, dup := r.seen[key]; dup {
		return
	}
	r.seen[key] = struct{}{}
	r.next.Report(d)
}
