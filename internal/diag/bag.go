package diag

// Bag collects the diagnostics of one file. A limited bag counts what it
// turns away instead of growing.
type Bag struct {
	items   []Diagnostic
	limit   int
	dropped int
}

// NewBag holds at most limit diagnostics; limit <= 0 means no limit.
func NewBag(limit int) *Bag {
	return &Bag{limit: limit}
}

// Add возвращает false, если лимит исчерпан.
func (b *Bag) Add(d Diagnostic) bool {
	if b.limit > 0 && len(b.items) >= b.limit {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Force adds d past the limit.
func (b *Bag) Force(d Diagnostic) {
	b.items = append(b.items, d)
}

// Merge adds the diagnostics of other under b's limit.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	for _, d := range other.items {
		b.Add(d)
	}
	b.dropped += other.dropped
}

// Dropped is how many diagnostics the limit turned away.
func (b *Bag) Dropped() int {
	if b == nil {
		return 0
	}
	return b.dropped
}

func (b *Bag) HasErrors() bool {
	for _, d := range b.Items() {
		if d.Severity >= SevError {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	if b == nil {
		return 0
	}
	return len(b.items)
}

// Items shares the bag's backing array: read, don't modify.
func (b *Bag) Items() []Diagnostic {
	if b == nil {
		return nil
	}
	return b.items
}
