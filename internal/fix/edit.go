package fix

import (
	"fmt"

	"rubric/internal/source"
)

// EditKind classifies an edit by the shape of its span and replacement.
type EditKind uint8

const (
	EditReplace EditKind = iota
	EditRemove
	EditInsert
)

func (k EditKind) String() string {
	switch k {
	case EditReplace:
		return "replace"
	case EditRemove:
		return "remove"
	case EditInsert:
		return "insert"
	}
	return "unknown"
}

// Edit replaces the bytes under Span with NewText. An empty span inserts.
// OldText, when set, must equal the original bytes under Span or the whole
// script is dropped as stale.
type Edit struct {
	Span    source.Span
	NewText string
	OldText string
}

func (e Edit) Kind() EditKind {
	switch {
	case e.Span.Empty():
		return EditInsert
	case e.NewText == "":
		return EditRemove
	default:
		return EditReplace
	}
}

// overlaps treats spans as half-open. Two insertions never overlap; an
// insertion overlaps a span that contains its offset, its end excluded.
func (e Edit) overlaps(o Edit) bool {
	a, b := e.Span, o.Span
	switch {
	case a.Empty() && b.Empty():
		return false
	case a.Empty():
		return b.Start <= a.Start && a.Start < b.End
	case b.Empty():
		return a.Start <= b.Start && b.Start < a.End
	}
	return a.Start < b.End && b.Start < a.End
}

func (e Edit) String() string {
	return fmt.Sprintf("%s %s %q", e.Kind(), e.Span, e.NewText)
}

// Script is the ordered edit set correcting one offense. Edits never overlap
// and address the original text.
type Script struct {
	Rule  string
	Title string
	Edits []Edit
}

// Span covers every edit of the script.
func (s *Script) Span() source.Span {
	if s == nil || len(s.Edits) == 0 {
		return source.Span{}
	}
	sp := s.Edits[0].Span
	for _, e := range s.Edits[1:] {
		sp = sp.Cover(e.Span)
	}
	return sp
}
