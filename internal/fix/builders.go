package fix

import (
	"rubric/internal/source"
)

// Option mutates a script during construction.
type Option func(*Script)

// WithTitle sets the label shown when the script is listed.
func WithTitle(title string) Option {
	return func(s *Script) {
		s.Title = title
	}
}

func applyOptions(s *Script, opts []Option) *Script {
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// NewScript bundles edits produced for rule.
func NewScript(rule string, edits []Edit, opts ...Option) *Script {
	s := &Script{
		Rule:  rule,
		Title: "Autocorrect " + rule,
		Edits: edits,
	}
	return applyOptions(s, opts)
}

// InsertText creates an edit that inserts text at at.Start.
func InsertText(at source.Span, text string) Edit {
	return Edit{
		Span:    source.Span{File: at.File, Start: at.Start, End: at.Start},
		NewText: text,
	}
}

// DeleteSpan removes text covered by span.
func DeleteSpan(span source.Span, expect string) Edit {
	return Edit{
		Span:    span,
		NewText: "",
		OldText: expect,
	}
}

// ReplaceSpan replaces text covered by span with newText.
func ReplaceSpan(span source.Span, newText, expect string) Edit {
	return Edit{
		Span:    span,
		NewText: newText,
		OldText: expect,
	}
}
