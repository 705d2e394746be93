package fix

import (
	"errors"
	"fmt"

	"rubric/internal/source"
)

var (
	// ErrOverlap is returned when an edit overlaps one already recorded by
	// the same corrector.
	ErrOverlap = errors.New("edit overlaps a previous edit")
	// ErrOutOfRange is returned for spans outside the file.
	ErrOutOfRange = errors.New("edit span out of range")
)

// Corrector collects the edits of one offense. Every removal and
// replacement is guarded by the text it expects to find.
type Corrector struct {
	file  *source.File
	edits []Edit
}

func NewCorrector(file *source.File) *Corrector {
	return &Corrector{file: file}
}

// File is the source being corrected.
func (c *Corrector) File() *source.File { return c.file }

// Source returns the original text under span.
func (c *Corrector) Source(span source.Span) string {
	return c.file.Text(span)
}

func (c *Corrector) Replace(span source.Span, text string) error {
	if err := c.check(span); err != nil {
		return err
	}
	return c.add(ReplaceSpan(span, text, c.file.Text(span)))
}

func (c *Corrector) Remove(span source.Span) error {
	if err := c.check(span); err != nil {
		return err
	}
	return c.add(DeleteSpan(span, c.file.Text(span)))
}

func (c *Corrector) check(span source.Span) error {
	if c.file == nil {
		return fmt.Errorf("fix: corrector has no file")
	}
	if span.File != c.file.ID || span.Start > span.End || int(span.End) > len(c.file.Content) {
		return fmt.Errorf("%w: %s", ErrOutOfRange, span)
	}
	return nil
}

func (c *Corrector) add(e Edit) error {
	for _, prev := range c.edits {
		if prev.overlaps(e) {
			return fmt.Errorf("%w: %s and %s", ErrOverlap, prev.Span, e.Span)
		}
	}
	c.edits = append(c.edits, e)
	return nil
}

// Edits returns the recorded edits in the order they were added.
func (c *Corrector) Edits() []Edit {
	return append([]Edit(nil), c.edits...)
}

// Script packages the edits for rule; nil when nothing was recorded.
func (c *Corrector) Script(rule string, opts ...Option) *Script {
	if len(c.edits) == 0 {
		return nil
	}
	return NewScript(rule, c.Edits(), opts...)
}
