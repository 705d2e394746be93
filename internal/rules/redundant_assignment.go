package rules

import (
	"fmt"
	"strings"

	"rubric/internal/fix"
	"rubric/internal/lint"
	"rubric/internal/pattern"
	"rubric/internal/source"
	"rubric/internal/syntax"
)

const (
	RedundantAssignmentName = "Style/RedundantAssignment"
	redundantAssignmentMsg  = "Redundant assignment before returning detected."
)

var tailAssignment = pattern.MustCompile("({begin kwbegin} ... $(lvasgn _name _) (lvar _name))")

// RedundantAssignment flags `x = expr` followed by a bare `x` as the value a
// method returns.
type RedundantAssignment struct{}

func NewRedundantAssignment() *RedundantAssignment { return &RedundantAssignment{} }

func (*RedundantAssignment) Name() string { return RedundantAssignmentName }

func (*RedundantAssignment) Kinds() []syntax.Kind {
	return []syntax.Kind{syntax.KindDef, syntax.KindDefs}
}

func (r *RedundantAssignment) Check(p *lint.Pass, n *syntax.Node) error {
	r.checkBranch(p, n.Body())
	return nil
}

// checkBranch follows every path whose last expression is the method value.
func (r *RedundantAssignment) checkBranch(p *lint.Pass, n *syntax.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case syntax.KindCase:
		for _, w := range n.WhenClauses() {
			r.checkBranch(p, whenBody(w))
		}
		r.checkBranch(p, n.ElseBranch())
	case syntax.KindIf:
		if n.IsModifierForm() || n.IsTernary() {
			return
		}
		r.checkBranch(p, n.ThenBranch())
		r.checkBranch(p, n.ElseBranch())
	case syntax.KindRescue, syntax.KindResBody:
		for _, child := range n.Nodes() {
			r.checkBranch(p, child)
		}
	case syntax.KindEnsure:
		// ensure(body, ensure_clause): только хвост ensure
		r.checkBranch(p, n.NodeAt(1))
	case syntax.KindBegin, syntax.KindKwBegin:
		if m, ok := tailAssignment.MatchNode(n); ok {
			p.Report(m.Node(0), redundantAssignmentMsg)
			return
		}
		last, _ := n.LastChild().(*syntax.Node)
		r.checkBranch(p, last)
	}
}

// whenBody is the last slot of a when clause; the conditions come first.
func whenBody(w *syntax.Node) *syntax.Node {
	if w.Len() < 2 {
		return nil
	}
	return w.NodeAt(w.Len() - 1)
}

// Autocorrect replaces `x = expr` with `expr` and drops the trailing `x`.
func (r *RedundantAssignment) Autocorrect(c *fix.Corrector, n *syntax.Node) error {
	if !n.Is(syntax.KindLvasgn) {
		return fmt.Errorf("expected lvasgn, got %s", n.Kind)
	}
	value := n.NodeAt(1)
	read, _ := n.RightSibling().(*syntax.Node)
	if value == nil || !read.Is(syntax.KindLvar) {
		return fmt.Errorf("assignment to %s has no trailing read", n.Name())
	}
	if err := c.Replace(n.Span, c.Source(value.Span)); err != nil {
		return err
	}
	return c.Remove(removalSpan(c, n.Span, read.Span))
}

// removalSpan widens the read over the separator before it. A gap of blanks
// and semicolons goes entirely; a gap holding a comment keeps the comment and
// loses only the read's own line.
func removalSpan(c *fix.Corrector, asgn, read source.Span) source.Span {
	gap := source.Span{File: read.File, Start: asgn.End, End: read.Start}
	if gap.Empty() {
		return read
	}
	text := c.Source(gap)
	if strings.Trim(text, " \t\r\n;") == "" {
		return source.Span{File: read.File, Start: gap.Start, End: read.End}
	}
	if i := strings.LastIndexByte(text, '\n'); i >= 0 {
		return source.Span{File: read.File, Start: gap.Start + uint32(i), End: read.End}
	}
	return read
}
