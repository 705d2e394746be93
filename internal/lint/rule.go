package lint

import (
	"rubric/internal/diag"
	"rubric/internal/fix"
	"rubric/internal/source"
	"rubric/internal/syntax"
)

// Rule inspects nodes of the kinds it subscribes to.
type Rule interface {
	Name() string
	Kinds() []syntax.Kind
	Check(p *Pass, n *syntax.Node) error
}

// Autocorrector is implemented by rules that can fix their offenses. n is the
// node the offense was reported on.
type Autocorrector interface {
	Autocorrect(c *fix.Corrector, n *syntax.Node) error
}

// Offense is a style violation found by a rule.
type Offense struct {
	Rule       string
	Message    string
	Severity   diag.Severity
	Span       source.Span
	Correction *fix.Script

	node *syntax.Node
}

// Node is the node the offense was reported on.
func (o Offense) Node() *syntax.Node { return o.node }

// Correctable reports whether a correction script was produced.
func (o Offense) Correctable() bool { return o.Correction != nil }

// Pass is handed to Check; it scopes reports to one rule and one tree.
type Pass struct {
	Tree *syntax.Tree
	File *source.File

	rule     Rule
	severity diag.Severity
	out      *[]Offense
}

// Report records an offense on n.
func (p *Pass) Report(n *syntax.Node, message string) {
	if n == nil {
		return
	}
	*p.out = append(*p.out, Offense{
		Rule:     p.rule.Name(),
		Message:  message,
		Severity: p.severity,
		Span:     n.Span,
		node:     n,
	})
}
