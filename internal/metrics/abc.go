package metrics

import (
	"strings"

	"rubric/internal/syntax"
)

// Option configures an AbcCalculator.
type Option func(*AbcCalculator)

// WithIteratingMethods adds method names whose blocks count as a condition.
func WithIteratingMethods(names ...string) Option {
	return func(c *AbcCalculator) {
		c.extra = append(c.extra, names...)
	}
}

// AbcCalculator computes ABC vectors. It holds only configuration; every
// Calculate call owns its own counters, so one calculator may be shared
// between goroutines.
type AbcCalculator struct {
	extra     []string
	iterating map[string]struct{}
}

// NewAbcCalculator builds a calculator with the default iterating set plus
// whatever the options add.
func NewAbcCalculator(opts ...Option) *AbcCalculator {
	c := &AbcCalculator{}
	for _, opt := range opts {
		opt(c)
	}
	c.iterating = iteratingSet(c.extra)
	return c
}

var defaultCalculator = NewAbcCalculator()

// Calculate runs the default calculator over n.
func Calculate(n *syntax.Node) Vector {
	return defaultCalculator.Calculate(n)
}

// IsIterating reports whether a block attached to method counts as a loop.
func (c *AbcCalculator) IsIterating(method string) bool {
	_, ok := c.iterating[method]
	return ok
}

// Calculate walks n once, children before parents.
func (c *AbcCalculator) Calculate(n *syntax.Node) Vector {
	w := &abcWalk{calc: c, csend: make(map[string]*syntax.Node)}
	syntax.PostOrder(n, w.visit)
	return w.v
}

type abcWalk struct {
	calc *AbcCalculator
	v    Vector
	// csend maps a local name to the first safe-navigation call on it since
	// the last assignment.
	csend map[string]*syntax.Node
}

func (w *abcWalk) visit(n *syntax.Node) {
	if w.isAssignment(n) {
		w.v.Assignments++
	}
	switch {
	case n.Is(syntax.KindSend, syntax.KindCSend, syntax.KindYield):
		w.branch(n)
	case n.Kind == syntax.KindCase:
		// the when clauses carry the decisions
		if n.HasElseKeyword() {
			w.v.Conditions++
		}
	case w.isCondition(n):
		w.v.Conditions++
		if n.HasElseKeyword() {
			w.v.Conditions++
		}
	}
}

func (w *abcWalk) branch(n *syntax.Node) {
	if n.IsComparison() {
		w.v.Conditions++
		return
	}
	w.v.Branches++
	if n.Kind == syntax.KindCSend && !w.repeatedCSend(n) {
		w.v.Conditions++
	}
}

// repeatedCSend reports a safe-navigation call on a local that already had
// one since it was last assigned.
func (w *abcWalk) repeatedCSend(n *syntax.Node) bool {
	recv := n.Receiver()
	if !recv.Is(syntax.KindLvar) {
		return false
	}
	name := recv.Name()
	first, seen := w.csend[name]
	if !seen {
		w.csend[name] = n
		return false
	}
	return first != n
}

func (w *abcWalk) isAssignment(n *syntax.Node) bool {
	switch {
	case n.Kind == syntax.KindMasgn:
		w.v.Assignments += countGetters(n.NodeAt(0).Nodes())
		return false
	case n.Kind.IsShorthandAssignment():
		w.v.Assignments += countGetters(n.Nodes())
		return false
	case n.Kind == syntax.KindFor:
		return true
	case n.IsSetter():
		return true
	case n.Kind == syntax.KindLvasgn:
		name := n.Name()
		delete(w.csend, name)
		return capturing(name)
	case n.Kind.IsVariableAssignment():
		return true
	case n.Kind.IsArgument():
		return capturing(n.Name())
	}
	return false
}

// countGetters counts call targets of compound assignments. `foo.bar += 1`
// and `a.b, c = ...` keep the reader name in the tree, so the setter check
// cannot see them.
func countGetters(targets []*syntax.Node) int {
	total := 0
	for _, t := range targets {
		if t.Is(syntax.KindSend, syntax.KindCSend) && !t.IsSetter() {
			total++
		}
	}
	return total
}

func capturing(name string) bool {
	return name != "" && !strings.HasPrefix(name, "_")
}

func (w *abcWalk) isCondition(n *syntax.Node) bool {
	switch n.Kind {
	case syntax.KindIf, syntax.KindWhile, syntax.KindUntil, syntax.KindFor,
		syntax.KindWhen, syntax.KindAnd, syntax.KindOr,
		syntax.KindOrAsgn, syntax.KindAndAsgn:
		return true
	case syntax.KindBlock:
		return w.calc.IsIterating(n.NodeAt(0).MethodName())
	case syntax.KindBlockPass:
		parent := n.Parent()
		return parent.Is(syntax.KindSend, syntax.KindCSend) && w.calc.IsIterating(parent.Name())
	}
	return false
}
