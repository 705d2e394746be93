package metrics

import (
	"rubric/internal/syntax"
)

// Unit is one method-like definition with its vector.
type Unit struct {
	Name   string
	Node   *syntax.Node
	Vector Vector
}

// UnitName returns the name of a method-like node: `def`, `def self.x` and
// `define_method(:x) { ... }` blocks.
func UnitName(n *syntax.Node) (string, bool) {
	switch {
	case n.Is(syntax.KindDef):
		return n.Name(), true
	case n.Is(syntax.KindDefs):
		return n.Name(), true
	case n.Is(syntax.KindBlock):
		call := n.NodeAt(0)
		if !call.Is(syntax.KindSend) || call.Name() != "define_method" {
			return "", false
		}
		args := call.Arguments()
		if len(args) == 0 || !args[0].Is(syntax.KindSym, syntax.KindStr) {
			return "", false
		}
		return args[0].Value(), true
	}
	return "", false
}

// Units scores every method-like node under root in source order. Nested
// definitions are scored on their own and also count toward the enclosing
// one.
func (c *AbcCalculator) Units(root *syntax.Node) []Unit {
	var out []Unit
	syntax.Inspect(root, func(n *syntax.Node) bool {
		if name, ok := UnitName(n); ok {
			out = append(out, Unit{Name: name, Node: n, Vector: c.Calculate(n)})
		}
		return true
	})
	return out
}
