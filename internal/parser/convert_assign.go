package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"rubric/internal/syntax"
)

// assignment converts `left = right`. Targets are declared before the value
// is converted, so `x = x` reads the new local.
func (c *converter) assignment(n *sitter.Node) *syntax.Node {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	sp := c.span(n)
	if left == nil {
		return c.other(n)
	}

	switch left.Type() {
	case "identifier":
		name := c.text(left)
		c.scope.declare(name)
		return syntax.New(syntax.KindLvasgn, sp, syntax.Atom(name), c.convert(right))
	case "instance_variable":
		return syntax.New(syntax.KindIvasgn, sp, syntax.Atom(c.text(left)), c.convert(right))
	case "class_variable":
		return syntax.New(syntax.KindCvasgn, sp, syntax.Atom(c.text(left)), c.convert(right))
	case "global_variable":
		return syntax.New(syntax.KindGvasgn, sp, syntax.Atom(c.text(left)), c.convert(right))
	case "constant":
		return syntax.New(syntax.KindCasgn, sp, nil, syntax.Atom(c.text(left)), c.convert(right))
	case "scope_resolution":
		scope := c.convert(left.ChildByFieldName("scope"))
		return syntax.New(syntax.KindCasgn, sp, scope, syntax.Atom(c.text(left.ChildByFieldName("name"))), c.convert(right))
	case "call":
		recv := c.convert(left.ChildByFieldName("receiver"))
		kind := syntax.KindSend
		if hasToken(left, "&.") {
			kind = syntax.KindCSend
		}
		method := c.text(left.ChildByFieldName("method")) + "="
		return syntax.New(kind, sp, recv, syntax.Atom(method), c.convert(right))
	case "element_reference":
		return c.elementReference(left, "[]=", right)
	case "left_assignment_list":
		lhs := c.mlhs(left)
		return syntax.New(syntax.KindMasgn, sp, lhs, c.convert(right))
	}
	return c.other(n)
}

// operatorAssignment converts `x op= v`, `x ||= v` and `x &&= v`.
func (c *converter) operatorAssignment(n *sitter.Node) *syntax.Node {
	left := n.ChildByFieldName("left")
	if left == nil {
		return c.other(n)
	}
	op := c.text(n.ChildByFieldName("operator"))
	target := c.target(left, false)
	value := c.convert(n.ChildByFieldName("right"))
	sp := c.span(n)
	switch op {
	case "||=":
		return syntax.New(syntax.KindOrAsgn, sp, target, value)
	case "&&=":
		return syntax.New(syntax.KindAndAsgn, sp, target, value)
	}
	return syntax.New(syntax.KindOpAsgn, sp, target, syntax.Atom(strings.TrimSuffix(op, "=")), value)
}

// target converts an assignment target without its value. Inside mlhs,
// attribute and index targets are setter calls; for op-assign they are the
// reader calls.
func (c *converter) target(n *sitter.Node, setter bool) *syntax.Node {
	sp := c.span(n)
	switch n.Type() {
	case "identifier":
		name := c.text(n)
		c.scope.declare(name)
		return syntax.New(syntax.KindLvasgn, sp, syntax.Atom(name))
	case "instance_variable":
		return syntax.New(syntax.KindIvasgn, sp, syntax.Atom(c.text(n)))
	case "class_variable":
		return syntax.New(syntax.KindCvasgn, sp, syntax.Atom(c.text(n)))
	case "global_variable":
		return syntax.New(syntax.KindGvasgn, sp, syntax.Atom(c.text(n)))
	case "constant":
		return syntax.New(syntax.KindCasgn, sp, nil, syntax.Atom(c.text(n)))
	case "scope_resolution":
		scope := c.convert(n.ChildByFieldName("scope"))
		return syntax.New(syntax.KindCasgn, sp, scope, syntax.Atom(c.text(n.ChildByFieldName("name"))))
	case "call":
		recv := c.convert(n.ChildByFieldName("receiver"))
		kind := syntax.KindSend
		if hasToken(n, "&.") {
			kind = syntax.KindCSend
		}
		method := c.text(n.ChildByFieldName("method"))
		if setter {
			method += "="
		}
		return syntax.New(kind, sp, recv, syntax.Atom(method))
	case "element_reference":
		if setter {
			return c.elementReference(n, "[]=", nil)
		}
		return c.elementReference(n, "[]", nil)
	case "rest_assignment", "splat_parameter":
		var inner *syntax.Node
		if x := firstNamed(n); x != nil {
			inner = c.target(x, setter)
		}
		return syntax.New(syntax.KindSplat, sp, inner)
	case "left_assignment_list", "destructured_left_assignment", "destructured_parameter":
		return c.mlhs(n)
	}
	return c.other(n)
}

func (c *converter) mlhs(n *sitter.Node) *syntax.Node {
	var kids []syntax.Child
	for _, x := range named(n) {
		kids = append(kids, c.target(x, true))
	}
	return syntax.New(syntax.KindMlhs, c.span(n), kids...)
}

// scopeResolution is `A::B` or `::B`.
func (c *converter) scopeResolution(n *sitter.Node) *syntax.Node {
	sp := c.span(n)
	name := syntax.Atom(c.text(n.ChildByFieldName("name")))
	if s := n.ChildByFieldName("scope"); s != nil {
		return syntax.New(syntax.KindConst, sp, c.convert(s), name)
	}
	cbase := syntax.New(syntax.KindCbase, c.emptyAt(n.StartByte()))
	return syntax.New(syntax.KindConst, sp, cbase, name)
}
