package parser

import (
	sitter "github.com/smacker/go-tree-sitter"

	"rubric/internal/source"
	"rubric/internal/syntax"
)

// call converts method calls, with or without receiver, arguments and block.
func (c *converter) call(n *sitter.Node) *syntax.Node {
	recvNode := n.ChildByFieldName("receiver")
	methodNode := n.ChildByFieldName("method")
	argsNode := n.ChildByFieldName("arguments")
	blockNode := n.ChildByFieldName("block")

	// span of the call without its block
	sp := c.span(n)
	if blockNode != nil {
		sp.End = sp.Start
		for _, part := range []*sitter.Node{recvNode, methodNode, argsNode} {
			if part != nil && part.EndByte() > sp.End {
				sp.End = part.EndByte()
			}
		}
	}

	var call *syntax.Node
	if methodNode != nil && methodNode.Type() == "super" {
		args := c.arguments(argsNode)
		if argsNode == nil {
			call = syntax.New(syntax.KindZSuper, sp)
		} else {
			call = syntax.New(syntax.KindSuper, sp, children(args)...)
		}
	} else {
		recv := c.convert(recvNode)
		kind := syntax.KindSend
		if hasToken(n, "&.") {
			kind = syntax.KindCSend
		}
		name := "call" // foo.()
		if methodNode != nil {
			name = c.text(methodNode)
		}
		kids := []syntax.Child{recv, syntax.Atom(name)}
		kids = append(kids, children(c.arguments(argsNode))...)
		call = syntax.New(kind, sp, kids...)
	}

	if blockNode == nil {
		return call
	}
	return c.block(call, blockNode, c.span(n))
}

// elementReference converts `obj[args]` into a call to method. For index
// assignment value is the right-hand side appended as the last argument.
func (c *converter) elementReference(n *sitter.Node, method string, value *sitter.Node) *syntax.Node {
	obj := c.convert(n.ChildByFieldName("object"))
	kids := []syntax.Child{obj, syntax.Atom(method)}
	kids = append(kids, children(c.arguments(argsOf(n, "object")))...)
	sp := c.span(n)
	if value != nil {
		v := c.convert(value)
		kids = append(kids, v)
		if v != nil {
			sp = sp.Cover(v.Span)
		}
		if p := n.Parent(); p != nil && p.Type() == "assignment" {
			sp = c.span(p)
		}
	}
	return syntax.New(syntax.KindSend, sp, kids...)
}

// argsOf returns the named children of n other than field.
func argsOf(n *sitter.Node, field string) []*sitter.Node {
	return namedExcept(n, field)
}

// argumentList finds the argument_list child of return, yield and friends.
func argumentList(n *sitter.Node) []*sitter.Node {
	for _, x := range named(n) {
		if x.Type() == "argument_list" {
			return named(x)
		}
	}
	return nil
}

// arguments converts call arguments. Bare `key: value` pairs are grouped
// into one hash.
func (c *converter) arguments(n interface{}) []*syntax.Node {
	var list []*sitter.Node
	switch v := n.(type) {
	case *sitter.Node:
		if v == nil {
			return nil
		}
		if v.Type() == "argument_list" {
			list = named(v)
		} else {
			list = []*sitter.Node{v}
		}
	case []*sitter.Node:
		list = v
	}

	var out []*syntax.Node
	var pairs []*syntax.Node
	flush := func() {
		if len(pairs) == 0 {
			return
		}
		span := cover(source.Span{}, pairs...)
		out = append(out, syntax.New(syntax.KindHash, span, children(pairs)...))
		pairs = nil
	}
	for _, x := range list {
		conv := c.convert(x)
		if conv == nil {
			continue
		}
		if conv.Kind == syntax.KindPair || (conv.Kind == syntax.KindKwSplat && len(pairs) > 0) {
			pairs = append(pairs, conv)
			continue
		}
		flush()
		out = append(out, conv)
	}
	flush()
	return out
}

var logicalOps = map[string]syntax.Kind{
	"&&":  syntax.KindAnd,
	"and": syntax.KindAnd,
	"||":  syntax.KindOr,
	"or":  syntax.KindOr,
}

// binary converts infix operators. Boolean operators get their own kinds;
// everything else is a method call on the left operand.
func (c *converter) binary(n *sitter.Node) *syntax.Node {
	op := c.text(n.ChildByFieldName("operator"))
	left := c.convert(n.ChildByFieldName("left"))
	right := c.convert(n.ChildByFieldName("right"))
	sp := c.span(n)
	if kind, ok := logicalOps[op]; ok {
		return syntax.New(kind, sp, left, right)
	}
	return syntax.New(syntax.KindSend, sp, left, syntax.Atom(op), right)
}

func (c *converter) unary(n *sitter.Node) *syntax.Node {
	op := c.text(n.ChildByFieldName("operator"))
	operandNode := n.ChildByFieldName("operand")
	sp := c.span(n)
	switch op {
	case "defined?":
		return syntax.New(syntax.KindDefined, sp, c.convert(operandNode))
	case "!", "not":
		return syntax.New(syntax.KindSend, sp, c.convert(operandNode), syntax.Atom("!"))
	case "-", "+":
		if operandNode != nil {
			switch operandNode.Type() {
			case "integer":
				return syntax.New(syntax.KindInt, sp, syntax.Atom(c.text(n)))
			case "float":
				return syntax.New(syntax.KindFloat, sp, syntax.Atom(c.text(n)))
			}
		}
		return syntax.New(syntax.KindSend, sp, c.convert(operandNode), syntax.Atom(op+"@"))
	}
	return syntax.New(syntax.KindSend, sp, c.convert(operandNode), syntax.Atom(op))
}
