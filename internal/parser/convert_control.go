package parser

import (
	sitter "github.com/smacker/go-tree-sitter"

	"rubric/internal/syntax"
)

// ifNode converts if, unless and elsif clauses into if(cond then? else?).
// For unless the branches are swapped so child 1 stays the truthy branch.
func (c *converter) ifNode(n *sitter.Node, flags syntax.Flags) *syntax.Node {
	cond := c.convert(n.ChildByFieldName("condition"))
	then := c.convert(n.ChildByFieldName("consequence"))
	els := c.convert(n.ChildByFieldName("alternative"))
	if n.Type() == "unless" {
		return syntax.NewFlagged(syntax.KindIf, flags|syntax.FlagUnless, c.span(n), cond, els, then)
	}
	return syntax.NewFlagged(syntax.KindIf, flags, c.span(n), cond, then, els)
}

// ifModifier is `body if cond` or `body unless cond`.
func (c *converter) ifModifier(n *sitter.Node) *syntax.Node {
	body := c.convert(n.ChildByFieldName("body"))
	cond := c.convert(n.ChildByFieldName("condition"))
	if n.Type() == "unless_modifier" {
		return syntax.NewFlagged(syntax.KindIf, syntax.FlagModifier|syntax.FlagUnless, c.span(n), cond, nil, body)
	}
	return syntax.NewFlagged(syntax.KindIf, syntax.FlagModifier, c.span(n), cond, body, nil)
}

func loopKind(typ string) syntax.Kind {
	switch typ {
	case "until", "until_modifier":
		return syntax.KindUntil
	}
	return syntax.KindWhile
}

func (c *converter) loop(n *sitter.Node) *syntax.Node {
	cond := c.convert(n.ChildByFieldName("condition"))
	body := c.convert(n.ChildByFieldName("body"))
	return syntax.New(loopKind(n.Type()), c.span(n), cond, body)
}

// loopModifier is `body while cond`; the condition still comes first.
func (c *converter) loopModifier(n *sitter.Node) *syntax.Node {
	body := c.convert(n.ChildByFieldName("body"))
	cond := c.convert(n.ChildByFieldName("condition"))
	return syntax.NewFlagged(loopKind(n.Type()), syntax.FlagModifier, c.span(n), cond, body)
}

// forLoop converts `for x in xs do ... end` into for(var iter body?).
// The loop variable leaks into the enclosing scope.
func (c *converter) forLoop(n *sitter.Node) *syntax.Node {
	var variable *syntax.Node
	if p := n.ChildByFieldName("pattern"); p != nil {
		variable = c.target(p, true)
	}
	var iter *syntax.Node
	if v := n.ChildByFieldName("value"); v != nil {
		if v.Type() == "in" {
			iter = c.convert(firstNamed(v))
		} else {
			iter = c.convert(v)
		}
	}
	body := c.convert(n.ChildByFieldName("body"))
	return syntax.New(syntax.KindFor, c.span(n), variable, iter, body)
}

// caseNode converts case/when into case(subject? when... else?). The else
// slot is always present, nil when there is no else clause. Pattern
// matching `case/in` is kept as an other node.
func (c *converter) caseNode(n *sitter.Node) *syntax.Node {
	kids := []syntax.Child{c.convert(n.ChildByFieldName("value"))}
	var els *syntax.Node
	for _, x := range named(n) {
		switch x.Type() {
		case "when":
			kids = append(kids, c.when(x))
		case "else":
			els = c.convert(x)
		}
	}
	kids = append(kids, els)
	return syntax.New(syntax.KindCase, c.span(n), kids...)
}

// when is when(cond... body?); the body is always the last slot.
func (c *converter) when(n *sitter.Node) *syntax.Node {
	var kids []syntax.Child
	for _, p := range fieldAll(n, "pattern") {
		if p.Type() == "pattern" {
			p = firstNamed(p)
		}
		if x := c.convert(p); x != nil {
			kids = append(kids, x)
		}
	}
	kids = append(kids, c.convert(n.ChildByFieldName("body")))
	return syntax.New(syntax.KindWhen, c.span(n), kids...)
}

// rescueModifier is `expr rescue fallback`:
// rescue(expr resbody(nil nil fallback) nil).
func (c *converter) rescueModifier(n *sitter.Node) *syntax.Node {
	body := c.convert(n.ChildByFieldName("body"))
	handlerNode := n.ChildByFieldName("handler")
	handler := c.convert(handlerNode)
	rbSpan := c.after(n.ChildByFieldName("body"), n)
	if handlerNode != nil {
		rbSpan = rbSpan.Cover(c.span(handlerNode))
	}
	rb := syntax.New(syntax.KindResBody, rbSpan, nil, nil, handler)
	return syntax.NewFlagged(syntax.KindRescue, syntax.FlagModifier, c.span(n), body, rb, nil)
}
