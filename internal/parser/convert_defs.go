package parser

import (
	sitter "github.com/smacker/go-tree-sitter"

	"rubric/internal/source"
	"rubric/internal/syntax"
)

// body builds the value of a body statement: plain statements, optionally
// wrapped by rescue and then ensure.
func (c *converter) body(list []*sitter.Node, fallback source.Span) *syntax.Node {
	var stmts, rescues []*sitter.Node
	var elseClause, ensureClause *sitter.Node
	for _, n := range list {
		switch n.Type() {
		case "rescue":
			rescues = append(rescues, n)
		case "else":
			if len(rescues) > 0 {
				elseClause = n
			} else {
				stmts = append(stmts, n)
			}
		case "ensure":
			ensureClause = n
		default:
			stmts = append(stmts, n)
		}
	}

	out := c.seq(stmts, fallback)
	if len(rescues) > 0 {
		span := c.span(rescues[0])
		if out != nil {
			span = out.Span.Cover(span)
		}
		kids := []syntax.Child{out}
		for _, r := range rescues {
			rb := c.resbody(r)
			span = span.Cover(rb.Span)
			kids = append(kids, rb)
		}
		var els *syntax.Node
		if elseClause != nil {
			els = c.seq(named(elseClause), c.span(elseClause))
			span = span.Cover(c.span(elseClause))
		}
		out = syntax.New(syntax.KindRescue, span, append(kids, els)...)
	}
	if ensureClause != nil {
		ens := c.seq(named(ensureClause), c.span(ensureClause))
		span := c.span(ensureClause)
		if out != nil {
			span = out.Span.Cover(span)
		}
		out = syntax.New(syntax.KindEnsure, span, out, ens)
	}
	return out
}

// resbody converts one rescue clause:
// resbody(classes? var? body?).
func (c *converter) resbody(n *sitter.Node) *syntax.Node {
	var classes *syntax.Node
	if ex := n.ChildByFieldName("exceptions"); ex != nil {
		classes = syntax.New(syntax.KindArray, c.span(ex), children(c.convertAll(named(ex)))...)
	}
	var target *syntax.Node
	if v := n.ChildByFieldName("variable"); v != nil {
		if inner := firstNamed(v); inner != nil {
			target = c.target(inner, true)
		}
	}
	var body *syntax.Node
	if b := n.ChildByFieldName("body"); b != nil {
		body = c.seq(named(b), c.span(b))
	}
	return syntax.New(syntax.KindResBody, c.span(n), classes, target, body)
}

func (c *converter) method(n *sitter.Node) *syntax.Node {
	outer := c.scope
	c.scope = newScope(nil)
	defer func() { c.scope = outer }()

	nameNode := n.ChildByFieldName("name")
	args := c.params(n.ChildByFieldName("parameters"), c.after(nameNode, n))
	body := c.body(namedExcept(n, "name", "parameters"), c.emptyAt(n.EndByte()))
	return syntax.New(syntax.KindDef, c.span(n), syntax.Atom(c.text(nameNode)), args, body)
}

func (c *converter) singletonMethod(n *sitter.Node) *syntax.Node {
	recv := c.convert(n.ChildByFieldName("object"))

	outer := c.scope
	c.scope = newScope(nil)
	defer func() { c.scope = outer }()

	nameNode := n.ChildByFieldName("name")
	args := c.params(n.ChildByFieldName("parameters"), c.after(nameNode, n))
	body := c.body(namedExcept(n, "object", "name", "parameters"), c.emptyAt(n.EndByte()))
	return syntax.New(syntax.KindDefs, c.span(n), recv, syntax.Atom(c.text(nameNode)), args, body)
}

func (c *converter) class(n *sitter.Node) *syntax.Node {
	name := c.convert(n.ChildByFieldName("name"))
	var super *syntax.Node
	if s := n.ChildByFieldName("superclass"); s != nil {
		super = c.convert(firstNamed(s))
	}
	outer := c.scope
	c.scope = newScope(nil)
	defer func() { c.scope = outer }()
	body := c.body(namedExcept(n, "name", "superclass"), c.emptyAt(n.EndByte()))
	return syntax.New(syntax.KindClass, c.span(n), name, super, body)
}

func (c *converter) module(n *sitter.Node) *syntax.Node {
	name := c.convert(n.ChildByFieldName("name"))
	outer := c.scope
	c.scope = newScope(nil)
	defer func() { c.scope = outer }()
	body := c.body(namedExcept(n, "name"), c.emptyAt(n.EndByte()))
	return syntax.New(syntax.KindModule, c.span(n), name, body)
}

func (c *converter) singletonClass(n *sitter.Node) *syntax.Node {
	value := c.convert(n.ChildByFieldName("value"))
	outer := c.scope
	c.scope = newScope(nil)
	defer func() { c.scope = outer }()
	body := c.body(namedExcept(n, "value"), c.emptyAt(n.EndByte()))
	return syntax.New(syntax.KindSClass, c.span(n), value, body)
}

// after is the empty span following n, or at the start of parent when n is
// missing.
func (c *converter) after(n, parent *sitter.Node) source.Span {
	if n == nil {
		return c.emptyAt(parent.StartByte())
	}
	return c.emptyAt(n.EndByte())
}

// block attaches a brace or do block to call: block(call args body?).
// Blocks see the enclosing locals; their own params and assignments stay
// inside.
func (c *converter) block(call *syntax.Node, n *sitter.Node, span source.Span) *syntax.Node {
	outer := c.scope
	c.scope = newScope(outer)
	defer func() { c.scope = outer }()

	args := c.params(n.ChildByFieldName("parameters"), c.emptyAt(n.StartByte()))
	body := c.body(namedExcept(n, "parameters"), c.emptyAt(n.EndByte()))
	return syntax.New(syntax.KindBlock, span, call, args, body)
}

// lambda is `-> (x) { ... }`, represented as a block on a `lambda` call.
func (c *converter) lambda(n *sitter.Node) *syntax.Node {
	arrow := source.Span{File: c.file.ID, Start: n.StartByte(), End: n.StartByte() + 2}
	call := syntax.New(syntax.KindSend, arrow, nil, syntax.Atom("lambda"))

	outer := c.scope
	c.scope = newScope(outer)
	defer func() { c.scope = outer }()

	args := c.params(n.ChildByFieldName("parameters"), c.emptyAt(arrow.End))
	var body *syntax.Node
	if b := n.ChildByFieldName("body"); b != nil {
		body = c.body(namedExcept(b, "parameters"), c.emptyAt(b.EndByte()))
	}
	return syntax.New(syntax.KindBlock, c.span(n), call, args, body)
}

// params converts a parameter list and declares every name in the current
// scope. A missing list becomes an empty args node at fallback.
func (c *converter) params(n *sitter.Node, fallback source.Span) *syntax.Node {
	if n == nil {
		return syntax.New(syntax.KindArgs, fallback)
	}
	var kids []syntax.Child
	for i := 0; i < int(n.ChildCount()); i++ {
		p := n.Child(i)
		if p == nil || !p.IsNamed() || skipped(p) {
			continue
		}
		if n.FieldNameForChild(i) == "locals" {
			name := c.text(p)
			c.scope.declare(name)
			kids = append(kids, syntax.New(syntax.KindShadowArg, c.span(p), syntax.Atom(name)))
			continue
		}
		if x := c.param(p); x != nil {
			kids = append(kids, x)
		}
	}
	return syntax.New(syntax.KindArgs, c.span(n), kids...)
}

func (c *converter) param(p *sitter.Node) *syntax.Node {
	sp := c.span(p)
	withName := func(kind syntax.Kind) *syntax.Node {
		nameNode := p.ChildByFieldName("name")
		if nameNode == nil {
			return syntax.New(kind, sp)
		}
		name := c.text(nameNode)
		c.scope.declare(name)
		return syntax.New(kind, sp, syntax.Atom(name))
	}
	switch p.Type() {
	case "identifier":
		name := c.text(p)
		c.scope.declare(name)
		return syntax.New(syntax.KindArg, sp, syntax.Atom(name))
	case "optional_parameter":
		name := c.text(p.ChildByFieldName("name"))
		c.scope.declare(name)
		return syntax.New(syntax.KindOptArg, sp, syntax.Atom(name), c.convert(p.ChildByFieldName("value")))
	case "keyword_parameter":
		name := c.text(p.ChildByFieldName("name"))
		c.scope.declare(name)
		if v := p.ChildByFieldName("value"); v != nil {
			return syntax.New(syntax.KindKwOptArg, sp, syntax.Atom(name), c.convert(v))
		}
		return syntax.New(syntax.KindKwArg, sp, syntax.Atom(name))
	case "splat_parameter":
		return withName(syntax.KindRestArg)
	case "hash_splat_parameter":
		return withName(syntax.KindKwRestArg)
	case "block_parameter":
		return withName(syntax.KindBlockArg)
	case "forward_parameter":
		return syntax.New(syntax.KindForwardArg, sp)
	case "destructured_parameter":
		var kids []syntax.Child
		for _, inner := range named(p) {
			if x := c.param(inner); x != nil {
				kids = append(kids, x)
			}
		}
		return syntax.New(syntax.KindMlhs, sp, kids...)
	}
	return c.other(p)
}

// kwbegin is `begin ... end`. Plain statements become its children; a
// rescue or ensure wraps them into one child.
func (c *converter) kwbegin(n *sitter.Node) *syntax.Node {
	list := namedExcept(n)
	for _, x := range list {
		switch x.Type() {
		case "rescue", "ensure":
			return syntax.New(syntax.KindKwBegin, c.span(n), c.body(list, c.emptyAt(n.EndByte())))
		}
	}
	return syntax.New(syntax.KindKwBegin, c.span(n), children(c.convertAll(list))...)
}
