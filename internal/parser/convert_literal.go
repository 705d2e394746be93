package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"rubric/internal/syntax"
)

// str converts a string literal. Without interpolation the atom is the raw
// content between the delimiters; otherwise the parts become a dstr.
func (c *converter) str(n *sitter.Node) *syntax.Node {
	text, parts := c.strParts(n)
	if parts == nil {
		return syntax.New(syntax.KindStr, c.span(n), syntax.Atom(text))
	}
	return syntax.New(syntax.KindDstr, c.span(n), parts...)
}

// delimitedSymbol is `:"name"`, a dsym when interpolated.
func (c *converter) delimitedSymbol(n *sitter.Node) *syntax.Node {
	text, parts := c.strParts(n)
	if parts == nil {
		return syntax.New(syntax.KindSym, c.span(n), syntax.Atom(text))
	}
	return syntax.New(syntax.KindDsym, c.span(n), parts...)
}

// strParts returns the literal text, or the converted parts when the
// content is interpolated.
func (c *converter) strParts(n *sitter.Node) (string, []syntax.Child) {
	parts := named(n)
	interpolated := false
	for _, p := range parts {
		if p.Type() == "interpolation" {
			interpolated = true
			break
		}
	}
	if !interpolated {
		var b strings.Builder
		for _, p := range parts {
			b.WriteString(c.text(p))
		}
		return b.String(), nil
	}
	kids := make([]syntax.Child, 0, len(parts))
	for _, p := range parts {
		if p.Type() == "interpolation" {
			kids = append(kids, c.convert(p))
			continue
		}
		kids = append(kids, syntax.New(syntax.KindStr, c.span(p), syntax.Atom(c.text(p))))
	}
	return "", kids
}

// pair is `key => value` or `key: value`. Ruby 3.1 shorthand `key:` has no
// value node; the value is then a read of the same name.
func (c *converter) pair(n *sitter.Node) *syntax.Node {
	keyNode := n.ChildByFieldName("key")
	key := c.convert(keyNode)
	valueNode := n.ChildByFieldName("value")
	var value *syntax.Node
	if valueNode != nil {
		value = c.convert(valueNode)
	} else if keyNode != nil {
		name := strings.TrimSuffix(c.text(keyNode), ":")
		sp := c.span(keyNode)
		if c.scope.has(name) {
			value = syntax.New(syntax.KindLvar, sp, syntax.Atom(name))
		} else {
			value = syntax.New(syntax.KindSend, sp, nil, syntax.Atom(name))
		}
	}
	return syntax.New(syntax.KindPair, c.span(n), key, value)
}

// rangeNode converts `a..b` and `a...b`; either end may be missing.
func (c *converter) rangeNode(n *sitter.Node) *syntax.Node {
	kind := syntax.KindIRange
	if hasToken(n, "...") {
		kind = syntax.KindERange
	}
	begin := c.convert(n.ChildByFieldName("begin"))
	end := c.convert(n.ChildByFieldName("end"))
	return syntax.New(kind, c.span(n), begin, end)
}
