package parser

import (
	sitter "github.com/smacker/go-tree-sitter"

	"rubric/internal/source"
	"rubric/internal/syntax"
)

// converter turns a tree-sitter Ruby tree into syntax nodes. It tracks local
// variable scopes because a bare identifier is a variable read only after an
// assignment to that name is seen.
type converter struct {
	file  *source.File
	scope *scope
}

func newConverter(file *source.File) *converter {
	return &converter{file: file, scope: newScope(nil)}
}

func (c *converter) span(n *sitter.Node) source.Span {
	return spanOf(c.file.ID, n)
}

func (c *converter) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(c.file.Content)
}

// emptyAt is a zero-length span at off.
func (c *converter) emptyAt(off uint32) source.Span {
	return source.Span{File: c.file.ID, Start: off, End: off}
}

// skipped node types never become syntax nodes.
func skipped(n *sitter.Node) bool {
	switch n.Type() {
	case "comment", "heredoc_body", "empty_statement", "uninterpreted", "ERROR":
		return true
	}
	return n.IsMissing()
}

// named returns the named children worth converting.
func named(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	count := int(n.NamedChildCount())
	out := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		child := n.NamedChild(i)
		if child == nil || skipped(child) {
			continue
		}
		out = append(out, child)
	}
	return out
}

// namedExcept returns named children not attached to one of the fields.
// Body wrappers are flattened.
func namedExcept(n *sitter.Node, fields ...string) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || !child.IsNamed() || skipped(child) {
			continue
		}
		if hasString(fields, n.FieldNameForChild(i)) {
			continue
		}
		switch child.Type() {
		case "body_statement", "block_body":
			out = append(out, named(child)...)
		default:
			out = append(out, child)
		}
	}
	return out
}

// fieldAll returns every child attached to field, in order.
func fieldAll(n *sitter.Node, field string) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.FieldNameForChild(i) == field {
			if child := n.Child(i); child != nil && !skipped(child) {
				out = append(out, child)
			}
		}
	}
	return out
}

// hasToken reports an anonymous child with the given text, such as "&.".
func hasToken(n *sitter.Node, tok string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		if child := n.Child(i); child != nil && !child.IsNamed() && child.Type() == tok {
			return true
		}
	}
	return false
}

func hasString(list []string, s string) bool {
	if s == "" {
		return false
	}
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// cover spans every non-nil node; fallback is used when all are nil.
func cover(fallback source.Span, nodes ...*syntax.Node) source.Span {
	var out source.Span
	found := false
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if !found {
			out = n.Span
			found = true
			continue
		}
		out = out.Cover(n.Span)
	}
	if !found {
		return fallback
	}
	return out
}

func (c *converter) program(root *sitter.Node) *syntax.Node {
	return c.body(namedExcept(root), c.span(root))
}

// seq converts statements into one node: nil for none, the statement itself
// for one, a begin for more.
func (c *converter) seq(list []*sitter.Node, fallback source.Span) *syntax.Node {
	stmts := c.convertAll(list)
	switch len(stmts) {
	case 0:
		return nil
	case 1:
		return stmts[0]
	}
	kids := make([]syntax.Child, len(stmts))
	for i, s := range stmts {
		kids[i] = s
	}
	return syntax.New(syntax.KindBegin, cover(fallback, stmts...), kids...)
}

func (c *converter) convertAll(list []*sitter.Node) []*syntax.Node {
	out := make([]*syntax.Node, 0, len(list))
	for _, n := range list {
		if x := c.convert(n); x != nil {
			out = append(out, x)
		}
	}
	return out
}

// convert maps one tree-sitter node. Unknown node types become `other`
// nodes so rules still see their children.
func (c *converter) convert(n *sitter.Node) *syntax.Node {
	if n == nil || skipped(n) {
		return nil
	}
	sp := c.span(n)
	switch n.Type() {
	case "program", "then", "else", "do", "ensure", "body_statement", "block_body":
		return c.seq(named(n), sp)
	case "parenthesized_statements":
		return syntax.New(syntax.KindBegin, sp, children(c.convertAll(named(n)))...)
	case "interpolation":
		return syntax.New(syntax.KindBegin, sp, children(c.convertAll(named(n)))...)

	// definitions
	case "method":
		return c.method(n)
	case "singleton_method":
		return c.singletonMethod(n)
	case "class":
		return c.class(n)
	case "module":
		return c.module(n)
	case "singleton_class":
		return c.singletonClass(n)
	case "lambda":
		return c.lambda(n)

	// assignment
	case "assignment":
		return c.assignment(n)
	case "operator_assignment":
		return c.operatorAssignment(n)

	// variables
	case "identifier":
		name := c.text(n)
		if c.scope.has(name) {
			return syntax.New(syntax.KindLvar, sp, syntax.Atom(name))
		}
		return syntax.New(syntax.KindSend, sp, nil, syntax.Atom(name))
	case "instance_variable":
		return syntax.New(syntax.KindIvar, sp, syntax.Atom(c.text(n)))
	case "class_variable":
		return syntax.New(syntax.KindCvar, sp, syntax.Atom(c.text(n)))
	case "global_variable":
		return syntax.New(syntax.KindGvar, sp, syntax.Atom(c.text(n)))
	case "constant":
		return syntax.New(syntax.KindConst, sp, nil, syntax.Atom(c.text(n)))
	case "scope_resolution":
		return c.scopeResolution(n)
	case "self":
		return syntax.New(syntax.KindSelf, sp)
	case "super":
		return syntax.New(syntax.KindZSuper, sp)

	// calls
	case "call", "method_call":
		return c.call(n)
	case "element_reference":
		return c.elementReference(n, "[]", nil)
	case "yield":
		return syntax.New(syntax.KindYield, sp, children(c.arguments(argumentList(n)))...)
	case "return":
		return syntax.New(syntax.KindReturn, sp, children(c.arguments(argumentList(n)))...)
	case "break":
		return syntax.New(syntax.KindBreak, sp, children(c.arguments(argumentList(n)))...)
	case "next":
		return syntax.New(syntax.KindNext, sp, children(c.arguments(argumentList(n)))...)
	case "redo":
		return syntax.New(syntax.KindRedo, sp)
	case "retry":
		return syntax.New(syntax.KindRetry, sp)
	case "binary":
		return c.binary(n)
	case "unary":
		return c.unary(n)
	case "block_argument":
		return syntax.New(syntax.KindBlockPass, sp, c.convert(firstNamed(n)))
	case "splat_argument":
		return syntax.New(syntax.KindSplat, sp, c.convert(firstNamed(n)))
	case "hash_splat_argument":
		return syntax.New(syntax.KindKwSplat, sp, c.convert(firstNamed(n)))
	case "forward_argument":
		return syntax.New(syntax.KindForwardArg, sp)

	// control flow
	case "if", "unless":
		return c.ifNode(n, 0)
	case "elsif":
		return c.ifNode(n, syntax.FlagElsif)
	case "if_modifier", "unless_modifier":
		return c.ifModifier(n)
	case "conditional":
		return syntax.NewFlagged(syntax.KindIf, syntax.FlagTernary, sp,
			c.convert(n.ChildByFieldName("condition")),
			c.convert(n.ChildByFieldName("consequence")),
			c.convert(n.ChildByFieldName("alternative")))
	case "while", "until":
		return c.loop(n)
	case "while_modifier", "until_modifier":
		return c.loopModifier(n)
	case "for":
		return c.forLoop(n)
	case "case":
		return c.caseNode(n)
	case "begin":
		return c.kwbegin(n)
	case "rescue_modifier":
		return c.rescueModifier(n)

	// literals
	case "integer":
		return syntax.New(syntax.KindInt, sp, syntax.Atom(c.text(n)))
	case "float":
		return syntax.New(syntax.KindFloat, sp, syntax.Atom(c.text(n)))
	case "nil":
		return syntax.New(syntax.KindNil, sp)
	case "true":
		return syntax.New(syntax.KindTrue, sp)
	case "false":
		return syntax.New(syntax.KindFalse, sp)
	case "string", "bare_string":
		return c.str(n)
	case "chained_string":
		return syntax.New(syntax.KindDstr, sp, children(c.convertAll(named(n)))...)
	case "character":
		return syntax.New(syntax.KindStr, sp, syntax.Atom(trimPrefix(c.text(n), "?")))
	case "simple_symbol":
		return syntax.New(syntax.KindSym, sp, syntax.Atom(trimPrefix(c.text(n), ":")))
	case "hash_key_symbol", "bare_symbol":
		return syntax.New(syntax.KindSym, sp, syntax.Atom(c.text(n)))
	case "delimited_symbol":
		return c.delimitedSymbol(n)
	case "regex":
		return syntax.New(syntax.KindRegexp, sp, syntax.Atom(c.text(n)))
	case "array", "string_array", "symbol_array", "right_assignment_list":
		return syntax.New(syntax.KindArray, sp, children(c.convertAll(named(n)))...)
	case "hash":
		return syntax.New(syntax.KindHash, sp, children(c.convertAll(named(n)))...)
	case "pair":
		return c.pair(n)
	case "range":
		return c.rangeNode(n)
	case "heredoc_beginning":
		return syntax.New(syntax.KindStr, sp, syntax.Atom(c.text(n)))
	}
	return c.other(n)
}

func (c *converter) other(n *sitter.Node) *syntax.Node {
	kids := []syntax.Child{syntax.Atom(n.Type())}
	for _, x := range c.convertAll(named(n)) {
		kids = append(kids, x)
	}
	return syntax.New(syntax.KindOther, c.span(n), kids...)
}

func children(nodes []*syntax.Node) []syntax.Child {
	out := make([]syntax.Child, len(nodes))
	for i, n := range nodes {
		out[i] = n
	}
	return out
}

func firstNamed(n *sitter.Node) *sitter.Node {
	list := named(n)
	if len(list) == 0 {
		return nil
	}
	return list[0]
}

func trimPrefix(s, prefix string) string {
	if len(s) >= len(prefix) && s[:len(prefix)] == prefix {
		return s[len(prefix):]
	}
	return s
}
