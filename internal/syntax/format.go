package syntax

import (
	"strconv"
	"strings"
)

// String renders n as a single-line s-expression.
func (n *Node) String() string {
	var sb strings.Builder
	writeCompact(&sb, n)
	return sb.String()
}

// Format renders n as an indented s-expression, one child node per line.
func Format(n *Node) string {
	var sb strings.Builder
	writeIndented(&sb, n, 0)
	return sb.String()
}

func writeCompact(sb *strings.Builder, n *Node) {
	if n == nil {
		sb.WriteString("nil")
		return
	}
	sb.WriteByte('(')
	sb.WriteString(n.Kind.String())
	for _, c := range n.children {
		sb.WriteByte(' ')
		writeChild(sb, n.Kind, c, func(child *Node) { writeCompact(sb, child) })
	}
	sb.WriteByte(')')
}

func writeIndented(sb *strings.Builder, n *Node, depth int) {
	if n == nil {
		sb.WriteString("nil")
		return
	}
	sb.WriteByte('(')
	sb.WriteString(n.Kind.String())
	for _, c := range n.children {
		if child, ok := c.(*Node); ok && child != nil {
			sb.WriteByte('\n')
			sb.WriteString(strings.Repeat("  ", depth+1))
			writeIndented(sb, child, depth+1)
			continue
		}
		sb.WriteByte(' ')
		writeChild(sb, n.Kind, c, nil)
	}
	sb.WriteByte(')')
}

func writeChild(sb *strings.Builder, parent Kind, c Child, node func(*Node)) {
	switch v := c.(type) {
	case nil:
		sb.WriteString("nil")
	case Atom:
		sb.WriteString(formatAtom(parent, v))
	case *Node:
		node(v)
	}
}

func formatAtom(parent Kind, a Atom) string {
	switch parent {
	case KindInt, KindFloat:
		return string(a)
	case KindStr:
		return strconv.Quote(string(a))
	}
	return ":" + string(a)
}
