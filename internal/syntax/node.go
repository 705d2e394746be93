package syntax

import (
	"rubric/internal/source"
)

// Child is an element of a node's child list: a *Node, an Atom, or nil for
// an absent slot (no receiver, no else branch, ...).
type Child interface {
	isChild()
}

// Atom is a terminal child: identifier names, operators, literal text.
type Atom string

func (Atom) isChild() {}

// Flags record the surface form of a node where the kind alone is ambiguous.
type Flags uint8

const (
	// FlagModifier marks `body if cond`, `body while cond` and friends.
	FlagModifier Flags = 1 << iota
	// FlagTernary marks `cond ? a : b`.
	FlagTernary
	// FlagElsif marks an if node that came from an `elsif` clause.
	FlagElsif
	// FlagUnless marks if nodes written with `unless`; branches are stored
	// already swapped, so child 1 is still the truthy branch.
	FlagUnless
)

// Node is an immutable syntax tree node. Nodes are created bottom-up with
// New; parent links are set once when the parent is created.
type Node struct {
	Kind  Kind
	Flags Flags
	Span  source.Span

	children []Child
	parent   *Node // не владеет: только для поиска соседей
}

func (*Node) isChild() {}

// New creates a node and adopts the child nodes. Typed nil *Node children
// are normalized to absent slots. Adopting a node that already has a parent
// panics: trees never share subtrees.
func New(kind Kind, span source.Span, children ...Child) *Node {
	return NewFlagged(kind, 0, span, children...)
}

// NewFlagged is New with surface-form flags.
func NewFlagged(kind Kind, flags Flags, span source.Span, children ...Child) *Node {
	n := &Node{
		Kind:     kind,
		Flags:    flags,
		Span:     span,
		children: make([]Child, len(children)),
	}
	for i, c := range children {
		if child, ok := c.(*Node); ok {
			if child == nil {
				continue
			}
			if child.parent != nil {
				panic("syntax: node " + child.Kind.String() + " already has a parent")
			}
			child.parent = n
		}
		n.children[i] = c
	}
	return n
}

// Children returns the child list. The slice is shared; do not modify it.
func (n *Node) Children() []Child {
	if n == nil {
		return nil
	}
	return n.children
}

// Len returns the number of children including atoms and absent slots.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	return len(n.children)
}

// Child returns child i, or nil when i is out of range.
func (n *Node) Child(i int) Child {
	if n == nil || i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// NodeAt returns child i when it is a node.
func (n *Node) NodeAt(i int) *Node {
	c, _ := n.Child(i).(*Node)
	return c
}

// AtomAt returns child i when it is an atom.
func (n *Node) AtomAt(i int) (Atom, bool) {
	a, ok := n.Child(i).(Atom)
	return a, ok
}

// LastChild returns the final child, or nil for a childless node.
func (n *Node) LastChild() Child {
	return n.Child(n.Len() - 1)
}

// Nodes returns the child nodes, skipping atoms and absent slots.
func (n *Node) Nodes() []*Node {
	if n == nil {
		return nil
	}
	out := make([]*Node, 0, len(n.children))
	for _, c := range n.children {
		if child, ok := c.(*Node); ok {
			out = append(out, child)
		}
	}
	return out
}

// Parent returns the enclosing node, nil for a root.
func (n *Node) Parent() *Node {
	if n == nil {
		return nil
	}
	return n.parent
}

// SiblingIndex returns the position of n in its parent's child list, or -1
// for a root.
func (n *Node) SiblingIndex() int {
	if n == nil || n.parent == nil {
		return -1
	}
	for i, c := range n.parent.children {
		if child, ok := c.(*Node); ok && child == n {
			return i
		}
	}
	return -1
}

// RightSibling returns the parent's child that follows n.
func (n *Node) RightSibling() Child {
	idx := n.SiblingIndex()
	if idx < 0 {
		return nil
	}
	return n.parent.Child(idx + 1)
}

// LeftSibling returns the parent's child that precedes n.
func (n *Node) LeftSibling() Child {
	idx := n.SiblingIndex()
	if idx <= 0 {
		return nil
	}
	return n.parent.Child(idx - 1)
}

// Is reports whether n has one of the given kinds. A nil node matches nothing.
func (n *Node) Is(kinds ...Kind) bool {
	if n == nil {
		return false
	}
	for _, k := range kinds {
		if n.Kind == k {
			return true
		}
	}
	return false
}

// Has reports whether every bit of f is set.
func (n *Node) Has(f Flags) bool {
	return n != nil && n.Flags&f == f
}

// Tree pairs a root node with the file it was parsed from.
type Tree struct {
	File *source.File
	Root *Node // nil for an empty file
}

// NewTree wraps root and its source file.
func NewTree(file *source.File, root *Node) *Tree {
	return &Tree{File: file, Root: root}
}

// Text returns the source text of n.
func (t *Tree) Text(n *Node) string {
	if t == nil || t.File == nil || n == nil {
		return ""
	}
	return t.File.Text(n.Span)
}
