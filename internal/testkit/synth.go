// Package testkit synthesizes Ruby source together with the syntax tree that
// describes it, so rule and metric tests get exact spans without going
// through the parser.
package testkit

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"rubric/internal/source"
	"rubric/internal/syntax"
)

// Word is emitted as source text and recorded as an atom child.
type Word string

// Absent records an empty optional slot.
var Absent = absent{}

type absent struct{}

// Piece describes one node: its kind and an ordered mix of fragments.
//
//	string        raw text, no child
//	Word          text plus an atom child
//	syntax.Atom   atom child, no text
//	*Piece        child node at the current offset
//	Absent        nil child
type Piece struct {
	kind  syntax.Kind
	flags syntax.Flags
	parts []any
	order []int
}

// N starts a piece of the given kind.
func N(kind syntax.Kind, parts ...any) *Piece {
	return &Piece{kind: kind, parts: parts}
}

// With sets surface-form flags.
func (p *Piece) With(flags syntax.Flags) *Piece {
	p.flags |= flags
	return p
}

// Order permutes the children after emission: child i of the node is the
// perm[i]-th fragment child. Modifier forms write the body before the
// condition but keep the condition in slot 0.
func (p *Piece) Order(perm ...int) *Piece {
	p.order = perm
	return p
}

// Built is the result of synthesizing a piece tree.
type Built struct {
	Files  *source.FileSet
	File   *source.File
	Tree   *syntax.Tree
	Source string
}

// Build renders root into a virtual file named test.rb.
func Build(root *Piece) *Built {
	return BuildNamed("test.rb", root)
}

// BuildNamed renders root into a virtual file with the given name.
func BuildNamed(name string, root *Piece) *Built {
	var sb strings.Builder
	node := emit(&sb, root)
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, []byte(sb.String()))
	file := fs.Get(id)
	rebase(node, id)
	return &Built{
		Files:  fs,
		File:   file,
		Tree:   syntax.NewTree(file, node),
		Source: sb.String(),
	}
}

func offset(sb *strings.Builder) uint32 {
	off, err := safecast.Conv[uint32](sb.Len())
	if err != nil {
		panic(fmt.Sprintf("testkit: source too large: %v", err))
	}
	return off
}

func emit(sb *strings.Builder, p *Piece) *syntax.Node {
	start := offset(sb)
	children := make([]syntax.Child, 0, len(p.parts))
	for _, part := range p.parts {
		switch v := part.(type) {
		case string:
			sb.WriteString(v)
		case Word:
			sb.WriteString(string(v))
			children = append(children, syntax.Atom(v))
		case syntax.Atom:
			children = append(children, v)
		case *Piece:
			if v == nil {
				children = append(children, nil)
				continue
			}
			children = append(children, emit(sb, v))
		case absent:
			children = append(children, nil)
		default:
			panic(fmt.Sprintf("testkit: unsupported fragment %T", part))
		}
	}
	if p.order != nil {
		ordered := make([]syntax.Child, len(p.order))
		for i, from := range p.order {
			ordered[i] = children[from]
		}
		children = ordered
	}
	span := source.Span{Start: start, End: offset(sb)}
	return syntax.NewFlagged(p.kind, p.flags, span, children...)
}

// rebase stamps the file id after the file has been registered.
func rebase(n *syntax.Node, id source.FileID) {
	syntax.Inspect(n, func(x *syntax.Node) bool {
		x.Span.File = id
		return true
	})
}

// FindAll returns every node of the given kind in pre-order.
func (b *Built) FindAll(kind syntax.Kind) []*syntax.Node {
	var out []*syntax.Node
	syntax.Inspect(b.Tree.Root, func(n *syntax.Node) bool {
		if n.Kind == kind {
			out = append(out, n)
		}
		return true
	})
	return out
}

// First returns the first node of the given kind, nil when there is none.
func (b *Built) First(kind syntax.Kind) *syntax.Node {
	all := b.FindAll(kind)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}
