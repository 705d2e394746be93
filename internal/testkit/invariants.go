package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"rubric/internal/syntax"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed tree:
// 1) every span belongs to the tree's file and lies within its content
// 2) every child span is contained in its parent's span
func CheckSpanInvariants(tree *syntax.Tree) error {
	if tree == nil || tree.File == nil {
		return fmt.Errorf("nil tree or file")
	}
	lenContent, err := safecast.Conv[uint32](len(tree.File.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var failure error
	syntax.Inspect(tree.Root, func(n *syntax.Node) bool {
		if failure != nil {
			return false
		}
		sp := n.Span
		if sp.File != tree.File.ID {
			failure = fmt.Errorf("%s span file mismatch: got=%d want=%d", n.Kind, sp.File, tree.File.ID)
			return false
		}
		if sp.End < sp.Start || sp.End > lenContent {
			failure = fmt.Errorf("%s span %v outside content [0, %d)", n.Kind, sp, lenContent)
			return false
		}
		for _, child := range n.Nodes() {
			cs := child.Span
			if cs.Start < sp.Start || cs.End > sp.End {
				failure = fmt.Errorf("%s span %v is outside parent %s span %v", child.Kind, cs, n.Kind, sp)
				return false
			}
		}
		return true
	})
	return failure
}
