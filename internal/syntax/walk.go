package syntax

// Inspect traverses the tree rooted at n in pre-order. When fn returns false
// the children of the current node are skipped.
func Inspect(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		if child, ok := c.(*Node); ok {
			Inspect(child, fn)
		}
	}
}

// PostOrder visits every node after its children.
func PostOrder(n *Node, fn func(*Node)) {
	if n == nil {
		return
	}
	for _, c := range n.children {
		if child, ok := c.(*Node); ok {
			PostOrder(child, fn)
		}
	}
	fn(n)
}

// Ancestors calls fn for each enclosing node from the parent up to the root
// until fn returns false.
func Ancestors(n *Node, fn func(*Node) bool) {
	for p := n.Parent(); p != nil; p = p.parent {
		if !fn(p) {
			return
		}
	}
}

// Count returns the number of nodes in the tree rooted at n.
func Count(n *Node) int {
	total := 0
	Inspect(n, func(*Node) bool {
		total++
		return true
	})
	return total
}

// Equal reports structural equality: same kinds, same atoms, same absent
// slots, recursively. Spans and flags are ignored.
func Equal(a, b Child) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case Atom:
		y, ok := b.(Atom)
		return ok && x == y
	case *Node:
		y, ok := b.(*Node)
		if !ok {
			return false
		}
		if x == y {
			return true
		}
		if x == nil || y == nil {
			return false
		}
		if x.Kind != y.Kind || len(x.children) != len(y.children) {
			return false
		}
		for i := range x.children {
			if !Equal(x.children[i], y.children[i]) {
				return false
			}
		}
		return true
	}
	return false
}
