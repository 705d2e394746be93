package pattern

import (
	"rubric/internal/syntax"
)

// Match holds the result of a successful match.
type Match struct {
	// Captures has one entry per $ in the pattern, in source order.
	Captures []syntax.Child
	// Bindings maps _name wildcards (without the underscore) to their value.
	Bindings map[string]syntax.Child
}

// Node returns capture i as a node, nil when it is an atom or absent.
func (m Match) Node(i int) *syntax.Node {
	if i < 0 || i >= len(m.Captures) {
		return nil
	}
	n, _ := m.Captures[i].(*syntax.Node)
	return n
}

// Atom returns capture i as an atom.
func (m Match) Atom(i int) (syntax.Atom, bool) {
	if i < 0 || i >= len(m.Captures) {
		return "", false
	}
	a, ok := m.Captures[i].(syntax.Atom)
	return a, ok
}

type binding struct {
	name  string
	value syntax.Child
}

type state struct {
	caps  []syntax.Child
	trail []binding
}

func (s *state) lookup(name string) (syntax.Child, bool) {
	for i := len(s.trail) - 1; i >= 0; i-- {
		if s.trail[i].name == name {
			return s.trail[i].value, true
		}
	}
	return nil, false
}

func (s *state) mark() int { return len(s.trail) }

func (s *state) rollback(mark int) { s.trail = s.trail[:mark] }

// Match tests c against the pattern.
func (m *Matcher) Match(c syntax.Child) (Match, bool) {
	if m == nil || m.root == nil {
		return Match{}, false
	}
	c = normalize(c)
	st := &state{caps: make([]syntax.Child, m.ncaps)}
	if !matchElem(m.root, c, st) {
		return Match{}, false
	}
	res := Match{Captures: st.caps}
	if len(st.trail) > 0 {
		res.Bindings = make(map[string]syntax.Child, len(st.trail))
		for _, b := range st.trail {
			res.Bindings[b.name] = b.value
		}
	}
	return res, true
}

// MatchNode is Match for a node; a nil node is an absent child.
func (m *Matcher) MatchNode(n *syntax.Node) (Match, bool) {
	if n == nil {
		return m.Match(nil)
	}
	return m.Match(n)
}

func normalize(c syntax.Child) syntax.Child {
	if n, ok := c.(*syntax.Node); ok && n == nil {
		return nil
	}
	return c
}

func matchElem(e *elem, c syntax.Child, st *state) bool {
	switch e.op {
	case opAny:
		return true
	case opBind:
		if prev, ok := st.lookup(e.name); ok {
			return syntax.Equal(prev, c)
		}
		st.trail = append(st.trail, binding{name: e.name, value: c})
		return true
	case opAbsent:
		return c == nil
	case opAtom:
		a, ok := c.(syntax.Atom)
		return ok && a == e.atom
	case opKind:
		n, ok := c.(*syntax.Node)
		return ok && hasKind(e.kinds, n.Kind)
	case opPred:
		return e.pred(c)
	case opSeq:
		n, ok := c.(*syntax.Node)
		if !ok {
			return false
		}
		if len(e.kinds) > 0 && !hasKind(e.kinds, n.Kind) {
			return false
		}
		return matchList(e.kids, n.Children(), st)
	case opUnion:
		for _, b := range e.kids {
			mark := st.mark()
			if matchElem(b, c, st) {
				return true
			}
			st.rollback(mark)
		}
		return false
	case opCapture:
		if !matchElem(e.kids[0], c, st) {
			return false
		}
		st.caps[e.slot] = c
		return true
	case opNot:
		mark := st.mark()
		ok := matchElem(e.kids[0], c, st)
		st.rollback(mark)
		return !ok
	case opDescend:
		return matchDescend(e.kids[0], c, st)
	}
	return false
}

func matchDescend(e *elem, c syntax.Child, st *state) bool {
	mark := st.mark()
	if matchElem(e, c, st) {
		return true
	}
	st.rollback(mark)
	n, ok := c.(*syntax.Node)
	if !ok {
		return false
	}
	for _, child := range n.Children() {
		if _, isNode := child.(*syntax.Node); !isNode {
			continue
		}
		if matchDescend(e, child, st) {
			return true
		}
	}
	return false
}

func matchList(pats []*elem, kids []syntax.Child, st *state) bool {
	if len(pats) == 0 {
		return len(kids) == 0
	}
	head := pats[0]
	if head.op == opEllipsis {
		rest := pats[1:]
		if len(rest) == 0 {
			return true
		}
		for skip := 0; skip <= len(kids); skip++ {
			mark := st.mark()
			if matchList(rest, kids[skip:], st) {
				return true
			}
			st.rollback(mark)
		}
		return false
	}
	if len(kids) == 0 {
		return false
	}
	mark := st.mark()
	if matchElem(head, kids[0], st) && matchList(pats[1:], kids[1:], st) {
		return true
	}
	st.rollback(mark)
	return false
}

func hasKind(kinds []syntax.Kind, k syntax.Kind) bool {
	for _, x := range kinds {
		if x == k {
			return true
		}
	}
	return false
}
