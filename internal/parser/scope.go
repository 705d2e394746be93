package parser

// scope is the set of local variable names visible at a point. Blocks chain
// to their parent; def, class and module start fresh.
type scope struct {
	vars   map[string]struct{}
	parent *scope
}

func newScope(parent *scope) *scope {
	return &scope{vars: make(map[string]struct{}), parent: parent}
}

func (s *scope) has(name string) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if _, ok := cur.vars[name]; ok {
			return true
		}
	}
	return false
}

// declare adds name unless an outer scope already has it: assigning an
// outer local from a block writes the outer variable.
func (s *scope) declare(name string) {
	if name == "" || s.has(name) {
		return
	}
	s.vars[name] = struct{}{}
}
