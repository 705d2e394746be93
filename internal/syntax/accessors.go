package syntax

import "strings"

// Name returns the identifier carried by variable, assignment, argument and
// definition nodes. Calls return their method name.
func (n *Node) Name() string {
	if n == nil {
		return ""
	}
	idx := 0
	switch n.Kind {
	case KindCasgn, KindDefs, KindSend, KindCSend, KindConst:
		idx = 1
	case KindBlock:
		return n.NodeAt(0).Name()
	}
	a, _ := n.AtomAt(idx)
	return string(a)
}

// MethodName returns the called or defined method name.
func (n *Node) MethodName() string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case KindSend, KindCSend, KindDef, KindDefs, KindBlock:
		return n.Name()
	case KindYield:
		return "yield"
	case KindSuper, KindZSuper:
		return "super"
	}
	return ""
}

// Receiver returns the explicit receiver of a call, nil for implicit self.
func (n *Node) Receiver() *Node {
	if n.Is(KindSend, KindCSend) {
		return n.NodeAt(0)
	}
	return nil
}

// Arguments returns the argument nodes of a call-like node.
func (n *Node) Arguments() []*Node {
	if n == nil {
		return nil
	}
	var from int
	switch n.Kind {
	case KindSend, KindCSend:
		from = 2
	case KindYield, KindSuper, KindReturn, KindBreak, KindNext:
		from = 0
	default:
		return nil
	}
	var out []*Node
	for i := from; i < n.Len(); i++ {
		if c := n.NodeAt(i); c != nil {
			out = append(out, c)
		}
	}
	return out
}

var comparisonMethods = map[string]struct{}{
	"==": {}, "!=": {}, "<": {}, ">": {}, "<=": {}, ">=": {}, "===": {},
}

// IsComparisonMethod reports the operators counted as conditions.
func IsComparisonMethod(name string) bool {
	_, ok := comparisonMethods[name]
	return ok
}

// IsSetterMethod reports names of the form `attr=` and `[]=`.
func IsSetterMethod(name string) bool {
	if !strings.HasSuffix(name, "=") {
		return false
	}
	if IsComparisonMethod(name) || name == "=~" {
		return false
	}
	return true
}

// IsComparison reports a call to a comparison operator.
func (n *Node) IsComparison() bool {
	return n.Is(KindSend, KindCSend) && IsComparisonMethod(n.Name())
}

// IsSetter reports a call such as `foo.bar = 1` or `x[k] = v`.
func (n *Node) IsSetter() bool {
	return n.Is(KindSend, KindCSend) && IsSetterMethod(n.Name())
}

// Body returns the body of a def, defs, block, class, module or loop.
func (n *Node) Body() *Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindDef, KindBlock, KindClass, KindFor:
		return n.NodeAt(2)
	case KindDefs:
		return n.NodeAt(3)
	case KindModule, KindSClass, KindWhile, KindUntil:
		return n.NodeAt(1)
	}
	return nil
}

// Params returns the args node of a def, defs or block.
func (n *Node) Params() *Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindDef, KindBlock:
		return n.NodeAt(1)
	case KindDefs:
		return n.NodeAt(2)
	}
	return nil
}

// Condition returns the tested expression of if, while and until.
func (n *Node) Condition() *Node {
	if n.Is(KindIf, KindWhile, KindUntil) {
		return n.NodeAt(0)
	}
	return nil
}

// ThenBranch returns the truthy branch of an if.
func (n *Node) ThenBranch() *Node {
	if n.Is(KindIf) {
		return n.NodeAt(1)
	}
	return nil
}

// ElseBranch returns the falsy branch of an if, or the else body of a case
// or rescue.
func (n *Node) ElseBranch() *Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindIf:
		return n.NodeAt(2)
	case KindCase, KindRescue:
		return n.NodeAt(n.Len() - 1)
	}
	return nil
}

// IsModifierForm reports `body if cond` style nodes.
func (n *Node) IsModifierForm() bool { return n.Has(FlagModifier) }

// IsTernary reports `cond ? a : b`.
func (n *Node) IsTernary() bool { return n.Has(FlagTernary) }

// IsElsif reports an if node built from an elsif clause.
func (n *Node) IsElsif() bool { return n.Has(FlagElsif) }

// HasElseKeyword reports an if or case whose falsy branch is introduced by
// `else` rather than by `elsif` or the ternary colon.
func (n *Node) HasElseKeyword() bool {
	if n == nil {
		return false
	}
	switch n.Kind {
	case KindIf:
		if n.IsTernary() || n.IsModifierForm() {
			return false
		}
		if n.Has(FlagUnless) {
			// `unless` swaps branches: the else clause lands in slot 1
			return n.ThenBranch() != nil
		}
		els := n.ElseBranch()
		return els != nil && !els.IsElsif()
	case KindCase:
		return n.ElseBranch() != nil
	}
	return false
}

// WhenClauses returns the when nodes of a case.
func (n *Node) WhenClauses() []*Node {
	if !n.Is(KindCase) {
		return nil
	}
	var out []*Node
	for i := 1; i < n.Len()-1; i++ {
		if w := n.NodeAt(i); w.Is(KindWhen) {
			out = append(out, w)
		}
	}
	return out
}

// ResBodies returns the rescue clauses of a rescue node.
func (n *Node) ResBodies() []*Node {
	if !n.Is(KindRescue) {
		return nil
	}
	var out []*Node
	for i := 1; i < n.Len()-1; i++ {
		if r := n.NodeAt(i); r.Is(KindResBody) {
			out = append(out, r)
		}
	}
	return out
}

// Value returns the literal text of int, float, str and sym nodes.
func (n *Node) Value() string {
	if n.Is(KindInt, KindFloat, KindStr, KindSym) {
		a, _ := n.AtomAt(0)
		return string(a)
	}
	return ""
}
