package syntax

import (
	"strings"
	"testing"

	"rubric/internal/source"
)

func sp(start, end uint32) source.Span {
	return source.Span{Start: start, End: end}
}

// def test; x = foo; x; end
func buildDef() (*Node, *Node, *Node) {
	call := New(KindSend, sp(13, 16), nil, Atom("foo"))
	asgn := New(KindLvasgn, sp(9, 16), Atom("x"), call)
	ref := New(KindLvar, sp(18, 19), Atom("x"))
	body := New(KindBegin, sp(9, 19), asgn, ref)
	def := New(KindDef, sp(0, 24), Atom("test"), New(KindArgs, sp(8, 8)), body)
	return def, asgn, ref
}

func TestParentAndSiblings(t *testing.T) {
	def, asgn, ref := buildDef()

	if asgn.Parent() == nil || asgn.Parent().Kind != KindBegin {
		t.Fatalf("asgn parent = %v", asgn.Parent())
	}
	if got := asgn.SiblingIndex(); got != 0 {
		t.Fatalf("SiblingIndex = %d", got)
	}
	if got, ok := asgn.RightSibling().(*Node); !ok || got != ref {
		t.Fatalf("RightSibling = %v", asgn.RightSibling())
	}
	if ref.RightSibling() != nil {
		t.Fatalf("last child must have no right sibling")
	}
	if ref.LeftSibling().(*Node) != asgn {
		t.Fatalf("LeftSibling mismatch")
	}
	if def.SiblingIndex() != -1 || def.RightSibling() != nil {
		t.Fatalf("root must have no siblings")
	}
}

func TestTypedNilChildIsAbsent(t *testing.T) {
	var missing *Node
	n := New(KindIf, sp(0, 10), New(KindLvar, sp(3, 4), Atom("a")), missing, missing)
	if n.Len() != 3 {
		t.Fatalf("Len = %d", n.Len())
	}
	if n.Child(1) != nil {
		t.Fatalf("typed nil must become an absent slot, got %#v", n.Child(1))
	}
	if n.ElseBranch() != nil {
		t.Fatalf("ElseBranch must be nil")
	}
}

func TestAdoptTwicePanics(t *testing.T) {
	leaf := New(KindNil, sp(0, 3))
	New(KindBegin, sp(0, 3), leaf)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic when adopting a node twice")
		}
	}()
	New(KindBegin, sp(0, 3), leaf)
}

func TestAccessors(t *testing.T) {
	def, asgn, _ := buildDef()
	if def.Name() != "test" || def.MethodName() != "test" {
		t.Fatalf("def name = %q", def.Name())
	}
	if asgn.Name() != "x" {
		t.Fatalf("lvasgn name = %q", asgn.Name())
	}
	call := asgn.NodeAt(1)
	if call.MethodName() != "foo" || call.Receiver() != nil {
		t.Fatalf("send accessors: %q %v", call.MethodName(), call.Receiver())
	}
	if def.Body().Kind != KindBegin || def.Params().Kind != KindArgs {
		t.Fatalf("def body/params mismatch")
	}
}

func TestSetterAndComparison(t *testing.T) {
	cases := []struct {
		name       string
		setter     bool
		comparison bool
	}{
		{"bar=", true, false},
		{"[]=", true, false},
		{"==", false, true},
		{"!=", false, true},
		{"<=", false, true},
		{">=", false, true},
		{"===", false, true},
		{"=~", false, false},
		{"<", false, true},
		{"+", false, false},
		{"bar", false, false},
	}
	for _, tc := range cases {
		if got := IsSetterMethod(tc.name); got != tc.setter {
			t.Errorf("IsSetterMethod(%q) = %v", tc.name, got)
		}
		if got := IsComparisonMethod(tc.name); got != tc.comparison {
			t.Errorf("IsComparisonMethod(%q) = %v", tc.name, got)
		}
	}
}

func TestHasElseKeyword(t *testing.T) {
	cond := func() *Node { return New(KindLvar, sp(0, 1), Atom("a")) }
	lit := func() *Node { return New(KindInt, sp(0, 1), Atom("1")) }

	plain := New(KindIf, sp(0, 1), cond(), lit(), lit())
	if !plain.HasElseKeyword() {
		t.Errorf("if/else must report else keyword")
	}
	ternary := NewFlagged(KindIf, FlagTernary, sp(0, 1), cond(), lit(), lit())
	if ternary.HasElseKeyword() {
		t.Errorf("ternary must not report else keyword")
	}
	elsif := NewFlagged(KindIf, FlagElsif, sp(0, 1), cond(), lit(), nil)
	outer := New(KindIf, sp(0, 1), cond(), lit(), elsif)
	if outer.HasElseKeyword() {
		t.Errorf("if/elsif must not report else keyword")
	}
	nested := New(KindIf, sp(0, 1), cond(), lit(), New(KindIf, sp(0, 1), cond(), lit(), nil))
	if !nested.HasElseKeyword() {
		t.Errorf("else followed by a nested if must report else keyword")
	}
	unless := NewFlagged(KindIf, FlagUnless, sp(0, 1), cond(), nil, lit())
	if unless.HasElseKeyword() {
		t.Errorf("unless without else")
	}
	unlessElse := NewFlagged(KindIf, FlagUnless, sp(0, 1), cond(), lit(), lit())
	if !unlessElse.HasElseKeyword() {
		t.Errorf("unless with else")
	}
	noElse := New(KindCase, sp(0, 1), cond(), New(KindWhen, sp(0, 1), lit(), lit()), nil)
	if noElse.HasElseKeyword() {
		t.Errorf("case without else")
	}
	withElse := New(KindCase, sp(0, 1), cond(), New(KindWhen, sp(0, 1), lit(), lit()), lit())
	if !withElse.HasElseKeyword() || len(withElse.WhenClauses()) != 1 {
		t.Errorf("case with else")
	}
}

func TestEqualIgnoresSpans(t *testing.T) {
	a := New(KindLvar, sp(0, 1), Atom("x"))
	b := New(KindLvar, sp(40, 41), Atom("x"))
	c := New(KindLvar, sp(0, 1), Atom("y"))
	if !Equal(a, b) {
		t.Errorf("same shape must be equal")
	}
	if Equal(a, c) {
		t.Errorf("different names must differ")
	}
	if !Equal(nil, nil) || Equal(a, nil) || Equal(nil, Atom("x")) {
		t.Errorf("nil handling")
	}
	send1 := New(KindSend, sp(0, 3), nil, Atom("foo"))
	send2 := New(KindSend, sp(0, 3), New(KindSelf, sp(0, 1)), Atom("foo"))
	if Equal(send1, send2) {
		t.Errorf("absent receiver differs from self receiver")
	}
}

func TestWalkOrders(t *testing.T) {
	def, _, _ := buildDef()
	var pre, post []string
	Inspect(def, func(n *Node) bool {
		pre = append(pre, n.Kind.String())
		return true
	})
	PostOrder(def, func(n *Node) {
		post = append(post, n.Kind.String())
	})
	if got := strings.Join(pre, " "); got != "def args begin lvasgn send lvar" {
		t.Errorf("pre-order = %q", got)
	}
	if got := strings.Join(post, " "); got != "args send lvasgn lvar begin def" {
		t.Errorf("post-order = %q", got)
	}
	if Count(def) != 6 {
		t.Errorf("Count = %d", Count(def))
	}

	var skipped []string
	Inspect(def, func(n *Node) bool {
		skipped = append(skipped, n.Kind.String())
		return n.Kind != KindBegin
	})
	if got := strings.Join(skipped, " "); got != "def args begin" {
		t.Errorf("pruned walk = %q", got)
	}
}

func TestFormat(t *testing.T) {
	def, _, _ := buildDef()
	want := "(def :test (args) (begin (lvasgn :x (send nil :foo)) (lvar :x)))"
	if got := def.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
	str := New(KindStr, sp(0, 7), Atom("world"))
	if got := str.String(); got != `(str "world")` {
		t.Errorf("str = %s", got)
	}
	indented := Format(def)
	if !strings.Contains(indented, "\n  (args)") || !strings.Contains(indented, "\n    (lvasgn :x") {
		t.Errorf("Format =\n%s", indented)
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := ParseKind("no_such_kind"); ok {
		t.Errorf("unknown kind must fail")
	}
}
