package pattern

import (
	"errors"
	"testing"

	"rubric/internal/syntax"
	"rubric/internal/testkit"
)

func tailBody() *testkit.Built {
	// def test
	//   x = foo
	//   x
	// end
	return testkit.Build(testkit.Def("test", nil,
		testkit.Lines(testkit.Asgn("x", testkit.Call("foo")), testkit.Lvar("x"))))
}

func TestRedundantAssignmentShape(t *testing.T) {
	m := MustCompile("({begin kwbegin} ... $(lvasgn _name _) (lvar _name))")
	if m.NumCaptures() != 1 {
		t.Fatalf("NumCaptures = %d", m.NumCaptures())
	}

	b := tailBody()
	res, ok := m.MatchNode(b.First(syntax.KindBegin))
	if !ok {
		t.Fatalf("expected match")
	}
	asgn := res.Node(0)
	if asgn == nil || asgn != b.First(syntax.KindLvasgn) {
		t.Fatalf("capture = %v", res.Captures[0])
	}
	if got := res.Bindings["name"]; got != syntax.Atom("x") {
		t.Fatalf("binding name = %#v", got)
	}
}

func TestBackReferenceMismatch(t *testing.T) {
	m := MustCompile("({begin kwbegin} ... $(lvasgn _name _) (lvar _name))")
	b := testkit.Build(testkit.Def("test", nil,
		testkit.Lines(testkit.Asgn("x", testkit.Call("foo")), testkit.Lvar("y"))))
	if _, ok := m.MatchNode(b.First(syntax.KindBegin)); ok {
		t.Fatalf("x/y must not unify")
	}
}

func TestEllipsisBacktracks(t *testing.T) {
	m := MustCompile("(begin ... $(lvasgn _name _) (lvar _name))")
	b := testkit.Build(testkit.Lines(
		testkit.Asgn("x", testkit.Int("1")),
		testkit.Asgn("y", testkit.Int("2")),
		testkit.Lvar("y"),
	))
	res, ok := m.MatchNode(b.Tree.Root)
	if !ok {
		t.Fatalf("expected match")
	}
	if got := res.Node(0).Name(); got != "y" {
		t.Fatalf("captured %q, want y", got)
	}
	if res.Bindings["name"] != syntax.Atom("y") {
		t.Fatalf("stale binding survived backtracking: %#v", res.Bindings)
	}
}

func matches(m *Matcher, c syntax.Child) bool {
	_, ok := m.Match(c)
	return ok
}

func TestAbsentVersusNilLiteral(t *testing.T) {
	recvless := testkit.Build(testkit.Call("foo")).Tree.Root
	onNil := testkit.Build(testkit.Send(testkit.Nil(), "foo")).Tree.Root

	absent := MustCompile("(send nil :foo)")
	literal := MustCompile("(send (nil) :foo)")

	if !matches(absent, recvless) || matches(absent, onNil) {
		t.Errorf("nil must match only an absent receiver")
	}
	if matches(literal, recvless) || !matches(literal, onNil) {
		t.Errorf("(nil) must match only the nil literal")
	}
	if !matches(MustCompile("nil"), nil) {
		t.Errorf("nil pattern must match an absent child")
	}
}

func TestUnionNegationDescend(t *testing.T) {
	root := testkit.Build(testkit.Send(testkit.Lvar("a"), "==", testkit.Int("42"))).Tree.Root

	cases := []struct {
		pattern string
		want    bool
	}{
		{"({send csend} _ :== _)", true},
		{"({send csend} _ {:!= :==} (int \"42\"))", true},
		{"(send _ :== 42)", false},
		{"(send _ :== (int 42))", true},
		{"(send !(lvar :b) ...)", true},
		{"(send !(lvar :a) ...)", false},
		{"`(int _)", true},
		{"`(str _)", false},
		{"(send ...)", true},
		{"(send _ _)", false},
		{"(_ (lvar _) ...)", true},
		{"(csend ...)", false},
		{"send", true},
		{"{lvar send}", true},
		{"_", true},
	}
	for _, tc := range cases {
		m, err := Compile(tc.pattern)
		if err != nil {
			t.Fatalf("Compile(%q): %v", tc.pattern, err)
		}
		if got := matches(m, root); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.pattern, got, tc.want)
		}
	}
}

func TestUnionCapturesShareSlots(t *testing.T) {
	m := MustCompile("{(send $_ :foo) (csend $_ :bar)}")
	if m.NumCaptures() != 1 {
		t.Fatalf("NumCaptures = %d", m.NumCaptures())
	}
	root := testkit.Build(testkit.CSend(testkit.Lvar("x"), "bar")).Tree.Root
	res, ok := m.MatchNode(root)
	if !ok || res.Node(0).Kind != syntax.KindLvar {
		t.Fatalf("capture = %v %v", res.Captures, ok)
	}
}

func TestPredicates(t *testing.T) {
	setter := WithPredicate("setter", func(c syntax.Child) bool {
		a, ok := c.(syntax.Atom)
		return ok && syntax.IsSetterMethod(string(a))
	})
	m := MustCompile("(send _ #setter _)", setter)
	yes := testkit.Build(testkit.Send(testkit.Lvar("x"), "bar=", testkit.Int("1"))).Tree.Root
	no := testkit.Build(testkit.Send(testkit.Lvar("x"), "bar", testkit.Int("1"))).Tree.Root
	if !matches(m, yes) || matches(m, no) {
		t.Errorf("predicate not applied")
	}
}

func TestNoPanicOnOddShapes(t *testing.T) {
	m := MustCompile("(begin $_ (lvar _x) ...)")
	inputs := []syntax.Child{nil, syntax.Atom("x"), (*syntax.Node)(nil)}
	for _, in := range inputs {
		if _, ok := m.Match(in); ok {
			t.Errorf("unexpected match for %#v", in)
		}
	}
}

func TestCompileErrors(t *testing.T) {
	cases := []struct {
		src    string
		offset int
	}{
		{"(send", 0},
		{"(send nil :foo", 0},
		{"send)", 4},
		{"()", 1},
		{"(bogus _)", 1},
		{"(send #unknown)", 6},
		{"{(send $_) (send _)}", 11},
		{"!$_", 1},
		{"...", 0},
		{"(send $...)", 7},
		{"{}", 0},
		{"(send :)", 6},
		{"(send %)", 6},
	}
	for _, tc := range cases {
		_, err := Compile(tc.src)
		var se *SyntaxError
		if !errors.As(err, &se) {
			t.Errorf("Compile(%q) error = %v, want *SyntaxError", tc.src, err)
			continue
		}
		if se.Offset != tc.offset {
			t.Errorf("Compile(%q) offset = %d, want %d (%v)", tc.src, se.Offset, tc.offset, se)
		}
	}
}

func TestMustCompilePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	MustCompile("(")
}
