package rules

import (
	"context"
	"testing"

	"rubric/internal/fix"
	"rubric/internal/lint"
	"rubric/internal/syntax"
	"rubric/internal/testkit"
)

func inspect(t *testing.T, b *testkit.Built, rule lint.Rule) *lint.Result {
	t.Helper()
	engine := lint.NewEngine(lint.NewRuleSet(rule), lint.Options{Autocorrect: true})
	res, err := engine.Run(context.Background(), b.Tree)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Diagnostics.Len() != 0 {
		t.Fatalf("unexpected engine diagnostics: %v", res.Diagnostics.Items())
	}
	return res
}

func correct(t *testing.T, b *testkit.Built, res *lint.Result) string {
	t.Helper()
	out, err := fix.Apply([]byte(b.Source), lint.Scripts(res.Offenses))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(out.Skipped) != 0 {
		t.Fatalf("skipped fixes: %+v", out.Skipped)
	}
	return string(out.Content)
}

func offenseTexts(b *testkit.Built, res *lint.Result) []string {
	out := make([]string, 0, len(res.Offenses))
	for _, o := range res.Offenses {
		out = append(out, b.File.Text(o.Span))
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// branch is a two-statement body nested one level inside the method.
func branch(name, call string) *testkit.Piece {
	return testkit.Seq("\n    ", testkit.Asgn(name, testkit.Call(call)), testkit.Lvar(name))
}

func TestRedundantAssignmentSimple(t *testing.T) {
	b := testkit.Build(testkit.Def("test", nil,
		testkit.Lines(testkit.Asgn("x", testkit.Call("foo")), testkit.Lvar("x"))))
	res := inspect(t, b, NewRedundantAssignment())

	if len(res.Offenses) != 1 {
		t.Fatalf("got %d offenses, want 1", len(res.Offenses))
	}
	o := res.Offenses[0]
	if o.Rule != RedundantAssignmentName || o.Message != "Redundant assignment before returning detected." {
		t.Errorf("offense = %s: %s", o.Rule, o.Message)
	}
	if got := b.File.Text(o.Span); got != "x = foo" {
		t.Errorf("offense text = %q", got)
	}
	if !o.Correctable() {
		t.Fatalf("offense must carry a correction")
	}

	got := correct(t, b, res)
	fixed := testkit.Build(testkit.Def("test", nil, testkit.Call("foo")))
	if got != fixed.Source {
		t.Fatalf("corrected = %q, want %q", got, fixed.Source)
	}
	if again := inspect(t, fixed, NewRedundantAssignment()); len(again.Offenses) != 0 {
		t.Fatalf("corrected source still has %d offenses", len(again.Offenses))
	}
}

func TestRedundantAssignmentEveryIfBranch(t *testing.T) {
	// def test
	//   if a
	//     x = foo
	//     x
	//   elsif b
	//     y = bar
	//     y
	//   else
	//     z = baz
	//     z
	//   end
	// end
	elsif := testkit.N(syntax.KindIf, "elsif ", testkit.Call("b"), "\n    ", branch("y", "bar"),
		"\n  else\n    ", branch("z", "baz")).With(syntax.FlagElsif)
	b := testkit.Build(testkit.Def("test", nil,
		testkit.N(syntax.KindIf, "if ", testkit.Call("a"), "\n    ", branch("x", "foo"), "\n  ", elsif, "\n  end")))
	res := inspect(t, b, NewRedundantAssignment())

	want := []string{"x = foo", "y = bar", "z = baz"}
	if got := offenseTexts(b, res); !equalStrings(got, want) {
		t.Fatalf("offenses = %q, want %q", got, want)
	}
	wantFixed := "def test\n  if a\n    foo\n  elsif b\n    bar\n  else\n    baz\n  end\nend"
	if got := correct(t, b, res); got != wantFixed {
		t.Fatalf("corrected = %q, want %q", got, wantFixed)
	}
}

func TestRedundantAssignmentCase(t *testing.T) {
	b := testkit.Build(testkit.Def("test", nil,
		testkit.N(syntax.KindCase, "case ", testkit.Call("v"), "\n  ",
			testkit.N(syntax.KindWhen, "when ", testkit.Int("1"), "\n    ", branch("x", "foo")),
			"\n  else\n    ", branch("y", "bar"), "\n  end")))
	res := inspect(t, b, NewRedundantAssignment())

	want := []string{"x = foo", "y = bar"}
	if got := offenseTexts(b, res); !equalStrings(got, want) {
		t.Fatalf("offenses = %q, want %q", got, want)
	}
	wantFixed := "def test\n  case v\n  when 1\n    foo\n  else\n    bar\n  end\nend"
	if got := correct(t, b, res); got != wantFixed {
		t.Fatalf("corrected = %q, want %q", got, wantFixed)
	}
}

func TestRedundantAssignmentRescue(t *testing.T) {
	body := testkit.N(syntax.KindRescue,
		branch("x", "foo"),
		"\n  rescue\n    ",
		testkit.N(syntax.KindResBody, testkit.Absent, testkit.Absent, branch("y", "bar")),
		testkit.Absent)
	b := testkit.Build(testkit.Def("test", nil, body))
	res := inspect(t, b, NewRedundantAssignment())

	want := []string{"x = foo", "y = bar"}
	if got := offenseTexts(b, res); !equalStrings(got, want) {
		t.Fatalf("offenses = %q, want %q", got, want)
	}
}

func TestRedundantAssignmentEnsureTail(t *testing.T) {
	// under ensure only the ensure clause is followed
	body := testkit.N(syntax.KindEnsure,
		testkit.N(syntax.KindRescue,
			branch("x", "foo"),
			"\n  rescue\n    ",
			testkit.N(syntax.KindResBody, testkit.Absent, testkit.Absent, branch("y", "bar")),
			testkit.Absent),
		"\n  ensure\n    ", branch("z", "baz"))
	b := testkit.Build(testkit.Def("test", nil, body))
	res := inspect(t, b, NewRedundantAssignment())

	want := []string{"z = baz"}
	if got := offenseTexts(b, res); !equalStrings(got, want) {
		t.Fatalf("offenses = %q, want %q", got, want)
	}
	wantFixed := "def test\n  x = foo\n    x\n  rescue\n    y = bar\n    y\n  ensure\n    baz\nend"
	if got := correct(t, b, res); got != wantFixed {
		t.Fatalf("corrected = %q, want %q", got, wantFixed)
	}
}

func TestRedundantAssignmentSeparators(t *testing.T) {
	cases := []struct {
		name, sep, want string
	}{
		{"semicolon", "; ", "def test\n  foo\nend"},
		{"comment", " # c\n  ", "def test\n  foo # c\nend"},
		{"blank line", "\n\n  ", "def test\n  foo\nend"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := testkit.Build(testkit.Def("test", nil,
				testkit.Seq(tc.sep, testkit.Asgn("x", testkit.Call("foo")), testkit.Lvar("x"))))
			res := inspect(t, b, NewRedundantAssignment())
			if got := correct(t, b, res); got != tc.want {
				t.Fatalf("corrected = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRedundantAssignmentSingletonMethod(t *testing.T) {
	b := testkit.Build(testkit.N(syntax.KindDefs, "def ", testkit.N(syntax.KindSelf, "self"), ".",
		testkit.Word("build"), testkit.Args(), "\n  ",
		testkit.Lines(testkit.Asgn("obj", testkit.Call("new")), testkit.Lvar("obj")), "\nend"))
	res := inspect(t, b, NewRedundantAssignment())
	if len(res.Offenses) != 1 {
		t.Fatalf("got %d offenses, want 1", len(res.Offenses))
	}
	if got := correct(t, b, res); got != "def self.build\n  new\nend" {
		t.Fatalf("corrected = %q", got)
	}
}

func TestRedundantAssignmentNestedSequence(t *testing.T) {
	b := testkit.Build(testkit.Def("test", nil, testkit.Lines(
		testkit.Call("setup"),
		testkit.Paren(testkit.Asgn("x", testkit.Call("foo")), testkit.Lvar("x")),
	)))
	res := inspect(t, b, NewRedundantAssignment())
	if got := offenseTexts(b, res); !equalStrings(got, []string{"x = foo"}) {
		t.Fatalf("offenses = %q", got)
	}
	if got := correct(t, b, res); got != "def test\n  setup\n  (foo)\nend" {
		t.Fatalf("corrected = %q", got)
	}
}

func TestRedundantAssignmentNoOffense(t *testing.T) {
	x := func() *testkit.Piece { return testkit.Asgn("x", testkit.Call("foo")) }
	cases := []struct {
		name string
		root *testkit.Piece
	}{
		{"different variable", testkit.Def("test", nil, testkit.Lines(x(), testkit.Lvar("y")))},
		{"not adjacent", testkit.Def("test", nil, testkit.Lines(x(), testkit.Call("bar"), testkit.Lvar("x")))},
		{"read is not last", testkit.Def("test", nil, testkit.Lines(x(), testkit.Lvar("x"), testkit.Call("bar")))},
		{"lone assignment", testkit.Def("test", nil, x())},
		{"empty method", testkit.Def("test", nil, nil)},
		{"outside a method", testkit.Lines(x(), testkit.Lvar("x"))},
		{"modifier if", testkit.Def("test", nil, testkit.Lines(
			testkit.Call("setup"),
			testkit.IfMod(testkit.Paren(x(), testkit.Lvar("x")), testkit.Call("ok")),
		))},
		{"ternary", testkit.Def("test", nil, testkit.Ternary(
			testkit.Call("ok"),
			testkit.Paren(x(), testkit.Lvar("x")),
			testkit.Int("2"),
		))},
		{"inside a block", testkit.Def("test", nil, testkit.Block(testkit.Call("each"), nil,
			testkit.Seq("; ", x(), testkit.Lvar("x"))))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := testkit.Build(tc.root)
			if res := inspect(t, b, NewRedundantAssignment()); len(res.Offenses) != 0 {
				t.Fatalf("unexpected offenses: %q", offenseTexts(b, res))
			}
		})
	}
}

func TestRedundantAssignmentSourceOrder(t *testing.T) {
	method := func(name, v, call string) *testkit.Piece {
		return testkit.Def(name, nil, testkit.Lines(testkit.Asgn(v, testkit.Call(call)), testkit.Lvar(v)))
	}
	b := testkit.Build(testkit.Seq("\n\n", method("a", "x", "foo"), method("b", "y", "bar")))
	res := inspect(t, b, NewRedundantAssignment())

	want := []string{"x = foo", "y = bar"}
	if got := offenseTexts(b, res); !equalStrings(got, want) {
		t.Fatalf("offenses = %q, want %q", got, want)
	}
	wantFixed := "def a\n  foo\nend\n\ndef b\n  bar\nend"
	if got := correct(t, b, res); got != wantFixed {
		t.Fatalf("corrected = %q, want %q", got, wantFixed)
	}
}

func TestAutocorrectRejectsOtherNodes(t *testing.T) {
	b := testkit.Build(testkit.Def("test", nil, testkit.Asgn("x", testkit.Call("foo"))))
	c := fix.NewCorrector(b.File)
	if err := NewRedundantAssignment().Autocorrect(c, b.First(syntax.KindSend)); err == nil {
		t.Fatalf("expected error for a send node")
	}
	if err := NewRedundantAssignment().Autocorrect(c, b.First(syntax.KindLvasgn)); err == nil {
		t.Fatalf("expected error for an assignment without a trailing read")
	}
	if len(c.Edits()) != 0 {
		t.Fatalf("failed corrections must not record edits")
	}
}
