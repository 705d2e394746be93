package lint

import (
	"context"
	"errors"
	"strings"
	"testing"

	"rubric/internal/diag"
	"rubric/internal/fix"
	"rubric/internal/syntax"
	"rubric/internal/testkit"
)

type funcRule struct {
	name  string
	kinds []syntax.Kind
	check func(p *Pass, n *syntax.Node) error
	fix   func(c *fix.Corrector, n *syntax.Node) error
}

func (r *funcRule) Name() string                        { return r.name }
func (r *funcRule) Kinds() []syntax.Kind                { return r.kinds }
func (r *funcRule) Check(p *Pass, n *syntax.Node) error { return r.check(p, n) }

type correctingRule struct{ *funcRule }

func (r correctingRule) Autocorrect(c *fix.Corrector, n *syntax.Node) error { return r.fix(c, n) }

func sample() *testkit.Built {
	// def test
	//   a = 1
	//   b = 2
	// end
	return testkit.Build(testkit.Def("test", nil,
		testkit.Lines(testkit.Asgn("a", testkit.Int("1")), testkit.Asgn("b", testkit.Int("2")))))
}

func reportAll(name string, kind syntax.Kind) *funcRule {
	return &funcRule{
		name:  name,
		kinds: []syntax.Kind{kind},
		check: func(p *Pass, n *syntax.Node) error {
			p.Report(n, name+" on "+p.Tree.Text(n))
			return nil
		},
	}
}

func TestRunOrdersOffenses(t *testing.T) {
	b := sample()
	set := NewRuleSet(
		reportAll("Z/Ints", syntax.KindInt),
		reportAll("A/Asgn", syntax.KindLvasgn),
		reportAll("M/Def", syntax.KindDef),
	)
	res, err := NewEngine(set, Options{}).Run(context.Background(), b.Tree)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	var got []string
	for _, o := range res.Offenses {
		got = append(got, o.Message)
	}
	want := []string{
		"M/Def on " + b.Source,
		"A/Asgn on a = 1",
		"Z/Ints on 1",
		"A/Asgn on b = 2",
		"Z/Ints on 2",
	}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("offenses:\n%v\nwant\n%v", got, want)
	}
	if res.Offenses[0].Severity != diag.SevConvention {
		t.Fatalf("severity = %v", res.Offenses[0].Severity)
	}
	if res.Nodes != syntax.Count(b.Tree.Root) {
		t.Fatalf("Nodes = %d", res.Nodes)
	}
}

func TestRuleFailuresAreContained(t *testing.T) {
	b := sample()
	panicky := &funcRule{
		name:  "X/Panic",
		kinds: []syntax.Kind{syntax.KindLvasgn},
		check: func(p *Pass, n *syntax.Node) error {
			if n.Name() == "a" {
				panic("boom")
			}
			p.Report(n, "seen")
			return nil
		},
	}
	failing := &funcRule{
		name:  "X/Error",
		kinds: []syntax.Kind{syntax.KindDef},
		check: func(*Pass, *syntax.Node) error { return errors.New("nope") },
	}
	set := NewRuleSet(panicky, failing, reportAll("X/Ints", syntax.KindInt))

	res, err := NewEngine(set, Options{}).Run(context.Background(), b.Tree)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Diagnostics.Len() != 2 {
		t.Fatalf("diagnostics = %+v", res.Diagnostics.Items())
	}
	for _, d := range res.Diagnostics.Items() {
		if d.Code != diag.EngineRuleFailed {
			t.Errorf("code = %v", d.Code)
		}
	}
	if len(res.Offenses) != 3 {
		t.Fatalf("traversal must continue after a failure, offenses = %+v", res.Offenses)
	}
}

func TestAutocorrectBuildsScripts(t *testing.T) {
	b := sample()
	rule := correctingRule{&funcRule{
		name:  "X/Upcase",
		kinds: []syntax.Kind{syntax.KindLvasgn},
		check: func(p *Pass, n *syntax.Node) error {
			p.Report(n, "rename")
			return nil
		},
		fix: func(c *fix.Corrector, n *syntax.Node) error {
			if n.Name() == "b" {
				return errors.New("cannot fix b")
			}
			name := n.Span
			name.End = name.Start + 1
			return c.Replace(name, strings.ToUpper(n.Name()))
		},
	}}
	res, err := NewEngine(NewRuleSet(rule), Options{Autocorrect: true}).Run(context.Background(), b.Tree)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Offenses) != 2 {
		t.Fatalf("offenses = %d", len(res.Offenses))
	}
	if !res.Offenses[0].Correctable() || res.Offenses[1].Correctable() {
		t.Fatalf("correctable = %v %v", res.Offenses[0].Correctable(), res.Offenses[1].Correctable())
	}
	if res.Diagnostics.Len() != 1 || res.Diagnostics.Items()[0].Code != diag.EngineCorrectionFailed {
		t.Fatalf("diagnostics = %+v", res.Diagnostics.Items())
	}
	applied, err := fix.Apply(b.File.Content, Scripts(res.Offenses))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !strings.Contains(string(applied.Content), "A = 1") {
		t.Fatalf("content = %q", applied.Content)
	}
}

func TestCancelledRunDiscardsOffenses(t *testing.T) {
	b := sample()
	ctx, cancel := context.WithCancel(context.Background())
	stopper := &funcRule{
		name:  "X/Stop",
		kinds: []syntax.Kind{syntax.KindLvasgn},
		check: func(p *Pass, n *syntax.Node) error {
			p.Report(n, "seen")
			cancel()
			return nil
		},
	}
	res, err := NewEngine(NewRuleSet(stopper), Options{}).Run(ctx, b.Tree)
	if !errors.Is(err, context.Canceled) || res != nil {
		t.Fatalf("Run = %v, %v", res, err)
	}
}

func TestRegistryInstantiate(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(Registration{
		Name: "B/On", EnabledByDefault: true, Severity: diag.SevConvention,
		Factory: func(Settings) (Rule, error) { return reportAll("B/On", syntax.KindInt), nil },
	})
	reg.MustRegister(Registration{
		Name: "A/Off", EnabledByDefault: false, Severity: diag.SevWarning,
		Factory: func(Settings) (Rule, error) { return reportAll("A/Off", syntax.KindInt), nil },
	})
	if err := reg.Register(Registration{Name: "B/On", Factory: func(Settings) (Rule, error) { return nil, nil }}); err == nil {
		t.Fatalf("duplicate registration must fail")
	}
	if got := strings.Join(reg.Names(), ","); got != "A/Off,B/On" {
		t.Fatalf("Names = %s", got)
	}

	set, err := reg.Instantiate(nil)
	if err != nil || set.Len() != 1 {
		t.Fatalf("defaults: %v len=%d", err, set.Len())
	}

	set, err = reg.Instantiate(map[string]Settings{"A/Off": {Enabled: true, Severity: diag.SevWarning}})
	if err != nil || set.Len() != 2 {
		t.Fatalf("enable: %v", err)
	}
	if set.Rules()[0].Name() != "B/On" {
		t.Fatalf("registration order lost")
	}
	first, _ := reg.Instantiate(nil)
	second, _ := reg.Instantiate(nil)
	if first.Rules()[0] == second.Rules()[0] {
		t.Fatalf("instances must not be shared")
	}

	if _, err := reg.Instantiate(map[string]Settings{"Nope/Rule": {}}); !errors.Is(err, ErrUnknownRule) {
		t.Fatalf("unknown rule: %v", err)
	}
}
