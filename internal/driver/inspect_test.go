package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"rubric/internal/config"
	"rubric/internal/diag"
	"rubric/internal/lint"
	"rubric/internal/rules"
	"rubric/internal/syntax"
)

const redundant = "def test\n  x = foo\n  x\nend\n"

// chained needs two rounds: fixing `y = x` exposes `x = foo`.
const chained = "def test\n  x = foo\n  y = x\n  y\nend\n"

const corrected = "def test\n  foo\nend\n"

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) OnEvent(evt Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

func (r *recorder) statuses(file string) []Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Status
	for _, e := range r.events {
		if e.File == file && e.Stage == "" {
			out = append(out, e.Status)
		}
	}
	return out
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestInspectReportsOffenses(t *testing.T) {
	root := t.TempDir()
	bad := writeFile(t, root, "bad.rb", redundant)
	good := writeFile(t, root, "good.rb", corrected)
	rec := &recorder{}

	res, err := Inspect(context.Background(), []string{root}, Options{
		Registry: rules.Registry(),
		Jobs:     2,
		Progress: rec,
	})
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if len(res.Files) != 2 {
		t.Fatalf("files = %d, want 2", len(res.Files))
	}
	if res.Files[0].Path != bad || res.Files[1].Path != good {
		t.Fatalf("order = %q, %q", res.Files[0].Path, res.Files[1].Path)
	}
	first := res.Files[0]
	if len(first.Offenses) != 1 || first.Offenses[0].Rule != rules.RedundantAssignmentName {
		t.Fatalf("offenses = %+v", first.Offenses)
	}
	file := res.FileSet.Get(first.FileID)
	if got := file.Text(first.Offenses[0].Span); got != "x = foo" {
		t.Errorf("offense text = %q", got)
	}
	if first.Offenses[0].Correctable() {
		t.Errorf("plain inspection must not build corrections")
	}
	if len(res.Files[1].Offenses) != 0 || res.OffenseCount() != 1 || res.HasErrors() {
		t.Errorf("unexpected result: %d offenses, errors=%v", res.OffenseCount(), res.HasErrors())
	}

	got := rec.statuses(bad)
	if len(got) != 2 || got[0] != StatusQueued || got[1] != StatusDone {
		t.Errorf("events for %s = %v", bad, got)
	}

	// the file on disk is untouched
	data, err := os.ReadFile(bad)
	if err != nil || string(data) != redundant {
		t.Errorf("inspection modified the file: %q, %v", data, err)
	}
}

func TestInspectSyntaxErrorIsPerFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "broken.rb", "def (\n")
	writeFile(t, root, "ok.rb", redundant)

	res, err := Inspect(context.Background(), []string{root}, Options{Registry: rules.Registry()})
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if !res.Files[0].Bag.HasErrors() {
		t.Errorf("broken.rb should carry a syntax error")
	}
	if len(res.Files[1].Offenses) != 1 || res.Files[1].Bag.Len() != 0 {
		t.Errorf("ok.rb: %d offenses, %d diagnostics", len(res.Files[1].Offenses), res.Files[1].Bag.Len())
	}
}

func TestInspectRejectsUnknownRule(t *testing.T) {
	cfg, err := config.Parse([]byte("[rules.\"Style/Nope\"]\nenabled = true\n"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Inspect(context.Background(), []string{t.TempDir()}, Options{
		Registry: rules.Registry(),
		Config:   cfg,
	}); err == nil {
		t.Fatalf("expected a configuration error")
	}
}

func TestInspectUsesCache(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "a.rb", redundant)
	cache, err := NewResultCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Registry: rules.Registry(), Cache: cache}

	first, err := Inspect(context.Background(), []string{path}, opts)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if first.Files[0].Cached {
		t.Fatalf("first run cannot be cached")
	}
	second, err := Inspect(context.Background(), []string{path}, opts)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if !second.Files[0].Cached {
		t.Fatalf("second run should hit the cache")
	}
	a, b := first.Files[0].Offenses, second.Files[0].Offenses
	if len(a) != 1 || len(b) != 1 || a[0].Span != b[0].Span || a[0].Message != b[0].Message {
		t.Errorf("cached offenses differ: %+v vs %+v", a, b)
	}

	// another rule configuration is another key
	cfg, _ := config.Parse([]byte("[rules.\"Metrics/AbcSize\"]\nmax = 1.0\n"))
	third, err := Inspect(context.Background(), []string{path}, Options{Registry: rules.Registry(), Cache: cache, Config: cfg})
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if third.Files[0].Cached || len(third.Files[0].Offenses) != 2 {
		t.Errorf("changed config: cached=%v offenses=%d", third.Files[0].Cached, len(third.Files[0].Offenses))
	}
}

func TestInspectTimeout(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "slow.rb", strings.Repeat(redundant, 50))

	res, err := Inspect(context.Background(), []string{root}, Options{
		Registry: rules.Registry(),
		Timeout:  time.Nanosecond,
	})
	if err != nil {
		t.Fatalf("a timed-out file must not fail the run: %v", err)
	}
	fr := res.Files[0]
	if !hasCode(fr.Bag, diag.FileTimeout) {
		t.Fatalf("diagnostics = %+v, want a timeout", fr.Bag.Items())
	}
	if len(fr.Offenses) != 0 {
		t.Errorf("timed-out file kept %d offenses", len(fr.Offenses))
	}
}

func TestInspectCancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.rb", redundant)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Inspect(ctx, []string{root}, Options{Registry: rules.Registry()}); err == nil {
		t.Fatalf("cancelled run should return an error")
	}
}

func TestInspectTimings(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.rb", redundant)
	res, err := Inspect(context.Background(), []string{root}, Options{Registry: rules.Registry(), Timings: true})
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	fr := res.Files[0]
	if fr.Timing == nil || len(fr.Timing.Phases) != 2 {
		t.Fatalf("timing = %+v", fr.Timing)
	}
	if !hasCode(fr.Bag, diag.ObsTimings) {
		t.Errorf("missing timing diagnostic")
	}
	merged := res.Timings()
	if len(merged.Phases) != 2 || merged.Phases[0].Name != "parse" || merged.Phases[1].Name != "inspect" {
		t.Errorf("merged = %+v", merged)
	}
}

func TestAutocorrectRewritesFile(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "a.rb", chained)

	res, err := Autocorrect(context.Background(), []string{path}, Options{Registry: rules.Registry()})
	if err != nil {
		t.Fatalf("Autocorrect: %v", err)
	}
	fr := res.Files[0]
	if len(fr.Corrections) != 2 || len(fr.Corrected) != 2 {
		t.Fatalf("corrections = %+v, want 2", fr.Corrections)
	}
	if first := res.FileSet.Get(fr.Corrected[0].Span.File); first.Text(fr.Corrected[0].Span) != "y = x" {
		t.Errorf("first corrected offense = %q", first.Text(fr.Corrected[0].Span))
	}
	if len(fr.Offenses) != 0 || fr.Bag.Len() != 0 {
		t.Errorf("left %d offenses, diagnostics %+v", len(fr.Offenses), fr.Bag.Items())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != corrected {
		t.Fatalf("file = %q, want %q", data, corrected)
	}
	if got := string(res.FileSet.Get(fr.FileID).Content); got != corrected {
		t.Errorf("latest version = %q", got)
	}
	if res.CorrectionCount() != 2 {
		t.Errorf("CorrectionCount = %d", res.CorrectionCount())
	}
}

// panicky fails on every `x = ...` assignment it sees.
type panicky struct{}

func (panicky) Name() string         { return "Test/Panicky" }
func (panicky) Kinds() []syntax.Kind { return []syntax.Kind{syntax.KindLvasgn} }
func (panicky) Check(_ *lint.Pass, n *syntax.Node) error {
	if n.Name() == "x" {
		panic("boom")
	}
	return nil
}

func TestAutocorrectReportsRepeatedFailureOnce(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "a.rb", chained)
	reg := rules.Registry()
	reg.MustRegister(lint.Registration{
		Name:             "Test/Panicky",
		EnabledByDefault: true,
		Severity:         diag.SevWarning,
		Factory:          func(lint.Settings) (lint.Rule, error) { return panicky{}, nil },
	})

	res, err := Autocorrect(context.Background(), []string{path}, Options{Registry: reg})
	if err != nil {
		t.Fatalf("Autocorrect: %v", err)
	}
	fr := res.Files[0]
	// `x = foo` survives the first two rounds at the same offsets
	failures := 0
	for _, d := range fr.Bag.Items() {
		if d.Code == diag.EngineRuleFailed {
			failures++
		}
	}
	if failures != 1 {
		t.Fatalf("diagnostics = %+v", fr.Bag.Items())
	}
	if len(fr.Corrections) != 2 {
		t.Errorf("the failing rule must not block corrections: %+v", fr.Corrections)
	}
}

func TestAutocorrectKeepsLineEndings(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "a.rb", strings.ReplaceAll(redundant, "\n", "\r\n"))

	if _, err := Autocorrect(context.Background(), []string{path}, Options{Registry: rules.Registry()}); err != nil {
		t.Fatalf("Autocorrect: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := strings.ReplaceAll(corrected, "\n", "\r\n"); string(data) != want {
		t.Fatalf("file = %q, want %q", data, want)
	}
}

func TestAutocorrectLeavesCleanFileAlone(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "a.rb", corrected)
	before, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	res, err := Autocorrect(context.Background(), []string{path}, Options{Registry: rules.Registry()})
	if err != nil {
		t.Fatalf("Autocorrect: %v", err)
	}
	if len(res.Files[0].Corrections) != 0 {
		t.Fatalf("unexpected corrections %+v", res.Files[0].Corrections)
	}
	after, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if !after.ModTime().Equal(before.ModTime()) {
		t.Errorf("clean file was rewritten")
	}
}

func TestMeasure(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.rb", "def foo\n  x = bar\nend\n\ndef self.baz\n  qux\nend\n")

	_, results, err := Measure(context.Background(), []string{root}, MeasureOptions{})
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d", len(results))
	}
	units := results[0].Units
	if len(units) != 2 {
		t.Fatalf("units = %+v", units)
	}
	if units[0].Name != "foo" || units[0].Vector.String() != "<1, 1, 0>" {
		t.Errorf("foo = %s %s", units[0].Name, units[0].Vector)
	}
	if units[1].Name != "baz" || units[1].Vector.String() != "<0, 1, 0>" {
		t.Errorf("baz = %s %s", units[1].Name, units[1].Vector)
	}
}

func TestInspectFollowsEnsureClause(t *testing.T) {
	root := t.TempDir()
	paths := []string{
		writeFile(t, root, "a.rb", "def t\n  begin\n    work\n  ensure\n    y = cleanup\n    y\n  end\nend\n"),
		writeFile(t, root, "b.rb", "def t\n  x = 1\n  x\nensure\n  y = cleanup\n  y\nend\n"),
	}
	res, err := Inspect(context.Background(), paths, Options{Registry: rules.Registry()})
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	for _, fr := range res.Files {
		if len(fr.Offenses) != 1 {
			t.Fatalf("%s: offenses = %+v", fr.Path, fr.Offenses)
		}
		if got := res.FileSet.Get(fr.FileID).Text(fr.Offenses[0].Span); got != "y = cleanup" {
			t.Errorf("%s: offense text = %q", fr.Path, got)
		}
	}
}

func TestAutocorrectDropsSeparators(t *testing.T) {
	root := t.TempDir()
	cases := map[string]string{
		"def t\n  x = 1; x\nend\n":       "def t\n  1\nend\n",
		"def t\n  x = 1 # c\n  x\nend\n": "def t\n  1 # c\nend\n",
	}
	i := 0
	for src, want := range cases {
		i++
		path := writeFile(t, root, fmt.Sprintf("f%d.rb", i), src)
		if _, err := Autocorrect(context.Background(), []string{path}, Options{Registry: rules.Registry()}); err != nil {
			t.Fatalf("Autocorrect: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != want {
			t.Errorf("%q corrected to %q, want %q", src, data, want)
		}
	}
}
