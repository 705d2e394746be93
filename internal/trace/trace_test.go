package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLevelAccepts(t *testing.T) {
	cases := []struct {
		level Level
		kind  Kind
		scope Scope
		want  bool
	}{
		{LevelPhase, KindSpanBegin, ScopePass, true},
		{LevelPhase, KindSpanBegin, ScopeFile, false},
		{LevelDetail, KindPoint, ScopeFile, true},
		{LevelDetail, KindPoint, ScopeNode, false},
		{LevelDebug, KindPoint, ScopeNode, true},
		{LevelError, KindSpanBegin, ScopeDriver, false},
		{LevelError, KindFailure, ScopeNode, true},
		{LevelOff, KindFailure, ScopeDriver, false},
	}
	for _, tc := range cases {
		if got := tc.level.Accepts(tc.kind, tc.scope); got != tc.want {
			t.Errorf("%s.Accepts(%s, %s) = %v", tc.level, tc.kind, tc.scope, got)
		}
	}
}

func decode(t *testing.T, out string) []jsonEvent {
	t.Helper()
	var evs []jsonEvent
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		var ev jsonEvent
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			t.Fatalf("bad json %q: %v", line, err)
		}
		evs = append(evs, ev)
	}
	return evs
}

func TestSpansNestThroughContext(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithTracer(context.Background(), NewStreamTracer(&buf, LevelDetail, FormatNDJSON))

	ctx, run := Start(ctx, ScopeDriver, "inspect")
	fctx, file := Start(WithFile(ctx, "app/user.rb"), ScopeFile, "file")
	Note(fctx, ScopeNode, "dispatch", "dropped at detail")
	Fail(fctx, ScopeNode, "rule-failed", "boom")
	file.Set("offenses", "2").End("")
	run.End("")

	evs := decode(t, buf.String())
	if len(evs) != 5 {
		t.Fatalf("events = %+v", evs)
	}
	begin, fail, end := evs[1], evs[2], evs[3]
	if begin.ParentID != run.ID() || begin.File != "app/user.rb" {
		t.Errorf("file span = %+v", begin)
	}
	if fail.Kind != "fail" || fail.ParentID != file.ID() || fail.File != "app/user.rb" || fail.Detail != "boom" {
		t.Errorf("failure = %+v", fail)
	}
	if end.Kind != "end" || end.Extra["offenses"] != "2" {
		t.Errorf("end = %+v", end)
	}
}

func TestFilteredSpanKeepsFile(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithTracer(context.Background(), NewStreamTracer(&buf, LevelError, FormatNDJSON))

	fctx, span := Start(WithFile(ctx, "a.rb"), ScopeFile, "file")
	if span.ID() != 0 || span.End("") != 0 {
		t.Fatalf("span should be inert at error level")
	}
	Fail(fctx, ScopeNode, "rule-failed", "x")

	evs := decode(t, buf.String())
	if len(evs) != 1 || evs[0].File != "a.rb" || evs[0].ParentID != 0 {
		t.Fatalf("events = %+v", evs)
	}
}

func TestTextFormat(t *testing.T) {
	ev := &Event{Kind: KindFailure, Scope: ScopePass, Name: "x", File: "a.rb", Extra: map[string]string{"b": "2", "a": "1"}}
	got := string(FormatEvent(ev, FormatText))
	if !strings.Contains(got, "✗ pass x a.rb {a=1, b=2}\n") {
		t.Fatalf("text = %q", got)
	}
}

func TestRingTracerWraps(t *testing.T) {
	r := NewRingTracer(2, LevelDebug)
	ctx := WithTracer(context.Background(), r)
	for _, name := range []string{"a", "b", "c"} {
		Note(ctx, ScopeNode, name, "")
	}
	snap := r.Snapshot()
	if len(snap) != 2 || snap[0].Name != "b" || snap[1].Name != "c" {
		t.Fatalf("snapshot = %+v", snap)
	}
	if r.Failed() {
		t.Fatalf("no failure was recorded")
	}
}

func TestRingDumpsOnlyAfterFailure(t *testing.T) {
	var buf bytes.Buffer
	open := func() (io.Writer, error) { return &buf, nil }

	clean := NewRingTracer(8, LevelPhase).DumpOnFailure(open, FormatText)
	Note(WithTracer(context.Background(), clean), ScopePass, "files", "")
	if err := clean.Close(); err != nil || buf.Len() != 0 {
		t.Fatalf("clean run dumped %q (%v)", buf.String(), err)
	}

	failed := NewRingTracer(8, LevelPhase).DumpOnFailure(open, FormatText)
	ctx := WithTracer(context.Background(), failed)
	Note(ctx, ScopePass, "files", "")
	Fail(ctx, ScopeDriver, "command", "boom")
	if err := failed.Close(); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); strings.Count(got, "\n") != 2 || !strings.Contains(got, "(boom)") {
		t.Fatalf("dump = %q", got)
	}
}

func TestNewBothModeAppendsRing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.ndjson")
	tr, err := New(Config{Level: LevelPhase, Mode: ModeBoth, OutputPath: path})
	if err != nil {
		t.Fatal(err)
	}
	ctx := WithTracer(context.Background(), tr)
	ctx, span := Start(ctx, ScopeFile, "file")
	Fail(ctx, ScopeNode, "rule-failed", "boom")
	span.End("")
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	evs := decode(t, string(data))
	// ring: begin, fail, end; stream: only the failure
	if len(evs) != 4 {
		t.Fatalf("events = %+v", evs)
	}
	if evs[0].Kind != "fail" || evs[1].Kind != "begin" || evs[3].Kind != "end" {
		t.Fatalf("order = %+v", evs)
	}
}

func TestConfigParsing(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("New(off) = %v, %v", tr, err)
	}
	if FromContext(context.Background()) != Nop {
		t.Fatalf("default tracer must be Nop")
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("ParseLevel must reject unknown levels")
	}
	if m, err := ParseMode("ring"); err != nil || m != ModeRing {
		t.Fatalf("ParseMode = %v %v", m, err)
	}
	if f, err := ParseFormat("ndjson"); err != nil || f != FormatNDJSON {
		t.Fatalf("ParseFormat = %v %v", f, err)
	}
}
