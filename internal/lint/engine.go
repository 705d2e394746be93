package lint

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"rubric/internal/diag"
	"rubric/internal/fix"
	"rubric/internal/syntax"
	"rubric/internal/trace"
)

// Options configures an Engine.
type Options struct {
	// Autocorrect requests a correction for every offense of an
	// autocorrecting rule.
	Autocorrect bool
	// MaxDiagnostics caps engine diagnostics per run; zero means no limit.
	MaxDiagnostics int
}

// Result is the outcome of one run over one tree.
type Result struct {
	// Offenses are sorted by span start, span end, then rule name.
	Offenses []Offense
	// Diagnostics hold contained rule failures.
	Diagnostics *diag.Bag
	// Nodes is the number of nodes visited.
	Nodes int
}

// Engine dispatches nodes to the rules subscribed to their kind.
type Engine struct {
	set      *RuleSet
	opts     Options
	dispatch map[syntax.Kind][]Rule
}

func NewEngine(set *RuleSet, opts Options) *Engine {
	if set == nil {
		set = NewRuleSet()
	}
	e := &Engine{
		set:      set,
		opts:     opts,
		dispatch: make(map[syntax.Kind][]Rule),
	}
	for _, r := range set.rules {
		for _, k := range r.Kinds() {
			e.dispatch[k] = append(e.dispatch[k], r)
		}
	}
	return e
}

// Run walks tree once in source order. A cancelled context aborts the run and
// discards the offenses gathered so far.
func (e *Engine) Run(ctx context.Context, tree *syntax.Tree) (*Result, error) {
	if tree == nil {
		return nil, errors.New("lint: nil tree")
	}
	res := &Result{Diagnostics: diag.NewBag(e.opts.MaxDiagnostics)}
	var offenses []Offense
	passes := make(map[string]*Pass, len(e.set.rules))
	for _, r := range e.set.rules {
		passes[r.Name()] = &Pass{
			Tree:     tree,
			File:     tree.File,
			rule:     r,
			severity: e.set.severity[r.Name()],
			out:      &offenses,
		}
	}

	var cancelled error
	syntax.Inspect(tree.Root, func(n *syntax.Node) bool {
		if cancelled != nil {
			return false
		}
		if err := ctx.Err(); err != nil {
			cancelled = err
			return false
		}
		res.Nodes++
		for _, r := range e.dispatch[n.Kind] {
			if err := invokeCheck(r, passes[r.Name()], n); err != nil {
				e.contain(ctx, res, diag.EngineRuleFailed, r, n, err)
			}
		}
		return true
	})
	if cancelled != nil {
		return nil, cancelled
	}

	sortOffenses(offenses)
	if e.opts.Autocorrect {
		for i := range offenses {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			e.correct(ctx, res, tree, &offenses[i])
		}
	}
	res.Offenses = offenses
	return res, nil
}

func (e *Engine) correct(ctx context.Context, res *Result, tree *syntax.Tree, o *Offense) {
	rule, ok := e.set.Lookup(o.Rule)
	if !ok {
		return
	}
	ac, ok := rule.(Autocorrector)
	if !ok {
		return
	}
	c := fix.NewCorrector(tree.File)
	if err := invokeAutocorrect(ac, c, o.node); err != nil {
		e.contain(ctx, res, diag.EngineCorrectionFailed, rule, o.node, err)
		return
	}
	o.Correction = c.Script(o.Rule)
}

func (e *Engine) contain(ctx context.Context, res *Result, code diag.Code, r Rule, n *syntax.Node, err error) {
	msg := fmt.Sprintf("%s failed on %s node: %v", r.Name(), n.Kind, err)
	res.Diagnostics.Add(diag.NewError(code, n.Span, msg))
	trace.Fail(ctx, trace.ScopeNode, "rule-failed", msg)
}

func invokeCheck(r Rule, p *Pass, n *syntax.Node) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return r.Check(p, n)
}

func invokeAutocorrect(ac Autocorrector, c *fix.Corrector, n *syntax.Node) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return ac.Autocorrect(c, n)
}

func sortOffenses(offenses []Offense) {
	sort.SliceStable(offenses, func(i, j int) bool {
		a, b := offenses[i], offenses[j]
		if a.Span.Start != b.Span.Start {
			return a.Span.Start < b.Span.Start
		}
		if a.Span.End != b.Span.End {
			return a.Span.End < b.Span.End
		}
		return a.Rule < b.Rule
	})
}

// Scripts returns the correction scripts of offenses in order, skipping
// offenses without one.
func Scripts(offenses []Offense) []*fix.Script {
	var out []*fix.Script
	for _, o := range offenses {
		if o.Correction != nil {
			out = append(out, o.Correction)
		}
	}
	return out
}
