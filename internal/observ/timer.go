package observ

import (
	"fmt"
	"strings"
	"time"
)

// Timer measures the phases of one file: parse, inspect and, under
// autocorrect, correct, each once per round. A nil *Timer records nothing.
type Timer struct {
	phases []phase
}

type phase struct {
	name  string
	start time.Time
	dur   time.Duration
	note  string
}

func NewTimer() *Timer { return &Timer{} }

// Begin opens a phase; hand the result to End.
func (t *Timer) Begin(name string) int {
	if t == nil {
		return -1
	}
	t.phases = append(t.phases, phase{name: name, start: time.Now()})
	return len(t.phases) - 1
}

// End closes the phase idx. Unknown indexes are ignored.
func (t *Timer) End(idx int, note string) {
	if t == nil || idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.dur = time.Since(p.start)
	p.note = note
}

func (t *Timer) Summary() string {
	return t.Report().Summary()
}

// PhaseReport is the total time spent in one phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	// Runs counts the rounds the phase ran in.
	Runs int    `json:"runs"`
	Note string `json:"note,omitempty"`
}

// Report — сводка таймера, сериализуемая в JSON.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report folds the phases by name, in the order names first appear. The
// note of a phase is the last one given.
func (t *Timer) Report() Report {
	var r Report
	if t == nil {
		return r
	}
	idx := make(map[string]int)
	for _, p := range t.phases {
		ms := float64(p.dur) / float64(time.Millisecond)
		r.TotalMS += ms
		pr := r.phase(idx, p.name)
		pr.DurationMS += ms
		pr.Runs++
		if p.note != "" {
			pr.Note = p.note
		}
	}
	return r
}

func (r *Report) phase(idx map[string]int, name string) *PhaseReport {
	i, ok := idx[name]
	if !ok {
		i = len(r.Phases)
		idx[name] = i
		r.Phases = append(r.Phases, PhaseReport{Name: name})
	}
	return &r.Phases[i]
}

// Merge sums reports of several files phase by phase. Notes are per file
// and are dropped.
func Merge(reports ...Report) Report {
	var out Report
	idx := make(map[string]int)
	for _, r := range reports {
		out.TotalMS += r.TotalMS
		for _, p := range r.Phases {
			pr := out.phase(idx, p.Name)
			pr.DurationMS += p.DurationMS
			pr.Runs += p.Runs
		}
	}
	return out
}

// Summary renders the report as an aligned table.
func (r Report) Summary() string {
	var b strings.Builder
	b.WriteString("timings:\n")
	for _, p := range r.Phases {
		fmt.Fprintf(&b, "  %-12s %9.2f ms", p.Name, p.DurationMS)
		if p.Runs > 1 {
			fmt.Fprintf(&b, "  x%d", p.Runs)
		}
		if p.Note != "" {
			b.WriteString("  // " + p.Note)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "  %-12s %9.2f ms\n", "total", r.TotalMS)
	return b.String()
}
