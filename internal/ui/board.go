package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"rubric/internal/driver"
)

type fileRow struct {
	path   string
	stage  driver.Stage
	status driver.Status
	err    error
}

func (r *fileRow) label() string {
	if r.status == driver.StatusWorking {
		if verb := r.stage.Verb(); verb != "" {
			return verb
		}
	}
	return string(r.status)
}

// board is the state behind the progress view, independent of Bubble Tea.
type board struct {
	rows   []*fileRow
	byPath map[string]*fileRow
	final  map[driver.Status]int
}

func newBoard() *board {
	return &board{
		byPath: make(map[string]*fileRow),
		final:  make(map[driver.Status]int),
	}
}

// apply records ev. Events after a file's final one are dropped.
func (b *board) apply(ev driver.Event) {
	if ev.File == "" {
		return
	}
	row := b.byPath[ev.File]
	if row == nil {
		row = &fileRow{path: ev.File, status: driver.StatusQueued}
		b.byPath[ev.File] = row
		b.rows = append(b.rows, row)
	}
	if row.status.Final() {
		return
	}
	row.status = ev.Status
	row.err = ev.Err
	if ev.Stage != "" {
		row.stage = ev.Stage
	}
	if ev.Status.Final() {
		b.final[ev.Status]++
	}
}

func (b *board) finished() int {
	return b.final[driver.StatusDone] + b.final[driver.StatusCached] + b.final[driver.StatusError]
}

// completion is the share of the run done, in [0, 1].
func (b *board) completion() float64 {
	if len(b.rows) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range b.rows {
		switch {
		case r.status.Final():
			sum++
		case r.status == driver.StatusWorking:
			sum += r.stage.Share()
		}
	}
	return sum / float64(len(b.rows))
}

// active returns files in flight and failed files, the most recent limit of
// them.
func (b *board) active(limit int) []*fileRow {
	var out []*fileRow
	for _, r := range b.rows {
		if r.status == driver.StatusWorking || r.status == driver.StatusError {
			out = append(out, r)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// header reads e.g. "inspecting 3/10 files (2 cached, 1 failed)".
func (b *board) header(title string) string {
	h := fmt.Sprintf("%s %d/%d files", title, b.finished(), len(b.rows))
	var extra []string
	if n := b.final[driver.StatusCached]; n > 0 {
		extra = append(extra, fmt.Sprintf("%d cached", n))
	}
	if n := b.final[driver.StatusError]; n > 0 {
		extra = append(extra, fmt.Sprintf("%d failed", n))
	}
	if len(extra) > 0 {
		h += " (" + strings.Join(extra, ", ") + ")"
	}
	return h
}

// truncate shortens s to width display cells, marking the cut with "...".
func truncate(s string, width int) string {
	switch {
	case width <= 0 || runewidth.StringWidth(s) <= width:
		return s
	case width <= 3:
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}
