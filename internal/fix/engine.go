package fix

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"rubric/internal/diag"
	"rubric/internal/source"
)

// ErrNoFixes is returned when no script could be applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// AppliedFix records an accepted script.
type AppliedFix struct {
	Rule      string
	Title     string
	Span      source.Span
	EditCount int
}

// SkippedFix is a script Apply dropped, with the reason.
type SkippedFix struct {
	Rule   string
	Title  string
	Span   source.Span
	Code   diag.Code
	Reason string
}

// Diagnostic converts the skip into a warning for the run's bag.
func (s SkippedFix) Diagnostic() diag.Diagnostic {
	msg := fmt.Sprintf("correction for %s dropped: %s", s.Rule, s.Reason)
	return diag.NewWarning(s.Code, s.Span, msg)
}

// ApplyResult is the corrected content plus what was applied or skipped.
type ApplyResult struct {
	Content []byte
	Applied []AppliedFix
	Skipped []SkippedFix
}

// Apply applies scripts to content in the order given. A script is taken
// whole or not at all: scripts that overlap an accepted script, reach past
// the end of content, or whose guards no longer match are skipped. content
// itself is left untouched.
func Apply(content []byte, scripts []*Script) (*ApplyResult, error) {
	res := &ApplyResult{Applied: make([]AppliedFix, 0, len(scripts))}
	var accepted []Edit

	for _, s := range scripts {
		if s == nil || len(s.Edits) == 0 {
			continue
		}
		code, reason := check(content, s.Edits)
		if reason == "" && overlapsAny(accepted, s.Edits) {
			code, reason = diag.FixConflict, "conflicts with previously applied edits"
		}
		if reason != "" {
			res.Skipped = append(res.Skipped, SkippedFix{Rule: s.Rule, Title: s.Title, Span: s.Span(), Code: code, Reason: reason})
			continue
		}
		accepted = append(accepted, s.Edits...)
		res.Applied = append(res.Applied, AppliedFix{Rule: s.Rule, Title: s.Title, Span: s.Span(), EditCount: len(s.Edits)})
	}

	res.Content = splice(content, accepted)
	if len(res.Applied) == 0 {
		return res, ErrNoFixes
	}
	return res, nil
}

// splice writes non-overlapping edits, all addressing content, into a copy
// of it. Insertions at one offset keep the order they were accepted in.
func splice(content []byte, edits []Edit) []byte {
	type seqEdit struct {
		Edit
		seq int
	}
	order := make([]seqEdit, len(edits))
	for i, e := range edits {
		order[i] = seqEdit{e, i}
	}
	// с конца: правка не сдвигает смещения тех, что левее
	slices.SortFunc(order, func(a, b seqEdit) int {
		if c := cmp.Compare(b.Span.Start, a.Span.Start); c != 0 {
			return c
		}
		return cmp.Compare(b.seq, a.seq)
	})
	out := append([]byte(nil), content...)
	for _, e := range order {
		out = slices.Replace(out, int(e.Span.Start), int(e.Span.End), []byte(e.NewText)...)
	}
	return out
}

// check validates a script against the original content.
func check(content []byte, edits []Edit) (diag.Code, string) {
	for i, e := range edits {
		if e.Span.Start > e.Span.End || int(e.Span.End) > len(content) {
			return diag.FixOutOfRange, fmt.Sprintf("edit span %s out of range", e.Span)
		}
		if e.OldText != "" && string(content[e.Span.Start:e.Span.End]) != e.OldText {
			return diag.FixStale, "existing text does not match expected content"
		}
		if overlapsAny(edits[:i], []Edit{e}) {
			return diag.FixConflict, "script contains overlapping edits"
		}
	}
	return 0, ""
}

func overlapsAny(have, edits []Edit) bool {
	for _, h := range have {
		for _, e := range edits {
			if h.overlaps(e) {
				return true
			}
		}
	}
	return false
}

// WriteFile replaces path with content, keeping the file mode. The data goes
// to a sibling temp file that is renamed into place.
func WriteFile(path string, content []byte) (err error) {
	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode()
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
			err = fmt.Errorf("write %s: %w", path, err)
		}
	}()
	if _, err = tmp.Write(content); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), mode); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
