package diagfmt

import (
	"fmt"
	"path/filepath"
	"sort"

	"rubric/internal/diag"
	"rubric/internal/driver"
	"rubric/internal/lint"
	"rubric/internal/source"
)

// Entry is one printed finding: a rule offense or a diagnostic about the run.
type Entry struct {
	Severity diag.Severity
	// Code is the rule name for offenses and the diagnostic ID otherwise.
	Code    string
	Message string
	Span    source.Span
	// Located is false when Span does not point into the entry's file (for
	// example the file could not be read).
	Located     bool
	Offense     bool
	Correctable bool
	Corrected   bool
	Notes       []diag.Note
}

// FileReport groups the entries of one inspected file.
type FileReport struct {
	Path    string
	Entries []Entry
}

// Summary counts what a run found.
type Summary struct {
	Files       int
	Offenses    int
	Corrected   int
	Correctable int
	Errors      int
}

// FromResult flattens a driver result into per-file reports. Corrected
// offenses come first in position order, followed by what is left. reg
// tells which rules can correct; nil treats every offense as not
// correctable unless it already carries a correction.
func FromResult(res *driver.Result, reg *lint.Registry) []FileReport {
	if res == nil {
		return nil
	}
	out := make([]FileReport, 0, len(res.Files))
	for i := range res.Files {
		fr := &res.Files[i]
		report := FileReport{Path: fr.Path}
		for _, o := range fr.Corrected {
			e := offenseEntry(o, reg)
			e.Corrected = true
			report.Entries = append(report.Entries, e)
		}
		for _, o := range fr.Offenses {
			report.Entries = append(report.Entries, offenseEntry(o, reg))
		}
		for _, d := range fr.Bag.Items() {
			report.Entries = append(report.Entries, diagnosticEntry(d, res.FileSet, fr.Path))
		}
		sortEntries(report.Entries, res.FileSet)
		report.Entries = appendSuppressed(report.Entries, fr.Bag)
		out = append(out, report)
	}
	return out
}

// FromBag reports the diagnostics of one file.
func FromBag(fs *source.FileSet, path string, bag *diag.Bag) FileReport {
	report := FileReport{Path: path}
	for _, d := range bag.Items() {
		report.Entries = append(report.Entries, diagnosticEntry(d, fs, path))
	}
	sortEntries(report.Entries, fs)
	report.Entries = appendSuppressed(report.Entries, bag)
	return report
}

// appendSuppressed closes the list with a count of what the bag's limit
// turned away.
func appendSuppressed(entries []Entry, bag *diag.Bag) []Entry {
	n := bag.Dropped()
	if n == 0 {
		return entries
	}
	return append(entries, Entry{
		Severity: diag.SevInfo,
		Code:     diag.ObsSuppressed.ID(),
		Message:  fmt.Sprintf("%s not shown (--max-diagnostics)", plural(n, "more diagnostic")),
	})
}

func offenseEntry(o lint.Offense, reg *lint.Registry) Entry {
	correctable := o.Correctable()
	if reg != nil {
		if r, ok := reg.Lookup(o.Rule); ok && r.Correctable {
			correctable = true
		}
	}
	return Entry{
		Severity:    o.Severity,
		Code:        o.Rule,
		Message:     o.Message,
		Span:        o.Span,
		Located:     true,
		Offense:     true,
		Correctable: correctable,
	}
}

func diagnosticEntry(d diag.Diagnostic, fs *source.FileSet, path string) Entry {
	return Entry{
		Severity: d.Severity,
		Code:     d.Code.ID(),
		Message:  d.Message,
		Span:     d.Primary,
		Located:  locatedIn(fs, d.Primary, path),
		Notes:    d.Notes,
	}
}

// locatedIn reports whether span belongs to some version of path.
func locatedIn(fs *source.FileSet, span source.Span, path string) bool {
	if fs == nil {
		return false
	}
	f := fs.Get(span.File)
	return f != nil && f.Path == filepath.ToSlash(filepath.Clean(path))
}

// sortEntries orders by line and column; entries without a location lead.
func sortEntries(entries []Entry, fs *source.FileSet) {
	pos := func(e Entry) source.LineCol {
		if !e.Located {
			return source.LineCol{}
		}
		start, _ := fs.Resolve(e.Span)
		return start
	}
	sort.SliceStable(entries, func(i, j int) bool {
		pi, pj := pos(entries[i]), pos(entries[j])
		if pi.Line != pj.Line {
			return pi.Line < pj.Line
		}
		if pi.Col != pj.Col {
			return pi.Col < pj.Col
		}
		if entries[i].Corrected != entries[j].Corrected {
			return entries[i].Corrected
		}
		return entries[i].Code < entries[j].Code
	})
}

// Summarize counts offenses and error diagnostics over reports.
func Summarize(reports []FileReport) Summary {
	s := Summary{Files: len(reports)}
	for _, r := range reports {
		for _, e := range r.Entries {
			switch {
			case e.Offense && e.Corrected:
				s.Offenses++
				s.Corrected++
			case e.Offense:
				s.Offenses++
				if e.Correctable {
					s.Correctable++
				}
			case e.Severity == diag.SevError:
				s.Errors++
			}
		}
	}
	return s
}

// displayPath formats path the way File.FormatPath does, without needing
// the file to be loaded.
func displayPath(path string, mode PathMode, baseDir string) string {
	f := source.File{Path: filepath.ToSlash(path)}
	return f.FormatPath(mode.name(), baseDir)
}

func position(fs *source.FileSet, e Entry) (source.LineCol, source.LineCol) {
	if !e.Located || fs == nil {
		return source.LineCol{Line: 1, Col: 1}, source.LineCol{Line: 1, Col: 1}
	}
	return fs.Resolve(e.Span)
}
