package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"rubric/internal/diag"
	"rubric/internal/source"
)

// printer remembers the first write error so callers check once.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

type palette struct {
	path, code, dim *color.Color
	severity        map[diag.Severity]*color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		path: color.New(color.FgCyan),
		code: color.New(color.Bold),
		dim:  color.New(color.Faint),
		severity: map[diag.Severity]*color.Color{
			diag.SevInfo:       color.New(color.FgBlue),
			diag.SevConvention: color.New(color.FgYellow),
			diag.SevWarning:    color.New(color.FgMagenta),
			diag.SevError:      color.New(color.FgRed, color.Bold),
		},
	}
	all := []*color.Color{p.path, p.code, p.dim}
	for _, c := range p.severity {
		all = append(all, c)
	}
	for _, c := range all {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) sev(s diag.Severity) *color.Color {
	if c, ok := p.severity[s]; ok {
		return c
	}
	return p.dim
}

// Pretty печатает находки в человекочитаемом виде:
//
//	<path>:<line>:<col>: <S>: [Correctable] <Rule>: <Message>
//
// затем строку исходника с подчёркиванием ^~~~ по Span и, для диагностик,
// их Notes.
func Pretty(w io.Writer, fs *source.FileSet, reports []FileReport, opts PrettyOpts) error {
	p := &printer{w: w}
	pal := newPalette(opts.Color)
	base := ""
	if fs != nil {
		base = fs.BaseDir()
	}
	for _, r := range reports {
		path := displayPath(r.Path, opts.PathMode, base)
		for _, e := range r.Entries {
			start, _ := position(fs, e)
			sev := pal.sev(e.Severity)
			p.printf("%s:%d:%d: %s: %s%s: %s\n",
				pal.path.Sprint(path), start.Line, start.Col,
				sev.Sprint(e.Severity.Letter()), tag(e), pal.code.Sprint(e.Code), e.Message)

			if e.Located && (e.Offense || !e.Span.Empty()) {
				printSource(p, fs, e, start, sev, opts.Width)
			}
			if e.Code == diag.ObsTimings.ID() && !opts.ShowNotes {
				continue
			}
			for _, n := range e.Notes {
				p.printf("  %s %s\n", pal.dim.Sprint("note:"), n.Msg)
			}
		}
	}
	return p.err
}

// PrettySummary prints the closing line, e.g.
// "2 files inspected, 1 offense detected, 1 offense autocorrectable".
func PrettySummary(w io.Writer, s Summary, colored bool) error {
	p := &printer{w: w}
	pal := newPalette(colored)
	parts := []string{plural(s.Files, "file") + " inspected"}
	found := plural(s.Offenses, "offense") + " detected"
	switch {
	case s.Offenses == 0:
		parts = append(parts, pal.sev(diag.SevInfo).Sprint("no offenses")+" detected")
	case s.Errors > 0:
		parts = append(parts, pal.sev(diag.SevError).Sprint(found))
	default:
		parts = append(parts, pal.sev(diag.SevConvention).Sprint(found))
	}
	if s.Corrected > 0 {
		parts = append(parts, plural(s.Corrected, "offense")+" corrected")
	}
	if s.Correctable > 0 {
		parts = append(parts, plural(s.Correctable, "offense")+" autocorrectable")
	}
	if s.Errors > 0 {
		parts = append(parts, pal.sev(diag.SevError).Sprint(plural(s.Errors, "error")))
	}
	p.printf("\n%s\n", strings.Join(parts, ", "))
	return p.err
}

func tag(e Entry) string {
	switch {
	case e.Corrected:
		return "[Corrected] "
	case e.Correctable:
		return "[Correctable] "
	}
	return ""
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// printSource prints the first line of the span and underlines it. Only the
// part of the span on that line is underlined.
func printSource(p *printer, fs *source.FileSet, e Entry, start source.LineCol, sev *color.Color, width int) {
	if fs == nil {
		return
	}
	f := fs.Get(e.Span.File)
	if f == nil {
		return
	}
	line := f.Line(start.Line)
	if strings.TrimSpace(line) == "" {
		return
	}
	col := max(0, min(int(start.Col)-1, len(line)))
	prefix, rest := line[:col], line[col:]

	spanLen := int(e.Span.Len())
	if spanLen > len(rest) {
		spanLen = len(rest)
	}
	marked := runewidth.StringWidth(rest[:spanLen])

	if width > 0 && runewidth.StringWidth(line) > width {
		line = runewidth.Truncate(line, width, "...")
	}
	p.printf("%s\n", line)

	underline := "^"
	if marked > 1 {
		underline += strings.Repeat("~", marked-1)
	}
	p.printf("%s%s\n", padding(prefix), sev.Sprint(underline))
}

// padding keeps tabs and replaces everything else by spaces of the same
// display width, so the caret lines up in a terminal.
func padding(prefix string) string {
	var b strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}
