package diagfmt

import (
	"io"

	"rubric/internal/diag"
	"rubric/internal/source"
)

// Short prints one line per entry, for editors and grep:
//
//	path:line:col: C: Style/RedundantAssignment: message
func Short(w io.Writer, fs *source.FileSet, reports []FileReport, opts ShortOpts) error {
	p := &printer{w: w}
	base := ""
	if fs != nil {
		base = fs.BaseDir()
	}
	for _, r := range reports {
		path := displayPath(r.Path, opts.PathMode, base)
		for _, e := range r.Entries {
			if e.Code == diag.ObsTimings.ID() {
				continue
			}
			start, _ := position(fs, e)
			corrected := ""
			if e.Corrected {
				corrected = "[Corrected] "
			}
			p.printf("%s:%d:%d: %s: %s%s: %s\n",
				path, start.Line, start.Col, e.Severity.Letter(), corrected, e.Code, e.Message)
		}
	}
	return p.err
}
