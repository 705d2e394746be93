package diagfmt

import (
	"encoding/json"
	"io"
	"strconv"

	"rubric/internal/driver"
	"rubric/internal/source"
)

// UnitJSON is one scored method.
type UnitJSON struct {
	Path        string  `json:"path"`
	Name        string  `json:"name"`
	Line        uint32  `json:"line"`
	Column      uint32  `json:"column"`
	Assignments int     `json:"assignments"`
	Branches    int     `json:"branches"`
	Conditions  int     `json:"conditions"`
	Magnitude   float64 `json:"magnitude"`
}

// UnitsOpts configures the abc listing.
type UnitsOpts struct {
	PathMode PathMode
	JSON     bool
}

// Units lists every scored method as
//
//	path:line:col: name <A, B, C> magnitude
//
// or, with opts.JSON, as an array of UnitJSON. Diagnostics of files that
// could not be measured follow in the short format.
func Units(w io.Writer, fs *source.FileSet, results []driver.MeasureResult, opts UnitsOpts) error {
	base := ""
	if fs != nil {
		base = fs.BaseDir()
	}
	units := make([]UnitJSON, 0)
	var failed []FileReport
	for _, r := range results {
		path := displayPath(r.Path, opts.PathMode, base)
		for _, u := range r.Units {
			start := source.LineCol{Line: 1, Col: 1}
			if fs != nil && u.Node != nil {
				start, _ = fs.Resolve(u.Node.Span)
			}
			units = append(units, UnitJSON{
				Path:        path,
				Name:        u.Name,
				Line:        start.Line,
				Column:      start.Col,
				Assignments: u.Vector.Assignments,
				Branches:    u.Vector.Branches,
				Conditions:  u.Vector.Conditions,
				Magnitude:   u.Vector.Magnitude(),
			})
		}
		if r.Bag != nil && r.Bag.Len() > 0 {
			failed = append(failed, FromBag(fs, r.Path, r.Bag))
		}
	}

	if opts.JSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(units)
	}
	p := &printer{w: w}
	for _, u := range units {
		p.printf("%s:%d:%d: %s <%d, %d, %d> %s\n", u.Path, u.Line, u.Column, u.Name,
			u.Assignments, u.Branches, u.Conditions, strconv.FormatFloat(u.Magnitude, 'f', 2, 64))
	}
	if p.err != nil {
		return p.err
	}
	return Short(w, fs, failed, ShortOpts{PathMode: opts.PathMode})
}
