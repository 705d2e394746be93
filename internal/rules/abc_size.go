package rules

import (
	"fmt"
	"math"
	"strconv"

	"rubric/internal/lint"
	"rubric/internal/metrics"
	"rubric/internal/syntax"
)

const (
	AbcSizeName = "Metrics/AbcSize"
	// DefaultAbcMax is the magnitude above which a method is reported.
	DefaultAbcMax = 17.0
)

// AbcSize reports methods whose ABC magnitude exceeds Max.
type AbcSize struct {
	Max  float64
	calc *metrics.AbcCalculator
}

func NewAbcSize(limit float64, iterating ...string) *AbcSize {
	if limit <= 0 {
		limit = DefaultAbcMax
	}
	return &AbcSize{
		Max:  limit,
		calc: metrics.NewAbcCalculator(metrics.WithIteratingMethods(iterating...)),
	}
}

func (*AbcSize) Name() string { return AbcSizeName }

func (*AbcSize) Kinds() []syntax.Kind {
	return []syntax.Kind{syntax.KindDef, syntax.KindDefs, syntax.KindBlock}
}

func (r *AbcSize) Check(p *lint.Pass, n *syntax.Node) error {
	name, ok := metrics.UnitName(n)
	if !ok {
		return nil
	}
	v := r.calc.Calculate(n)
	if mag := v.Magnitude(); mag > r.Max {
		p.Report(n, fmt.Sprintf("Assignment Branch Condition size for %s is too high. [%s %s/%s]",
			name, v, formatMagnitude(mag), strconv.FormatFloat(r.Max, 'f', -1, 64)))
	}
	return nil
}

// formatMagnitude always keeps a fractional part: 18 prints as 18.0.
func formatMagnitude(f float64) string {
	if f == math.Trunc(f) {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
