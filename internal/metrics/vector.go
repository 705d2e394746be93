package metrics

import (
	"fmt"
	"math"
)

// Vector is an (Assignments, Branches, Conditions) triple.
type Vector struct {
	Assignments int
	Branches    int
	Conditions  int
}

// Magnitude is sqrt(A²+B²+C²) rounded to two decimals.
func (v Vector) Magnitude() float64 {
	a, b, c := float64(v.Assignments), float64(v.Branches), float64(v.Conditions)
	return math.Round(math.Sqrt(a*a+b*b+c*c)*100) / 100
}

// Add returns the component-wise sum.
func (v Vector) Add(o Vector) Vector {
	return Vector{
		Assignments: v.Assignments + o.Assignments,
		Branches:    v.Branches + o.Branches,
		Conditions:  v.Conditions + o.Conditions,
	}
}

func (v Vector) String() string {
	return fmt.Sprintf("<%d, %d, %d>", v.Assignments, v.Branches, v.Conditions)
}
