// Package rules holds the built-in lint rules.
//
// Style/RedundantAssignment follows every tail position of a method body
// (if and case branches, rescue handlers, the protected part of ensure,
// the last statement of a sequence) looking for
//
//	x = expr
//	x
//
// and rewrites it to `expr`. Metrics/AbcSize reports methods whose
// assignment/branch/condition magnitude is above its maximum.
package rules
