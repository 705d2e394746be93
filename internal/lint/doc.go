// Package lint runs rules over a syntax tree.
//
// A Registry holds rule factories; Instantiate builds a RuleSet for one file.
// Engine.Run walks the tree once in pre-order and calls Check on every rule
// subscribed to the node's kind, in registration order. Offenses are
// reported through the Pass. Errors and panics from a rule are contained at
// the dispatch boundary and become diagnostics in Result.Diagnostics.
//
// With Options.Autocorrect set, rules implementing Autocorrector are asked
// for a fix.Script per offense once traversal ends.
package lint
