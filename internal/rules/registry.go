package rules

import (
	"rubric/internal/diag"
	"rubric/internal/lint"
)

// Registry returns a registry with every built-in rule.
func Registry() *lint.Registry {
	r := lint.NewRegistry()
	r.MustRegister(lint.Registration{
		Name:             RedundantAssignmentName,
		Description:      "Checks for a local assigned and immediately returned.",
		Correctable:      true,
		EnabledByDefault: true,
		Severity:         diag.SevConvention,
		Factory: func(lint.Settings) (lint.Rule, error) {
			return NewRedundantAssignment(), nil
		},
	})
	r.MustRegister(lint.Registration{
		Name:             AbcSizeName,
		Description:      "Checks that the ABC size of methods is not higher than the configured maximum.",
		EnabledByDefault: true,
		Severity:         diag.SevConvention,
		Factory: func(s lint.Settings) (lint.Rule, error) {
			return NewAbcSize(s.Max, s.IteratingMethods...), nil
		},
	})
	return r
}

// Default builds a rule set with every rule at its default settings.
func Default() *lint.RuleSet {
	set, err := Registry().Instantiate(nil)
	if err != nil {
		panic(err)
	}
	return set
}
