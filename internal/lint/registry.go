package lint

import (
	"errors"
	"fmt"
	"sort"

	"rubric/internal/diag"
)

// ErrUnknownRule is returned for settings that name no registered rule.
var ErrUnknownRule = errors.New("unknown rule")

// Settings is the per-rule configuration after defaults are applied.
type Settings struct {
	Enabled  bool
	Severity diag.Severity
	// Max is the threshold for metric rules; zero selects the rule default.
	Max float64
	// IteratingMethods extends the default iterating-method set.
	IteratingMethods []string
}

// Factory builds a fresh rule instance.
type Factory func(Settings) (Rule, error)

// Registration describes a rule known to the registry.
type Registration struct {
	Name             string
	Description      string
	Correctable      bool
	EnabledByDefault bool
	Severity         diag.Severity
	Factory          Factory
}

// Defaults returns the settings used when the configuration is silent.
func (r Registration) Defaults() Settings {
	return Settings{
		Enabled:  r.EnabledByDefault,
		Severity: r.Severity,
	}
}

// Registry maps rule names to factories, keeping registration order.
type Registry struct {
	regs   []Registration
	byName map[string]int
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]int)}
}

// Register adds a rule. Names must be unique.
func (r *Registry) Register(reg Registration) error {
	if reg.Name == "" || reg.Factory == nil {
		return fmt.Errorf("lint: incomplete registration %q", reg.Name)
	}
	if _, dup := r.byName[reg.Name]; dup {
		return fmt.Errorf("lint: rule %q registered twice", reg.Name)
	}
	r.byName[reg.Name] = len(r.regs)
	r.regs = append(r.regs, reg)
	return nil
}

// MustRegister is Register that panics on error.
func (r *Registry) MustRegister(reg Registration) {
	if err := r.Register(reg); err != nil {
		panic(err)
	}
}

func (r *Registry) Lookup(name string) (Registration, bool) {
	idx, ok := r.byName[name]
	if !ok {
		return Registration{}, false
	}
	return r.regs[idx], true
}

// All returns registrations in registration order.
func (r *Registry) All() []Registration {
	return append([]Registration(nil), r.regs...)
}

// Names returns the registered names sorted alphabetically.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.regs))
	for _, reg := range r.regs {
		names = append(names, reg.Name)
	}
	sort.Strings(names)
	return names
}

// Instantiate builds a fresh RuleSet. Rules missing from settings use their
// defaults. It must be called once per file so no rule state is shared
// between trees.
func (r *Registry) Instantiate(settings map[string]Settings) (*RuleSet, error) {
	for name := range settings {
		if _, ok := r.byName[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRule, name)
		}
	}
	set := &RuleSet{severity: make(map[string]diag.Severity)}
	for _, reg := range r.regs {
		s, ok := settings[reg.Name]
		if !ok {
			s = reg.Defaults()
		}
		if !s.Enabled {
			continue
		}
		rule, err := reg.Factory(s)
		if err != nil {
			return nil, fmt.Errorf("lint: build %s: %w", reg.Name, err)
		}
		set.Add(rule, s.Severity)
	}
	return set, nil
}

// RuleSet is an ordered set of rule instances with their severities.
type RuleSet struct {
	rules    []Rule
	severity map[string]diag.Severity
}

// NewRuleSet builds a set with convention severity for every rule.
func NewRuleSet(rules ...Rule) *RuleSet {
	set := &RuleSet{severity: make(map[string]diag.Severity)}
	for _, r := range rules {
		set.Add(r, diag.SevConvention)
	}
	return set
}

func (s *RuleSet) Add(r Rule, sev diag.Severity) {
	s.rules = append(s.rules, r)
	s.severity[r.Name()] = sev
}

func (s *RuleSet) Rules() []Rule { return s.rules }

func (s *RuleSet) Len() int { return len(s.rules) }

// Lookup finds a rule instance by name.
func (s *RuleSet) Lookup(name string) (Rule, bool) {
	for _, r := range s.rules {
		if r.Name() == name {
			return r, true
		}
	}
	return nil, false
}
