package config

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"rubric/internal/diag"
	"rubric/internal/lint"
)

var (
	// ErrNotFound is returned by Load for a missing file.
	ErrNotFound = errors.New("configuration not found")
	// ErrInvalid marks configuration that decodes but makes no sense.
	ErrInvalid = errors.New("invalid configuration")
)

// DefaultTimeout bounds the inspection of one file.
const DefaultTimeout = 30 * time.Second

// Duration decodes "30s"-style strings.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Run is the [run] section.
type Run struct {
	// Jobs limits parallel files; zero means GOMAXPROCS.
	Jobs    int      `toml:"jobs"`
	Timeout Duration `toml:"timeout"`
	Cache   bool     `toml:"cache"`
	Exclude []string `toml:"exclude"`
}

// Rule is one [rules."Name"] table. Unset keys keep the rule defaults.
type Rule struct {
	Enabled          *bool    `toml:"enabled,omitempty"`
	Severity         string   `toml:"severity,omitempty"`
	Max              *float64 `toml:"max,omitempty"`
	IteratingMethods []string `toml:"iterating_methods,omitempty"`
}

// Config is a decoded .rubric.toml.
type Config struct {
	// Path is the file the configuration came from; empty for defaults.
	Path  string          `toml:"-"`
	Run   Run             `toml:"run"`
	Rules map[string]Rule `toml:"rules"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Run: Run{
			Timeout: Duration{DefaultTimeout},
			Cache:   true,
		},
		Rules: map[string]Rule{},
	}
}

// Load decodes path. Undecoded keys are rejected so typos do not silently
// turn into defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes configuration text over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	meta, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(keys, ", "))
	}
	if cfg.Run.Jobs < 0 {
		return nil, fmt.Errorf("%w: [run].jobs must not be negative", ErrInvalid)
	}
	if meta.IsDefined("run", "timeout") && cfg.Run.Timeout.Duration <= 0 {
		return nil, fmt.Errorf("%w: [run].timeout must be positive", ErrInvalid)
	}
	for _, pattern := range cfg.Run.Exclude {
		if _, err := path.Match(strings.TrimSuffix(pattern, "/**"), ""); err != nil {
			return nil, fmt.Errorf("%w: exclude pattern %q: %w", ErrInvalid, pattern, err)
		}
	}
	if cfg.Rules == nil {
		cfg.Rules = map[string]Rule{}
	}
	return cfg, nil
}

// Settings resolves the [rules] tables against reg. Rules the file does not
// mention are left out so the registry applies their defaults.
func (c *Config) Settings(reg *lint.Registry) (map[string]lint.Settings, error) {
	out := make(map[string]lint.Settings, len(c.Rules))
	names := make([]string, 0, len(c.Rules))
	for name := range c.Rules {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		r, ok := reg.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", lint.ErrUnknownRule, name)
		}
		rc := c.Rules[name]
		s := r.Defaults()
		if rc.Enabled != nil {
			s.Enabled = *rc.Enabled
		}
		if rc.Severity != "" {
			sev, ok := diag.ParseSeverity(rc.Severity)
			if !ok {
				return nil, fmt.Errorf("%w: %s: severity %q", ErrInvalid, name, rc.Severity)
			}
			s.Severity = sev
		}
		if rc.Max != nil {
			if *rc.Max <= 0 {
				return nil, fmt.Errorf("%w: %s: max must be positive", ErrInvalid, name)
			}
			s.Max = *rc.Max
		}
		s.IteratingMethods = append([]string(nil), rc.IteratingMethods...)
		out[name] = s
	}
	return out, nil
}

// Excluded reports whether rel, a slash-separated path relative to the
// configuration root, matches an exclude pattern. A trailing "/**" matches
// the whole directory.
func (c *Config) Excluded(rel string) bool {
	rel = strings.TrimPrefix(path.Clean(rel), "./")
	for _, pattern := range c.Run.Exclude {
		if dir, ok := strings.CutSuffix(pattern, "/**"); ok {
			if rel == dir || strings.HasPrefix(rel, dir+"/") {
				return true
			}
			continue
		}
		if ok, _ := path.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := path.Match(pattern, path.Base(rel)); ok {
			return true
		}
	}
	return false
}

// Fingerprint identifies the rule configuration for cache keys. Run options
// do not change results and are left out.
func (c *Config) Fingerprint() Digest {
	var buf bytes.Buffer
	// кодировщик сортирует ключи таблиц, вывод детерминирован
	if err := toml.NewEncoder(&buf).Encode(map[string]any{"rules": c.Rules}); err != nil {
		buf.WriteString(fmt.Sprint(c.Rules))
	}
	return sha256.Sum256(buf.Bytes())
}
