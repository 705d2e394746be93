package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"rubric/internal/config"
)

var rubyExtensions = map[string]bool{
	".rb":      true,
	".rake":    true,
	".gemspec": true,
	".ru":      true,
}

var rubyFileNames = map[string]bool{
	"Gemfile":   true,
	"Rakefile":  true,
	"Guardfile": true,
}

// IsRubyFile reports whether a directory walk picks up name.
func IsRubyFile(name string) bool {
	base := filepath.Base(name)
	return rubyExtensions[filepath.Ext(base)] || rubyFileNames[base]
}

// Collect expands targets into a sorted, de-duplicated list of files.
// Directories are walked for Ruby files, skipping hidden directories and
// paths excluded by cfg. Files named explicitly are always kept.
func Collect(targets []string, cfg *config.Config) ([]string, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if len(targets) == 0 {
		targets = []string{"."}
	}
	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		path = filepath.Clean(path)
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", target, err)
		}
		if !info.IsDir() {
			add(target)
			continue
		}
		base := cfg.Root()
		if base == "" {
			base = target
		}
		err = filepath.WalkDir(target, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path != target && excluded(cfg, base, path) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				if path != target && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if IsRubyFile(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

func excluded(cfg *config.Config, base, path string) bool {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	return cfg.Excluded(filepath.ToSlash(rel))
}
