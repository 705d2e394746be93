package driver

import (
	"os"
	"path/filepath"
	"testing"

	"rubric/internal/config"
)

func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func relAll(t *testing.T, base string, paths []string) []string {
	t.Helper()
	out := make([]string, len(paths))
	for i, p := range paths {
		rel, err := filepath.Rel(base, p)
		if err != nil {
			t.Fatal(err)
		}
		out[i] = filepath.ToSlash(rel)
	}
	return out
}

func TestIsRubyFile(t *testing.T) {
	cases := map[string]bool{
		"app/models/user.rb": true,
		"lib/tasks/db.rake":  true,
		"rubric.gemspec":     true,
		"config.ru":          true,
		"Gemfile":            true,
		"sub/Rakefile":       true,
		"README.md":          false,
		"Gemfile.lock":       false,
		"script.rbx":         false,
	}
	for name, want := range cases {
		if got := IsRubyFile(name); got != want {
			t.Errorf("IsRubyFile(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestCollectWalksAndFilters(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app/user.rb", "")
	writeFile(t, root, "app/user_spec.rb", "")
	writeFile(t, root, "lib/tasks/db.rake", "")
	writeFile(t, root, "Gemfile", "")
	writeFile(t, root, "README.md", "")
	writeFile(t, root, ".git/hooks/x.rb", "")
	writeFile(t, root, "vendor/gems/a.rb", "")
	cfgPath := writeFile(t, root, config.FileName, "[run]\nexclude = [\"vendor/**\", \"*_spec.rb\"]\n")

	cfg, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	files, err := Collect([]string{root}, cfg)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	got := relAll(t, root, files)
	want := []string{"Gemfile", "app/user.rb", "lib/tasks/db.rake"}
	if len(got) != len(want) {
		t.Fatalf("files = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("files[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCollectKeepsExplicitFiles(t *testing.T) {
	root := t.TempDir()
	spec := writeFile(t, root, "user_spec.rb", "")
	plain := writeFile(t, root, "notes.txt", "")
	cfg, err := config.Parse([]byte("[run]\nexclude = [\"*_spec.rb\"]\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	files, err := Collect([]string{spec, plain, spec}, cfg)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("files = %v, want both explicit files once", files)
	}
}

func TestCollectMissingTarget(t *testing.T) {
	if _, err := Collect([]string{filepath.Join(t.TempDir(), "nope.rb")}, nil); err == nil {
		t.Fatalf("expected an error for a missing target")
	}
}
