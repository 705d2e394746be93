package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"rubric/internal/config"
)

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, " on ": uiModeOn, "off": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Errorf("expected an error for an unknown mode")
	}
}

func TestLoadConfigDiscoversFromFileTarget(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, config.FileName), []byte("[run]\njobs = 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	dir := filepath.Join(root, "lib")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(dir, "a.rb")
	if err := os.WriteFile(target, []byte("x = 1\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(&cobra.Command{}, target)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Run.Jobs != 3 {
		t.Errorf("jobs = %d, want 3", cfg.Run.Jobs)
	}
	if got := baseDir(cfg); got != cfg.Root() {
		t.Errorf("baseDir = %q, want %q", got, cfg.Root())
	}
}
