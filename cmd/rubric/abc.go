package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rubric/internal/diagfmt"
	"rubric/internal/driver"
	"rubric/internal/source"
)

var abcCmd = &cobra.Command{
	Use:   "abc [flags] [file.rb|directory]...",
	Short: "Print the ABC size of every method",
	Long:  `ABC lists each method with its <Assignments, Branches, Conditions> vector and magnitude`,
	RunE:  runABC,
}

func init() {
	abcCmd.Flags().Bool("json", false, "print units as a JSON array")
	abcCmd.Flags().Int("jobs", 0, "max parallel files (0 = [run].jobs, then GOMAXPROCS)")
	abcCmd.Flags().Duration("timeout", 0, "time limit per file (0 = [run].timeout)")
	abcCmd.Flags().String("path-mode", "auto", "how to print paths (auto|absolute|relative|basename)")
	abcCmd.Flags().StringSlice("iterating-methods", nil, "extra block methods counted as iteration")
	abcCmd.Flags().String("config", "", "configuration file (default: nearest .rubric.toml)")
}

func runABC(cmd *cobra.Command, args []string) error {
	targets := args
	if len(targets) == 0 {
		targets = []string{"."}
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to get json flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return fmt.Errorf("failed to get timeout flag: %w", err)
	}
	pathModeStr, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	pathMode, err := diagfmt.ParsePathMode(pathModeStr)
	if err != nil {
		return err
	}
	// nil оставляет iterating_methods из конфигурации
	var iterating []string
	if cmd.Flags().Changed("iterating-methods") {
		iterating, err = cmd.Flags().GetStringSlice("iterating-methods")
		if err != nil {
			return fmt.Errorf("failed to get iterating-methods flag: %w", err)
		}
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	cfg, err := loadConfig(cmd, targets[0])
	if err != nil {
		return err
	}
	opts := driver.MeasureOptions{
		Config:           cfg,
		Jobs:             jobs,
		Timeout:          timeout,
		MaxDiagnostics:   maxDiagnostics,
		IteratingMethods: iterating,
		BaseDir:          baseDir(cfg),
	}

	useTUI, err := shouldUseTUI(cmd, quiet || asJSON)
	if err != nil {
		return err
	}
	var (
		fs      *source.FileSet
		results []driver.MeasureResult
	)
	if useTUI {
		fs, results, err = measureWithUI(cmd.Context(), targets, opts)
	} else {
		fs, results, err = driver.Measure(cmd.Context(), targets, opts)
	}
	if err != nil {
		return err
	}

	if err := diagfmt.Units(cmd.OutOrStdout(), fs, results, diagfmt.UnitsOpts{PathMode: pathMode, JSON: asJSON}); err != nil {
		return fmt.Errorf("failed to write units: %w", err)
	}
	for _, r := range results {
		if r.Bag != nil && r.Bag.HasErrors() {
			cmd.SilenceUsage = true
			return errFindings
		}
	}
	return nil
}
