package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"rubric/internal/config"
	"rubric/internal/diagfmt"
	"rubric/internal/driver"
	"rubric/internal/rules"
	"rubric/internal/trace"
	"rubric/internal/version"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [file.rb|directory]...",
	Short: "Inspect Ruby files and report offenses",
	Long:  `Check runs every enabled rule over the given files, or over all Ruby files found under the given directories (default: current directory)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(cmd, args, false)
	},
}

var fixCmd = &cobra.Command{
	Use:   "fix [flags] [file.rb|directory]...",
	Short: "Autocorrect offenses in place",
	Long:  `Fix applies the corrections offered by rules, re-inspects and repeats until the files stop changing, then reports what is left`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(cmd, args, true)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{checkCmd, fixCmd} {
		cmd.Flags().String("format", "pretty", "output format (pretty|short|json)")
		cmd.Flags().Int("jobs", 0, "max parallel files (0 = [run].jobs, then GOMAXPROCS)")
		cmd.Flags().Duration("timeout", 0, "time limit per file (0 = [run].timeout)")
		cmd.Flags().String("path-mode", "auto", "how to print paths (auto|absolute|relative|basename)")
		cmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
		cmd.Flags().String("config", "", "configuration file (default: nearest "+config.FileName+")")
	}
	checkCmd.Flags().Bool("no-cache", false, "do not read or write the result cache")
	checkCmd.Flags().Bool("clear-cache", false, "drop cached results before inspecting")
}

// runInspect backs both check and fix.
func runInspect(cmd *cobra.Command, args []string, autocorrect bool) error {
	targets := args
	if len(targets) == 0 {
		targets = []string{"."}
	}

	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format, err := diagfmt.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	pathModeStr, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	pathMode, err := diagfmt.ParsePathMode(pathModeStr)
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return fmt.Errorf("failed to get timeout flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	colored, err := useColor(cmd)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, targets[0])
	if err != nil {
		return err
	}
	opts := driver.Options{
		Registry:       rules.Registry(),
		Config:         cfg,
		Jobs:           jobs,
		Timeout:        timeout,
		MaxDiagnostics: maxDiagnostics,
		Timings:        showTimings,
		BaseDir:        baseDir(cfg),
	}
	if !autocorrect {
		opts.Cache, err = openCache(cmd, cfg)
		if err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	useTUI, err := shouldUseTUI(cmd, quiet || format == diagfmt.FormatJSON)
	if err != nil {
		return err
	}
	var res *driver.Result
	switch {
	case useTUI && autocorrect:
		res, err = inspectWithUI(ctx, "fixing", targets, opts, true)
	case useTUI:
		res, err = inspectWithUI(ctx, "inspecting", targets, opts, false)
	case autocorrect:
		res, err = driver.Autocorrect(ctx, targets, opts)
	default:
		res, err = driver.Inspect(ctx, targets, opts)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	reports := diagfmt.FromResult(res, opts.Registry)
	switch format {
	case diagfmt.FormatJSON:
		err = diagfmt.JSON(out, res.FileSet, reports, diagfmt.JSONOpts{
			PathMode:     pathMode,
			IncludeNotes: withNotes,
			Version:      version.Version,
		})
	case diagfmt.FormatShort:
		err = diagfmt.Short(out, res.FileSet, reports, diagfmt.ShortOpts{PathMode: pathMode})
	default:
		width := 0
		if f, ok := out.(*os.File); ok && isTerminal(f) {
			width = terminalWidth(f)
		}
		err = diagfmt.Pretty(out, res.FileSet, reports, diagfmt.PrettyOpts{
			Color:     colored,
			PathMode:  pathMode,
			Width:     width,
			ShowNotes: withNotes,
		})
		if err == nil && !quiet {
			err = diagfmt.PrettySummary(out, diagfmt.Summarize(reports), colored)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if showTimings && format != diagfmt.FormatJSON {
		fmt.Fprint(cmd.ErrOrStderr(), res.Timings().Summary())
	}

	trace.Note(ctx, trace.ScopeDriver, "report",
		fmt.Sprintf("offenses=%d corrected=%d", res.OffenseCount(), res.CorrectionCount()))

	if res.OffenseCount() > 0 || res.HasErrors() {
		cmd.SilenceUsage = true
		return errFindings
	}
	return nil
}

// loadConfig reads --config, or discovers the configuration governing the
// first target.
func loadConfig(cmd *cobra.Command, target string) (*config.Config, error) {
	path := ""
	if cmd.Flags().Lookup("config") != nil {
		var err error
		path, err = cmd.Flags().GetString("config")
		if err != nil {
			return nil, fmt.Errorf("failed to get config flag: %w", err)
		}
	}
	if path != "" {
		return config.Load(path)
	}
	return config.Discover(target)
}

// baseDir is what relative paths are printed against: the configuration
// root, or the working directory.
func baseDir(cfg *config.Config) string {
	if root := cfg.Root(); root != "" {
		return root
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}

func openCache(cmd *cobra.Command, cfg *config.Config) (*driver.ResultCache, error) {
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return nil, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	clearCache, err := cmd.Flags().GetBool("clear-cache")
	if err != nil {
		return nil, fmt.Errorf("failed to get clear-cache flag: %w", err)
	}
	if noCache || !cfg.Run.Cache {
		return nil, nil
	}
	cache, err := driver.OpenResultCache("rubric")
	if err != nil {
		// без кэша тоже можно работать
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: result cache disabled: %v\n", err)
		return nil, nil
	}
	if clearCache {
		if err := cache.DropAll(); err != nil {
			return nil, fmt.Errorf("failed to clear cache: %w", err)
		}
	}
	return cache, nil
}

func terminalWidth(f *os.File) int {
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
