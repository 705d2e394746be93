package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rubric/internal/diag"
	"rubric/internal/diagfmt"
	"rubric/internal/parser"
	"rubric/internal/source"
	"rubric/internal/syntax"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file.rb>...",
	Short: "Print the syntax tree of Ruby files",
	Long:  `Parse converts each file into the tree rules match against and prints it as an S-expression`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().Bool("compact", false, "print each tree on one line")
}

func runParse(cmd *cobra.Command, args []string) error {
	compact, err := cmd.Flags().GetBool("compact")
	if err != nil {
		return fmt.Errorf("failed to get compact flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	out := cmd.OutOrStdout()
	fs := source.NewFileSet()
	failed := false
	for _, path := range args {
		id, err := fs.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		file := fs.Get(id)

		bag := diag.NewBag(maxDiagnostics)
		res, err := parser.ParseFile(cmd.Context(), file, parser.Options{
			MaxErrors: uint(max(maxDiagnostics, 0)),
			Reporter:  diag.BagReporter{Bag: bag},
		})
		if err != nil {
			return err
		}

		if len(args) > 1 && !quiet {
			fmt.Fprintf(out, "# %s\n", path)
		}
		switch {
		case compact:
			fmt.Fprintln(out, res.Tree.Root.String())
		default:
			fmt.Fprintln(out, syntax.Format(res.Tree.Root))
		}

		if bag.Len() > 0 {
			failed = failed || bag.HasErrors()
			report := diagfmt.FromBag(fs, path, bag)
			if err := diagfmt.Short(cmd.ErrOrStderr(), fs, []diagfmt.FileReport{report}, diagfmt.ShortOpts{}); err != nil {
				return err
			}
		}
	}
	if failed {
		cmd.SilenceUsage = true
		return errFindings
	}
	return nil
}
