package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"rubric/internal/lint"
	"rubric/internal/rules"
	"rubric/internal/version"
)

const versionTagline = "keep methods small, return early"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the rubric version and the rules it ships",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		full, _ := cmd.Flags().GetBool("full")
		format, _ := cmd.Flags().GetString("format")
		colored, err := useColor(cmd)
		if err != nil {
			return err
		}
		report := newVersionReport(version.Current(), rules.Registry(), full)
		switch format {
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		case "pretty", "":
			return report.print(cmd.OutOrStdout(), colored)
		}
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	},
}

func init() {
	versionCmd.Flags().Bool("full", false, "include commit, commit message and build date")
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type ruleInfo struct {
	Name        string `json:"name"`
	Correctable bool   `json:"correctable"`
	Enabled     bool   `json:"enabled_by_default"`
}

type versionReport struct {
	Tool    string `json:"tool"`
	Tagline string `json:"tagline"`
	version.Build
	Rules []ruleInfo `json:"rules"`
}

// newVersionReport keeps only the version from b unless full is set. Rules
// are listed in registration order.
func newVersionReport(b version.Build, reg *lint.Registry, full bool) versionReport {
	if !full {
		b = version.Build{Version: b.Version}
	}
	r := versionReport{Tool: "rubric", Tagline: versionTagline, Build: b}
	for _, rule := range reg.All() {
		r.Rules = append(r.Rules, ruleInfo{Name: rule.Name, Correctable: rule.Correctable, Enabled: rule.EnabledByDefault})
	}
	return r
}

func (r versionReport) print(out io.Writer, colored bool) error {
	// color.NoColor глобальный: version.Colored смотрит на него
	saved := color.NoColor
	color.NoColor = !colored
	defer func() { color.NoColor = saved }()

	p := &printer{w: out}
	p.printf("%s %s: %s\n", r.Tool, version.Colored(r.Version), r.Tagline)
	for _, rule := range r.Rules {
		mark := ""
		if rule.Correctable {
			mark = "  [correctable]"
		}
		p.printf("  %s%s\n", rule.Name, mark)
	}
	if r.GitCommit != "" {
		dirty := ""
		if r.Dirty {
			dirty = " (dirty)"
		}
		p.printf("commit:  %s%s\n", r.GitCommit, dirty)
	}
	if r.GitMessage != "" {
		p.printf("message: %s\n", r.GitMessage)
	}
	if r.BuildDate != "" {
		p.printf("built:   %s\n", r.BuildDate)
	}
	return p.err
}

// printer remembers the first write error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err == nil {
		_, p.err = fmt.Fprintf(p.w, format, args...)
	}
}
