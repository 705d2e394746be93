package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// uiMode is the value of --ui.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch m := uiMode(strings.ToLower(strings.TrimSpace(value))); m {
	case "":
		return uiModeAuto, nil
	case uiModeAuto, uiModeOn, uiModeOff:
		return m, nil
	}
	return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// shouldUseTUI decides whether the progress UI runs. It draws on stderr
// while the report goes to stdout, so auto wants both on a terminal.
func shouldUseTUI(cmd *cobra.Command, quiet bool) (bool, error) {
	value, _ := cmd.Root().PersistentFlags().GetString("ui")
	mode, err := readUIMode(value)
	if err != nil {
		return false, err
	}
	if mode == uiModeAuto {
		return !quiet && isTerminal(os.Stderr) && isTerminal(os.Stdout), nil
	}
	return mode == uiModeOn, nil
}
