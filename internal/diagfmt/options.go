package diagfmt

import "fmt"

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative or absolute path automatically.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// ParsePathMode accepts auto|absolute|relative|basename.
func ParsePathMode(s string) (PathMode, error) {
	switch s {
	case "", "auto":
		return PathModeAuto, nil
	case "absolute":
		return PathModeAbsolute, nil
	case "relative":
		return PathModeRelative, nil
	case "basename":
		return PathModeBasename, nil
	}
	return PathModeAuto, fmt.Errorf("unknown path mode %q", s)
}

func (m PathMode) name() string {
	switch m {
	case PathModeAbsolute:
		return "absolute"
	case PathModeRelative:
		return "relative"
	case PathModeBasename:
		return "basename"
	default:
		return "auto"
	}
}

// Format selects the output of check and fix.
type Format uint8

const (
	FormatPretty Format = iota
	FormatShort
	FormatJSON
)

// ParseFormat accepts pretty|short|json.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "pretty":
		return FormatPretty, nil
	case "short":
		return FormatShort, nil
	case "json":
		return FormatJSON, nil
	}
	return FormatPretty, fmt.Errorf("unknown format %q (want pretty, short or json)", s)
}

// PrettyOpts configures pretty-printing of offenses.
type PrettyOpts struct {
	Color    bool
	PathMode PathMode
	// Width caps the printed source line, 0 - не ограничено.
	Width     int
	ShowNotes bool
}

// ShortOpts configures the one-line format.
type ShortOpts struct {
	PathMode PathMode
}

// JSONOpts configures JSON output.
type JSONOpts struct {
	PathMode     PathMode
	Max          int // обрезка вывода по файлу, не Bag
	IncludeNotes bool
	Version      string
}
