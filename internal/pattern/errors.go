package pattern

import "fmt"

// SyntaxError reports a malformed pattern.
type SyntaxError struct {
	Pattern string
	Offset  int
	Msg     string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("pattern: %s at offset %d in %q", e.Msg, e.Offset, e.Pattern)
}

func errorAt(src string, off int, msg string) *SyntaxError {
	return &SyntaxError{Pattern: src, Offset: off, Msg: msg}
}
