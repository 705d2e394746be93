package parser

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/ruby"

	"rubric/internal/diag"
	"rubric/internal/source"
	"rubric/internal/syntax"
)

// DefaultMaxFileSize bounds the input accepted by ParseFile.
const DefaultMaxFileSize = 10 << 20

var (
	// ErrFileTooLarge is returned for files above Options.MaxFileSize or
	// beyond 32-bit offsets.
	ErrFileTooLarge = errors.New("file too large")
	// ErrInvalidContent is returned for files that are not UTF-8.
	ErrInvalidContent = errors.New("content is not valid UTF-8")
)

type Options struct {
	// MaxErrors caps reported syntax errors; zero means no limit.
	MaxErrors   uint
	MaxFileSize int64
	Reporter    diag.Reporter
}

type Result struct {
	Tree *syntax.Tree
	// SyntaxErrors counts error and missing nodes, reported or not.
	SyntaxErrors int
}

// HasSyntaxErrors reports a tree built around parse errors. Such a tree is
// partial: error regions are left out.
func (r Result) HasSyntaxErrors() bool { return r.SyntaxErrors > 0 }

// ParseFile parses file with the tree-sitter Ruby grammar and converts the
// concrete tree into a syntax.Tree. Syntax errors go to opts.Reporter; only
// unusable input is returned as an error.
func ParseFile(ctx context.Context, file *source.File, opts Options) (Result, error) {
	if file == nil {
		return Result{}, errors.New("parser: nil file")
	}
	limit := opts.MaxFileSize
	if limit <= 0 {
		limit = DefaultMaxFileSize
	}
	if int64(len(file.Content)) > limit {
		return Result{}, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrFileTooLarge, file.Path, len(file.Content), limit)
	}
	if _, err := safecast.Conv[uint32](len(file.Content)); err != nil {
		return Result{}, fmt.Errorf("%w: %s: %w", ErrFileTooLarge, file.Path, err)
	}
	if !utf8.Valid(file.Content) {
		return Result{}, fmt.Errorf("%w: %s", ErrInvalidContent, file.Path)
	}

	// отдельный парсер на вызов: sitter.Parser не потокобезопасен
	p := sitter.NewParser()
	defer p.Close()
	p.SetLanguage(ruby.GetLanguage())

	tree, err := p.ParseCtx(ctx, nil, file.Content)
	if err != nil {
		return Result{}, fmt.Errorf("parse %s: %w", file.Path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	res := Result{}
	if root.HasError() {
		res.SyntaxErrors = reportSyntaxErrors(root, file, opts)
	}
	c := newConverter(file)
	res.Tree = syntax.NewTree(file, c.program(root))
	return res, nil
}

// reportSyntaxErrors walks only the subtrees that contain errors.
func reportSyntaxErrors(root *sitter.Node, file *source.File, opts Options) int {
	total := 0
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch {
		case n.IsMissing():
			total++
			report(opts, total, spanOf(file.ID, n), fmt.Sprintf("syntax error, missing %q", n.Type()))
			return
		case n.Type() == "ERROR":
			total++
			report(opts, total, spanOf(file.ID, n), "syntax error, unexpected "+excerpt(n.Content(file.Content)))
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			if child := n.Child(i); child != nil && (child.HasError() || child.IsMissing()) {
				walk(child)
			}
		}
	}
	walk(root)
	if total == 0 {
		// HasError without a located node
		total = 1
		report(opts, total, spanOf(file.ID, root), "syntax error")
	}
	return total
}

func report(opts Options, nth int, span source.Span, msg string) {
	if opts.Reporter == nil {
		return
	}
	if opts.MaxErrors > 0 && uint(nth) > opts.MaxErrors {
		return
	}
	opts.Reporter.Report(diag.NewError(diag.ParseSyntaxError, span, msg))
}

func excerpt(s string) string {
	const limit = 20
	for i, r := range s {
		if r == '\n' {
			s = s[:i]
			break
		}
	}
	if len(s) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut] + "..."
	}
	return fmt.Sprintf("%q", s)
}

func spanOf(file source.FileID, n *sitter.Node) source.Span {
	return source.Span{File: file, Start: n.StartByte(), End: n.EndByte()}
}
