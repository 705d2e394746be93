package source

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"fortio.org/safecast"
)

type (
	// FileID identifies one version of a file within a FileSet.
	FileID uint32
	// FileFlags records how the content differs from the bytes on disk.
	FileFlags uint8
)

const (
	FileVirtual        FileFlags = 1 << iota // не с диска (тест, stdin)
	FileHadBOM                               // UTF-8 BOM stripped
	FileNormalizedCRLF                       // \r\n turned into \n
)

// File is one immutable version of a Ruby source. Content is normalized:
// no BOM, \n line endings.
type File struct {
	ID      FileID
	Path    string // slash-separated, cleaned
	Content []byte
	LineIdx []uint32 // offsets of every '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a 1-based position.
type LineCol struct {
	Line uint32
	Col  uint32
}

func (f *File) size() uint32 {
	n, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("source: %s: %w", f.Path, err))
	}
	return n
}

// Position converts a byte offset; Col counts bytes.
func (f *File) Position(off uint32) LineCol {
	// число переводов строки строго до off
	line := sort.Search(len(f.LineIdx), func(i int) bool { return f.LineIdx[i] >= off })
	var start uint32
	if line > 0 {
		start = f.LineIdx[line-1] + 1
	}
	return LineCol{Line: uint32(line) + 1, Col: off - start + 1} //nolint:gosec // line < len(LineIdx) <= size
}

// Text returns the source under span, clamped to the content.
func (f *File) Text(span Span) string {
	end := min(span.End, f.size())
	if span.Start > end {
		return ""
	}
	return string(f.Content[span.Start:end])
}

// Span covers the whole file.
func (f *File) Span() Span {
	return Span{File: f.ID, Start: 0, End: f.size()}
}

// Line returns line n (1-based) without its newline; "" past the end.
func (f *File) Line(n uint32) string {
	if n == 0 || int(n) > len(f.LineIdx)+1 {
		return ""
	}
	start := uint32(0)
	if n > 1 {
		start = f.LineIdx[n-2] + 1
	}
	end := f.size()
	if int(n) <= len(f.LineIdx) {
		end = f.LineIdx[n-1]
	}
	if start > end {
		return ""
	}
	return string(f.Content[start:end])
}

// FormatPath renders the path for a report. mode is absolute, relative
// (to baseDir, or the working directory when empty), basename or auto; auto
// shortens long absolute paths to their base name.
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := filepath.Abs(f.Path); err == nil {
			return filepath.ToSlash(abs)
		}
	case "relative":
		if rel, err := relativePath(f.Path, baseDir); err == nil {
			return rel
		}
	case "basename":
		return path.Base(f.Path)
	case "auto":
		if len(f.Path) >= 40 && filepath.IsAbs(f.Path) {
			return path.Base(f.Path)
		}
	}
	return f.Path
}

// relativePath falls back to the absolute form for paths outside baseDir.
func relativePath(p, baseDir string) (string, error) {
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		baseDir = wd
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(abs), nil
	}
	return filepath.ToSlash(rel), nil
}
