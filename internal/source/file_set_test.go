package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("test.rb", []byte("def a\n  1\nend\n"))
	f := fs.Get(id)

	if f.Flags&FileVirtual == 0 {
		t.Fatalf("expected FileVirtual flag")
	}
	want := []uint32{5, 9, 13}
	if len(f.LineIdx) != len(want) {
		t.Fatalf("LineIdx = %v, want %v", f.LineIdx, want)
	}
	for i := range want {
		if f.LineIdx[i] != want[i] {
			t.Fatalf("LineIdx = %v, want %v", f.LineIdx, want)
		}
	}
}

func TestResolvePositions(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("test.rb", []byte("ab\ncd\n\nef"))

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{2, LineCol{Line: 1, Col: 3}},
		{3, LineCol{Line: 2, Col: 1}},
		{6, LineCol{Line: 3, Col: 1}},
		{7, LineCol{Line: 4, Col: 1}},
		{8, LineCol{Line: 4, Col: 2}},
	}
	for _, tt := range tests {
		start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if start != tt.want {
			t.Errorf("offset %d: got %+v, want %+v", tt.off, start, tt.want)
		}
	}
}

func TestLineAndText(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("test.rb", []byte("x = foo\nx\n"))
	f := fs.Get(id)

	if got := f.Line(1); got != "x = foo" {
		t.Errorf("Line(1) = %q", got)
	}
	if got := f.Line(2); got != "x" {
		t.Errorf("Line(2) = %q", got)
	}
	if got := f.Line(5); got != "" {
		t.Errorf("Line(5) = %q, want empty", got)
	}
	if got := f.Text(Span{File: id, Start: 4, End: 7}); got != "foo" {
		t.Errorf("Text() = %q, want foo", got)
	}
	if got := f.Text(Span{File: id, Start: 8, End: 100}); got != "x\n" {
		t.Errorf("Text() clamped = %q", got)
	}
}

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()
	first := fs.AddVirtual("a.rb", []byte("1"))
	second := fs.AddVirtual("a.rb", []byte("2"))

	if first == second {
		t.Fatalf("each Add must allocate a new FileID")
	}
	if fs.Get(second).Path != "a.rb" {
		t.Fatalf("path = %q", fs.Get(second).Path)
	}
	if fs.Get(first).Hash == fs.Get(second).Hash {
		t.Fatalf("different content must hash differently")
	}
	if fs.Get(99) != nil {
		t.Fatalf("unknown id must yield nil")
	}
}

func TestLoadNormalizesBOMAndCRLF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.rb")
	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte("a\r\nb\r\n")...)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "a\nb\n" {
		t.Fatalf("content = %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("flags = %b, want BOM and CRLF", f.Flags)
	}
}

func TestFormatPath(t *testing.T) {
	tmp := t.TempDir()
	base := filepath.Join(tmp, "base")
	inside := File{Path: filepath.ToSlash(filepath.Join(base, "nested", "file.rb"))}
	outside := File{Path: filepath.ToSlash(filepath.Join(tmp, "other", "file.rb"))}

	if got := inside.FormatPath("relative", base); got != "nested/file.rb" {
		t.Errorf("relative inside base = %q", got)
	}
	if got := outside.FormatPath("relative", base); got != outside.Path {
		t.Errorf("relative outside base = %q, want absolute %q", got, outside.Path)
	}
	if got := inside.FormatPath("basename", ""); got != "file.rb" {
		t.Errorf("basename = %q", got)
	}
	short := File{Path: "app/user.rb"}
	if got := short.FormatPath("auto", ""); got != "app/user.rb" {
		t.Errorf("auto keeps short paths: %q", got)
	}
}

func TestDenormalizeRestoresDiskForm(t *testing.T) {
	cases := []struct {
		flags FileFlags
		want  string
	}{
		{0, "a\nb\n"},
		{FileNormalizedCRLF, "a\r\nb\r\n"},
		{FileHadBOM, "\xEF\xBB\xBFa\nb\n"},
		{FileHadBOM | FileNormalizedCRLF, "\xEF\xBB\xBFa\r\nb\r\n"},
	}
	for _, tc := range cases {
		if got := string(Denormalize([]byte("a\nb\n"), tc.flags)); got != tc.want {
			t.Errorf("flags %d: got %q, want %q", tc.flags, got, tc.want)
		}
	}
}

func TestFileSetConcurrentAdd(t *testing.T) {
	fs := NewFileSet()
	done := make(chan FileID)
	for i := 0; i < 8; i++ {
		go func() { done <- fs.AddVirtual("a.rb", []byte("x")) }()
	}
	seen := make(map[FileID]bool)
	for i := 0; i < 8; i++ {
		id := <-done
		if seen[id] || fs.Get(id) == nil {
			t.Fatalf("id %d duplicated or missing", id)
		}
		seen[id] = true
	}
	if fs.Get(8) != nil {
		t.Errorf("only 8 versions were added")
	}
}
