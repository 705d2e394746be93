package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"fortio.org/safecast"
)

// FileSet owns every file version of a run and resolves spans against
// them. Autocorrect adds a version per round from parallel workers, so the
// set is safe for concurrent use; a File never changes once added.
type FileSet struct {
	mu      sync.RWMutex
	files   []*File
	baseDir string // для относительных путей
}

func NewFileSet() *FileSet {
	return &FileSet{}
}

// NewFileSetWithBase renders relative paths against baseDir.
func NewFileSetWithBase(baseDir string) *FileSet {
	return &FileSet{baseDir: baseDir}
}

// BaseDir falls back to the working directory.
func (fs *FileSet) BaseDir() string {
	if fs.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return fs.baseDir
}

// Add registers normalized content as a new version of path.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	f := &File{
		Path:    filepath.ToSlash(filepath.Clean(path)),
		Content: content,
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	}
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		panic(fmt.Errorf("source: %s: %w", path, err))
	}
	for i, b := range content {
		if b == '\n' {
			f.LineIdx = append(f.LineIdx, uint32(i)) //nolint:gosec // checked above
		}
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	id, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("source: too many files: %w", err))
	}
	f.ID = FileID(id)
	fs.files = append(fs.files, f)
	return f.ID
}

// Load reads path, normalizes it and adds it.
func (fs *FileSet) Load(path string) (FileID, error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- пути от пользователя
	if err != nil {
		return 0, err
	}
	content, flags := normalize(raw)
	return fs.Add(path, content, flags), nil
}

// AddVirtual adds content that does not come from disk.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Get returns nil for an unknown id.
func (fs *FileSet) Get(id FileID) *File {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if int(id) >= len(fs.files) {
		return nil
	}
	return fs.files[id]
}

// Resolve returns zero positions for a span of an unknown file.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fs.Get(span.File)
	if f == nil {
		return LineCol{}, LineCol{}
	}
	return f.Position(span.Start), f.Position(span.End)
}
