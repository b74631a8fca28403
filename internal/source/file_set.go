package source

import (
	"crypto/sha256"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileSet owns loaded files. Adding a path again creates a new version;
// older FileIDs stay valid.
type FileSet struct {
	files   []File
	latest  map[string]FileID
	baseDir string
}

func NewFileSet() *FileSet {
	return &FileSet{latest: make(map[string]FileID)}
}

// NewFileSetWithBase задаёт каталог, от которого считаются относительные пути.
func NewFileSetWithBase(baseDir string) *FileSet {
	fs := NewFileSet()
	fs.baseDir = baseDir
	return fs
}

func (fs *FileSet) SetBaseDir(dir string) { fs.baseDir = dir }

// BaseDir falls back to the working directory.
func (fs *FileSet) BaseDir() string {
	if fs.baseDir != "" {
		return fs.baseDir
	}
	wd, _ := os.Getwd()
	return wd
}

// cleanPath даёт один вид пути на всех платформах.
func cleanPath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}

// Add stores already normalized content. Content that a uint32 offset
// cannot address panics; Load rejects it with an error first.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	if uint64(len(content)) > math.MaxUint32 {
		panic(fmt.Errorf("%s: file too large (%d bytes)", path, len(content)))
	}
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("too many files: %w", err))
	}
	id := FileID(n)
	path = cleanPath(path)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    path,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	fs.latest[path] = id
	return id
}

// Load reads path from disk and normalizes BOM and line endings.
func (fs *FileSet) Load(path string) (FileID, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- caller chooses the path
	if err != nil {
		return 0, err
	}
	if uint64(len(content)) > math.MaxUint32 {
		return 0, fmt.Errorf("%s: file too large (%d bytes)", path, len(content))
	}
	content, flags := normalize(content)
	return fs.Add(path, content, flags), nil
}

// AddVirtual adds in-memory content (stdin, editor buffers, tests).
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Get returns nil for an unknown id.
func (fs *FileSet) Get(id FileID) *File {
	if int(id) >= len(fs.files) {
		return nil
	}
	return &fs.files[id]
}

func (fs *FileSet) Len() int { return len(fs.files) }

// GetLatest returns the newest version of path.
func (fs *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fs.latest[cleanPath(path)]
	return id, ok
}

// Resolve converts span ends to 1-based positions; unknown files give zeros.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fs.Get(span.File)
	if f == nil {
		return LineCol{}, LineCol{}
	}
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}
