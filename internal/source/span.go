package source

import "fmt"

// FileID indexes a file inside its FileSet.
type FileID uint32

// FileFlags records how the content was normalized on load.
type FileFlags uint8

const (
	FileVirtual FileFlags = 1 << iota // из памяти, не с диска
	FileHadBOM
	FileNormalizedCRLF
)

// File is one loaded script with its line index.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	// LineIdx holds the offset of every '\n'.
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is 1-based.
type LineCol struct {
	Line uint32
	Col  uint32
}

// Span is the byte range [Start, End) of File.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

func (s Span) Empty() bool { return s.End == s.Start }

func (s Span) Len() uint32 { return s.End - s.Start }

func (s Span) String() string { return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End) }

// Contains counts the end offset too, so a cursor right after a token hits it.
func (s Span) Contains(off uint32) bool { return s.Start <= off && off <= s.End }

// Cover extends s over other; spans of another file leave s unchanged.
func (s Span) Cover(other Span) Span {
	if other.File == s.File {
		s.Start, s.End = min(s.Start, other.Start), max(s.End, other.End)
	}
	return s
}
