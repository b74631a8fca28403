package source

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// normalize strips a UTF-8 BOM and turns CRLF into LF; a lone CR stays.
func normalize(content []byte) ([]byte, FileFlags) {
	var flags FileFlags
	if rest, ok := bytes.CutPrefix(content, utf8BOM); ok {
		content, flags = rest, flags|FileHadBOM
	}
	if bytes.Contains(content, []byte("\r\n")) {
		content, flags = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n")), flags|FileNormalizedCRLF
	}
	return content, flags
}

// buildLineIndex records the offset of every '\n'.
func buildLineIndex(content []byte) []uint32 {
	idx := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	for off := 0; ; {
		i := bytes.IndexByte(content[off:], '\n')
		if i < 0 {
			return idx
		}
		off += i
		idx = append(idx, uint32(off)) // #nosec G115 -- FileSet.Add rejects files above 4GiB
		off++
	}
}

// toLineCol maps a byte offset to a 1-based position.
func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// строки до off: число переводов строки строго левее
	n, _ := slices.BinarySearch(lineIdx, off)
	start := uint32(0)
	if n > 0 {
		start = lineIdx[n-1] + 1
	}
	return LineCol{Line: uint32(n) + 1, Col: off - start + 1} // #nosec G115 -- n <= len(lineIdx)
}

// line returns the byte range of 1-based line n without its newline.
func (f *File) line(n uint32) (start, end uint32, ok bool) {
	count := uint32(len(f.LineIdx)) + 1 // #nosec G115 -- bounded by FileSet.Add
	if n == 0 || n > count {
		return 0, 0, false
	}
	if n > 1 {
		start = f.LineIdx[n-2] + 1
	}
	end = uint32(len(f.Content)) // #nosec G115 -- bounded by FileSet.Add
	if n < count {
		end = f.LineIdx[n-1]
	}
	return start, end, true
}

// Offset converts a 1-based position back to a byte offset. Columns past
// the end of the line clamp to the line end.
func (f *File) Offset(pos LineCol) (uint32, bool) {
	start, end, ok := f.line(pos.Line)
	if !ok || pos.Col == 0 {
		return 0, false
	}
	return min(start+pos.Col-1, end), true
}

// GetLine возвращает строку line (с 1) или "" для несуществующей.
func (f *File) GetLine(line uint32) string {
	start, end, ok := f.line(line)
	if !ok {
		return ""
	}
	return string(f.Content[start:end])
}

// FormatPath renders Path for display. mode is "absolute", "relative"
// (to baseDir, or the working directory when empty), "basename" or "auto";
// auto shortens long absolute paths to the base name.
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := filepath.Abs(f.Path); err == nil {
			return filepath.ToSlash(abs)
		}
	case "relative":
		if baseDir == "" {
			baseDir, _ = os.Getwd()
		}
		if abs, err := filepath.Abs(f.Path); err == nil {
			if rel, err := filepath.Rel(baseDir, abs); err == nil {
				return filepath.ToSlash(rel)
			}
		}
	case "basename":
		return filepath.Base(f.Path)
	case "auto":
		if len(f.Path) >= 40 && filepath.IsAbs(f.Path) {
			return filepath.Base(f.Path)
		}
	}
	return f.Path
}
