package lsp

import (
	"sort"
	"strings"
	"unicode/utf8"

	"fortio.org/safecast"

	"github.com/foryearslater/afsim-sub009/internal/source"
)

const maxUint32 = ^uint32(0)

func safeUint32(n int) uint32 {
	if n < 0 {
		return 0
	}
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return maxUint32
	}
	return v
}

// utf16Prefix returns how many bytes of line cover char UTF-16 units. A
// character split by char is not included.
func utf16Prefix(line []byte, char int) int {
	units, off := 0, 0
	for off < len(line) {
		r, size := utf8.DecodeRune(line[off:])
		need := 1
		if r > 0xFFFF {
			need = 2
		}
		if units+need > char {
			break
		}
		units += need
		off += size
	}
	return off
}

// offsetInFile переводит позицию LSP (строка с 0, UTF-16) в байтовое смещение.
func offsetInFile(file *source.File, pos position) uint32 {
	if file == nil || pos.Line < 0 || pos.Character < 0 {
		return 0
	}
	contentLen := safeUint32(len(file.Content))
	if pos.Line > len(file.LineIdx) {
		return contentLen
	}
	var lineStart uint32
	if pos.Line > 0 {
		lineStart = file.LineIdx[pos.Line-1] + 1
	}
	lineEnd := contentLen
	if pos.Line < len(file.LineIdx) {
		lineEnd = file.LineIdx[pos.Line]
	}
	if lineStart > lineEnd {
		return lineEnd
	}
	return lineStart + safeUint32(utf16Prefix(file.Content[lineStart:lineEnd], pos.Character))
}

// textOffset is offsetInFile for a plain document text.
func textOffset(text string, pos position) int {
	if pos.Line < 0 || pos.Character < 0 {
		return 0
	}
	start := 0
	for range pos.Line {
		i := strings.IndexByte(text[start:], '\n')
		if i < 0 {
			return len(text)
		}
		start += i + 1
	}
	end := len(text)
	if i := strings.IndexByte(text[start:], '\n'); i >= 0 {
		end = start + i
	}
	return start + utf16Prefix([]byte(text[start:end]), pos.Character)
}

// applyChanges применяет изменения по порядку; без Range текст заменяется целиком.
func applyChanges(text string, changes []textDocumentContentChangeEvent) string {
	for _, c := range changes {
		if c.Range == nil {
			text = c.Text
			continue
		}
		start := textOffset(text, c.Range.Start)
		end := max(textOffset(text, c.Range.End), start)
		text = text[:start] + c.Text + text[end:]
	}
	return text
}

func positionInFile(file *source.File, offset uint32) position {
	if file == nil {
		return position{}
	}
	offset = min(offset, safeUint32(len(file.Content)))
	lineIdx := file.LineIdx
	line := sort.Search(len(lineIdx), func(i int) bool { return lineIdx[i] >= offset })
	var lineStart uint32
	if line > 0 {
		lineStart = lineIdx[line-1] + 1
	}
	lineStart = min(lineStart, offset)
	units := 0
	for off := lineStart; off < offset; {
		r, size := utf8.DecodeRune(file.Content[off:offset])
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
		off += safeUint32(size)
	}
	return position{Line: line, Character: units}
}

func rangeForSpan(file *source.File, span source.Span) lspRange {
	return lspRange{
		Start: positionInFile(file, span.Start),
		End:   positionInFile(file, span.End),
	}
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// wordAt returns the identifier touching off and its byte range.
func wordAt(content []byte, off uint32) (string, source.Span, bool) {
	start := min(int(off), len(content))
	end := start
	for start > 0 && isIdentByte(content[start-1]) {
		start--
	}
	for end < len(content) && isIdentByte(content[end]) {
		end++
	}
	if start == end || content[start] >= '0' && content[start] <= '9' {
		return "", source.Span{}, false
	}
	return string(content[start:end]), source.Span{Start: safeUint32(start), End: safeUint32(end)}, true
}

func prefixAt(content []byte, off uint32) string {
	end := min(int(off), len(content))
	start := end
	for start > 0 && isIdentByte(content[start-1]) {
		start--
	}
	return string(content[start:end])
}
