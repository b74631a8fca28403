package lexer

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"github.com/foryearslater/afsim-sub009/internal/source"
)

// Cursor - позиция чтения внутри файла.
type Cursor struct {
	File *source.File
	Off  uint32
	// Limit is the exclusive upper bound for Off.
	Limit uint32
}

// NewCursor creates a cursor over the whole file content.
func NewCursor(f *source.File) Cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return Cursor{File: f, Limit: limit}
}

// EOF reports whether the cursor reached Limit.
func (c *Cursor) EOF() bool {
	return c.Off >= c.Limit
}

// Peek returns the current byte or 0 at EOF.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.File.Content[c.Off]
}

// Peek2 returns the current and the next byte.
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if c.Off+1 >= c.Limit {
		return 0, 0, false
	}
	return c.File.Content[c.Off], c.File.Content[c.Off+1], true
}

// Bump сдвигает курсор на байт и возвращает прочитанный байт.
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.File.Content[c.Off]
	c.Off++
	return b
}

// Eat consumes the next byte if it equals b.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOF() && c.File.Content[c.Off] == b {
		c.Off++
		return true
	}
	return false
}

// Mark - метка начала фрагмента.
type Mark uint32

func (c *Cursor) Mark() Mark { return Mark(c.Off) }

// SpanFrom returns the span between m and the current offset.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.File.ID, Start: uint32(m), End: c.Off}
}

// Reset rewinds the cursor to m.
func (c *Cursor) Reset(m Mark) { c.Off = uint32(m) }

// SkipToEOF moves the cursor to Limit.
func (c *Cursor) SkipToEOF() { c.Off = c.Limit }

// PeekRune decodes the rune at the cursor; size is 0 at EOF.
func (c *Cursor) PeekRune() (r rune, size int) {
	if c.EOF() {
		return utf8.RuneError, 0
	}
	if b := c.File.Content[c.Off]; b < utf8.RuneSelf {
		return rune(b), 1
	}
	return utf8.DecodeRune(c.File.Content[c.Off:c.Limit])
}

// BumpRune skips one rune; an invalid byte counts as one rune.
func (c *Cursor) BumpRune() {
	if _, size := c.PeekRune(); size > 0 {
		c.Off += uint32(size) //nolint:gosec // не больше utf8.UTFMax
	}
}

// Match2 consumes a and b when they are the next two bytes.
func (c *Cursor) Match2(a, b byte) bool {
	b0, b1, ok := c.Peek2()
	if !ok || b0 != a || b1 != b {
		return false
	}
	c.Off += 2
	return true
}

// SkipWhile advances over bytes accepted by pred.
func (c *Cursor) SkipWhile(pred func(byte) bool) {
	for !c.EOF() && pred(c.File.Content[c.Off]) {
		c.Off++
	}
}

// SkipPast advances past the next seq; without one it stops at Limit and
// reports false.
func (c *Cursor) SkipPast(seq string) bool {
	i := bytes.Index(c.File.Content[c.Off:c.Limit], []byte(seq))
	if i < 0 {
		c.Off = c.Limit
		return false
	}
	c.Off += uint32(i + len(seq)) //nolint:gosec // внутри Limit
	return true
}
