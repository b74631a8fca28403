package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternerDedupAndNormalisation(t *testing.T) {
	in := NewInterner()
	a := in.Intern("Foo")
	b := in.Intern("Foo")
	assert.Equal(t, a, b)
	assert.NotEqual(t, NoStringID, a)

	// "é" precomposed vs. "e" + combining acute
	pre := in.Intern("caf\u00e9")
	dec := in.Intern("cafe\u0301")
	assert.Equal(t, pre, dec)

	id, ok := in.Find("cafe\u0301")
	require.True(t, ok)
	assert.Equal(t, pre, id)

	_, ok = in.Find("missing")
	assert.False(t, ok)
	assert.Equal(t, "Foo", in.MustLookup(a))
	assert.Equal(t, 3, in.Len())
}

func TestInternerLookupInvalid(t *testing.T) {
	in := NewInterner()
	_, ok := in.Lookup(StringID(42))
	assert.False(t, ok)
	assert.Panics(t, func() { in.MustLookup(StringID(42)) })
}

func TestToLineCol(t *testing.T) {
	content := []byte("ab\ncd\n\nef")
	idx := buildLineIndex(content)
	require.Equal(t, []uint32{2, 5, 6}, idx)

	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}},
		{3, LineCol{2, 1}},
		{4, LineCol{2, 2}},
		{6, LineCol{3, 1}},
		{7, LineCol{4, 1}},
		{8, LineCol{4, 2}},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, toLineCol(idx, c.off), "offset %d", c.off)
	}
}

func TestFileOffsetRoundTrip(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.txt", []byte("int x = 1;\ndouble y;\n"))
	f := fs.Get(id)

	off, ok := f.Offset(LineCol{Line: 2, Col: 8})
	require.True(t, ok)
	assert.Equal(t, byte('y'), f.Content[off])

	start, _ := fs.Resolve(Span{File: id, Start: off, End: off + 1})
	assert.Equal(t, LineCol{Line: 2, Col: 8}, start)

	assert.Equal(t, "double y;", f.GetLine(2))
	assert.Equal(t, "", f.GetLine(9))
	_, ok = f.Offset(LineCol{Line: 0, Col: 1})
	assert.False(t, ok)
}

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()
	id1 := fs.Add("test.txt", []byte("hello"), 0)
	id2 := fs.Add("test.txt", []byte("hello again"), 0)
	assert.NotEqual(t, id1, id2)

	latest, ok := fs.GetLatest("./test.txt")
	require.True(t, ok)
	assert.Equal(t, id2, latest)
	assert.Equal(t, "hello", string(fs.Get(id1).Content))
	assert.Nil(t, fs.Get(FileID(99)))
}

func TestLoadNormalizesBOMAndCRLF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s.txt")
	require.NoError(t, os.WriteFile(path, []byte("\xEF\xBB\xBFa\r\nb\r"), 0o600))

	fs := NewFileSet()
	id, err := fs.Load(path)
	require.NoError(t, err)
	f := fs.Get(id)
	assert.Equal(t, "a\nb\r", string(f.Content))
	assert.NotZero(t, f.Flags&FileHadBOM)
	assert.NotZero(t, f.Flags&FileNormalizedCRLF)

	_, err = fs.Load(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 6}
	b := Span{File: 1, Start: 2, End: 5}
	assert.Equal(t, Span{File: 1, Start: 2, End: 6}, a.Cover(b))
	assert.Equal(t, a, a.Cover(Span{File: 2, Start: 0, End: 9}))
}
