package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foryearslater/afsim-sub009/internal/diag"
	"github.com/foryearslater/afsim-sub009/internal/index"
	"github.com/foryearslater/afsim-sub009/internal/source"
	"github.com/foryearslater/afsim-sub009/internal/token"
)

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.us", []byte("script void f()\n\tstring s = \"unterminated\nend_script\n"))

	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.LexUnterminatedString, source.Span{File: fileID, Start: 28, End: 41}, "Unterminated string literal"))

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, PathMode: PathModeBasename, IncludeNotes: true}))

	var output DiagnosticsOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output), buf.String())
	require.Equal(t, 1, output.Count)
	require.Len(t, output.Diagnostics, 1)

	d := output.Diagnostics[0]
	assert.Equal(t, "ERROR", d.Severity)
	assert.Equal(t, "LEX1002", d.Code)
	assert.Equal(t, "Unterminated string literal", d.Message)
	assert.Equal(t, LocationJSON{
		File:      "test.us",
		StartByte: 28,
		EndByte:   41,
		StartLine: 2,
		StartCol:  13,
		EndLine:   2,
		EndCol:    26,
	}, d.Location)
	assert.Empty(t, d.Notes)
}

func TestJSONMaxAndNotes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("m.us", []byte("int a;\nint a;\nint b = zzz;\n"))
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.SemaRedeclaration, source.Span{File: fileID, Start: 11, End: 12}, "Redeclaration of 'a'.").
		WithNote(source.Span{File: fileID, Start: 4, End: 5}, "previous declaration"))
	bag.Add(diag.NewError(diag.SemaUnresolvedName, source.Span{File: fileID, Start: 22, End: 25}, "Unknown Identifier."))

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	require.Equal(t, 1, out.Count)
	assert.Empty(t, out.Diagnostics[0].Notes)
	assert.Zero(t, out.Diagnostics[0].Location.StartLine)

	out = BuildDiagnosticsOutput(bag, fs, JSONOpts{IncludeNotes: true, IncludePositions: true})
	require.Equal(t, 2, out.Count)
	require.Len(t, out.Diagnostics[0].Notes, 1)
	assert.Equal(t, "previous declaration", out.Diagnostics[0].Notes[0].Message)
	assert.Equal(t, uint32(1), out.Diagnostics[0].Notes[0].Location.StartLine)
	assert.Equal(t, "SEM3002", out.Diagnostics[1].Code)
	assert.Equal(t, 2, out.Errors)

	warn := diag.NewBag(0)
	warn.Add(diag.New(diag.SevWarning, diag.SemaRedeclaration, source.Span{File: fileID}, "w"))
	out.Append(BuildDiagnosticsOutput(warn, fs, JSONOpts{}))
	assert.Equal(t, 3, out.Count)
	assert.Equal(t, 1, out.Warnings)
	assert.Equal(t, "w", out.Diagnostics[2].Message)
}

func TestJSONUnknownFile(t *testing.T) {
	out := BuildDiagnosticsOutput(func() *diag.Bag {
		bag := diag.NewBag(0)
		bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: 3}, "failed to load file"))
		return bag
	}(), source.NewFileSet(), JSONOpts{IncludePositions: true})
	require.Len(t, out.Diagnostics, 1)
	assert.Equal(t, LocationJSON{}, out.Diagnostics[0].Location)
}

func TestFormatTokens(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.us", []byte("int x;"))
	toks := []token.Token{
		{Kind: token.Ident, Text: "int", Span: source.Span{File: id, Start: 0, End: 3}},
		{Kind: token.Ident, Text: "x", Span: source.Span{File: id, Start: 4, End: 5}, Leading: []token.Trivia{{Kind: token.TriviaSpace, Text: " "}}},
		{Kind: token.Semicolon, Span: source.Span{File: id, Start: 5, End: 6}},
		{Kind: token.EOF, Span: source.Span{File: id, Start: 6, End: 6}},
	}

	var buf bytes.Buffer
	require.NoError(t, FormatTokensPretty(&buf, toks, fs))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Regexp(t, `^2 +identifier +"x" +1:5-1:6 +space$`, lines[1])

	buf.Reset()
	require.NoError(t, FormatTokensJSON(&buf, toks, fs))
	var out []TokenOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 4)
	assert.Equal(t, []string{"space"}, out[1].Leading)
	assert.Equal(t, "identifier", out[0].Kind)
	assert.Equal(t, uint32(5), out[1].Col)
	assert.Equal(t, uint32(6), out[3].End)
}

func TestSemanticsOutput(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("s.us", []byte("int a = 1;\ndouble b;\n"))
	syms := []index.SymbolRow{
		{Name: "a", Kind: "variable", Storage: "global", Type: "int", Start: 4, End: 5, Seq: 1048577, Scope: 1},
		{Name: "b", Kind: "variable", Storage: "global", Type: "double", Start: 18, End: 19, Seq: 1048578, Scope: 1},
	}
	out := BuildSemanticsOutput(fs, id, syms, []index.TokenRow{{Kind: "local", Start: 4, End: 5}})
	assert.Equal(t, "s.us", out.File)
	require.Len(t, out.Symbols, 2)
	assert.Equal(t, uint32(2), out.Symbols[1].Line)
	assert.Equal(t, uint32(8), out.Symbols[1].Col)
	require.Len(t, out.Tokens, 1)

	var buf bytes.Buffer
	require.NoError(t, FormatSemanticsPretty(&buf, out))
	assert.Contains(t, buf.String(), "SEQ")
	assert.Contains(t, buf.String(), "double")
}
