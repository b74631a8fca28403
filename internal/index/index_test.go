package index_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foryearslater/afsim-sub009/internal/decl"
	"github.com/foryearslater/afsim-sub009/internal/diag"
	"github.com/foryearslater/afsim-sub009/internal/index"
	"github.com/foryearslater/afsim-sub009/internal/parser"
	"github.com/foryearslater/afsim-sub009/internal/sema"
	"github.com/foryearslater/afsim-sub009/internal/source"
)

// analyze parses src with a Detail observer; the cursor sits right before
// the first occurrence of mark, or at the end of src when mark is empty.
func analyze(t *testing.T, src, mark string) (*index.Detail, *sema.Session) {
	t.Helper()
	cursor := uint32(len(src))
	if mark != "" {
		i := strings.Index(src, mark)
		require.GreaterOrEqual(t, i, 0, "mark %q not found", mark)
		cursor = uint32(i)
	}
	fs := source.NewFileSet()
	res := decl.Build([]*decl.Set{decl.Builtins(nil)}, decl.Options{})
	id := fs.AddVirtual("a.us", []byte(src))

	d := index.NewDetail(id, cursor)
	s := sema.NewSession(res.Types, sema.Config{Observer: d})
	root := s.Root()
	parser.ParseFile(fs.Get(id), root, parser.Options{Reporter: diag.NopReporter{}})
	require.True(t, d.Finished())
	return d, s
}

func labels(items []index.Completion) []string {
	out := make([]string, 0, len(items))
	for _, c := range items {
		out = append(out, c.Label)
	}
	return out
}

const addScript = "script int Add(int x, int y)\n  return x + y;\nend_script\n"

func TestSignatureHelpInsideCall(t *testing.T) {
	d, s := analyze(t, addScript+"int r = Add(1, 2);\n", "2);")
	help, ok := d.SignatureHelp(s)
	require.True(t, ok)
	assert.Equal(t, "Add", help.Name)
	assert.Equal(t, []string{"int Add(int, int)"}, help.Signatures)
	assert.Equal(t, 1, help.ActiveArg)
}

func TestSignatureHelpUnclosedCall(t *testing.T) {
	d, s := analyze(t, addScript+"int r = Add(1, ", "")
	help, ok := d.SignatureHelp(s)
	require.True(t, ok)
	assert.Equal(t, "Add", help.Name)
	assert.Equal(t, 1, help.ActiveArg)
}

func TestSignatureHelpMethodOverloads(t *testing.T) {
	d, s := analyze(t, "string s = \"abc\";\nstring t = s.Substring(1);\n", "1);")
	help, ok := d.SignatureHelp(s)
	require.True(t, ok)
	assert.Equal(t, "Substring", help.Name)
	assert.ElementsMatch(t, []string{"string Substring(int, int)", "string Substring(int)"}, help.Signatures)
	assert.Equal(t, 0, help.ActiveArg)
}

func TestNoSignatureHelpOutsideCall(t *testing.T) {
	d, s := analyze(t, addScript+"int r = Add(1, 2);\nint q = 3;\n", "q = 3")
	_, ok := d.SignatureHelp(s)
	assert.False(t, ok)
}

func TestCompletionsAfterDot(t *testing.T) {
	src := "string s = \"x\";\nint n = s.Len"
	d, s := analyze(t, src, "")
	rcv, ok := d.DotReceiver()
	require.True(t, ok)
	assert.Equal(t, s.Builtins().String, rcv.Type)

	items := d.Completions(s, "Len")
	require.Len(t, items, 1)
	assert.Equal(t, "Length", items[0].Label)
	assert.Equal(t, index.CompleteMethod, items[0].Kind)
}

func TestCompletionsStaticReceiver(t *testing.T) {
	d, s := analyze(t, "double r = Math.S", "")
	assert.Equal(t, []string{"Sin", "Sqrt"}, labels(d.Completions(s, "S")))
}

func TestCompletionsVisibleSymbols(t *testing.T) {
	src := "int top = 1;\nscript void f(int count)\n  int inner = count;\n  inner = 2;\nend_script\n"
	d, s := analyze(t, src, "inner = 2")
	got := labels(d.Completions(s, ""))
	assert.Subset(t, got, []string{"count", "inner", "top", "f", "print"})
	assert.Equal(t, []string{"inner"}, labels(d.Completions(s, "inn")))
}

func TestDetailRecordsFacts(t *testing.T) {
	src := "int top = 1;\nscript void f(int count)\n  int inner = count;\nend_script\n"
	d, _ := analyze(t, src, "")

	var names []string
	for _, dd := range d.Declarations {
		names = append(names, dd.Name)
	}
	assert.Equal(t, []string{"top", "count", "inner"}, names)

	def, ok := d.Script("f")
	require.True(t, ok)
	assert.Equal(t, def.Body, def.Extent.Scope)
	assert.Positive(t, d.Statements)

	var params int
	for _, h := range d.Highlights {
		if h.Kind == sema.TokenParameter {
			params++
		}
	}
	// объявление и использование
	assert.Equal(t, 2, params)
}

func TestSymbolAtFollowsScopes(t *testing.T) {
	src := "int top = 1;\nscript void f(int count)\n  int inner = count;\n  inner = 2;\nend_script\n"
	d, s := analyze(t, src, "")
	off := uint32(strings.Index(src, "inner = 2"))

	sym, ok := d.SymbolAt(s, off, "count")
	require.True(t, ok)
	assert.Equal(t, "param int count", index.Describe(s, sym))
	assert.True(t, d.Declared(sym))
	assert.Equal(t, uint32(strings.Index(src, "count")), sym.Span.Start)

	sym, ok = d.SymbolAt(s, off, "f")
	require.True(t, ok)
	assert.Equal(t, "script void f(int)", index.Describe(s, sym))

	_, ok = d.SymbolAt(s, 0, "inner")
	assert.False(t, ok, "inner is local to f")
}

func TestStoreRoundTrip(t *testing.T) {
	src := "int top = 1;\nscript void f(int count)\n  int inner = count;\nend_script\n"
	d, s := analyze(t, src, "")

	st, err := index.OpenStore(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate())
	require.NoError(t, st.Migrate(), "migrate is idempotent")

	syms, toks := d.Rows(s)
	require.NoError(t, st.ReplaceFile("a.us", "h1", syms, toks))

	defs, err := st.Definition("a.us", "inner")
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "variable", defs[0].Kind)
	assert.Equal(t, "int", defs[0].Type)
	assert.Equal(t, uint32(strings.Index(src, "inner")), defs[0].Start)

	scripts, err := st.Definition("a.us", "f")
	require.NoError(t, err)
	require.Len(t, scripts, 1)
	assert.Equal(t, "script", scripts[0].Kind)
	assert.Equal(t, "void(int)", scripts[0].Type)

	stored, err := st.Tokens("a.us")
	require.NoError(t, err)
	require.Len(t, stored, len(toks))
	for i := 1; i < len(stored); i++ {
		assert.LessOrEqual(t, stored[i-1].Start, stored[i].Start)
	}

	hash, ok, err := st.FileHash("a.us")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "h1", hash)

	require.NoError(t, st.ReplaceFile("a.us", "h2", nil, nil))
	stored, err = st.Tokens("a.us")
	require.NoError(t, err)
	assert.Empty(t, stored)
	defs, err = st.Definition("a.us", "inner")
	require.NoError(t, err)
	assert.Empty(t, defs)

	_, ok, err = st.FileHash("missing.us")
	require.NoError(t, err)
	assert.False(t, ok)
}
