package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foryearslater/afsim-sub009/internal/types"
)

func declare(t *testing.T, tbl *Table, scope ScopeID, name string, seq uint32) SymbolID {
	t.Helper()
	id, err := tbl.Insert(scope, Symbol{Name: name, Kind: SymbolVariable, Storage: StorageAutomatic, Seq: seq}, NoSequenceLimit)
	require.NoError(t, err)
	return id
}

func TestSequenceLimitedVisibility(t *testing.T) {
	tbl := NewTable(Hints{})
	root := tbl.NewRoot()
	s := declare(t, tbl, root, "S", 7)

	_, ok := tbl.Search(root, "S", 0, 7)
	assert.False(t, ok, "limit n hides a symbol with sequence n")
	got, ok := tbl.Search(root, "S", 0, 8)
	require.True(t, ok)
	assert.Equal(t, s, got)
}

func TestSearchDepth(t *testing.T) {
	tbl := NewTable(Hints{})
	global := tbl.NewRoot()
	g := declare(t, tbl, global, "g", 1)

	script := tbl.AddInner(global, NewScope)
	block := tbl.AddInner(script, LocalScope)
	local := declare(t, tbl, script, "x", 2)

	_, ok := tbl.Search(block, "g", 0, NoSequenceLimit)
	assert.False(t, ok, "depth 0 stays in the transparent chain")

	got, ok := tbl.Search(block, "x", 1, NoSequenceLimit)
	require.True(t, ok, "local links cost no depth")
	assert.Equal(t, local, got)

	got, ok = tbl.Search(block, "g", 1, NoSequenceLimit)
	require.True(t, ok, "one unit of depth crosses one new-scope link")
	assert.Equal(t, g, got)

	nested := tbl.AddInner(script, NewScope)
	_, ok = tbl.Search(nested, "g", 1, NoSequenceLimit)
	assert.False(t, ok, "two new-scope links need depth 2")
	got, ok = tbl.Search(nested, "g", 2, NoSequenceLimit)
	require.True(t, ok)
	assert.Equal(t, g, got)

	assert.Equal(t, script, tbl.Parent(block))
	assert.True(t, tbl.IsInheriting(block, global))
	assert.False(t, tbl.IsInheriting(global, block))
	assert.NoError(t, tbl.Validate())
}

func TestTransparentCopySharesEntries(t *testing.T) {
	tbl := NewTable(Hints{})
	base := tbl.NewRoot()
	tbl.SetThis(base, types.TypeID(5))
	v := declare(t, tbl, base, "v", 1)

	cp := tbl.AddInner(base, TransparentCopy)
	got, ok := tbl.Search(cp, "v", 0, NoSequenceLimit)
	require.True(t, ok)
	assert.Equal(t, v, got)
	assert.Equal(t, types.TypeID(5), tbl.This(cp))

	_, err := tbl.Insert(cp, Symbol{Name: "v", Kind: SymbolVariable, Seq: 2}, NoSequenceLimit)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestThisInheritedFromFirstOuterOnly(t *testing.T) {
	tbl := NewTable(Hints{})
	a := tbl.NewRoot()
	b := tbl.NewRoot()
	tbl.SetThis(a, types.TypeID(3))
	tbl.SetThis(b, types.TypeID(4))

	c := tbl.AddInner(a, NewScope)
	tbl.AddOuter(c, LocalScope, b)
	assert.Equal(t, types.TypeID(3), tbl.This(c))
	tbl.AddOuter(c, TransparentCopy, b)
	assert.Equal(t, types.TypeID(4), tbl.This(c))
}

func TestInsertDuplicate(t *testing.T) {
	tbl := NewTable(Hints{})
	root := tbl.NewRoot()
	first := declare(t, tbl, root, "x", 1)
	prev, err := tbl.Insert(root, Symbol{Name: "x", Seq: 2}, NoSequenceLimit)
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Equal(t, first, prev)

	// an earlier limit hides the first declaration, so the name is free
	inner := tbl.AddInner(root, TransparentCopy)
	_, err = tbl.Insert(inner, Symbol{Name: "x", Seq: 3}, 1)
	assert.NoError(t, err)
}

func TestOverlayIsolation(t *testing.T) {
	base := NewTable(Hints{})
	root := base.NewRoot()
	declare(t, base, root, "shared", 1)
	scopesBefore, symbolsBefore := base.ScopeCount(), base.SymbolCount()

	ov := NewOverlay(base)
	mirror := ov.NewRoot()
	ov.AddOuter(mirror, LocalScope, root)
	tmp, err := ov.Insert(mirror, Symbol{Name: "tmp", Kind: SymbolVariable, Seq: 2}, NoSequenceLimit)
	require.NoError(t, err)

	got, ok := ov.Search(mirror, "shared", 1, NoSequenceLimit)
	require.True(t, ok, "overlay reads through to the base")
	assert.Equal(t, "shared", ov.Symbol(got).Name)
	assert.Equal(t, "tmp", ov.Symbol(tmp).Name)

	_, err = ov.Insert(root, Symbol{Name: "leak"}, NoSequenceLimit)
	assert.ErrorIs(t, err, ErrReadOnly)
	assert.Panics(t, func() { ov.AddOuter(root, LocalScope, mirror) })

	_, ok = base.Search(root, "tmp", 5, NoSequenceLimit)
	assert.False(t, ok)
	assert.Nil(t, base.Symbol(tmp))
	assert.Nil(t, base.Scope(mirror))
	assert.Equal(t, scopesBefore, base.ScopeCount())
	assert.Equal(t, symbolsBefore, base.SymbolCount())
	assert.Empty(t, base.Scope(root).Inner)
	assert.NoError(t, ov.Validate())
}

func TestVisibleHonoursShadowing(t *testing.T) {
	tbl := NewTable(Hints{})
	global := tbl.NewRoot()
	declare(t, tbl, global, "a", 1)
	declare(t, tbl, global, "b", 2)
	script := tbl.AddInner(global, NewScope)
	inner := declare(t, tbl, script, "a", 3)
	declare(t, tbl, script, "late", 10)

	vis := tbl.Visible(script, 1, 5)
	names := make([]string, 0, len(vis))
	for _, id := range vis {
		names = append(names, tbl.Symbol(id).Name)
	}
	assert.Equal(t, []string{"a", "b"}, names)
	assert.Equal(t, inner, vis[0])
}

func TestLinkageValues(t *testing.T) {
	assert.Equal(t, Linkage(0), TransparentCopy)
	assert.Equal(t, Linkage(1), LocalScope)
	assert.Equal(t, Linkage(3), NewScope)
	assert.True(t, NewScope.AddsDepth())
	assert.False(t, LocalScope.AddsDepth())
	assert.Equal(t, "new", NewScope.String())
}
