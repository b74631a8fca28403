package sema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foryearslater/afsim-sub009/internal/diag"
	"github.com/foryearslater/afsim-sub009/internal/sema"
	"github.com/foryearslater/afsim-sub009/internal/source"
	"github.com/foryearslater/afsim-sub009/internal/symbols"
	"github.com/foryearslater/afsim-sub009/internal/token"
	"github.com/foryearslater/afsim-sub009/internal/types"
)

type env struct {
	reg  *types.Registry
	bag  *diag.Bag
	s    *sema.Session
	root *sema.Context
	b    sema.Builtins
	foo  types.TypeID
	obs  *recorder
	off  uint32
}

func newEnv(t *testing.T) *env {
	t.Helper()
	reg := types.NewRegistry(nil)
	intT := reg.Register("int")
	doubleT := reg.Register("double")
	reg.Get(intT).AddImplicitCast(doubleT)
	reg.Get(doubleT).AddImplicitCast(intT)
	for _, name := range []string{"Array", "Map", "Set"} {
		reg.Get(reg.Register(name)).Flags |= types.FlagConstructible | types.FlagContainer
	}
	arr := reg.Get(reg.Register("Array"))
	arr.AddMethod("Get", types.Signature{Flags: types.SigAppMethod, Return: types.Arg(1), Params: []types.Slot{types.Of(intT)}})
	arr.AddMethod("Set", types.Signature{Flags: types.SigAppMethod, Return: types.Of(reg.Register("void")), Params: []types.Slot{types.Of(intT), types.Arg(1)}})

	foo := reg.Register("Foo")
	ft := reg.Get(foo)
	ft.Flags |= types.FlagConstructible
	ft.AddMethod("Bar", types.NewSignature(types.SigAppMethod|types.SigStatic, intT, intT))
	ft.AddMethod("Name", types.NewSignature(types.SigAppMethod, reg.Register("string")))
	ft.AddField("count", intT)

	e := &env{reg: reg, bag: diag.NewBag(0), foo: foo, obs: &recorder{}}
	e.s = sema.NewSession(reg, sema.Config{Reporter: &diag.BagReporter{Bag: e.bag}, Observer: e.obs})
	e.b = e.s.Builtins()
	e.root = e.s.Root()
	return e
}

// tok makes an identifier-like token at a fresh offset.
func (e *env) tok(text string) token.Token {
	sp := source.Span{Start: e.off, End: e.off + uint32(len(text))}
	e.off += uint32(len(text)) + 1
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}

func (e *env) messages() []string {
	var out []string
	for _, d := range e.bag.Items() {
		out = append(out, d.Message)
	}
	return out
}

type recorder struct {
	pushed, popped []symbols.ScopeID
	decls          []string
	scripts        []string
	special        map[string]sema.SpecialTokenKind
	calls          int
	statements     int
	eof            bool
}

func (r *recorder) PushScope(s symbols.ScopeID) { r.pushed = append(r.pushed, s) }
func (r *recorder) PopScope(s symbols.ScopeID)  { r.popped = append(r.popped, s) }
func (r *recorder) VarDecl(sym *symbols.Symbol, _ token.Token) {
	r.decls = append(r.decls, sym.Name)
}
func (r *recorder) ScriptDefinition(_ symbols.ScopeID, sym *symbols.Symbol) {
	r.scripts = append(r.scripts, sym.Name)
}
func (r *recorder) HitEOF() { r.eof = true }
func (r *recorder) SpecialToken(kind sema.SpecialTokenKind, tok token.Token) {
	if r.special == nil {
		r.special = make(map[string]sema.SpecialTokenKind)
	}
	r.special[tok.Text] = kind
}
func (r *recorder) BeginCall(sema.Value, uint32) { r.calls++ }
func (r *recorder) EndCall(sema.Value, uint32)   {}
func (r *recorder) CallArgNext(uint32)           {}
func (r *recorder) AtStatement()                 { r.statements++ }

func TestStaticMethodCallResolvesThroughImplicitCast(t *testing.T) {
	e := newEnv(t)
	c := e.root

	fn := c.TypeAttribute(e.foo, e.tok("Bar"))
	require.True(t, fn.HasMethod())
	v := c.Call(fn, []sema.Value{c.DoubleLiteral(e.tok("3.0"))}, source.Span{})
	assert.Equal(t, e.b.Int, v.Type)
	assert.Empty(t, e.bag.Items())
	assert.Equal(t, sema.TokenStaticMethod, e.obs.special["Bar"])

	v = c.Call(fn, []sema.Value{c.StringLiteral(e.tok(`"x"`))}, source.Span{})
	assert.True(t, v.IsEmpty())
	require.Len(t, e.bag.Items(), 1)
	assert.Equal(t, diag.SemaOverloadMismatch, e.bag.Items()[0].Code)
	assert.Equal(t, "Invalid method call to 'Bar'", e.bag.Items()[0].Message)
}

func TestTypeAttributeRejectsInstanceMethods(t *testing.T) {
	e := newEnv(t)
	v := e.root.TypeAttribute(e.foo, e.tok("Name"))
	assert.True(t, v.IsEmpty())
	assert.Equal(t, []string{"Invalid Method Name 'Name'."}, e.messages())
}

func TestAttributeOnVariable(t *testing.T) {
	e := newEnv(t)
	c := e.root
	c.DeclareVar(e.foo, e.tok("f"), 0)

	recv := c.Identifier(e.tok("f"))
	require.Equal(t, e.foo, recv.Type)
	fn := c.Attribute(recv, e.tok("Name"))
	got := c.Call(fn, nil, source.Span{})
	assert.Equal(t, e.b.String, got.Type)

	field := c.ClassVariable(recv, e.tok("count"))
	assert.Equal(t, e.b.Int, field.Type)
	c.ClassVariable(recv, e.tok("missing"))
	c.Attribute(sema.Value{}, e.tok("x"))
	assert.Equal(t, []string{"Invalid Variable Name 'missing'.", "Can't call method on this."}, e.messages())
}

func TestCastReflexive(t *testing.T) {
	e := newEnv(t)
	c := e.root
	for _, ty := range []types.TypeID{e.b.Int, e.b.Double, e.b.String, e.b.Bool, e.foo, e.b.Object} {
		v := sema.Typed(ty)
		got := c.ImplicitCast(v, ty, source.Span{})
		assert.Equal(t, v, got, e.reg.Name(ty))
	}
	assert.Empty(t, e.bag.Items())
}

func TestImplicitAndExplicitCasts(t *testing.T) {
	e := newEnv(t)
	c := e.root
	derived := e.reg.Register("Derived")
	e.reg.Get(derived).AddInherited(e.foo)

	assert.Equal(t, e.foo, c.ImplicitCast(sema.Typed(derived), e.foo, source.Span{}).Type)
	assert.Equal(t, e.foo, c.ImplicitCast(sema.Typed(e.b.Null), e.foo, source.Span{}).Type)
	assert.Equal(t, e.b.Var, c.ImplicitCast(sema.Typed(e.b.Var), e.foo, source.Span{}).Type)
	assert.Equal(t, e.b.Var, c.ImplicitCast(sema.Typed(e.b.Int), e.b.Var, source.Span{}).Type)
	assert.Empty(t, e.bag.Items())

	assert.True(t, c.ImplicitCast(sema.Typed(e.foo), derived, source.Span{}).IsEmpty())
	assert.Equal(t, []string{"Cannot implicitly cast 'Foo' to 'Derived'."}, e.messages())

	// down-cast is explicit only
	assert.Equal(t, derived, c.ExplicitCast(sema.Typed(e.foo), derived, source.Span{}).Type)
	assert.True(t, c.ExplicitCast(sema.Typed(e.b.String), e.foo, source.Span{}).IsEmpty())
	assert.Equal(t, "Invalid cast.", e.messages()[1])
}

func TestBinaryAndUnary(t *testing.T) {
	e := newEnv(t)
	c := e.root
	i, d := sema.Typed(e.b.Int), sema.Typed(e.b.Double)

	assert.Equal(t, e.b.Bool, c.Binary(i, d, sema.OpLt, source.Span{}).Type)
	assert.Equal(t, e.b.Bool, c.Binary(i, d, sema.OpAnd, source.Span{}).Type)
	assert.Equal(t, e.b.Int, c.Binary(i, d, sema.OpAdd, source.Span{}).Type)
	assert.Equal(t, e.b.Double, c.Binary(d, i, sema.OpAssign, source.Span{}).Type)
	assert.True(t, c.Binary(i, sema.Typed(e.b.String), sema.OpAssign, source.Span{}).IsEmpty())
	assert.Equal(t, e.b.Int, c.Binary(i, sema.Typed(e.b.Var), sema.OpAssign, source.Span{}).Type)
	assert.Equal(t, e.b.Int, c.Binary(i, sema.Typed(e.b.Var), sema.OpAddAssign, source.Span{}).Type)
	assert.Equal(t, []string{"Cannot implicitly cast 'string' to 'int'."}, e.messages())
	assert.Equal(t, e.b.Bool, c.Unary(i, sema.OpNot, source.Span{}).Type)
	assert.Equal(t, e.b.Int, c.Unary(i, sema.OpNeg, source.Span{}).Type)
}

func TestContainerInference(t *testing.T) {
	e := newEnv(t)
	c := e.root
	lit := func(vals ...sema.Value) sema.Value {
		l := c.NewInitList(source.Span{})
		for _, v := range vals {
			c.AddToInitList(l, v, nil, source.Span{})
		}
		return l
	}
	i, s := sema.Typed(e.b.Int), sema.Typed(e.b.String)

	got := c.RealizeContainer(lit(i, i, i), types.NoTypeID, source.Span{})
	assert.Equal(t, "Array<int>", e.reg.Name(got.Type))
	got = c.RealizeContainer(lit(i, s), types.NoTypeID, source.Span{})
	assert.Equal(t, "Array<Object>", e.reg.Name(got.Type))
	got = c.RealizeContainer(lit(), types.NoTypeID, source.Span{})
	assert.Equal(t, "Array<Object>", e.reg.Name(got.Type))

	m := c.NewInitList(source.Span{})
	c.AddToInitList(m, s, &i, source.Span{})
	c.AddToInitList(m, s, &i, source.Span{})
	got = c.RealizeContainer(m, types.NoTypeID, source.Span{})
	assert.Equal(t, "Map<string,int>", e.reg.Name(got.Type))
	assert.Empty(t, e.bag.Items())

	// nested literals are realized first
	got = c.RealizeContainer(lit(lit(i), lit(i, i)), types.NoTypeID, source.Span{})
	assert.Equal(t, "Array<Array<int>>", e.reg.Name(got.Type))
}

func TestInitListKeyConsistency(t *testing.T) {
	e := newEnv(t)
	c := e.root
	i, s := sema.Typed(e.b.Int), sema.Typed(e.b.String)

	l := c.NewInitList(source.Span{})
	c.AddToInitList(l, s, &i, source.Span{})
	c.AddToInitList(l, i, nil, source.Span{})
	l2 := c.NewInitList(source.Span{})
	c.AddToInitList(l2, i, nil, source.Span{})
	c.AddToInitList(l2, s, &i, source.Span{})
	assert.Equal(t, []string{"No key specified", "Initializer entry has key, unlike earlier entries."}, e.messages())
}

func TestRealizeAgainstTarget(t *testing.T) {
	e := newEnv(t)
	c := e.root
	arrDouble, ok := e.reg.Instantiate("Array<double>")
	require.True(t, ok)

	l := c.NewInitList(source.Span{})
	c.AddToInitList(l, sema.Typed(e.b.Int), nil, source.Span{})
	got := c.ImplicitCast(l, arrDouble, source.Span{})
	assert.Equal(t, arrDouble, got.Type)
	assert.Empty(t, e.bag.Items())

	l = c.NewInitList(source.Span{})
	c.AddToInitList(l, sema.Typed(e.b.String), nil, source.Span{})
	c.ImplicitCast(l, arrDouble, source.Span{})
	assert.Equal(t, []string{"Cannot implicitly cast 'string' to 'double'."}, e.messages())

	// not a container and not constructible
	c.RealizeContainer(c.NewInitList(source.Span{}), e.b.Bool, source.Span{})
	assert.Equal(t, "Type not constructible.", e.messages()[1])

	// var target infers and stays var
	l = c.NewInitList(source.Span{})
	c.AddToInitList(l, sema.Typed(e.b.Int), nil, source.Span{})
	assert.Equal(t, e.b.Var, c.ImplicitCast(l, e.b.Var, source.Span{}).Type)
}

func TestIndexRewritesToGetAndSet(t *testing.T) {
	e := newEnv(t)
	c := e.root
	arrInt, _ := e.reg.Instantiate("Array<int>")
	a := sema.Typed(arrInt)
	idx := sema.Typed(e.b.Int)

	assert.Equal(t, e.b.Int, c.Index(a, idx, nil, source.Span{}).Type)
	rhs := sema.Typed(e.b.Double)
	assert.Equal(t, e.b.Void, c.Index(a, idx, &rhs, source.Span{}).Type)
	bad := sema.Typed(e.b.String)
	c.Index(a, idx, &bad, source.Span{})
	assert.Equal(t, []string{"Invalid method call to 'Set'"}, e.messages())
}

func TestRedeclaration(t *testing.T) {
	e := newEnv(t)
	c := e.root

	require.False(t, c.DeclareVar(e.b.Int, e.tok("x"), 0).IsEmpty())
	assert.True(t, c.DeclareVar(e.b.Int, e.tok("x"), 0).IsEmpty())
	require.Len(t, e.bag.Items(), 1)
	d := e.bag.Items()[0]
	assert.Equal(t, diag.SemaRedeclaration, d.Code)
	assert.Equal(t, "Cannot reuse variable name.", d.Message)
	require.Len(t, d.Notes, 1)

	// a nested scope may shadow
	inner := c.Enter(symbols.NewScope)
	assert.False(t, inner.DeclareVar(e.b.Double, e.tok("x"), 0).IsEmpty())
	inner.End()
	assert.Len(t, e.bag.Items(), 1)
}

func TestExternRedeclaration(t *testing.T) {
	e := newEnv(t)
	c := e.root.Enter(symbols.NewScope)

	first := c.DeclareVar(e.b.Int, e.tok("g"), sema.VarExtern)
	require.True(t, first.IsSymbol())
	sym := e.s.Table().Symbol(first.Symbol)
	assert.Equal(t, symbols.StorageExtern, sym.Storage)
	assert.Equal(t, e.root.Scope(), sym.Table, "extern goes to the parent scope")

	again := c.DeclareVar(e.b.Int, e.tok("g"), sema.VarExtern)
	assert.Equal(t, first.Symbol, again.Symbol)
	assert.Empty(t, e.bag.Items())

	c.DeclareVar(e.b.Double, e.tok("g"), sema.VarExtern)
	assert.Equal(t, []string{"extern variable type does not match"}, e.messages())

	// fresh declaration after an extern in the same table
	e.root.DeclareVar(e.b.Int, e.tok("g"), 0)
	assert.Len(t, e.bag.Items(), 1)
}

func TestGlobalsDisabledStayLocal(t *testing.T) {
	e := newEnv(t)
	body := e.root.Enter(symbols.NewScope)
	body.GlobalVarMode = true
	v := body.DeclareVar(e.b.Int, e.tok("gv"), 0)
	sym := e.s.Table().Symbol(v.Symbol)
	assert.Equal(t, symbols.StorageGlobal, sym.Storage)
	assert.Equal(t, e.root.Scope(), sym.Table)

	mirror := sema.NewMirror(e.s, body.Scope(), symbols.NoSequenceLimit, sema.Config{})
	assert.False(t, mirror.AllowGlobals())
	mv := mirror.DeclareVar(e.b.Int, e.tok("mg"), sema.VarGlobal)
	assert.Equal(t, mirror.Scope(), mirror.Session().Table().Symbol(mv.Symbol).Table)
}

func TestSequenceLimitedVisibility(t *testing.T) {
	e := newEnv(t)
	v := e.root.DeclareVar(e.b.Int, e.tok("x"), 0)
	n := e.s.Table().Symbol(v.Symbol).Seq

	_, ok := e.s.Table().Search(e.root.Scope(), "x", sema.DefaultSearchDepth, n)
	assert.False(t, ok)
	id, ok := e.s.Table().Search(e.root.Scope(), "x", sema.DefaultSearchDepth, n+1)
	assert.True(t, ok)
	assert.Equal(t, v.Symbol, id)
}

func TestMirrorOfBodySeesEnclosingScopes(t *testing.T) {
	e := newEnv(t)
	g := e.root.DeclareVar(e.b.Int, e.tok("g"), 0)
	body := e.root.Enter(symbols.NewScope)
	p := body.DeclareVar(e.b.Double, e.tok("p"), 0)
	limit := e.s.Sequence() + 1
	body.DeclareVar(e.b.Int, e.tok("local"), 0)
	body.End()

	m := sema.NewMirror(e.s, body.Scope(), limit, sema.Config{})
	assert.Equal(t, g.Symbol, m.Identifier(e.tok("g")).Symbol)
	assert.Equal(t, p.Symbol, m.Identifier(e.tok("p")).Symbol)
	assert.True(t, m.Search(e.tok("local")).IsEmpty())

	// имя старой локальной переменной свободно
	again := m.DeclareVar(e.b.Int, e.tok("local"), 0)
	assert.True(t, again.IsSymbol())
	m.End()
	assert.Empty(t, e.bag.Items())
}

func TestMirrorIsolation(t *testing.T) {
	e := newEnv(t)
	before := e.root.DeclareVar(e.b.Int, e.tok("a"), 0)
	limit := e.s.Sequence() + 1
	e.root.DeclareVar(e.b.Int, e.tok("later"), 0)
	scopes, syms := e.s.Table().ScopeCount(), e.s.Table().SymbolCount()

	m := sema.NewMirror(e.s, e.root.Scope(), limit, sema.Config{})
	assert.True(t, m.IsTemporary())
	assert.Equal(t, before.Symbol, m.Identifier(e.tok("a")).Symbol)
	assert.True(t, m.Search(e.tok("later")).IsEmpty(), "declared after the limit")

	declared := m.DeclareVar(e.b.Double, e.tok("mine"), 0)
	require.True(t, declared.IsSymbol())
	assert.Equal(t, e.b.Double, m.Identifier(e.tok("mine")).Type)
	body := m.Enter(symbols.NewScope)
	assert.Equal(t, e.b.Double, body.Identifier(e.tok("mine")).Type)
	body.End()
	m.End()

	_, ok := e.s.Table().Search(e.root.Scope(), "mine", sema.DefaultSearchDepth, symbols.NoSequenceLimit)
	assert.False(t, ok)
	assert.Equal(t, scopes, e.s.Table().ScopeCount())
	assert.Equal(t, syms, e.s.Table().SymbolCount())
	assert.Empty(t, e.bag.Items())
}

func TestScriptDeclarationAndCall(t *testing.T) {
	e := newEnv(t)
	c := e.root

	body := c.Enter(symbols.NewScope)
	body.SetBlockType(sema.BlockScript)
	var sig types.Signature
	body.SetReturnType(&sig, e.b.Int)
	p := e.tok("n")
	body.AddParam(&sig, e.b.Double, &p, true)
	script := c.DeclareScript(e.tok("twice"), sig, false, body)
	require.True(t, script.IsSymbol())
	body.FuncDefStart(script)

	assert.Equal(t, e.b.Double, body.Identifier(e.tok("n")).Type)
	assert.Equal(t, sema.TokenParameter, e.obs.special["n"])
	assert.Equal(t, e.b.Int, body.ScriptReturnType())
	assert.Equal(t, e.b.Int, body.Return(sema.Typed(e.b.Double), source.Span{}).Type)
	body.End()
	assert.Equal(t, []string{"twice"}, e.obs.scripts)

	fn := c.Identifier(e.tok("twice"))
	assert.Equal(t, e.b.Int, c.Call(fn, []sema.Value{sema.Typed(e.b.Int)}, source.Span{}).Type)
	assert.Empty(t, e.bag.Items())

	c.Call(fn, nil, source.Span{})
	c.Call(fn, []sema.Value{sema.Typed(e.b.String)}, source.Span{})
	assert.Equal(t, []string{
		"Invalid number of arguments",
		"Cannot implicitly cast 'string' to 'double'.",
		"Cannot convert parameter.",
	}, e.messages())
}

func TestReturnChecksDeclaredType(t *testing.T) {
	e := newEnv(t)
	c := e.root

	enter := func(name string, ret types.TypeID) *sema.Context {
		body := c.Enter(symbols.NewScope)
		body.SetBlockType(sema.BlockScript)
		var sig types.Signature
		body.SetReturnType(&sig, ret)
		script := c.DeclareScript(e.tok(name), sig, false, body)
		require.True(t, script.IsSymbol())
		body.FuncDefStart(script)
		return body
	}

	void := enter("noop", e.b.Void)
	assert.True(t, void.Return(sema.Typed(e.b.Int), source.Span{}).IsEmpty())
	assert.True(t, void.Return(sema.Value{}, source.Span{}).IsEmpty())
	void.End()
	assert.Equal(t, []string{"Cannot return a value from a void script."}, e.messages())

	num := enter("num", e.b.Int)
	inner := num.Enter(symbols.LocalScope)
	assert.Equal(t, e.b.Int, inner.ScriptReturnType())
	assert.Equal(t, e.b.Int, inner.Return(sema.Typed(e.b.Double), source.Span{}).Type)
	assert.Equal(t, e.b.Var, inner.Return(sema.Typed(e.b.Var), source.Span{}).Type)
	assert.Len(t, e.bag.Items(), 1)
	assert.True(t, inner.Return(sema.Typed(e.foo), source.Span{}).IsEmpty())
	inner.End()
	num.End()
	assert.Equal(t, []string{
		"Cannot return a value from a void script.",
		"Cannot implicitly cast 'Foo' to 'int'.",
	}, e.messages())
}

func TestForeachChecksKeyAndValue(t *testing.T) {
	e := newEnv(t)
	c := e.root
	arr, ok := e.reg.Instantiate("Array<double>")
	require.True(t, ok)
	m, ok := e.reg.Instantiate("Map<string,int>")
	require.True(t, ok)
	none := sema.Value{}

	c.Foreach(none, sema.Typed(e.b.Int), sema.Typed(arr), source.Span{})
	c.Foreach(sema.Typed(e.b.Int), sema.Typed(e.b.Double), sema.Typed(arr), source.Span{})
	c.Foreach(sema.Typed(e.b.String), sema.Typed(e.b.Int), sema.Typed(m), source.Span{})
	c.Foreach(sema.Typed(e.b.Var), sema.Typed(e.b.Var), sema.Typed(m), source.Span{})
	c.Foreach(none, sema.Typed(e.foo), sema.Typed(e.b.Var), source.Span{})
	assert.Empty(t, e.bag.Items())

	c.Foreach(none, sema.Typed(e.foo), sema.Typed(arr), source.Span{})
	c.Foreach(sema.Typed(e.foo), sema.Typed(e.b.Double), sema.Typed(arr), source.Span{})
	c.Foreach(sema.Typed(e.b.Int), sema.Typed(e.b.Int), sema.Typed(m), source.Span{})
	c.Foreach(none, sema.Typed(e.b.Int), sema.Typed(e.foo), source.Span{})
	assert.Equal(t, []string{
		"Invalid cast.",
		"Invalid cast.",
		"Invalid cast.",
		"Cannot iterate over 'Foo'.",
	}, e.messages())
}

func TestExternScriptRedeclaration(t *testing.T) {
	e := newEnv(t)
	c := e.root
	sig := types.NewSignature(0, e.b.Void, e.b.Int)
	first := c.DeclareScript(e.tok("ext"), sig, true, nil)
	second := c.DeclareScript(e.tok("ext"), sig, true, nil)
	assert.Equal(t, first.Symbol, second.Symbol)
	assert.Empty(t, e.bag.Items())

	c.DeclareScript(e.tok("ext"), types.NewSignature(0, e.b.Int), true, nil)
	assert.Equal(t, []string{"extern script signature does not match"}, e.messages())
}

func TestVarDegradesCalls(t *testing.T) {
	e := newEnv(t)
	c := e.root
	v := sema.Typed(e.b.Var)
	attr := c.DynAttribute(v, e.tok("Anything"))
	assert.Equal(t, e.b.Var, attr.Type)
	assert.Equal(t, e.b.Var, c.Call(attr, []sema.Value{sema.Typed(e.b.String)}, source.Span{}).Type)

	// var arguments match any parameter
	fn := c.TypeAttribute(e.foo, e.tok("Bar"))
	assert.Equal(t, e.b.Int, c.Call(fn, []sema.Value{v}, source.Span{}).Type)
	assert.Empty(t, e.bag.Items())
}

func TestUnknownIdentifierFallbacks(t *testing.T) {
	e := newEnv(t)
	builtin := e.reg.Register("__BUILTIN__")
	e.reg.Get(builtin).AddMethod("Print", types.NewSignature(types.SigAppMethod|types.SigStatic|types.SigVarargs, e.b.Void, e.b.Object))
	s := sema.NewSession(e.reg, sema.Config{Reporter: &diag.BagReporter{Bag: e.bag}})
	root := s.Root()

	assert.True(t, root.Identifier(e.tok("nope")).IsEmpty())
	assert.Equal(t, []string{"Unknown Identifier."}, e.messages())

	fn := root.Identifier(e.tok("Print"))
	assert.Equal(t, "Print", fn.Method)

	// implicit this inside a class body
	body := root.Enter(symbols.NewScope)
	body.SetThisType(e.foo)
	m := body.Identifier(e.tok("Name"))
	assert.Equal(t, e.foo, m.Type)
	assert.Equal(t, "Name", m.Method)
	assert.Len(t, e.bag.Items(), 1)
}

func TestObserverCallbacks(t *testing.T) {
	e := newEnv(t)
	c := e.root
	inner := c.Enter(symbols.NewScope)
	inner.BeginStatement()
	inner.DeclareVar(e.b.Int, e.tok("v"), 0)
	inner.BeginCall(sema.Value{}, 3)
	inner.End()
	inner.End()
	c.HitEOF()

	assert.Equal(t, []symbols.ScopeID{c.Scope(), inner.Scope()}, e.obs.pushed)
	assert.Equal(t, []symbols.ScopeID{inner.Scope()}, e.obs.popped)
	assert.Equal(t, []string{"v"}, e.obs.decls)
	assert.Equal(t, 1, e.obs.calls)
	assert.Equal(t, 1, e.obs.statements)
	assert.True(t, e.obs.eof)
}

func TestMultiObserverFansOut(t *testing.T) {
	a, b := &recorder{}, &bare{}
	m := sema.MultiObserver{a, b}
	m.PushScope(1)
	m.SpecialToken(sema.TokenMethod, token.Token{Text: "x"})
	m.AtStatement()
	m.HitEOF()
	assert.Equal(t, []symbols.ScopeID{1}, a.pushed)
	assert.Equal(t, sema.TokenMethod, a.special["x"])
	assert.Equal(t, 1, a.statements)
	assert.Equal(t, 1, b.pushes)
	assert.True(t, a.eof)
}

// bare implements only the required observer methods.
type bare struct{ pushes int }

func (b *bare) PushScope(symbols.ScopeID)                         { b.pushes++ }
func (b *bare) PopScope(symbols.ScopeID)                          {}
func (b *bare) VarDecl(*symbols.Symbol, token.Token)              {}
func (b *bare) ScriptDefinition(symbols.ScopeID, *symbols.Symbol) {}
func (b *bare) HitEOF()                                           {}
