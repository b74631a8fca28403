package sema

import (
	"errors"

	"github.com/foryearslater/afsim-sub009/internal/diag"
	"github.com/foryearslater/afsim-sub009/internal/source"
	"github.com/foryearslater/afsim-sub009/internal/symbols"
	"github.com/foryearslater/afsim-sub009/internal/token"
	"github.com/foryearslater/afsim-sub009/internal/types"
)

// DeclareVar declares "ty name". Extern and global declarations go to the
// parent scope while globals are allowed.
//
// Redeclaring a name visible in the target scope fails with "Cannot reuse
// variable name." except when either declaration is extern; an extern
// redeclaration must repeat the original type.
func (c *Context) DeclareVar(ty types.TypeID, tok token.Token, flags VarFlags) Value {
	if !ty.IsValid() {
		return Value{}
	}
	if c.GlobalVarMode {
		flags |= VarGlobal
	}
	id, err := c.addEntry(ty, tok, flags)
	c.specialToken(TokenLocalVariable, tok)
	if err == nil {
		return c.symbolValue(id, tok.Span)
	}

	prev := c.s.table.Symbol(id)
	if prev == nil {
		return Value{}
	}
	if flags&VarExtern != 0 || prev.Storage == symbols.StorageExtern {
		if prev.Type != ty {
			c.semErr(diag.SemaExternMismatch, tok.Span, "extern variable type does not match")
			return Value{}
		}
		return c.symbolValue(id, tok.Span)
	}
	diag.ReportError(c.s.reporter, diag.SemaRedeclaration, tok.Span, "Cannot reuse variable name.").
		WithNote(prev.Span, "previous declaration of '"+prev.Name+"'").
		Emit()
	return Value{}
}

// VarDecl is DeclareVar for the grammar's plain declaration production.
func (c *Context) VarDecl(ty types.TypeID, tok token.Token) Value {
	return c.DeclareVar(ty, tok, 0)
}

func (c *Context) addEntry(ty types.TypeID, tok token.Token, flags VarFlags) (symbols.SymbolID, error) {
	sym := symbols.Symbol{
		Name:    tok.Text,
		Kind:    symbols.SymbolVariable,
		Storage: symbols.StorageAutomatic,
		Type:    ty,
		Span:    tok.Span,
		Seq:     c.s.nextSequence(),
		Lexical: c.scope,
	}
	target := c.scope
	switch {
	case flags&VarExtern != 0:
		sym.Storage = symbols.StorageExtern
		target = c.globalScope()
	case flags&VarGlobal != 0:
		sym.Storage = symbols.StorageGlobal
		target = c.globalScope()
	case flags&VarStatic != 0:
		sym.Storage = symbols.StorageStatic
	case flags&VarParameter != 0:
		sym.Storage = symbols.StorageParameter
	}
	id, err := c.s.table.Insert(target, sym, c.seqLimit)
	if errors.Is(err, symbols.ErrReadOnly) {
		id, err = c.s.table.Insert(c.scope, sym, c.seqLimit)
	}
	if err == nil && c.s.disp.obs != nil {
		c.s.disp.obs.VarDecl(c.s.table.Symbol(id), tok)
	}
	return id, err
}

// globalScope is where global and extern declarations land: the parent of
// c's scope while globals are allowed, c's scope otherwise.
func (c *Context) globalScope() symbols.ScopeID {
	if !c.allowGlobals {
		return c.scope
	}
	if p := c.s.table.Parent(c.scope); p.IsValid() && c.s.table.Owns(p) {
		return p
	}
	return c.scope
}

func (c *Context) symbolValue(id symbols.SymbolID, sp source.Span) Value {
	sym := c.s.table.Symbol(id)
	if sym == nil {
		return Value{}
	}
	v := Value{Kind: ValueSymbol, Symbol: id, Span: sp}
	if sym.Kind == symbols.SymbolVariable {
		v.Type = sym.Type
	}
	return v
}

// AddParam appends a parameter of type ty to sig. Formal parameters of a
// script definition are also declared in c.
func (c *Context) AddParam(sig *types.Signature, ty types.TypeID, tok *token.Token, formal bool) {
	if !ty.IsValid() {
		return
	}
	if tok != nil {
		c.specialToken(TokenParameter, *tok)
	}
	sig.Params = append(sig.Params, types.Of(ty))
	if !formal || tok == nil {
		return
	}
	if _, err := c.addEntry(ty, *tok, VarParameter); errors.Is(err, symbols.ErrDuplicate) {
		c.semErr(diag.SemaRedeclaration, tok.Span, "Cannot reuse variable name.")
	}
}

// SetReturnType sets the return type of sig.
func (c *Context) SetReturnType(sig *types.Signature, ty types.TypeID) {
	if ty.IsValid() {
		sig.Return = types.Of(ty)
	}
}

// DeclareScript declares a script with signature sig in c's scope. fnCtx is
// the context of the script body, if any. A name that is already visible
// yields the existing symbol when both are compatible extern declarations,
// otherwise a redeclaration error.
func (c *Context) DeclareScript(tok token.Token, sig types.Signature, extern bool, fnCtx *Context) Value {
	proto := c.s.types.AddPrototype(sig)
	if id, ok := c.lookup(tok.Text); ok {
		prev := c.s.table.Symbol(id)
		if prev.Kind == symbols.SymbolScript && (extern || prev.Storage == symbols.StorageExtern) {
			if prev.Type != proto {
				c.semErr(diag.SemaExternMismatch, tok.Span, "extern script signature does not match")
			}
			return c.symbolValue(id, tok.Span)
		}
		if !extern {
			c.semErr(diag.SemaRedeclaration, tok.Span, "Cannot reuse variable name.")
		}
		return Value{}
	}
	sym := symbols.Symbol{
		Name:    tok.Text,
		Kind:    symbols.SymbolScript,
		Storage: symbols.StorageNA,
		Type:    proto,
		Span:    tok.Span,
		Seq:     c.s.nextSequence(),
	}
	if extern {
		sym.Storage = symbols.StorageExtern
	}
	if fnCtx != nil {
		sym.Lexical = fnCtx.scope
	}
	id, err := c.s.table.Insert(c.scope, sym, c.seqLimit)
	if err != nil {
		return Value{}
	}
	return c.symbolValue(id, tok.Span)
}

// FuncDefStart marks c as the body of the script in v. End reports the
// definition to the observer.
func (c *Context) FuncDefStart(v Value) {
	if v.IsSymbol() {
		c.funcDef = v.Symbol
	}
}

// ScriptReturnType is the declared return type of the enclosing script
// definition, or NoTypeID at top level.
func (c *Context) ScriptReturnType() types.TypeID {
	script := c.ScriptContext()
	if script == nil || !script.funcDef.IsValid() {
		return types.NoTypeID
	}
	sym := c.s.table.Symbol(script.funcDef)
	if proto, ok := c.s.types.Prototype(sym.Type); ok {
		return proto.ReturnType()
	}
	return types.NoTypeID
}

// Return checks "return v" against the enclosing script's return type.
func (c *Context) Return(v Value, sp source.Span) Value {
	rt := c.ScriptReturnType()
	if !rt.IsValid() || v.IsEmpty() {
		return v
	}
	if rt == c.s.builtins.Void {
		if v.HasType() && v.Type != c.s.builtins.Void {
			c.semErr(diag.SemaReturnMismatch, sp, "Cannot return a value from a void script.")
		}
		return Value{}
	}
	return c.ImplicitCast(v, rt, sp)
}

// AddAppVariable declares an application-provided global such as TIME_NOW
// directly in c's scope. It returns false when the name is taken.
func (c *Context) AddAppVariable(ty types.TypeID, name string) (symbols.SymbolID, bool) {
	if !ty.IsValid() {
		return symbols.NoSymbolID, false
	}
	id, err := c.s.table.Insert(c.scope, symbols.Symbol{
		Name:    name,
		Kind:    symbols.SymbolVariable,
		Storage: symbols.StorageGlobal,
		Type:    ty,
		Seq:     c.s.nextSequence(),
	}, symbols.NoSequenceLimit)
	return id, err == nil
}
