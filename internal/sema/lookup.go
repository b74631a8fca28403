package sema

import (
	"github.com/foryearslater/afsim-sub009/internal/diag"
	"github.com/foryearslater/afsim-sub009/internal/symbols"
	"github.com/foryearslater/afsim-sub009/internal/token"
	"github.com/foryearslater/afsim-sub009/internal/types"
)

// Search resolves an identifier without reporting. When no symbol matches,
// a method of the implicit receiver and then a static method of the builtin
// function holder are tried.
func (c *Context) Search(tok token.Token) Value {
	if id, ok := c.lookup(tok.Text); ok {
		sym := c.s.table.Symbol(id)
		if sym.Storage == symbols.StorageParameter {
			c.specialToken(TokenParameter, tok)
		} else {
			c.specialToken(TokenLocalVariable, tok)
		}
		v := Value{Kind: ValueSymbol, Symbol: id, Span: tok.Span}
		if sym.Kind == symbols.SymbolVariable {
			v.Type = sym.Type
		}
		return v
	}
	if c.IsThisMethod(tok) {
		return c.Attribute(c.ThisValue(), tok)
	}
	if b := c.s.types.Get(c.s.builtins.Builtin); b != nil && b.HasStaticMethod(tok.Text) {
		return c.TypeAttribute(b.ID, tok)
	}
	return Value{}
}

// Identifier is Search that reports unknown names.
func (c *Context) Identifier(tok token.Token) Value {
	v := c.Search(tok)
	if v.IsEmpty() {
		c.semErr(diag.SemaUnresolvedName, tok.Span, "Unknown Identifier.")
	}
	return v
}

// ThisValue is a value of the implicit receiver type, or empty outside a class.
func (c *Context) ThisValue() Value {
	return Typed(c.s.table.This(c.scope))
}

// IsThisMethod reports whether tok names a method of the implicit receiver.
func (c *Context) IsThisMethod(tok token.Token) bool {
	t := c.s.types.Get(c.s.table.This(c.scope))
	return t != nil && t.HasMethod(tok.Text)
}

// Attribute turns "v.name" into a pending method access.
func (c *Context) Attribute(v Value, tok token.Token) Value {
	t := c.s.types.Get(v.Type)
	if t == nil {
		c.semErr(diag.SemaBadReceiver, tok.Span, "Can't call method on this.")
		return Value{}
	}
	return c.methodOf(t, v, tok)
}

// TypeAttribute is "Type.name"; only static methods qualify.
func (c *Context) TypeAttribute(ty types.TypeID, tok token.Token) Value {
	t := c.s.types.Get(ty)
	if t == nil {
		return Value{}
	}
	if !t.HasStaticMethod(tok.Text) {
		c.semErr(diag.SemaUnresolvedName, tok.Span, "Invalid Method Name '%s'.", tok.Text)
		return Value{}
	}
	c.specialToken(TokenStaticMethod, tok)
	return Typed(ty).withMethod(tok.Text).At(tok.Span)
}

// DynAttribute is member access on a dynamically typed receiver. Nothing can
// be checked; the result is var.
func (c *Context) DynAttribute(_ Value, tok token.Token) Value {
	c.specialToken(TokenMethod, tok)
	return Typed(c.s.builtins.Var).At(tok.Span)
}

// ClassMethod checks that name is a method of v's class.
func (c *Context) ClassMethod(v Value, tok token.Token) Value {
	t := c.s.types.Get(v.Type)
	if t == nil {
		c.semErr(diag.SemaBadReceiver, tok.Span, "Cannot call a method on type-less object")
		return Value{}
	}
	return c.methodOf(t, v, tok)
}

// ClassVariable types "v.field".
func (c *Context) ClassVariable(v Value, tok token.Token) Value {
	t := c.s.types.Get(v.Type)
	if t == nil {
		c.semErr(diag.SemaBadReceiver, tok.Span, "Cannot access a variable on type-less object")
		return Value{}
	}
	ft, ok := t.Field(tok.Text)
	if !ok {
		c.semErr(diag.SemaUnresolvedName, tok.Span, "Invalid Variable Name '%s'.", tok.Text)
		return Value{}
	}
	return Typed(ft).At(cover(v.Span, tok.Span))
}

func (c *Context) methodOf(t *types.Type, v Value, tok token.Token) Value {
	overloads := t.Overloads(tok.Text)
	if len(overloads) == 0 {
		c.semErr(diag.SemaUnresolvedName, tok.Span, "Invalid Method Name '%s'.", tok.Text)
		return Value{}
	}
	if overloads[0].IsStatic() {
		c.specialToken(TokenStaticMethod, tok)
	} else {
		c.specialToken(TokenMethod, tok)
	}
	return v.withMethod(tok.Text).At(cover(v.Span, tok.Span))
}
