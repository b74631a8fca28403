package sema

import (
	"github.com/foryearslater/afsim-sub009/internal/diag"
	"github.com/foryearslater/afsim-sub009/internal/source"
	"github.com/foryearslater/afsim-sub009/internal/types"
)

// ImplicitCast converts v to ty where the language does it silently:
// identical types, var on either side, null, a declared implicit cast or a
// base class. A brace literal is realized against ty.
func (c *Context) ImplicitCast(v Value, ty types.TypeID, sp source.Span) Value {
	if v.IsInitList() {
		if c.isDynamic(ty) {
			if c.RealizeContainer(v, types.NoTypeID, sp).IsEmpty() {
				return Value{}
			}
			return Typed(ty).At(sp)
		}
		return c.RealizeContainer(v, ty, sp)
	}
	if !v.HasType() || !ty.IsValid() {
		return Value{}
	}
	if v.Type == ty || v.Type == c.s.builtins.Var {
		return v
	}
	if c.implicitlyConvertible(v.Type, ty) {
		return Typed(ty).At(v.Span)
	}
	c.semErr(diag.SemaIllegalCast, sp, "Cannot implicitly cast '%s' to '%s'.", c.typeName(v.Type), c.typeName(ty))
	return Value{}
}

func (c *Context) implicitlyConvertible(from, to types.TypeID) bool {
	if to == c.s.builtins.Var || from == c.s.builtins.Null {
		return true
	}
	ft := c.s.types.Get(from)
	return ft != nil && (ft.ImplicitlyCastable(to) || ft.InheritsFrom(to))
}

// ExplicitCast is "(ty)v": everything ImplicitCast accepts plus declared
// explicit casts, up-casts and down-casts.
func (c *Context) ExplicitCast(v Value, ty types.TypeID, sp source.Span) Value {
	if !v.HasType() || !ty.IsValid() {
		return Value{}
	}
	if v.Type == ty {
		return v
	}
	ok := v.Type == c.s.builtins.Var || c.implicitlyConvertible(v.Type, ty)
	if !ok {
		ft, tt := c.s.types.Get(v.Type), c.s.types.Get(ty)
		ok = ft != nil && ft.ExplicitlyCastable(ty) ||
			tt != nil && tt.InheritsFrom(v.Type)
	}
	if !ok {
		c.semErr(diag.SemaIllegalCast, sp, "Invalid cast.")
		return Value{}
	}
	return Typed(ty).At(sp)
}

// Cast is the grammar entry for a parenthesized cast.
func (c *Context) Cast(v Value, ty types.TypeID, sp source.Span) Value {
	return c.ExplicitCast(v, ty, sp)
}

func (c *Context) isDynamic(ty types.TypeID) bool {
	t := c.s.types.Get(ty)
	return t != nil && t.Has(types.FlagDynamic)
}
