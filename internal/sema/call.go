package sema

import (
	"github.com/foryearslater/afsim-sub009/internal/diag"
	"github.com/foryearslater/afsim-sub009/internal/source"
	"github.com/foryearslater/afsim-sub009/internal/symbols"
	"github.com/foryearslater/afsim-sub009/internal/types"
)

// Call types "fn(args)". fn is either a pending method access, a script
// symbol or a var-typed value. Brace literal arguments of method calls are
// realized without a target first, since the overload is not known yet.
func (c *Context) Call(fn Value, args []Value, sp source.Span) Value {
	if fn.HasType() && fn.Type == c.s.builtins.Var {
		return Typed(c.s.builtins.Var).At(sp)
	}
	switch {
	case fn.HasMethod() && fn.HasType():
		return c.callMethod(fn, args, sp)
	case fn.IsSymbol():
		sym := c.s.table.Symbol(fn.Symbol)
		if sym != nil && sym.Kind == symbols.SymbolScript {
			return c.callScript(sym, args, sp)
		}
	}
	c.semErr(diag.SemaOverloadMismatch, sp, "Invalid method call")
	return Value{}
}

func (c *Context) callMethod(fn Value, args []Value, sp source.Span) Value {
	argTypes := make([]types.TypeID, len(args))
	for i := range args {
		if args[i].IsInitList() {
			args[i] = c.RealizeContainer(args[i], types.NoTypeID, args[i].Span)
		}
		argTypes[i] = args[i].Type
	}
	if t := c.s.types.Get(fn.Type); t != nil {
		if sig, ok := t.FindMethod(c.s.types, fn.Method, argTypes); ok {
			return Typed(sig.ReturnType()).At(sp)
		}
	}
	c.semErr(diag.SemaOverloadMismatch, sp, "Invalid method call to '%s'", fn.Method)
	return Value{}
}

func (c *Context) callScript(sym *symbols.Symbol, args []Value, sp source.Span) Value {
	proto, ok := c.s.types.Prototype(sym.Type)
	if !ok {
		return Value{}
	}
	params := proto.ParamTypes()
	if len(params) != len(args) {
		c.semErr(diag.SemaArityMismatch, sp, "Invalid number of arguments")
		return Value{}
	}
	for i, p := range params {
		if c.ImplicitCast(args[i], p, args[i].Span).IsEmpty() {
			c.semErr(diag.SemaOverloadMismatch, args[i].Span, "Cannot convert parameter.")
			return Value{}
		}
	}
	return Typed(proto.ReturnType()).At(sp)
}

// Construct types "Type(args)".
func (c *Context) Construct(ty types.TypeID, _ []Value, sp source.Span) Value {
	t := c.s.types.Get(ty)
	if t == nil {
		return Value{}
	}
	if !t.Has(types.FlagConstructible) {
		c.semErr(diag.SemaNotConstructible, sp, "Type not constructible.")
		return Value{}
	}
	return Typed(ty).At(sp)
}

// Index rewrites "lhs[idx]" into lhs.Get(idx) and "lhs[idx] = rhs" into
// lhs.Set(idx, rhs). rhs is nil for a read.
func (c *Context) Index(lhs, idx Value, rhs *Value, sp source.Span) Value {
	if !lhs.HasType() {
		return Value{}
	}
	if rhs != nil {
		r := *rhs
		if r.IsInitList() {
			r = c.RealizeContainer(r, containerValue(c.s.types.Get(lhs.Type)), r.Span)
		}
		if r.HasType() {
			return c.Call(lhs.withMethod("Set"), []Value{idx, r}, sp)
		}
	}
	return c.Call(lhs.withMethod("Get"), []Value{idx}, sp)
}
