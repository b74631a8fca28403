package sema

import (
	"github.com/foryearslater/afsim-sub009/internal/diag"
	"github.com/foryearslater/afsim-sub009/internal/source"
	"github.com/foryearslater/afsim-sub009/internal/token"
	"github.com/foryearslater/afsim-sub009/internal/types"
)

// InLoop reports whether c is inside a loop body of the current script.
func (c *Context) InLoop() bool {
	for cur := c; cur != nil && cur.block != BlockScript; cur = cur.parent {
		switch cur.block {
		case BlockWhile, BlockDo, BlockFor, BlockForeach:
			return true
		}
	}
	return false
}

// LoopControl checks that break or continue appears inside a loop.
func (c *Context) LoopControl(tok token.Token) {
	if !c.InLoop() {
		c.semErr(diag.SemaError, tok.Span, "'%s' outside of a loop.", tok.Text)
	}
}

// Foreach checks "foreach (key : val in container)"; key is empty when the
// loop has no key variable. Elements are assigned with cast semantics, so an
// Array<Object> can be walked with a variable of a derived type. Arrays are
// keyed by int.
func (c *Context) Foreach(key, val, container Value, sp source.Span) {
	if !container.HasType() || c.isDynamic(container.Type) {
		return
	}
	t := c.s.types.Get(container.Type)
	if t == nil || !t.Has(types.FlagContainer) {
		c.semErr(diag.SemaTypeMismatch, sp, "Cannot iterate over '%s'.", c.typeName(container.Type))
		return
	}
	c.elementCast(containerValue(t), val, sp)
	if key.HasType() {
		kt := containerKey(t)
		if !kt.IsValid() {
			kt = c.s.builtins.Int
		}
		c.elementCast(kt, key, sp)
	}
}

func (c *Context) elementCast(elem types.TypeID, v Value, sp source.Span) {
	if !elem.IsValid() || !v.HasType() || c.isDynamic(v.Type) {
		return
	}
	c.ExplicitCast(Typed(elem).At(sp), v.Type, sp)
}
