package sema

import (
	"github.com/foryearslater/afsim-sub009/internal/diag"
	"github.com/foryearslater/afsim-sub009/internal/source"
	"github.com/foryearslater/afsim-sub009/internal/token"
	"github.com/foryearslater/afsim-sub009/internal/types"
)

// LookupType resolves a type name quietly. Generic names such as
// "Map<string,int>" are instantiated on demand.
func (c *Context) LookupType(tok token.Token) (types.TypeID, bool) {
	return c.s.types.Instantiate(tok.Text)
}

// IsTypeName reports whether name resolves to a type.
func (c *Context) IsTypeName(name string) bool {
	_, ok := c.s.types.Instantiate(name)
	return ok
}

// ResolveType is LookupType that reports unknown names.
func (c *Context) ResolveType(tok token.Token) types.TypeID {
	id, ok := c.LookupType(tok)
	if !ok {
		c.semErr(diag.SemaInvalidType, tok.Span, "Invalid Type: '%s'", tok.Text)
		return types.NoTypeID
	}
	return id
}

// GenericType instantiates base with up to two arguments.
func (c *Context) GenericType(base, arg1, arg2 types.TypeID, sp source.Span) types.TypeID {
	if !base.IsValid() {
		return types.NoTypeID
	}
	id, ok := c.s.types.InstantiateArgs(base, arg1, arg2)
	if !ok {
		c.semErr(diag.SemaInvalidType, sp, "Invalid template specification")
		return types.NoTypeID
	}
	return id
}
