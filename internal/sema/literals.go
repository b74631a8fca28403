package sema

import "github.com/foryearslater/afsim-sub009/internal/token"

func (c *Context) StringLiteral(tok token.Token) Value {
	return Typed(c.s.builtins.String).At(tok.Span)
}

func (c *Context) IntLiteral(tok token.Token) Value {
	return Typed(c.s.builtins.Int).At(tok.Span)
}

func (c *Context) DoubleLiteral(tok token.Token) Value {
	return Typed(c.s.builtins.Double).At(tok.Span)
}

func (c *Context) CharLiteral(tok token.Token) Value {
	return Typed(c.s.builtins.Char).At(tok.Span)
}

func (c *Context) BoolLiteral(tok token.Token) Value {
	return Typed(c.s.builtins.Bool).At(tok.Span)
}

func (c *Context) NullLiteral(tok token.Token) Value {
	return Typed(c.s.builtins.Null).At(tok.Span)
}
