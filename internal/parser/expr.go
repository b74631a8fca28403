package parser

import (
	"github.com/foryearslater/afsim-sub009/internal/diag"
	"github.com/foryearslater/afsim-sub009/internal/sema"
	"github.com/foryearslater/afsim-sub009/internal/token"
)

// binaryOps - уровни приоритета от слабого к сильному.
var binaryOps = [][]struct {
	tok token.Kind
	op  sema.Op
}{
	{{token.OrOr, sema.OpOr}},
	{{token.AndAnd, sema.OpAnd}},
	{{token.EqEq, sema.OpEq}, {token.BangEq, sema.OpNe}},
	{{token.Lt, sema.OpLt}, {token.Gt, sema.OpGt}, {token.LtEq, sema.OpLe}, {token.GtEq, sema.OpGe}},
	{{token.Plus, sema.OpAdd}, {token.Minus, sema.OpSub}},
	{{token.Star, sema.OpMul}, {token.Slash, sema.OpDiv}},
}

var assignOps = map[token.Kind]sema.Op{
	token.Assign:      sema.OpAssign,
	token.PlusAssign:  sema.OpAddAssign,
	token.MinusAssign: sema.OpSubAssign,
	token.StarAssign:  sema.OpMulAssign,
	token.SlashAssign: sema.OpDivAssign,
}

// parseExpr разбирает выражение вместе с присваиванием (правоассоциативно).
func (p *Parser) parseExpr(ctx *sema.Context) (sema.Value, bool) {
	start := p.peek().Span
	lhs, ok := p.parseBinary(ctx, 0)
	if !ok {
		return sema.Value{}, false
	}
	op, isAssign := assignOps[p.peek().Kind]
	if !isAssign {
		return lhs, true
	}
	p.advance()
	rhs, ok := p.parseExpr(ctx)
	if !ok {
		return sema.Value{}, false
	}
	if rhs.IsInitList() && lhs.HasType() {
		rhs = ctx.RealizeContainer(rhs, lhs.Type, rhs.Span)
	}
	return ctx.Binary(lhs, rhs, op, start.Cover(p.lastSpan)), true
}

func (p *Parser) parseBinary(ctx *sema.Context, level int) (sema.Value, bool) {
	if level == len(binaryOps) {
		return p.parseUnary(ctx)
	}
	start := p.peek().Span
	lhs, ok := p.parseBinary(ctx, level+1)
	if !ok {
		return sema.Value{}, false
	}
	for {
		op, found := sema.OpInvalid, false
		for _, cand := range binaryOps[level] {
			if p.at(cand.tok) {
				op, found = cand.op, true
				break
			}
		}
		if !found {
			return lhs, true
		}
		p.advance()
		rhs, ok := p.parseBinary(ctx, level+1)
		if !ok {
			return sema.Value{}, false
		}
		lhs = ctx.Binary(lhs, rhs, op, start.Cover(p.lastSpan))
	}
}

// parseUnary: ('!' | '-' | '+') unary | '(' TYPE ')' unary | postfix
func (p *Parser) parseUnary(ctx *sema.Context) (sema.Value, bool) {
	var op sema.Op
	switch p.peek().Kind {
	case token.Bang:
		op = sema.OpNot
	case token.Minus:
		op = sema.OpNeg
	case token.Plus:
		op = sema.OpPos
	case token.LParen:
		if p.atCast(ctx) {
			return p.parseCast(ctx)
		}
		return p.parsePostfix(ctx)
	default:
		return p.parsePostfix(ctx)
	}
	tok := p.advance()
	v, ok := p.parseUnary(ctx)
	if !ok {
		return sema.Value{}, false
	}
	return ctx.Unary(v, op, tok.Span.Cover(p.lastSpan)), true
}

func (p *Parser) parseCast(ctx *sema.Context) (sema.Value, bool) {
	open := p.advance()
	ty, _, ok := p.parseType(ctx)
	if !ok {
		return sema.Value{}, false
	}
	if _, ok = p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after cast type"); !ok {
		return sema.Value{}, false
	}
	v, ok := p.parseUnary(ctx)
	if !ok {
		return sema.Value{}, false
	}
	sp := open.Span.Cover(p.lastSpan)
	if v.IsInitList() {
		return ctx.RealizeContainer(v, ty, sp), true
	}
	if !ty.IsValid() {
		return sema.Value{}, true
	}
	return ctx.Cast(v, ty, sp), true
}
