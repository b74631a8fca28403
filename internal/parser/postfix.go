package parser

import (
	"github.com/foryearslater/afsim-sub009/internal/diag"
	"github.com/foryearslater/afsim-sub009/internal/sema"
	"github.com/foryearslater/afsim-sub009/internal/source"
	"github.com/foryearslater/afsim-sub009/internal/token"
	"github.com/foryearslater/afsim-sub009/internal/types"
)

// operand - результат первичного выражения: значение либо имя типа
// (для `Type.Static(...)` и `Type(...)`).
type operand struct {
	v  sema.Value
	ty types.TypeID
}

func (o operand) isType() bool { return o.ty.IsValid() }

// parsePostfix: primary { '.' NAME | '(' args ')' | '[' expr ']' ['=' expr] }
func (p *Parser) parsePostfix(ctx *sema.Context) (sema.Value, bool) {
	start := p.peek().Span
	cur, ok := p.parsePrimary(ctx)
	if !ok {
		return sema.Value{}, false
	}
	for {
		switch p.peek().Kind {
		case token.Dot:
			if cur, ok = p.parseMember(ctx, cur); !ok {
				return sema.Value{}, false
			}
		case token.LParen:
			args, ok := p.parseArgs(ctx, cur.v)
			if !ok {
				return sema.Value{}, false
			}
			sp := start.Cover(p.lastSpan)
			switch {
			case cur.isType():
				cur = operand{v: ctx.Construct(cur.ty, args, sp)}
			case cur.v.IsEmpty():
				// вызываемое уже не разрешилось
			default:
				cur = operand{v: ctx.Call(cur.v, args, sp)}
			}
		case token.LBracket:
			if cur.isType() {
				p.err(diag.SynUnexpectedToken, "cannot index a type")
				return sema.Value{}, false
			}
			v, ok := p.parseIndex(ctx, cur.v, start)
			if !ok {
				return sema.Value{}, false
			}
			cur = operand{v: v}
		default:
			if cur.isType() {
				p.report(diag.SynExpectExpression, diag.SevError, start.Cover(p.lastSpan), "type name used as a value")
				return sema.Value{}, false
			}
			return cur.v, true
		}
	}
}

// parseMember разбирает '.' NAME после cur. Получатель сообщается
// наблюдателю до имени, чтобы дополнение работало на недописанном коде.
func (p *Parser) parseMember(ctx *sema.Context, cur operand) (operand, bool) {
	dot := p.advance()
	if cur.isType() {
		ctx.AtDotType(cur.ty, dot.Span.Start)
	} else {
		ctx.AtDotValue(cur.v, dot.Span.Start)
	}
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected member name after '.'")
	if !ok {
		return operand{}, false
	}
	switch {
	case cur.isType():
		return operand{v: ctx.TypeAttribute(cur.ty, name)}, true
	case !cur.v.HasType():
		// ошибка уже сообщена слева
		return operand{}, true
	case cur.v.Type == ctx.Session().Builtins().Var:
		return operand{v: ctx.DynAttribute(cur.v, name)}, true
	case p.at(token.LParen):
		return operand{v: ctx.ClassMethod(cur.v, name)}, true
	default:
		return operand{v: ctx.ClassVariable(cur.v, name)}, true
	}
}

// parseArgs: '(' [expr {',' expr}] ')'
func (p *Parser) parseArgs(ctx *sema.Context, fn sema.Value) ([]sema.Value, bool) {
	open := p.advance()
	ctx.BeginCall(fn, open.Span.Start)
	var args []sema.Value
	if !p.at(token.RParen) {
		for {
			v, ok := p.parseExpr(ctx)
			if !ok {
				return nil, false
			}
			args = append(args, v)
			if !p.at(token.Comma) {
				break
			}
			comma := p.advance()
			ctx.CallArgNext(comma.Span.Start)
		}
	}
	closeTok, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after arguments")
	if !ok {
		return nil, false
	}
	ctx.EndCall(fn, closeTok.Span.End)
	return args, true
}

// parseIndex: '[' expr ']' ['=' expr]; присваивание превращается в Set.
func (p *Parser) parseIndex(ctx *sema.Context, lhs sema.Value, start source.Span) (sema.Value, bool) {
	p.advance()
	idx, ok := p.parseExpr(ctx)
	if !ok {
		return sema.Value{}, false
	}
	if _, ok = p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']'"); !ok {
		return sema.Value{}, false
	}
	if !p.at(token.Assign) {
		return ctx.Index(lhs, idx, nil, start.Cover(p.lastSpan)), true
	}
	p.advance()
	rhs, ok := p.parseExpr(ctx)
	if !ok {
		return sema.Value{}, false
	}
	return ctx.Index(lhs, idx, &rhs, start.Cover(p.lastSpan)), true
}

func (p *Parser) parsePrimary(ctx *sema.Context) (operand, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.IntLit:
		return operand{v: ctx.IntLiteral(p.advance())}, true
	case token.FloatLit:
		return operand{v: ctx.DoubleLiteral(p.advance())}, true
	case token.StringLit:
		return operand{v: ctx.StringLiteral(p.advance())}, true
	case token.CharLit:
		return operand{v: ctx.CharLiteral(p.advance())}, true
	case token.KwTrue, token.KwFalse:
		return operand{v: ctx.BoolLiteral(p.advance())}, true
	case token.KwNull:
		return operand{v: ctx.NullLiteral(p.advance())}, true
	case token.LParen:
		p.advance()
		v, ok := p.parseExpr(ctx)
		if !ok {
			return operand{}, false
		}
		if _, ok = p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'"); !ok {
			return operand{}, false
		}
		return operand{v: v.At(tok.Span.Cover(p.lastSpan))}, true
	case token.LBrace:
		v, ok := p.parseInitList(ctx)
		return operand{v: v}, ok
	case token.Ident:
		if p.atTypeOperand(ctx) {
			ty, _, ok := p.parseType(ctx)
			if ok && !ty.IsValid() {
				// тип не разрешился, ошибка уже есть
				return operand{}, true
			}
			return operand{ty: ty}, ok
		}
		return operand{v: ctx.Identifier(p.advance())}, true
	}
	p.err(diag.SynExpectExpression, "expected expression")
	return operand{}, false
}

// atTypeOperand: имя типа, за которым идёт '.' или '('.
func (p *Parser) atTypeOperand(ctx *sema.Context) bool {
	if !p.isTypeAt(ctx, p.pos) {
		return false
	}
	end, ok := p.scanType(p.pos)
	if !ok {
		return false
	}
	next := p.tokAt(end).Kind
	return next == token.Dot || next == token.LParen
}

// parseInitList: '{' [expr [':' expr] {',' expr [':' expr]}] '}'
func (p *Parser) parseInitList(ctx *sema.Context) (sema.Value, bool) {
	open := p.advance()
	list := ctx.NewInitList(open.Span)
	for !p.at(token.RBrace) {
		entryStart := p.peek().Span
		first, ok := p.parseExpr(ctx)
		if !ok {
			return sema.Value{}, false
		}
		if p.at(token.Colon) {
			p.advance()
			second, ok := p.parseExpr(ctx)
			if !ok {
				return sema.Value{}, false
			}
			ctx.AddToInitList(list, first, &second, entryStart.Cover(p.lastSpan))
		} else {
			ctx.AddToInitList(list, first, nil, entryStart.Cover(p.lastSpan))
		}
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close initializer"); !ok {
		return sema.Value{}, false
	}
	return list.At(open.Span.Cover(p.lastSpan)), true
}
