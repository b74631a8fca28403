package parser

import (
	"github.com/foryearslater/afsim-sub009/internal/diag"
	"github.com/foryearslater/afsim-sub009/internal/sema"
	"github.com/foryearslater/afsim-sub009/internal/source"
	"github.com/foryearslater/afsim-sub009/internal/token"
	"github.com/foryearslater/afsim-sub009/internal/types"
)

// parseType разбирает `IDENT ['<' type [',' type] '>']`.
// Неизвестные имена сообщает sema; ok=false только при синтаксической ошибке.
func (p *Parser) parseType(ctx *sema.Context) (types.TypeID, source.Span, bool) {
	name, ok := p.expect(token.Ident, diag.SynExpectType, "expected type name")
	if !ok {
		return types.NoTypeID, name.Span, false
	}
	if !p.at(token.Lt) {
		return ctx.ResolveType(name), name.Span, true
	}
	base := ctx.ResolveType(name)
	p.advance() // '<'
	a1, _, ok := p.parseType(ctx)
	if !ok {
		return types.NoTypeID, name.Span, false
	}
	a2, second := types.NoTypeID, false
	if p.at(token.Comma) {
		p.advance()
		second = true
		if a2, _, ok = p.parseType(ctx); !ok {
			return types.NoTypeID, name.Span, false
		}
		if p.at(token.Comma) {
			p.err(diag.SynTooManyTypeArgs, "at most two template arguments are allowed")
			return types.NoTypeID, name.Span, false
		}
	}
	gt, ok := p.expect(token.Gt, diag.SynExpectRightAngle, "expected '>' after template arguments")
	if !ok {
		return types.NoTypeID, name.Span, false
	}
	sp := name.Span.Cover(gt.Span)
	if !base.IsValid() || !a1.IsValid() || second && !a2.IsValid() {
		// ошибка уже сообщена
		return types.NoTypeID, sp, true
	}
	return ctx.GenericType(base, a1, a2, sp), sp, true
}

// scanType проверяет без побочных эффектов, что с токена i начинается
// запись типа, и возвращает индекс токена за ней.
func (p *Parser) scanType(i int) (int, bool) {
	if p.tokAt(i).Kind != token.Ident {
		return i, false
	}
	i++
	if p.tokAt(i).Kind != token.Lt {
		return i, true
	}
	i++
	end, ok := p.scanType(i)
	if !ok {
		return i, false
	}
	// лишние аргументы пропускаются здесь, parseType сообщит о них
	for p.tokAt(end).Kind == token.Comma {
		if end, ok = p.scanType(end + 1); !ok {
			return i, false
		}
	}
	if p.tokAt(end).Kind != token.Gt {
		return i, false
	}
	return end + 1, true
}

func (p *Parser) tokAt(i int) token.Token {
	if i < len(p.toks) {
		return p.toks[i]
	}
	return p.toks[len(p.toks)-1]
}

// isTypeAt: токен i - имя типа, а не переменной.
func (p *Parser) isTypeAt(ctx *sema.Context, i int) bool {
	tok := p.tokAt(i)
	if tok.Kind != token.Ident {
		return false
	}
	if _, ok := ctx.Lookup(tok.Text); ok {
		return false
	}
	return ctx.IsTypeName(tok.Text)
}

// atDeclaration: `type IDENT` в начале оператора.
func (p *Parser) atDeclaration(ctx *sema.Context) bool {
	if !p.isTypeAt(ctx, p.pos) {
		return false
	}
	end, ok := p.scanType(p.pos)
	return ok && p.tokAt(end).Kind == token.Ident
}

// atCast: `'(' type ')'` перед унарным выражением.
func (p *Parser) atCast(ctx *sema.Context) bool {
	if !p.at(token.LParen) || !p.isTypeAt(ctx, p.pos+1) {
		return false
	}
	end, ok := p.scanType(p.pos + 1)
	return ok && p.tokAt(end).Kind == token.RParen
}
