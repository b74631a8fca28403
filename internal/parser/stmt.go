package parser

import (
	"github.com/foryearslater/afsim-sub009/internal/diag"
	"github.com/foryearslater/afsim-sub009/internal/sema"
	"github.com/foryearslater/afsim-sub009/internal/symbols"
	"github.com/foryearslater/afsim-sub009/internal/token"
	"github.com/foryearslater/afsim-sub009/internal/types"
)

// parseStatement разбирает один оператор. false означает синтаксическую
// ошибку; восстановление делает вызывающий.
func (p *Parser) parseStatement(ctx *sema.Context) bool {
	ctx.BeginStatement()
	switch p.peek().Kind {
	case token.Semicolon:
		p.advance()
		return true
	case token.LBrace:
		return p.parseBlock(ctx)
	case token.KwIf:
		return p.parseIf(ctx)
	case token.KwWhile:
		return p.parseWhile(ctx)
	case token.KwDo:
		return p.parseDo(ctx)
	case token.KwFor:
		return p.parseFor(ctx)
	case token.KwForeach:
		return p.parseForeach(ctx)
	case token.KwReturn:
		return p.parseReturn(ctx)
	case token.KwBreak, token.KwContinue:
		tok := p.advance()
		ctx.LoopControl(tok)
		return p.expectSemicolon()
	case token.KwScript:
		p.err(diag.SynNestedScript, "scripts cannot be nested")
		p.skipNestedScript()
		return true
	case token.KwExtern:
		if p.peekN(1).Kind == token.KwScript {
			p.advance()
			p.err(diag.SynNestedScript, "scripts cannot be nested")
			p.skipNestedScript()
			return true
		}
		return p.parseStorageDecl(ctx)
	case token.KwGlobal, token.KwStatic:
		return p.parseStorageDecl(ctx)
	}
	if p.atDeclaration(ctx) {
		return p.parseVarDecl(ctx, 0)
	}
	return p.parseExprStatement(ctx)
}

func (p *Parser) expectSemicolon() bool {
	_, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';'")
	return ok
}

// parseBlock: '{' stmts '}' в новой локальной области.
func (p *Parser) parseBlock(ctx *sema.Context) bool {
	open := p.advance()
	inner := ctx.Enter(symbols.LocalScope)
	defer inner.End()
	for !p.at(token.RBrace) && !p.at(token.EOF) && !p.at(token.KwEndScript) {
		p.statementOrResync(inner)
	}
	if p.at(token.RBrace) {
		p.advance()
		return true
	}
	p.report(diag.SynUnclosedBrace, diag.SevError, open.Span, "unclosed '{'")
	return true
}

// parseBody - тело управляющей конструкции в отдельной области с видом kind.
func (p *Parser) parseBody(ctx *sema.Context, kind sema.BlockKind) {
	inner := ctx.Enter(symbols.LocalScope)
	inner.SetBlockType(kind)
	p.statementOrResync(inner)
	inner.End()
}

func (p *Parser) parseStorageDecl(ctx *sema.Context) bool {
	kw := p.advance()
	var flags sema.VarFlags
	switch kw.Kind {
	case token.KwExtern:
		flags = sema.VarExtern
	case token.KwGlobal:
		flags = sema.VarGlobal
	case token.KwStatic:
		flags = sema.VarStatic
	}
	if !p.atDeclaration(ctx) {
		p.report(diag.SynStorageNotAllowed, diag.SevError, kw.Span, "'"+kw.Text+"' must be followed by a declaration")
		return false
	}
	return p.parseVarDecl(ctx, flags)
}

// parseVarDecl: TYPE NAME ['=' expr] {',' NAME ['=' expr]} ';'
//
// Переменная объявляется до разбора инициализатора, поэтому в нём уже видна.
func (p *Parser) parseVarDecl(ctx *sema.Context, flags sema.VarFlags) bool {
	ty, _, ok := p.parseType(ctx)
	if !ok {
		return false
	}
	for {
		name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected variable name")
		if !ok {
			return false
		}
		v := ctx.DeclareVar(ty, name, flags)
		if p.at(token.Assign) {
			p.advance()
			rhs, ok := p.parseExpr(ctx)
			if !ok {
				return false
			}
			if rhs.IsInitList() && ty.IsValid() {
				rhs = ctx.RealizeContainer(rhs, ty, rhs.Span)
			}
			if !v.IsEmpty() {
				ctx.Binary(v, rhs, sema.OpAssignInitial, name.Span.Cover(p.lastSpan))
			}
		}
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	return p.expectSemicolon()
}

func (p *Parser) parseExprStatement(ctx *sema.Context) bool {
	v, ok := p.parseExpr(ctx)
	if !ok {
		return false
	}
	if v.IsInitList() {
		ctx.RealizeContainer(v, types.NoTypeID, v.Span)
	}
	return p.expectSemicolon()
}

// parseCondition: '(' expr ')'
func (p *Parser) parseCondition(ctx *sema.Context) bool {
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('"); !ok {
		return false
	}
	v, ok := p.parseExpr(ctx)
	if !ok {
		return false
	}
	ctx.Condition(v, v.Span)
	_, ok = p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'")
	return ok
}

func (p *Parser) parseIf(ctx *sema.Context) bool {
	p.advance()
	if !p.parseCondition(ctx) {
		return false
	}
	p.parseBody(ctx, sema.BlockNormal)
	if p.at(token.KwElse) {
		p.advance()
		p.parseBody(ctx, sema.BlockNormal)
	}
	return true
}

func (p *Parser) parseWhile(ctx *sema.Context) bool {
	p.advance()
	if !p.parseCondition(ctx) {
		return false
	}
	p.parseBody(ctx, sema.BlockWhile)
	return true
}

// parseDo: do stmt while '(' expr ')' ';'
func (p *Parser) parseDo(ctx *sema.Context) bool {
	p.advance()
	p.parseBody(ctx, sema.BlockDo)
	if _, ok := p.expect(token.KwWhile, diag.SynUnexpectedToken, "expected 'while' after do body"); !ok {
		return false
	}
	if !p.parseCondition(ctx) {
		return false
	}
	return p.expectSemicolon()
}

// parseFor: for '(' [init] ';' [cond] ';' [step] ')' stmt
// Переменные из init видны только внутри цикла.
func (p *Parser) parseFor(ctx *sema.Context) bool {
	p.advance()
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after for"); !ok {
		return false
	}
	loop := ctx.Enter(symbols.LocalScope)
	loop.SetBlockType(sema.BlockFor)
	defer loop.End()

	switch {
	case p.at(token.Semicolon):
		p.advance()
	case p.atDeclaration(loop):
		if !p.parseVarDecl(loop, 0) {
			return false
		}
	default:
		if !p.parseExprStatement(loop) {
			return false
		}
	}
	if !p.at(token.Semicolon) {
		v, ok := p.parseExpr(loop)
		if !ok {
			return false
		}
		loop.Condition(v, v.Span)
	}
	if !p.expectSemicolon() {
		return false
	}
	if !p.at(token.RParen) {
		if _, ok := p.parseExpr(loop); !ok {
			return false
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after for header"); !ok {
		return false
	}
	p.statementOrResync(loop)
	return true
}

// parseForeach: foreach '(' [TYPE KEY ':'] TYPE VAL in expr ')' stmt
func (p *Parser) parseForeach(ctx *sema.Context) bool {
	kw := p.advance()
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after foreach"); !ok {
		return false
	}
	loop := ctx.Enter(symbols.LocalScope)
	loop.SetBlockType(sema.BlockForeach)
	defer loop.End()

	first, ok := p.loopVar(loop)
	if !ok {
		return false
	}
	var key, val sema.Value
	if p.at(token.Colon) {
		p.advance()
		key = first
		if val, ok = p.loopVar(loop); !ok {
			return false
		}
	} else {
		val = first
	}
	if _, ok = p.expect(token.KwIn, diag.SynForeachMissingIn, "expected 'in' in foreach"); !ok {
		return false
	}
	container, ok := p.parseExpr(ctx)
	if !ok {
		return false
	}
	loop.Foreach(key, val, container, kw.Span.Cover(p.lastSpan))
	if _, ok = p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after foreach header"); !ok {
		return false
	}
	p.statementOrResync(loop)
	return true
}

func (p *Parser) loopVar(ctx *sema.Context) (sema.Value, bool) {
	ty, _, ok := p.parseType(ctx)
	if !ok {
		return sema.Value{}, false
	}
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected loop variable name")
	if !ok {
		return sema.Value{}, false
	}
	return ctx.DeclareVar(ty, name, 0), true
}

func (p *Parser) parseReturn(ctx *sema.Context) bool {
	kw := p.advance()
	if p.at(token.Semicolon) {
		p.advance()
		return true
	}
	v, ok := p.parseExpr(ctx)
	if !ok {
		return false
	}
	if v.IsInitList() {
		if rt := ctx.ScriptReturnType(); rt.IsValid() {
			v = ctx.RealizeContainer(v, rt, v.Span)
		}
	}
	ctx.Return(v, kw.Span.Cover(p.lastSpan))
	return p.expectSemicolon()
}
