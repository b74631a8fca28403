package parser

import (
	"github.com/foryearslater/afsim-sub009/internal/diag"
	"github.com/foryearslater/afsim-sub009/internal/sema"
	"github.com/foryearslater/afsim-sub009/internal/symbols"
	"github.com/foryearslater/afsim-sub009/internal/token"
	"github.com/foryearslater/afsim-sub009/internal/types"
)

// parseScriptDef разбирает
//
//	[extern] script TYPE NAME '(' [TYPE [NAME] {',' TYPE [NAME]}] ')' (';' | stmts end_script)
//
// Тело без extern обязательно. У extern-объявления тела нет, имена
// параметров необязательны.
func (p *Parser) parseScriptDef(ctx *sema.Context) bool {
	extern := false
	if p.at(token.KwExtern) {
		p.advance()
		extern = true
	}
	kw := p.advance() // script
	if p.inScript {
		p.report(diag.SynNestedScript, diag.SevError, kw.Span, "scripts cannot be nested")
		return false
	}

	body := ctx.Enter(symbols.NewScope)
	body.SetBlockType(sema.BlockScript)
	defer body.End()

	var sig types.Signature
	ret, _, ok := p.parseType(ctx)
	if !ok {
		return false
	}
	body.SetReturnType(&sig, ret)
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected script name")
	if !ok {
		return false
	}
	if _, ok = p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after script name"); !ok {
		return false
	}
	if !p.parseParams(body, &sig, extern) {
		return false
	}

	if extern && p.at(token.Semicolon) {
		p.advance()
		ctx.DeclareScript(name, sig, true, nil)
		p.scripts++
		return true
	}

	fn := ctx.DeclareScript(name, sig, extern, body)
	body.FuncDefStart(fn)
	p.scripts++

	p.inScript = true
	defer func() { p.inScript = false }()
	for !p.at(token.KwEndScript) && !p.at(token.EOF) {
		p.statementOrResync(body)
	}
	// без end_script тело всё равно считается разобранным
	p.expect(token.KwEndScript, diag.SynUnclosedScript, "missing end_script for script '"+name.Text+"'")
	return true
}

// parseParams читает список параметров после '('; ')' съедается.
func (p *Parser) parseParams(body *sema.Context, sig *types.Signature, extern bool) bool {
	if p.at(token.RParen) {
		p.advance()
		return true
	}
	for {
		ty, _, ok := p.parseType(body)
		if !ok {
			return false
		}
		switch {
		case p.at(token.Ident):
			tok := p.advance()
			body.AddParam(sig, ty, &tok, !extern || !p.externDeclOnly())
		case extern:
			body.AddParam(sig, ty, nil, false)
		default:
			p.err(diag.SynExpectIdentifier, "expected parameter name")
			return false
		}
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		_, ok = p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after parameters")
		return ok
	}
}

// externDeclOnly: extern-скрипт без тела, т.е. после ')' идёт ';'.
// Вызывается, пока список параметров ещё не дочитан.
func (p *Parser) externDeclOnly() bool {
	depth := 0
	for i := p.pos; i < len(p.toks); i++ {
		switch p.toks[i].Kind {
		case token.LParen:
			depth++
		case token.RParen:
			if depth == 0 {
				return p.tokAt(i+1).Kind == token.Semicolon
			}
			depth--
		case token.EOF, token.KwEndScript:
			return false
		}
	}
	return false
}

// skipNestedScript пропускает вложенное определение до его end_script.
func (p *Parser) skipNestedScript() {
	p.resyncUntil(token.KwEndScript)
	if p.at(token.KwEndScript) {
		p.advance()
	}
}
