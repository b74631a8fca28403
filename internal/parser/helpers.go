package parser

import (
	"github.com/foryearslater/afsim-sub009/internal/diag"
	"github.com/foryearslater/afsim-sub009/internal/source"
	"github.com/foryearslater/afsim-sub009/internal/token"
)

func (p *Parser) peek() token.Token { return p.peekN(0) }

// peekN смотрит на n токенов вперёд; за концом всегда EOF.
func (p *Parser) peekN(n int) token.Token {
	if i := p.pos + n; i < len(p.toks) {
		return p.toks[i]
	}
	return p.toks[len(p.toks)-1]
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

// advance съедает токен; на EOF стоит на месте.
func (p *Parser) advance() token.Token {
	tok := p.peek()
	if tok.Kind != token.EOF {
		p.pos++
		p.lastSpan = tok.Span
	}
	return tok
}

// errSpan: на EOF ошибка ставится сразу после последнего токена.
func (p *Parser) errSpan() source.Span {
	if tok := p.peek(); tok.Kind != token.EOF || p.lastSpan.End == 0 {
		return tok.Span
	}
	end := p.lastSpan.End
	return source.Span{File: p.lastSpan.File, Start: end, End: end}
}

// expect съедает токен kind k или сообщает об ошибке и отдаёт Invalid.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	sp := p.errSpan()
	p.report(code, diag.SevError, sp, msg)
	return token.Token{Kind: token.Invalid, Span: sp, Text: p.peek().Text}, false
}

func (p *Parser) err(code diag.Code, msg string) bool {
	return p.report(code, diag.SevError, p.errSpan(), msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) bool {
	isErr := sev == diag.SevError
	if isErr {
		p.opts.CurrentErrors++
	}
	switch {
	case p.opts.Reporter == nil:
		return false
	case isErr && p.opts.Enough() && p.opts.CurrentErrors > p.opts.MaxErrors:
		return false
	}
	p.opts.Reporter.Report(code, sev, sp, msg, nil)
	return true
}
