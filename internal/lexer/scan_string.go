package lexer

import (
	"github.com/foryearslater/afsim-sub009/internal/diag"
	"github.com/foryearslater/afsim-sub009/internal/token"
)

// "..." с escape \" \\ \n \t \r \'; перевод строки внутри литерала - ошибка.
func (lx *Lexer) scanString() token.Token {
	return lx.scanQuoted('"', token.StringLit, diag.LexUnterminatedString, "string")
}

// 'c' - символьный литерал, ровно одна руна (или escape).
func (lx *Lexer) scanChar() token.Token {
	tok := lx.scanQuoted('\'', token.CharLit, diag.LexUnterminatedChar, "character")
	if tok.Kind != token.CharLit {
		return tok
	}
	body, ok := Unquote(tok.Text)
	if !ok || len([]rune(body)) != 1 {
		lx.errLex(diag.LexUnterminatedChar, tok.Span, "character literal must contain exactly one character")
		tok.Kind = token.Invalid
	}
	return tok
}

func (lx *Lexer) scanQuoted(quote byte, kind token.Kind, code diag.Code, what string) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch b {
		case quote:
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
		case '\\':
			lx.cursor.Bump()
			if lx.cursor.EOF() {
				continue
			}
			lx.cursor.Bump()
			continue
		case '\n':
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(code, sp, "newline in "+what+" literal")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		}
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(code, sp, "unterminated "+what+" literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

// Unquote strips the quotes of a string or char literal and resolves escapes.
// Unknown escapes keep the escaped character.
func Unquote(lit string) (string, bool) {
	if len(lit) < 2 || lit[0] != lit[len(lit)-1] || (lit[0] != '"' && lit[0] != '\'') {
		return "", false
	}
	body := lit[1 : len(lit)-1]
	out := make([]byte, 0, len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			out = append(out, c)
			continue
		}
		i++
		if i >= len(body) {
			return "", false
		}
		switch body[i] {
		case 'n':
			out = append(out, '\n')
		case 't':
			out = append(out, '\t')
		case 'r':
			out = append(out, '\r')
		case '0':
			out = append(out, 0)
		default:
			out = append(out, body[i])
		}
	}
	return string(out), true
}
