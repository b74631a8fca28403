package lexer

import (
	"unicode/utf8"

	"github.com/foryearslater/afsim-sub009/internal/diag"
	"github.com/foryearslater/afsim-sub009/internal/token"
)

// scanIdentOrKeyword reads a word and looks it up in the keyword table;
// end_script is an ordinary word to the scanner.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	r, size := lx.cursor.PeekRune()
	switch {
	case size == 0:
		return token.Token{Kind: token.Invalid, Span: lx.cursor.SpanFrom(start)}
	case r >= utf8.RuneSelf && !isIdentStartRune(r):
		return lx.scanOperatorOrPunct()
	}
	lx.cursor.BumpRune()
	for {
		if b := lx.cursor.Peek(); b < utf8.RuneSelf {
			if lx.cursor.EOF() || !isIdentContinueByte(b) {
				break
			}
			lx.cursor.Bump()
			continue
		}
		r, _ := lx.cursor.PeekRune()
		if !isIdentContinueRune(r) {
			break
		}
		lx.cursor.BumpRune()
	}

	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)
	kind := token.Ident
	if k, ok := token.LookupKeyword(text); ok {
		kind = k
	}
	return token.Token{Kind: kind, Span: sp, Text: text}
}

type opPair struct {
	a, b byte
	kind token.Kind
}

// twoByteOps проверяются раньше одиночных.
var twoByteOps = [...]opPair{
	{'&', '&', token.AndAnd},
	{'|', '|', token.OrOr},
	{'=', '=', token.EqEq},
	{'!', '=', token.BangEq},
	{'<', '=', token.LtEq},
	{'>', '=', token.GtEq},
	{'+', '=', token.PlusAssign},
	{'-', '=', token.MinusAssign},
	{'*', '=', token.StarAssign},
	{'/', '=', token.SlashAssign},
}

var oneByteOps = map[byte]token.Kind{
	'+': token.Plus, '-': token.Minus, '*': token.Star, '/': token.Slash,
	'=': token.Assign, '!': token.Bang, '<': token.Lt, '>': token.Gt,
	':': token.Colon, ';': token.Semicolon, ',': token.Comma, '.': token.Dot,
	'(': token.LParen, ')': token.RParen,
	'{': token.LBrace, '}': token.RBrace,
	'[': token.LBracket, ']': token.RBracket,
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	kind := token.Invalid
	for _, op := range twoByteOps {
		if lx.cursor.Match2(op.a, op.b) {
			kind = op.kind
			break
		}
	}
	if kind == token.Invalid {
		if lx.cursor.Peek() >= utf8.RuneSelf {
			lx.cursor.BumpRune()
		} else if k, ok := oneByteOps[lx.cursor.Bump()]; ok {
			kind = k
		}
	}
	sp := lx.cursor.SpanFrom(start)
	if kind == token.Invalid {
		lx.errLex(diag.LexUnknownChar, sp, "unknown character")
	}
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}
