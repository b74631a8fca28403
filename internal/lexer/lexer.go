package lexer

import (
	"unicode/utf8"

	"github.com/foryearslater/afsim-sub009/internal/diag"
	"github.com/foryearslater/afsim-sub009/internal/source"
	"github.com/foryearslater/afsim-sub009/internal/token"
)

// Lexer turns a file into tokens, attaching comments and whitespace to the
// following token as Leading trivia.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	// peeked хранит токен, возвращённый Peek
	peeked *token.Token
	hold   []token.Trivia
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{file: file, cursor: NewCursor(file), opts: opts}
}

func (lx *Lexer) File() *source.File { return lx.file }

// Next returns the next token; after the end it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if t := lx.peeked; t != nil {
		lx.peeked = nil
		return *t
	}
	lx.collectLeadingTrivia()
	tok := lx.scan()
	if tok.Span.Len() > lx.opts.maxTokenLength() {
		lx.errLex(diag.LexTokenTooLong, tok.Span, "token too long")
		lx.cursor.SkipToEOF()
		tok.Kind = token.Invalid
	}
	tok.Leading, lx.hold = lx.hold, nil
	return tok
}

func (lx *Lexer) scan() token.Token {
	if lx.cursor.EOF() {
		off := lx.cursor.Off
		return token.Token{Kind: token.EOF, Span: source.Span{File: lx.file.ID, Start: off, End: off}}
	}
	switch ch := lx.cursor.Peek(); {
	case isIdentStartByte(ch), ch >= utf8.RuneSelf:
		return lx.scanIdentOrKeyword()
	case isDec(ch), ch == '.' && lx.isNumberAfterDot():
		return lx.scanNumber()
	case ch == '"':
		return lx.scanString()
	case ch == '\'':
		return lx.scanChar()
	}
	return lx.scanOperatorOrPunct()
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	if lx.peeked == nil {
		t := lx.Next()
		lx.peeked = &t
	}
	return *lx.peeked
}

// All drains the lexer, EOF included.
func (lx *Lexer) All() []token.Token {
	var out []token.Token
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}
