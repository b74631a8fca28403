package lexer

import (
	"github.com/foryearslater/afsim-sub009/internal/diag"
	"github.com/foryearslater/afsim-sub009/internal/token"
)

func isBlank(b byte) bool    { return b == ' ' || b == '\t' || b == '\r' }
func isNewline(b byte) bool  { return b == '\n' }
func notNewline(b byte) bool { return b != '\n' }

// collectLeadingTrivia gathers what precedes the next token. A run of
// blanks is one TriviaSpace and a run of newlines one TriviaNewline;
// comments do not nest, and an unclosed block comment runs to EOF.
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = lx.hold[:0]
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		var kind token.TriviaKind
		switch b := lx.cursor.Peek(); {
		case isBlank(b):
			lx.cursor.SkipWhile(isBlank)
			kind = token.TriviaSpace
		case isNewline(b):
			lx.cursor.SkipWhile(isNewline)
			kind = token.TriviaNewline
		case lx.cursor.Match2('/', '/'):
			lx.cursor.SkipWhile(notNewline)
			kind = token.TriviaLineComment
		case lx.cursor.Match2('/', '*'):
			if !lx.cursor.SkipPast("*/") {
				lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
			}
			kind = token.TriviaBlockComment
		default:
			return
		}
		sp := lx.cursor.SpanFrom(start)
		lx.hold = append(lx.hold, token.Trivia{Kind: kind, Span: sp, Text: lx.text(sp)})
	}
}
