package token

import (
	"slices"

	"github.com/foryearslater/afsim-sub009/internal/source"
)

// Token is one lexeme. Text is the source slice; Leading holds the
// whitespace and comments before it.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// literalKinds are the kinds that start a constant expression.
var literalKinds = []Kind{IntLit, FloatLit, StringLit, CharLit, KwTrue, KwFalse, KwNull}

func (t Token) IsLiteral() bool { return t.Is(literalKinds...) }

func (t Token) IsIdent() bool { return t.Kind == Ident }

// Is reports whether t has any of kinds.
func (t Token) Is(kinds ...Kind) bool { return slices.Contains(kinds, t.Kind) }
