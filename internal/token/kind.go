package token

import "fmt"

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	Ident

	IntLit
	FloatLit
	StringLit
	CharLit

	KwScript    // script
	KwEndScript // end_script
	KwExtern    // extern
	KwGlobal    // global
	KwStatic    // static
	KwIf        // if
	KwElse      // else
	KwWhile     // while
	KwDo        // do
	KwFor       // for
	KwForeach   // foreach
	KwIn        // in
	KwReturn    // return
	KwBreak     // break
	KwContinue  // continue
	KwTrue      // true
	KwFalse     // false
	KwNull      // null

	Plus        // +
	Minus       // -
	Star        // *
	Slash       // /
	Assign      // =
	PlusAssign  // +=
	MinusAssign // -=
	StarAssign  // *=
	SlashAssign // /=
	EqEq        // ==
	Bang        // !
	BangEq      // !=
	Lt          // <
	LtEq        // <=
	Gt          // >
	GtEq        // >=
	AndAnd      // &&
	OrOr        // ||
	Colon       // :
	Semicolon   // ;
	Comma       // ,
	Dot         // .
	LParen      // (
	RParen      // )
	LBrace      // {
	RBrace      // }
	LBracket    // [
	RBracket    // ]
)

var kindNames = [...]string{
	Invalid:     "invalid",
	EOF:         "EOF",
	Ident:       "identifier",
	IntLit:      "integer",
	FloatLit:    "number",
	StringLit:   "string",
	CharLit:     "char",
	KwScript:    "script",
	KwEndScript: "end_script",
	KwExtern:    "extern",
	KwGlobal:    "global",
	KwStatic:    "static",
	KwIf:        "if",
	KwElse:      "else",
	KwWhile:     "while",
	KwDo:        "do",
	KwFor:       "for",
	KwForeach:   "foreach",
	KwIn:        "in",
	KwReturn:    "return",
	KwBreak:     "break",
	KwContinue:  "continue",
	KwTrue:      "true",
	KwFalse:     "false",
	KwNull:      "null",
	Plus:        "+",
	Minus:       "-",
	Star:        "*",
	Slash:       "/",
	Assign:      "=",
	PlusAssign:  "+=",
	MinusAssign: "-=",
	StarAssign:  "*=",
	SlashAssign: "/=",
	EqEq:        "==",
	Bang:        "!",
	BangEq:      "!=",
	Lt:          "<",
	LtEq:        "<=",
	Gt:          ">",
	GtEq:        ">=",
	AndAnd:      "&&",
	OrOr:        "||",
	Colon:       ":",
	Semicolon:   ";",
	Comma:       ",",
	Dot:         ".",
	LParen:      "(",
	RParen:      ")",
	LBrace:      "{",
	RBrace:      "}",
	LBracket:    "[",
	RBracket:    "]",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool { return k >= KwScript && k <= KwNull }

// IsAssign reports whether k is = or a compound assignment.
func (k Kind) IsAssign() bool {
	switch k {
	case Assign, PlusAssign, MinusAssign, StarAssign, SlashAssign:
		return true
	}
	return false
}
