package token

var keywords = map[string]Kind{
	"script":     KwScript,
	"end_script": KwEndScript,
	"extern":     KwExtern,
	"global":     KwGlobal,
	"static":     KwStatic,
	"if":         KwIf,
	"else":       KwElse,
	"while":      KwWhile,
	"do":         KwDo,
	"for":        KwFor,
	"foreach":    KwForeach,
	"in":         KwIn,
	"return":     KwReturn,
	"break":      KwBreak,
	"continue":   KwContinue,
	"true":       KwTrue,
	"false":      KwFalse,
	"null":       KwNull,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
