package lexer

import "unicode"

const (
	clsIdentStart uint8 = 1 << iota
	clsDigit
	clsHex
)

// byteClass классифицирует ASCII; байты >= 0x80 остаются нулевыми.
var byteClass = func() (t [256]uint8) {
	for c := 'a'; c <= 'z'; c++ {
		t[c] |= clsIdentStart
	}
	for c := 'A'; c <= 'Z'; c++ {
		t[c] |= clsIdentStart
	}
	t['_'] |= clsIdentStart
	for c := '0'; c <= '9'; c++ {
		t[c] |= clsDigit | clsHex
	}
	for _, c := range "abcdefABCDEF" {
		t[c] |= clsHex
	}
	return t
}()

func isIdentStartByte(b byte) bool    { return byteClass[b]&clsIdentStart != 0 }
func isIdentContinueByte(b byte) bool { return byteClass[b]&(clsIdentStart|clsDigit) != 0 }
func isDec(b byte) bool               { return byteClass[b]&clsDigit != 0 }
func isHex(b byte) bool               { return byteClass[b]&clsHex != 0 }

func isIdentStartRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinueRune(r rune) bool {
	return isIdentStartRune(r) || unicode.IsDigit(r)
}

// isNumberAfterDot: ".5" начинает число.
func (lx *Lexer) isNumberAfterDot() bool {
	b0, b1, ok := lx.cursor.Peek2()
	return ok && b0 == '.' && isDec(b1)
}
