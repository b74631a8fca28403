// Package token defines lexical token kinds and trivia for the script language.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly.
//   - Type names (int, double, Array, ...) are identifiers; the semantic
//     layer decides what is a type.
package token
