package symbols

import (
	"github.com/foryearslater/afsim-sub009/internal/source"
	"github.com/foryearslater/afsim-sub009/internal/types"
)

// SymbolKind classifies what a symbol names.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolVariable
	SymbolScript
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolVariable:
		return "variable"
	case SymbolScript:
		return "script"
	default:
		return "invalid"
	}
}

// StorageClass says where a variable lives.
type StorageClass uint8

const (
	StorageNA StorageClass = iota
	StorageAutomatic
	StorageParameter
	StorageGlobal
	StorageStatic
	StorageExtern
)

func (s StorageClass) String() string {
	switch s {
	case StorageAutomatic:
		return "auto"
	case StorageParameter:
		return "param"
	case StorageGlobal:
		return "global"
	case StorageStatic:
		return "static"
	case StorageExtern:
		return "extern"
	default:
		return "n/a"
	}
}

// Symbol is a declared variable or script. Symbols are never mutated after
// they are inserted.
type Symbol struct {
	Name    string
	Kind    SymbolKind
	Storage StorageClass
	// Type is the declared type, or a prototype id for scripts.
	Type types.TypeID
	// Span is the declaring name token.
	Span source.Span
	// Seq orders declarations; searches can hide symbols declared at or after a limit.
	Seq uint32
	// Table is the scope holding the entry, Lexical where the declaration appeared.
	Table   ScopeID
	Lexical ScopeID
}

// Visible reports whether s is visible to a search bounded by limit.
func (s *Symbol) Visible(limit uint32) bool { return s.Seq < limit }
