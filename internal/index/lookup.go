package index

import (
	"fmt"

	"github.com/foryearslater/afsim-sub009/internal/sema"
	"github.com/foryearslater/afsim-sub009/internal/symbols"
)

// SymbolAt resolves name the way an expression at off would see it.
func (d *Detail) SymbolAt(s *sema.Session, off uint32, name string) (*symbols.Symbol, bool) {
	scope, ok := d.ScopeAt(off)
	if !ok {
		return nil, false
	}
	tbl := s.Table()
	id, ok := tbl.Search(scope, name, sema.DefaultSearchDepth, symbols.NoSequenceLimit)
	if !ok {
		return nil, false
	}
	sym := tbl.Symbol(id)
	return sym, sym != nil
}

// Declared reports whether sym was declared in the observed file; app
// variables and globals have no declaring token.
func (d *Detail) Declared(sym *symbols.Symbol) bool {
	return sym != nil && sym.Span.File == d.file && sym.Span.End > sym.Span.Start
}

// Describe renders sym for a hover: "storage Type name" for variables and
// the prototype for scripts.
func Describe(s *sema.Session, sym *symbols.Symbol) string {
	reg := s.Types()
	if sym.Kind == symbols.SymbolScript {
		if proto, ok := reg.Prototype(sym.Type); ok {
			return "script " + reg.FormatSignature(sym.Name, proto)
		}
		return "script " + sym.Name
	}
	return fmt.Sprintf("%s %s %s", sym.Storage, reg.Name(sym.Type), sym.Name)
}
