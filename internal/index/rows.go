package index

import (
	"github.com/foryearslater/afsim-sub009/internal/sema"
	"github.com/foryearslater/afsim-sub009/internal/symbols"
)

// Rows converts what d recorded into store rows. Script rows take the
// definition's name span; variables their declaring token.
func (d *Detail) Rows(s *sema.Session) ([]SymbolRow, []TokenRow) {
	reg := s.Types()
	syms := make([]SymbolRow, 0, len(d.Declarations)+len(d.Scripts))
	for _, decl := range d.Declarations {
		syms = append(syms, SymbolRow{
			Name:    decl.Name,
			Kind:    symbols.SymbolVariable.String(),
			Storage: decl.Storage.String(),
			Type:    reg.Name(decl.Type),
			Start:   decl.Span.Start,
			End:     decl.Span.End,
			Seq:     decl.Seq,
			Scope:   uint32(decl.Scope),
		})
	}
	for _, def := range d.Scripts {
		sig := ""
		if proto, ok := reg.Prototype(def.Symbol.Type); ok {
			sig = reg.FormatSignature("", proto)
		}
		syms = append(syms, SymbolRow{
			Name:    def.Name,
			Kind:    symbols.SymbolScript.String(),
			Storage: def.Symbol.Storage.String(),
			Type:    sig,
			Start:   def.Symbol.Span.Start,
			End:     def.Symbol.Span.End,
			Seq:     def.Symbol.Seq,
			Scope:   uint32(def.Body),
		})
	}
	toks := make([]TokenRow, 0, len(d.Highlights))
	for _, h := range d.Highlights {
		toks = append(toks, TokenRow{Kind: h.Kind.String(), Start: h.Span.Start, End: h.Span.End})
	}
	return syms, toks
}
