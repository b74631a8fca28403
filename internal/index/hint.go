package index

import (
	"slices"
	"strings"

	"github.com/foryearslater/afsim-sub009/internal/sema"
	"github.com/foryearslater/afsim-sub009/internal/symbols"
	"github.com/foryearslater/afsim-sub009/internal/types"
)

// SignatureHelp describes the call around the cursor.
type SignatureHelp struct {
	// Name is the method or script being called.
	Name       string
	Signatures []string
	// ActiveArg is the zero-based argument the cursor is in.
	ActiveArg int
}

// SignatureHelp renders every candidate of the innermost call at the cursor.
func (d *Detail) SignatureHelp(s *sema.Session) (SignatureHelp, bool) {
	f, ok := d.CallAtCursor()
	if !ok {
		return SignatureHelp{}, false
	}
	reg := s.Types()
	fn := f.Fn
	help := SignatureHelp{ActiveArg: f.Arg}
	switch {
	case fn.HasMethod() && fn.HasType():
		t := reg.Get(fn.Type)
		if t == nil {
			return SignatureHelp{}, false
		}
		help.Name = fn.Method
		overloads := t.Overloads(fn.Method)
		for i := range overloads {
			help.Signatures = append(help.Signatures, reg.FormatSignature(fn.Method, &overloads[i]))
		}
	case fn.IsSymbol():
		sym := s.Table().Symbol(fn.Symbol)
		if sym == nil || sym.Kind != symbols.SymbolScript {
			return SignatureHelp{}, false
		}
		proto, ok := reg.Prototype(sym.Type)
		if !ok {
			return SignatureHelp{}, false
		}
		help.Name = sym.Name
		help.Signatures = []string{reg.FormatSignature(sym.Name, proto)}
	default:
		return SignatureHelp{}, false
	}
	return help, len(help.Signatures) > 0
}

// CompletionKind says what a completion item names.
type CompletionKind uint8

const (
	CompleteVariable CompletionKind = iota
	CompleteScript
	CompleteMethod
	CompleteStaticMethod
	CompleteField
)

func (k CompletionKind) String() string {
	switch k {
	case CompleteScript:
		return "script"
	case CompleteMethod:
		return "method"
	case CompleteStaticMethod:
		return "static_method"
	case CompleteField:
		return "field"
	default:
		return "variable"
	}
}

type Completion struct {
	Label  string
	Kind   CompletionKind
	Detail string
}

// Completions lists what can be typed at the cursor. prefix is the partial
// identifier left of the cursor. Right after a '.' the members of the
// receiver are offered, otherwise the symbols visible from the cursor scope
// and the free functions.
func (d *Detail) Completions(s *sema.Session, prefix string) []Completion {
	var out []Completion
	if rcv, ok := d.DotReceiver(); ok && d.dotIsCurrent(rcv, prefix) {
		out = members(s.Types(), rcv)
	} else {
		out = d.visible(s)
	}
	out = slices.DeleteFunc(out, func(c Completion) bool { return !strings.HasPrefix(c.Label, prefix) })
	slices.SortStableFunc(out, func(a, b Completion) int { return strings.Compare(a.Label, b.Label) })
	return out
}

// dotIsCurrent: между точкой и курсором только набираемое имя.
func (d *Detail) dotIsCurrent(rcv Receiver, prefix string) bool {
	return d.cursor != NoCursor && uint64(rcv.Pos)+1+uint64(len(prefix)) == uint64(d.cursor)
}

func members(reg *types.Registry, rcv Receiver) []Completion {
	t := reg.Get(rcv.Type)
	if t == nil {
		return nil
	}
	var out []Completion
	for _, name := range t.MethodNames() {
		overloads := t.Overloads(name)
		if len(overloads) == 0 {
			continue
		}
		static := overloads[0].IsStatic()
		if rcv.Static && !static {
			continue
		}
		kind := CompleteMethod
		if static {
			kind = CompleteStaticMethod
		}
		out = append(out, Completion{Label: name, Kind: kind, Detail: reg.FormatSignature(name, &overloads[0])})
	}
	if rcv.Static {
		return out
	}
	for _, name := range t.FieldNames() {
		ft, _ := t.Field(name)
		out = append(out, Completion{Label: name, Kind: CompleteField, Detail: reg.Name(ft)})
	}
	return out
}

func (d *Detail) visible(s *sema.Session) []Completion {
	reg := s.Types()
	tbl := s.Table()
	var out []Completion
	if scope, ok := d.ScopeAt(d.cursor); ok {
		for _, id := range tbl.Visible(scope, sema.DefaultSearchDepth, symbols.NoSequenceLimit) {
			sym := tbl.Symbol(id)
			switch sym.Kind {
			case symbols.SymbolScript:
				detail := ""
				if proto, ok := reg.Prototype(sym.Type); ok {
					detail = reg.FormatSignature(sym.Name, proto)
				}
				out = append(out, Completion{Label: sym.Name, Kind: CompleteScript, Detail: detail})
			case symbols.SymbolVariable:
				out = append(out, Completion{Label: sym.Name, Kind: CompleteVariable, Detail: reg.Name(sym.Type)})
			}
		}
	}
	if b := reg.Get(s.Builtins().Builtin); b != nil {
		out = append(out, members(reg, Receiver{Type: b.ID, Static: true})...)
	}
	return out
}
