package sema

import (
	"github.com/foryearslater/afsim-sub009/internal/symbols"
	"github.com/foryearslater/afsim-sub009/internal/token"
	"github.com/foryearslater/afsim-sub009/internal/types"
)

// SpecialTokenKind classifies identifiers for highlighting.
type SpecialTokenKind uint8

const (
	TokenStaticMethod SpecialTokenKind = iota
	TokenMethod
	TokenLocalVariable
	TokenParameter
)

func (k SpecialTokenKind) String() string {
	switch k {
	case TokenStaticMethod:
		return "static_method"
	case TokenMethod:
		return "method"
	case TokenLocalVariable:
		return "local_variable"
	case TokenParameter:
		return "parameter"
	default:
		return "unknown"
	}
}

// Observer receives the scope structure of an analysis. Every observer must
// implement it; the narrower interfaces below are optional and detected once
// per session.
type Observer interface {
	PushScope(scope symbols.ScopeID)
	PopScope(scope symbols.ScopeID)
	VarDecl(sym *symbols.Symbol, tok token.Token)
	// ScriptDefinition is called when a script body ends. body is the scope of
	// the body, sym the script symbol.
	ScriptDefinition(body symbols.ScopeID, sym *symbols.Symbol)
	HitEOF()
}

// TokenObserver classifies identifier tokens.
type TokenObserver interface {
	SpecialToken(kind SpecialTokenKind, tok token.Token)
}

// DotObserver is told about the receiver left of a '.' at byte offset pos.
type DotObserver interface {
	AtDotType(ty types.TypeID, pos uint32)
	AtDotValue(v Value, pos uint32)
}

// CallObserver tracks call argument lists.
type CallObserver interface {
	BeginCall(fn Value, pos uint32)
	EndCall(fn Value, pos uint32)
	CallArgNext(pos uint32)
}

// StatementObserver is called at the start of every statement.
type StatementObserver interface {
	AtStatement()
}

// dispatch caches the capability checks of one observer.
type dispatch struct {
	obs  Observer
	tok  TokenObserver
	dot  DotObserver
	call CallObserver
	stmt StatementObserver
}

func newDispatch(o Observer) dispatch {
	d := dispatch{obs: o}
	if o == nil {
		return d
	}
	d.tok, _ = o.(TokenObserver)
	d.dot, _ = o.(DotObserver)
	d.call, _ = o.(CallObserver)
	d.stmt, _ = o.(StatementObserver)
	return d
}

func (d *dispatch) specialToken(kind SpecialTokenKind, tok token.Token) {
	if d.tok != nil {
		d.tok.SpecialToken(kind, tok)
	}
}

// MultiObserver fans every callback out to its members, skipping members
// that lack an optional capability.
type MultiObserver []Observer

func (m MultiObserver) PushScope(scope symbols.ScopeID) {
	for _, o := range m {
		o.PushScope(scope)
	}
}

func (m MultiObserver) PopScope(scope symbols.ScopeID) {
	for _, o := range m {
		o.PopScope(scope)
	}
}

func (m MultiObserver) VarDecl(sym *symbols.Symbol, tok token.Token) {
	for _, o := range m {
		o.VarDecl(sym, tok)
	}
}

func (m MultiObserver) ScriptDefinition(body symbols.ScopeID, sym *symbols.Symbol) {
	for _, o := range m {
		o.ScriptDefinition(body, sym)
	}
}

func (m MultiObserver) HitEOF() {
	for _, o := range m {
		o.HitEOF()
	}
}

func (m MultiObserver) SpecialToken(kind SpecialTokenKind, tok token.Token) {
	for _, o := range m {
		if t, ok := o.(TokenObserver); ok {
			t.SpecialToken(kind, tok)
		}
	}
}

func (m MultiObserver) AtDotType(ty types.TypeID, pos uint32) {
	for _, o := range m {
		if d, ok := o.(DotObserver); ok {
			d.AtDotType(ty, pos)
		}
	}
}

func (m MultiObserver) AtDotValue(v Value, pos uint32) {
	for _, o := range m {
		if d, ok := o.(DotObserver); ok {
			d.AtDotValue(v, pos)
		}
	}
}

func (m MultiObserver) BeginCall(fn Value, pos uint32) {
	for _, o := range m {
		if c, ok := o.(CallObserver); ok {
			c.BeginCall(fn, pos)
		}
	}
}

func (m MultiObserver) EndCall(fn Value, pos uint32) {
	for _, o := range m {
		if c, ok := o.(CallObserver); ok {
			c.EndCall(fn, pos)
		}
	}
}

func (m MultiObserver) CallArgNext(pos uint32) {
	for _, o := range m {
		if c, ok := o.(CallObserver); ok {
			c.CallArgNext(pos)
		}
	}
}

func (m MultiObserver) AtStatement() {
	for _, o := range m {
		if s, ok := o.(StatementObserver); ok {
			s.AtStatement()
		}
	}
}
