package sema

import (
	"github.com/foryearslater/afsim-sub009/internal/source"
	"github.com/foryearslater/afsim-sub009/internal/symbols"
	"github.com/foryearslater/afsim-sub009/internal/types"
)

// ValueKind tags which part of a Value is meaningful.
type ValueKind uint8

const (
	ValueEmpty ValueKind = iota
	ValueTyped
	ValueSymbol
	ValueInitList
)

func (k ValueKind) String() string {
	switch k {
	case ValueTyped:
		return "typed"
	case ValueSymbol:
		return "symbol"
	case ValueInitList:
		return "init_list"
	default:
		return "empty"
	}
}

// Value is what every semantic action produces.
//
// A typed value carries its type and, after member access, the pending
// method name; Type is then the receiver type. A symbol value refers to a
// declared variable or script (scripts have no Type, their prototype lives on
// the symbol). An init-list value points to a literal that has not been given
// a type yet; copies of the value share the list.
type Value struct {
	Kind   ValueKind
	Type   types.TypeID
	Method string
	Symbol symbols.SymbolID
	List   *InitList
	Span   source.Span
}

// Typed returns a typed value, or an empty value for NoTypeID.
func Typed(ty types.TypeID) Value {
	if !ty.IsValid() {
		return Value{}
	}
	return Value{Kind: ValueTyped, Type: ty}
}

func (v Value) IsEmpty() bool    { return v.Kind == ValueEmpty }
func (v Value) IsInitList() bool { return v.Kind == ValueInitList && v.List != nil }
func (v Value) HasMethod() bool  { return v.Method != "" }
func (v Value) HasType() bool    { return v.Type.IsValid() }
func (v Value) IsSymbol() bool   { return v.Kind == ValueSymbol && v.Symbol.IsValid() }

// At returns v positioned at sp.
func (v Value) At(sp source.Span) Value {
	v.Span = sp
	return v
}

// withMethod turns v into a pending method access on its type.
func (v Value) withMethod(name string) Value {
	v.Kind = ValueTyped
	v.Method = name
	v.Symbol = symbols.NoSymbolID
	return v
}

// InitEntry is one "[key:] value" element of a brace literal.
type InitEntry struct {
	Key    Value
	Val    Value
	HasKey bool
}

// InitList is a brace literal waiting for a target type.
type InitList struct {
	Entries []InitEntry
}

// Keyed reports whether the first entry carries a key; later entries must agree.
func (l *InitList) Keyed() bool {
	return len(l.Entries) > 0 && l.Entries[0].HasKey
}

// cover joins two spans, ignoring a zero span.
func cover(a, b source.Span) source.Span {
	if a == (source.Span{}) {
		return b
	}
	if b == (source.Span{}) {
		return a
	}
	return a.Cover(b)
}
