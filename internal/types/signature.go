package types

import (
	"slices"
	"strconv"
	"strings"
)

// Placeholder marks a signature slot of a generic base type that is filled in
// when the type is specialized.
type Placeholder uint8

const (
	Concrete        Placeholder = iota // Slot.Type is meaningful
	PlaceholderArg1                    // first template argument
	PlaceholderArg2                    // second template argument
	PlaceholderThis                    // the specialized type itself
)

// Slot is one return or parameter position of a signature.
type Slot struct {
	Placeholder Placeholder
	Type        TypeID
}

// Of returns a concrete slot.
func Of(id TypeID) Slot { return Slot{Type: id} }

// Arg returns a placeholder slot for template argument n (1 or 2).
func Arg(n int) Slot {
	if n == 2 {
		return Slot{Placeholder: PlaceholderArg2}
	}
	return Slot{Placeholder: PlaceholderArg1}
}

// This returns the enclosing-type placeholder.
func This() Slot { return Slot{Placeholder: PlaceholderThis} }

func (s Slot) IsPlaceholder() bool { return s.Placeholder != Concrete }

func (s Slot) substitute(self TypeID, args [2]TypeID) Slot {
	switch s.Placeholder {
	case PlaceholderArg1:
		return Of(args[0])
	case PlaceholderArg2:
		return Of(args[1])
	case PlaceholderThis:
		return Of(self)
	default:
		return s
	}
}

// SigFlags qualify a signature.
type SigFlags uint8

const (
	SigAppMethod SigFlags = 1 << iota // method of an application class
	SigStatic                         // callable on the type itself
	SigVarargs                        // last parameter repeats
)

// Signature is a method or script prototype.
type Signature struct {
	Flags  SigFlags
	Return Slot
	Params []Slot
}

// NewSignature builds a concrete signature.
func NewSignature(flags SigFlags, ret TypeID, params ...TypeID) Signature {
	sig := Signature{Flags: flags, Return: Of(ret), Params: make([]Slot, len(params))}
	for i, p := range params {
		sig.Params[i] = Of(p)
	}
	return sig
}

func (s *Signature) IsStatic() bool    { return s.Flags&SigStatic != 0 }
func (s *Signature) IsVarargs() bool   { return s.Flags&SigVarargs != 0 }
func (s *Signature) IsAppMethod() bool { return s.Flags&SigAppMethod != 0 }

// Equal compares flags, return slot and parameter slots.
func (s *Signature) Equal(o *Signature) bool {
	return s.Flags == o.Flags && s.Return == o.Return && slices.Equal(s.Params, o.Params)
}

// ReturnType is the concrete return type, NoTypeID while it is a placeholder.
func (s *Signature) ReturnType() TypeID {
	if s.Return.IsPlaceholder() {
		return NoTypeID
	}
	return s.Return.Type
}

// ParamTypes lists concrete parameter types; placeholders come out as NoTypeID.
func (s *Signature) ParamTypes() []TypeID {
	out := make([]TypeID, len(s.Params))
	for i, p := range s.Params {
		if !p.IsPlaceholder() {
			out[i] = p.Type
		}
	}
	return out
}

func (s Signature) clone() Signature {
	s.Params = slices.Clone(s.Params)
	return s
}

func (s *Signature) substitute(self TypeID, args [2]TypeID) Signature {
	out := Signature{Flags: s.Flags, Return: s.Return.substitute(self, args), Params: make([]Slot, len(s.Params))}
	for i, p := range s.Params {
		out.Params[i] = p.substitute(self, args)
	}
	return out
}

// key is the interning key for prototypes.
func (s *Signature) key() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(int(s.Flags)))
	writeSlot := func(sl Slot) {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(int(sl.Placeholder)))
		b.WriteByte('.')
		b.WriteString(strconv.FormatUint(uint64(sl.Type), 10))
	}
	writeSlot(s.Return)
	for _, p := range s.Params {
		writeSlot(p)
	}
	return b.String()
}
