package types

import (
	"slices"
)

// Lookup resolves type ids. Registry implements it.
type Lookup interface {
	Get(id TypeID) *Type
}

// Type is one entry of the registry: a built-in, an application class, or a
// generic instantiation cloned from its base.
type Type struct {
	ID    TypeID
	Name  string
	Flags Flags

	// Base is the generic base an instantiation was cloned from.
	Base TypeID
	// Args are the template arguments; Args[1] is NoTypeID for one-argument generics.
	Args [2]TypeID

	methods     map[string][]Signature
	methodOrder []string
	fields      map[string]TypeID
	fieldOrder  []string

	Bases         []TypeID // direct inherited types
	ImplicitCasts []TypeID
	ExplicitCasts []TypeID
}

func newType(id TypeID, name string) *Type {
	return &Type{
		ID:      id,
		Name:    name,
		methods: make(map[string][]Signature),
		fields:  make(map[string]TypeID),
	}
}

func (t *Type) Has(f Flags) bool { return t.Flags&f != 0 }

// IsGenericInstance reports whether t was produced by specialization.
func (t *Type) IsGenericInstance() bool { return t.Base != NoTypeID }

// NumArgs is the number of template arguments.
func (t *Type) NumArgs() int {
	switch {
	case t.Args[0] == NoTypeID:
		return 0
	case t.Args[1] == NoTypeID:
		return 1
	default:
		return 2
	}
}

// AddMethod appends an overload. Overloads keep insertion order, which is the
// order FindMethod tries them in.
func (t *Type) AddMethod(name string, sig Signature) {
	if _, ok := t.methods[name]; !ok {
		t.methodOrder = append(t.methodOrder, name)
	}
	t.methods[name] = append(t.methods[name], sig.clone())
}

// Overloads returns the overloads of name in insertion order. The slice is
// owned by the type.
func (t *Type) Overloads(name string) []Signature {
	return t.methods[name]
}

// MethodNames lists method names in first-declared order.
func (t *Type) MethodNames() []string {
	return t.methodOrder
}

func (t *Type) HasMethod(name string) bool {
	return len(t.methods[name]) > 0
}

// HasOverload reports whether an identical signature is already declared under name.
func (t *Type) HasOverload(name string, sig *Signature) bool {
	for i := range t.methods[name] {
		if t.methods[name][i].Equal(sig) {
			return true
		}
	}
	return false
}

// HasStaticMethod reports whether any overload of name is static.
func (t *Type) HasStaticMethod(name string) bool {
	for i := range t.methods[name] {
		if t.methods[name][i].IsStatic() {
			return true
		}
	}
	return false
}

func (t *Type) AddField(name string, typ TypeID) {
	if _, ok := t.fields[name]; !ok {
		t.fieldOrder = append(t.fieldOrder, name)
	}
	t.fields[name] = typ
}

func (t *Type) Field(name string) (TypeID, bool) {
	id, ok := t.fields[name]
	return id, ok
}

func (t *Type) FieldNames() []string {
	return t.fieldOrder
}

// AddInherited records a direct base; self-inheritance and duplicates are ignored.
func (t *Type) AddInherited(id TypeID) {
	if id == t.ID || !id.IsValid() || slices.Contains(t.Bases, id) {
		return
	}
	t.Bases = append(t.Bases, id)
}

func (t *Type) AddImplicitCast(id TypeID) {
	if id.IsValid() && !slices.Contains(t.ImplicitCasts, id) {
		t.ImplicitCasts = append(t.ImplicitCasts, id)
	}
}

func (t *Type) AddExplicitCast(id TypeID) {
	if id.IsValid() && !slices.Contains(t.ExplicitCasts, id) {
		t.ExplicitCasts = append(t.ExplicitCasts, id)
	}
}

func (t *Type) ImplicitlyCastable(id TypeID) bool { return slices.Contains(t.ImplicitCasts, id) }
func (t *Type) ExplicitlyCastable(id TypeID) bool { return slices.Contains(t.ExplicitCasts, id) }
func (t *Type) InheritsFrom(id TypeID) bool       { return slices.Contains(t.Bases, id) }

// FindMethod resolves an overload of name for the given argument types.
//
// A signature is a candidate when its parameter count equals the argument
// count, or it is variadic and has at most one more parameter than there are
// arguments. Argument i is checked against parameter min(i, last) and matches
// when the types are identical or the argument type is implicitly castable
// to, or inherits from, the parameter type. Dynamic arguments match anything.
// The first candidate whose arguments all match wins, in declaration order.
func (t *Type) FindMethod(types Lookup, name string, args []TypeID) (*Signature, bool) {
	overloads := t.methods[name]
	for i := range overloads {
		sig := &overloads[i]
		n := len(sig.Params)
		if n != len(args) && (!sig.IsVarargs() || n > len(args)+1) {
			continue
		}
		ok := true
		for ai, arg := range args {
			pi := min(ai, n-1)
			if pi < 0 || !argMatches(types, arg, sig.Params[pi]) {
				ok = false
				break
			}
		}
		if ok {
			return sig, true
		}
	}
	return nil, false
}

func argMatches(types Lookup, arg TypeID, param Slot) bool {
	if param.IsPlaceholder() {
		return false
	}
	if arg == param.Type {
		return true
	}
	at := types.Get(arg)
	if at == nil {
		return false
	}
	return at.Has(FlagDynamic) || at.ImplicitlyCastable(param.Type) || at.InheritsFrom(param.Type)
}

// Specialize clones t as instantiation id with the given template arguments,
// substituting placeholders in every method.
func (t *Type) Specialize(id TypeID, args [2]TypeID) *Type {
	out := newType(id, t.Name)
	out.Flags = t.Flags
	out.Base = t.ID
	out.Args = args
	out.copySpecializedMethods(t)
	for _, name := range t.fieldOrder {
		out.AddField(name, t.fields[name])
	}
	out.Bases = slices.Clone(t.Bases)
	out.ImplicitCasts = slices.Clone(t.ImplicitCasts)
	out.ExplicitCasts = slices.Clone(t.ExplicitCasts)
	return out
}

// Respecialize re-copies methods from base, keeping id, args and casts.
func (t *Type) Respecialize(base *Type) {
	t.methods = make(map[string][]Signature, len(base.methods))
	t.methodOrder = nil
	t.copySpecializedMethods(base)
}

func (t *Type) copySpecializedMethods(base *Type) {
	for _, name := range base.methodOrder {
		for i := range base.methods[name] {
			t.AddMethod(name, base.methods[name][i].substitute(t.ID, t.Args))
		}
	}
}
