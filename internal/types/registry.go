package types

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/foryearslater/afsim-sub009/internal/source"
)

type instanceKey struct {
	base, arg1, arg2 TypeID
}

// ContainerBases are the erased container types every Array, Set and Map
// instantiation implicitly casts to.
type ContainerBases struct {
	Array TypeID // Array<Object>
	Set   TypeID // Set<Object>
	Map   TypeID // Map<Object,Object>
}

// Registry owns every type and prototype of one analysis session. Ids are
// dense, stable and never reused; types are only ever appended.
type Registry struct {
	strings    *source.Interner
	types      []*Type // types[0] is nil (NoTypeID)
	names      map[source.StringID]TypeID
	instances  map[instanceKey]TypeID
	protos     []Signature
	protoIndex map[string]TypeID
	containers ContainerBases
}

// NewRegistry creates an empty registry. Type names are interned through
// strings, which may be shared with the symbol table.
func NewRegistry(strings *source.Interner) *Registry {
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Registry{
		strings:    strings,
		types:      []*Type{nil},
		names:      make(map[source.StringID]TypeID, 64),
		instances:  make(map[instanceKey]TypeID),
		protoIndex: make(map[string]TypeID),
	}
}

func (r *Registry) Strings() *source.Interner { return r.strings }

func (r *Registry) nextID() TypeID {
	n, err := safecast.Conv[uint32](len(r.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(n)
	if id >= PrototypeIDStart {
		panic(fmt.Errorf("type id %d collides with prototype id space", id))
	}
	return id
}

func (r *Registry) add(t *Type) TypeID {
	r.types = append(r.types, t)
	r.names[r.strings.Intern(t.Name)] = t.ID
	return t.ID
}

// Register adds a named type, or returns the existing id when the name is
// already registered.
func (r *Registry) Register(name string) TypeID {
	name = CanonicalName(name)
	if id, ok := r.Find(name); ok {
		return id
	}
	return r.add(newType(r.nextID(), name))
}

// Find looks a type up by its exact (whitespace-insensitive) name.
func (r *Registry) Find(name string) (TypeID, bool) {
	sid, ok := r.strings.Find(CanonicalName(name))
	if !ok {
		return NoTypeID, false
	}
	id, ok := r.names[sid]
	return id, ok
}

// Get returns the type for id, or nil for NoTypeID, prototype ids and
// unknown ids.
func (r *Registry) Get(id TypeID) *Type {
	if id == NoTypeID || int(id) >= len(r.types) {
		return nil
	}
	return r.types[id]
}

// Len counts registered types, NoTypeID excluded.
func (r *Registry) Len() int { return len(r.types) - 1 }

// Types lists all types in id order. The slice is owned by the registry.
func (r *Registry) Types() []*Type { return r.types[1:] }

// Name returns the display name of a type or prototype id.
func (r *Registry) Name(id TypeID) string {
	if id.IsPrototype() {
		if sig, ok := r.Prototype(id); ok {
			return r.FormatSignature("", sig)
		}
		return fmt.Sprintf("<prototype %d>", id)
	}
	if t := r.Get(id); t != nil {
		return t.Name
	}
	return "<invalid>"
}

// Instantiate finds name, instantiating it when it is a generic name whose
// base and arguments resolve. Arguments are resolved recursively, so
// "Map<string,Array<int>>" works.
func (r *Registry) Instantiate(name string) (TypeID, bool) {
	name = CanonicalName(name)
	if id, ok := r.Find(name); ok {
		return id, true
	}
	base, a1, a2, n := SplitGenericName(name)
	if n == 0 {
		return NoTypeID, false
	}
	baseID, ok := r.Find(base)
	if !ok {
		return NoTypeID, false
	}
	arg1, ok := r.Instantiate(a1)
	if !ok {
		return NoTypeID, false
	}
	var arg2 TypeID
	if n == 2 {
		if arg2, ok = r.Instantiate(a2); !ok {
			return NoTypeID, false
		}
	}
	return r.InstantiateArgs(baseID, arg1, arg2)
}

// InstantiateArgs specializes base with already resolved arguments. Repeated
// requests for the same (base, arg1, arg2) triple return the same id.
func (r *Registry) InstantiateArgs(base, arg1, arg2 TypeID) (TypeID, bool) {
	key := instanceKey{base: base, arg1: arg1, arg2: arg2}
	if id, ok := r.instances[key]; ok {
		return id, true
	}
	bt := r.Get(base)
	a1 := r.Get(arg1)
	if bt == nil || a1 == nil || bt.IsGenericInstance() {
		return NoTypeID, false
	}
	arg2Name := ""
	if arg2 != NoTypeID {
		a2 := r.Get(arg2)
		if a2 == nil {
			return NoTypeID, false
		}
		arg2Name = a2.Name
	}

	name := GenericName(bt.Name, a1.Name, arg2Name)
	if id, ok := r.Find(name); ok {
		// registered under its display name by a declaration
		r.instances[key] = id
		return id, true
	}
	inst := bt.Specialize(r.nextID(), [2]TypeID{arg1, arg2})
	inst.Name = name
	r.add(inst)
	r.instances[key] = inst.ID
	r.addContainerCast(inst)
	return inst.ID, true
}

// Respecialize re-copies base methods into every instantiation. The loader
// runs it after the generic method table is attached to the bases.
func (r *Registry) Respecialize() {
	for _, t := range r.Types() {
		if base := r.Get(t.Base); base != nil {
			t.Respecialize(base)
		}
	}
}

// SetContainerBases records the erased container types and adds the implicit
// cast to every existing Array, Set and Map instantiation.
func (r *Registry) SetContainerBases(cb ContainerBases) {
	r.containers = cb
	for _, t := range r.Types() {
		r.addContainerCast(t)
	}
}

func (r *Registry) ContainerBases() ContainerBases { return r.containers }

func (r *Registry) addContainerCast(t *Type) {
	base := r.Get(t.Base)
	if base == nil {
		return
	}
	var target TypeID
	switch base.Name {
	case "Array":
		target = r.containers.Array
	case "Set":
		target = r.containers.Set
	case "Map":
		target = r.containers.Map
	}
	if target.IsValid() && target != t.ID {
		t.AddImplicitCast(target)
	}
}

// CopyInheritedMethods copies every method of the direct bases of id that id
// does not already declare with an identical signature. It is a one-shot
// snapshot: methods added to a base later are not seen.
func (r *Registry) CopyInheritedMethods(id TypeID) {
	t := r.Get(id)
	if t == nil {
		return
	}
	for _, baseID := range t.Bases {
		base := r.Get(baseID)
		if base == nil || base == t {
			continue
		}
		for _, name := range base.MethodNames() {
			for i := range base.methods[name] {
				sig := &base.methods[name][i]
				if !t.HasOverload(name, sig) {
					t.AddMethod(name, *sig)
				}
			}
		}
	}
}

// AddPrototype interns sig and returns its prototype id.
func (r *Registry) AddPrototype(sig Signature) TypeID {
	key := sig.key()
	if id, ok := r.protoIndex[key]; ok {
		return id
	}
	n, err := safecast.Conv[uint32](len(r.protos))
	if err != nil || uint64(n)+uint64(PrototypeIDStart) > uint64(^uint32(0)) {
		panic(fmt.Errorf("prototype table overflow: %d entries", len(r.protos)))
	}
	id := PrototypeIDStart + TypeID(n)
	r.protos = append(r.protos, sig.clone())
	r.protoIndex[key] = id
	return id
}

// Prototype returns the signature interned under id.
func (r *Registry) Prototype(id TypeID) (*Signature, bool) {
	if !id.IsPrototype() {
		return nil, false
	}
	idx := int(id - PrototypeIDStart)
	if idx >= len(r.protos) {
		return nil, false
	}
	return &r.protos[idx], true
}

// FormatSignature renders "ret name(p1, p2)"; with an empty name it renders
// "ret(p1, p2)".
func (r *Registry) FormatSignature(name string, sig *Signature) string {
	out := r.slotName(sig.Return) + " " + name + "("
	if name == "" {
		out = r.slotName(sig.Return) + "("
	}
	for i, p := range sig.Params {
		if i > 0 {
			out += ", "
		}
		out += r.slotName(p)
	}
	if sig.IsVarargs() {
		out += "..."
	}
	return out + ")"
}

func (r *Registry) slotName(s Slot) string {
	switch s.Placeholder {
	case PlaceholderArg1:
		return "T1"
	case PlaceholderArg2:
		return "T2"
	case PlaceholderThis:
		return "This"
	}
	return r.Name(s.Type)
}
